// Package history provides an optional, persistent "history mode" for
// gofzy: past selections are recorded to a local BM25 index and ranked
// back by a blend of textual relevance, selection frequency, and
// recency, so a query against history surfaces "what I usually pick
// for something like this" rather than a plain substring match.
//
// The BM25 half is a direct adaptation of the teacher's code-search
// index (bleve-backed, with the same camelCase/snake_case-aware
// tokenizer); the frequency/recency half has no teacher analog and is
// tracked separately in a small flat-file sidecar, the same
// append/overwrite-on-write idiom internal/telemetry uses, rather than
// depending on bleve's own stored-field read-back API.
package history
