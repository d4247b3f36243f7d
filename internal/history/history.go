package history

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Entry is one past selection, ranked.
type Entry struct {
	Raw       string
	Frequency int
	LastUsed  time.Time
	Score     float64 // 0 when returned from All (no query to score against)
}

// metaEntry is the on-disk sidecar record for one selection. BM25
// relevance lives in the bleve index; frequency/recency live here,
// since bleve's own stored-field read-back is not something the
// teacher's bm25.go exercises either.
type metaEntry struct {
	Frequency int       `json:"frequency"`
	LastUsed  time.Time `json:"last_used"`
}

// History ranks past selections by a blend of BM25 text relevance,
// selection frequency, and recency. Open returns an error, and no
// History, when the index under dataDir cannot be opened or created.
type History struct {
	idx      *bm25Index
	metaPath string

	mu   sync.Mutex
	meta map[string]metaEntry
}

// Open loads (or creates) a history store rooted at dataDir, e.g.
// "~/.gofzy". Both the bleve index and the frecency sidecar live under
// dataDir/history.bleve and dataDir/history.json respectively.
func Open(dataDir string) (*History, error) {
	idx, err := openBM25Index(filepath.Join(dataDir, "history.bleve"))
	if err != nil {
		return nil, err
	}

	h := &History{
		idx:      idx,
		metaPath: filepath.Join(dataDir, "history.json"),
		meta:     make(map[string]metaEntry),
	}
	h.loadMeta()
	return h, nil
}

func (h *History) loadMeta() {
	data, err := os.ReadFile(h.metaPath)
	if err != nil {
		return
	}
	var m map[string]metaEntry
	if err := json.Unmarshal(data, &m); err != nil {
		return
	}
	h.meta = m
}

func (h *History) saveMeta() error {
	data, err := json.MarshalIndent(h.meta, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(h.metaPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(h.metaPath, data, 0o644)
}

// Record notes that raw was selected, bumping its frequency/recency
// and (re-)indexing its text for BM25 search. Idempotent per call: a
// repeat selection of the same raw string just overwrites its entry.
func (h *History) Record(raw string) error {
	if raw == "" {
		return nil
	}

	h.mu.Lock()
	e := h.meta[raw]
	e.Frequency++
	e.LastUsed = time.Now()
	h.meta[raw] = e
	saveErr := h.saveMeta()
	h.mu.Unlock()

	if err := h.idx.upsert(raw, raw); err != nil {
		return err
	}
	return saveErr
}

// Query ranks past selections against text. An empty text falls back
// to All (pure frecency, no relevance term).
func (h *History) Query(ctx context.Context, text string, limit int) ([]Entry, error) {
	if text == "" {
		return h.All(limit), nil
	}

	hits, err := h.idx.search(ctx, text, limit*4) // overfetch; frecency can reorder within bleve's cutoff
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	entries := make([]Entry, 0, len(hits))
	for _, hit := range hits {
		meta := h.meta[hit.DocID]
		entries = append(entries, Entry{
			Raw:       hit.DocID,
			Frequency: meta.Frequency,
			LastUsed:  meta.LastUsed,
			Score:     hit.Score * frecencyMultiplier(meta),
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Score > entries[j].Score })
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// All returns every recorded selection ordered by frecency alone (no
// query text), for populating --history mode's candidate list at
// startup before the user has typed anything.
func (h *History) All(limit int) []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries := make([]Entry, 0, len(h.meta))
	for raw, meta := range h.meta {
		entries = append(entries, Entry{
			Raw:       raw,
			Frequency: meta.Frequency,
			LastUsed:  meta.LastUsed,
			Score:     frecencyMultiplier(meta),
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Score > entries[j].Score })
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// frecencyMultiplier boosts frequently- and recently-used entries:
// log-scaled frequency over linearly-decaying recency, so one stale
// frequent pick doesn't permanently outrank everything used since.
func frecencyMultiplier(e metaEntry) float64 {
	freqBoost := 1 + math.Log1p(float64(e.Frequency))
	if e.LastUsed.IsZero() {
		return freqBoost
	}
	days := time.Since(e.LastUsed).Hours() / 24
	return freqBoost / (1 + days)
}

// Close releases the underlying bleve index.
func (h *History) Close() error {
	return h.idx.close()
}
