// Package logging provides opt-in file-based logging with rotation for gofzy.
// When the --debug flag is set, comprehensive logs are written to ~/.gofzy/logs/
// for debugging and troubleshooting.
//
// By default (without --debug), logging is minimal and goes to stderr only,
// preserving the "It Just Works" philosophy. Interactive mode always logs to
// file only, since stderr is reserved for the TUI's own terminal output.
package logging
