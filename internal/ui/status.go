package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// StatusInfo contains cache and producer health information.
type StatusInfo struct {
	// Cache stats
	ProjectName string    `json:"project_name"`
	TotalFiles  int       `json:"total_files"`
	TotalItems  int       `json:"total_items"`
	LastSynced  time.Time `json:"last_synced"`

	// Storage sizes (in bytes)
	CacheSize   int64 `json:"cache_size"`
	HistorySize int64 `json:"history_size"`
	TotalSize   int64 `json:"total_size"`

	// Component status
	ProducerType   string `json:"producer_type"`
	ProducerStatus string `json:"producer_status"` // "ready", "offline", "error"
	ProducerCmd    string `json:"producer_cmd,omitempty"`
	WatcherStatus  string `json:"watcher_status"` // "running", "stopped", "n/a"
}

// StatusRenderer displays cache status.
type StatusRenderer struct {
	out     io.Writer
	styles  Styles
	noColor bool
}

// NewStatusRenderer creates a status renderer.
func NewStatusRenderer(out io.Writer, noColor bool) *StatusRenderer {
	return &StatusRenderer{
		out:     out,
		styles:  GetStyles(noColor),
		noColor: noColor,
	}
}

// Render displays status info to terminal.
func (r *StatusRenderer) Render(info StatusInfo) error {
	// Header
	_, _ = fmt.Fprintf(r.out, "%s\n\n", r.styles.Header.Render("Cache Status: "+info.ProjectName))

	// Cache stats
	_, _ = fmt.Fprintf(r.out, "  Files:       %d\n", info.TotalFiles)
	_, _ = fmt.Fprintf(r.out, "  Items:       %d\n", info.TotalItems)
	if !info.LastSynced.IsZero() {
		_, _ = fmt.Fprintf(r.out, "  Last synced: %s\n", formatTime(info.LastSynced))
	}
	_, _ = fmt.Fprintln(r.out)

	// Storage sizes
	_, _ = fmt.Fprintln(r.out, "  Storage:")
	_, _ = fmt.Fprintf(r.out, "    Cache:   %s\n", FormatBytes(info.CacheSize))
	_, _ = fmt.Fprintf(r.out, "    History: %s\n", FormatBytes(info.HistorySize))
	_, _ = fmt.Fprintf(r.out, "    Total:   %s\n", FormatBytes(info.TotalSize))
	_, _ = fmt.Fprintln(r.out)

	// Producer status
	_, _ = fmt.Fprintln(r.out, "  Producer:")
	_, _ = fmt.Fprintf(r.out, "    Type:   %s\n", info.ProducerType)
	_, _ = fmt.Fprintf(r.out, "    Status: %s\n", r.renderStatus(info.ProducerStatus))
	if info.ProducerCmd != "" {
		_, _ = fmt.Fprintf(r.out, "    Cmd:    %s\n", info.ProducerCmd)
	}
	_, _ = fmt.Fprintln(r.out)

	// Watcher status
	if info.WatcherStatus != "" && info.WatcherStatus != "n/a" {
		_, _ = fmt.Fprintf(r.out, "  Watcher: %s\n", r.renderStatus(info.WatcherStatus))
	}

	return nil
}

// RenderJSON outputs status as JSON.
func (r *StatusRenderer) RenderJSON(info StatusInfo) error {
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(info)
}

// renderStatus formats a status string with color.
func (r *StatusRenderer) renderStatus(status string) string {
	switch status {
	case "ready", "running":
		return r.styles.Success.Render(status)
	case "offline", "stopped":
		return r.styles.Warning.Render(status)
	case "error":
		return r.styles.Error.Render(status)
	default:
		return status
	}
}

// formatTime formats a time for display.
func formatTime(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("2006-01-02 15:04")
	}
}

// FormatBytes formats bytes to human-readable format.
func FormatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = 1024 * KB
		GB = 1024 * MB
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
