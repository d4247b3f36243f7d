package logging

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultLogDir returns the default log directory (~/.gofzy/logs/).
// Falls back to temp directory if home directory is unavailable.
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".gofzy", "logs")
	}
	return filepath.Join(home, ".gofzy", "logs")
}

// DefaultLogPath returns the default app log path, used by the interactive
// finder process itself.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "app.log")
}

// ControlLogPath returns the control.log path the viewer checks for the
// "control" source. No gofzy command writes this file; a --listen
// session run with --debug logs to DefaultLogPath.
func ControlLogPath() string {
	return filepath.Join(DefaultLogDir(), "control.log")
}

// LogSource represents the source of logs to view.
type LogSource string

const (
	// LogSourceApp is the interactive finder process logs (default).
	LogSourceApp LogSource = "app"
	// LogSourceControl is the control.log file (see ControlLogPath).
	LogSourceControl LogSource = "control"
	// LogSourceAll combines all log sources.
	LogSourceAll LogSource = "all"
)

// FindLogFile attempts to find the log file for viewing.
// Priority:
// 1. Explicit path (if provided)
// 2. ~/.gofzy/logs/app.log (global)
//
// Returns an error if no log file is found.
func FindLogFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit, nil
		}
		return "", fmt.Errorf("log file not found: %s", explicit)
	}

	// Try global path
	globalPath := DefaultLogPath()
	if _, err := os.Stat(globalPath); err == nil {
		return globalPath, nil
	}

	return "", fmt.Errorf("no log file found. Server may not have run with --debug yet.\nExpected at: %s", globalPath)
}

// FindLogFileBySource finds log files based on the source type.
// Returns a list of log file paths that exist.
func FindLogFileBySource(source LogSource, explicit string) ([]string, error) {
	// Explicit path takes precedence
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return []string{explicit}, nil
		}
		return nil, fmt.Errorf("log file not found: %s", explicit)
	}

	var paths []string
	var checked []string

	switch source {
	case LogSourceApp:
		appPath := DefaultLogPath()
		checked = append(checked, appPath)
		if _, err := os.Stat(appPath); err == nil {
			paths = append(paths, appPath)
		}

	case LogSourceControl:
		ctrlPath := ControlLogPath()
		checked = append(checked, ctrlPath)
		if _, err := os.Stat(ctrlPath); err == nil {
			paths = append(paths, ctrlPath)
		}

	case LogSourceAll:
		appPath := DefaultLogPath()
		ctrlPath := ControlLogPath()
		checked = append(checked, appPath, ctrlPath)

		if _, err := os.Stat(appPath); err == nil {
			paths = append(paths, appPath)
		}
		if _, err := os.Stat(ctrlPath); err == nil {
			paths = append(paths, ctrlPath)
		}

	default:
		return nil, fmt.Errorf("unknown log source: %s (use: app, control, all)", source)
	}

	if len(paths) == 0 {
		hint := getLogHint(source)
		return nil, fmt.Errorf("no log files found for source '%s'.\nChecked: %v\n\n%s", source, checked, hint)
	}

	return paths, nil
}

// ParseLogSource parses a string into a LogSource.
func ParseLogSource(s string) LogSource {
	switch s {
	case "control":
		return LogSourceControl
	case "all":
		return LogSourceAll
	default:
		return LogSourceApp
	}
}

// EnsureLogDir creates the log directory if it doesn't exist.
func EnsureLogDir() error {
	dir := DefaultLogDir()
	return os.MkdirAll(dir, 0o755)
}

// getLogHint returns a helpful message on how to generate logs for the given source.
func getLogHint(source LogSource) string {
	switch source {
	case LogSourceApp:
		return "To generate app logs:\n  gofzy --debug"
	case LogSourceControl:
		return "No gofzy command writes control.log; gofzy --listen --debug logs to app.log"
	case LogSourceAll:
		return "To generate logs:\n  app:     gofzy --debug (also used by gofzy --listen --debug)"
	default:
		return ""
	}
}
