package logging

import (
	"log/slog"
)

// SetupInteractiveMode initializes logging for the interactive TUI.
// This is critical for terminal protocol compliance:
// - Logs ONLY to file (never stdout/stderr)
// - Uses JSON format for structured logs
// - Always enables debug level for complete diagnostics
//
// The alternate screen buffer bubbletea draws into is the only thing
// allowed to touch stdout while the finder is running; a stray write to
// stderr corrupts the rendered frame until the next full redraw.
func SetupInteractiveMode() (func(), error) {
	cfg := Config{
		Level:         "debug", // Always debug in interactive mode for full diagnostics
		FilePath:      DefaultLogPath(),
		MaxSizeMB:     10,
		MaxFiles:      5,
		WriteToStderr: false, // CRITICAL: never write to stderr while the TUI owns the terminal
	}

	logger, cleanup, err := Setup(cfg)
	if err != nil {
		return nil, err
	}

	slog.SetDefault(logger)

	// Log that interactive mode logging is initialized
	slog.Info("interactive mode logging initialized",
		slog.String("log_file", cfg.FilePath),
		slog.String("level", cfg.Level),
		slog.Bool("stderr_disabled", true))

	return cleanup, nil
}

// SetupInteractiveModeWithLevel initializes terminal-safe logging with a specific level.
func SetupInteractiveModeWithLevel(level string) (func(), error) {
	cfg := Config{
		Level:         level,
		FilePath:      DefaultLogPath(),
		MaxSizeMB:     10,
		MaxFiles:      5,
		WriteToStderr: false, // CRITICAL: never write to stderr while the TUI owns the terminal
	}

	logger, cleanup, err := Setup(cfg)
	if err != nil {
		return nil, err
	}

	slog.SetDefault(logger)
	return cleanup, nil
}
