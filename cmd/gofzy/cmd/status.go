package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/gofzy/internal/config"
	"github.com/Aman-CERP/gofzy/internal/control"
	"github.com/Aman-CERP/gofzy/internal/preflight"
	"github.com/Aman-CERP/gofzy/internal/ui"
)

func newStatusCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show cache and producer health for the current project",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func runStatus(cmd *cobra.Command, jsonOutput bool) error {
	root, err := config.FindProjectRoot(".")
	if err != nil {
		root, _ = os.Getwd()
	}
	dataDir := filepath.Join(root, ".gofzy")

	cfg, err := config.Load(root)
	if err != nil {
		return err
	}

	info := ui.StatusInfo{
		ProjectName:    filepath.Base(root),
		CacheSize:      fileSize(filepath.Join(dataDir, preflight.MarkerFile)),
		HistorySize:    fileSize(cfg.Telemetry.Path),
		ProducerType:   "stdin",
		ProducerStatus: "ready",
		WatcherStatus:  "n/a",
	}
	info.TotalSize = info.CacheSize + info.HistorySize

	if cfg.Control.Enabled {
		info.WatcherStatus = controlSocketStatus(dataDir)
	}

	renderer := ui.NewStatusRenderer(cmd.OutOrStdout(), cfg.UI.NoColor)
	if jsonOutput {
		return renderer.RenderJSON(info)
	}
	return renderer.Render(info)
}

// controlSocketStatus reports whether a previously-started --listen
// session's process is still alive, using the PID file it wrote on
// startup rather than dialing the socket.
func controlSocketStatus(dataDir string) string {
	pidFile := control.NewPIDFile(filepath.Join(dataDir, "gofzy.pid"))
	if _, err := pidFile.Read(); err != nil {
		return "configured"
	}
	if pidFile.IsRunning() {
		return "running"
	}
	return "stale"
}

func fileSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}
