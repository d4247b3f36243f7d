package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCmd_FreshProject(t *testing.T) {
	// Given: a project directory with no prior gofzy state
	tmpDir := t.TempDir()
	oldDir, _ := os.Getwd()
	defer func() { _ = os.Chdir(oldDir) }()
	require.NoError(t, os.Chdir(tmpDir))

	// When: running status
	cmd := newStatusCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	err := cmd.Execute()

	// Then: it succeeds and names the project by its directory
	require.NoError(t, err)
	assert.Contains(t, buf.String(), filepath.Base(tmpDir))
}

func TestStatusCmd_JSONOutput(t *testing.T) {
	// Given: a project directory and --json
	tmpDir := t.TempDir()
	oldDir, _ := os.Getwd()
	defer func() { _ = os.Chdir(oldDir) }()
	require.NoError(t, os.Chdir(tmpDir))

	cmd := newStatusCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--json"})

	// When: executed
	err := cmd.Execute()

	// Then: output is the StatusInfo JSON shape
	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, `"project_name"`)
	assert.Contains(t, output, `"total_size"`)
}

func TestFileSize_NonExistent(t *testing.T) {
	// When: sizing a file that doesn't exist
	size := fileSize("/nonexistent/file.txt")

	// Then: it reports 0 rather than erroring
	assert.Equal(t, int64(0), size)
}

func TestFileSize_Exists(t *testing.T) {
	// Given: a file with known content
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test.txt")
	content := []byte("hello world")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	// When: sizing it
	size := fileSize(path)

	// Then: it reports the exact byte count
	assert.Equal(t, int64(len(content)), size)
}

func TestControlSocketStatus_NoPIDFile(t *testing.T) {
	// Given: a data directory with no gofzy.pid
	tmpDir := t.TempDir()

	// When/Then: it reports "configured" rather than running or stale
	assert.Equal(t, "configured", controlSocketStatus(tmpDir))
}

func TestControlSocketStatus_Running(t *testing.T) {
	// Given: a PID file recording this test process's own PID
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "gofzy.pid"), []byte(strconv.Itoa(os.Getpid())), 0o644))

	// When/Then: the process is alive, so it reports "running"
	assert.Equal(t, "running", controlSocketStatus(tmpDir))
}

func TestControlSocketStatus_Stale(t *testing.T) {
	// Given: a PID file recording a PID that cannot belong to a live process
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "gofzy.pid"), []byte("999999"), 0o644))

	// When/Then: it reports "stale"
	assert.Equal(t, "stale", controlSocketStatus(tmpDir))
}

func TestStatusCmd_AddedToRoot(t *testing.T) {
	// Given: the root command
	rootCmd := NewRootCmd()

	// When: looking for the status subcommand
	statusCmd, _, err := rootCmd.Find([]string{"status"})

	// Then: it exists and is named "status"
	require.NoError(t, err)
	assert.Equal(t, "status", statusCmd.Name())
}
