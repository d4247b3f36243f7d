package errors_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Aman-CERP/gofzy/internal/config"
	"github.com/Aman-CERP/gofzy/internal/preflight"
)

// TestErrorWrapping_Preflight verifies preflight errors are wrapped with context.
func TestErrorWrapping_Preflight(t *testing.T) {
	// MarkPassed should wrap os.MkdirAll errors
	err := preflight.MarkPassed("/nonexistent/deeply/nested/path/that/cannot/exist")
	if err == nil {
		t.Skip("Expected error creating marker in nonexistent path")
	}

	// Error should contain context about what operation failed
	errMsg := err.Error()
	if !strings.Contains(errMsg, "create") && !strings.Contains(errMsg, "marker") && !strings.Contains(errMsg, "directory") {
		t.Errorf("Error should contain context about creating marker directory, got: %s", errMsg)
	}
}

// TestErrorWrapping_Config verifies config load errors are wrapped with context.
func TestErrorWrapping_Config(t *testing.T) {
	dir := t.TempDir()
	bad := "match:\n  algorithm: [not, a, string]\n"
	path := filepath.Join(dir, ".gofzy.yaml")
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatalf("failed to write fixture config: %v", err)
	}

	_, err := config.Load(dir)
	if err == nil {
		t.Fatal("expected a parse error from malformed YAML")
	}
	if !strings.Contains(err.Error(), "config:") {
		t.Errorf("Error should carry the config: prefix from Load, got: %s", err.Error())
	}
}
