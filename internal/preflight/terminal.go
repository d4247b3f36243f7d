package preflight

import (
	"fmt"
	"os"
	"os/exec"
	"regexp"

	"github.com/mattn/go-isatty"
)

// CheckTerminal verifies stdout is an interactive terminal, the way the
// teacher's embedder checks gated on model availability: required for
// interactive mode, but the finder can still run non-interactively
// (--filter) when it fails.
func (c *Checker) CheckTerminal() CheckResult {
	result := CheckResult{Name: "terminal", Required: false}

	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		result.Status = StatusPass
		result.Message = "stdout is a TTY"
		return result
	}

	result.Status = StatusWarn
	result.Message = "stdout is not a TTY; interactive mode will be unavailable"
	result.Details = "non-interactive mode (--filter) still works"
	return result
}

// CheckRegexEngine verifies the regexp engine compiles a representative
// pattern, catching a broken build before a user's first --regex query
// fails mid-session.
func (c *Checker) CheckRegexEngine() CheckResult {
	result := CheckResult{Name: "regex_engine", Required: true}

	if _, err := regexp.Compile(`(?i)\w+[-_.]?\w*`); err != nil {
		result.Status = StatusFail
		result.Message = fmt.Sprintf("regexp engine sanity check failed: %v", err)
		return result
	}

	result.Status = StatusPass
	result.Message = "OK"
	return result
}

// CheckShellAvailable verifies a POSIX shell is reachable, since the
// preview pane and execute actions both spawn commands through sh -c.
func (c *Checker) CheckShellAvailable() CheckResult {
	result := CheckResult{Name: "shell", Required: false}

	path, err := exec.LookPath("sh")
	if err != nil {
		result.Status = StatusWarn
		result.Message = "sh not found on PATH; preview and execute actions will be unavailable"
		return result
	}

	result.Status = StatusPass
	result.Message = fmt.Sprintf("found at %s", path)
	return result
}
