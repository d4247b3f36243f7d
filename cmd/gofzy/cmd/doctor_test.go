package cmd

import (
	"bytes"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDoctorCmd_NoGoroutineLeak(t *testing.T) {
	runtime.GC()
	time.Sleep(50 * time.Millisecond)
	baseline := runtime.NumGoroutine()

	for i := 0; i < 5; i++ {
		cmd := newDoctorCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		_ = cmd.Execute()
	}

	runtime.GC()
	time.Sleep(100 * time.Millisecond)

	current := runtime.NumGoroutine()
	leaked := current - baseline
	assert.LessOrEqual(t, leaked, 2, "goroutine leak detected: baseline=%d, current=%d, leaked=%d", baseline, current, leaked)
}

func TestDoctorCmd_BasicExecution(t *testing.T) {
	// Given: a doctor command
	var stdout bytes.Buffer
	cmd := newDoctorCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})

	// When: executed without flags (may fail on a constrained host, must not panic)
	_ = cmd.Execute()

	// Then: it produces some diagnostic output
	assert.NotEmpty(t, stdout.String())
}

func TestDoctorCmd_JSONOutput(t *testing.T) {
	// Given: a doctor command with --json
	var stdout bytes.Buffer
	cmd := newDoctorCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--json"})

	// When: executed
	_ = cmd.Execute()

	// Then: the output is the JSONOutput structure
	output := stdout.String()
	assert.Contains(t, output, `"status"`)
	assert.Contains(t, output, `"checks"`)
}

func TestDoctorCmd_AddedToRoot(t *testing.T) {
	// Given: the root command
	rootCmd := NewRootCmd()

	// When: looking for the doctor subcommand
	doctorCmd, _, err := rootCmd.Find([]string{"doctor"})

	// Then: it exists and is named "doctor"
	assert.NoError(t, err)
	assert.Equal(t, "doctor", doctorCmd.Name())
}
