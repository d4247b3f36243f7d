package async

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBackgroundReader(t *testing.T) {
	// Given: reader config
	cfg := ReaderConfig{
		DataDir: t.TempDir(),
	}

	// When: creating reader
	reader := NewBackgroundReader(cfg)

	// Then: should be initialized correctly
	require.NotNil(t, reader)
	assert.NotNil(t, reader.Progress())
	assert.False(t, reader.IsRunning())
}

func TestBackgroundReader_Start_RunsInGoroutine(t *testing.T) {
	// Given: reader with quick task
	cfg := ReaderConfig{
		DataDir: t.TempDir(),
	}
	reader := NewBackgroundReader(cfg)

	var started atomic.Bool
	reader.ReadFunc = func(ctx context.Context, progress *ReadProgress) error {
		started.Store(true)
		return nil
	}

	// When: starting reader
	ctx := context.Background()
	reader.Start(ctx)

	// Then: should run in background
	assert.True(t, reader.IsRunning())

	// Wait for completion
	err := reader.Wait()
	require.NoError(t, err)
	assert.True(t, started.Load())
	assert.False(t, reader.IsRunning())
}

func TestBackgroundReader_Progress_UpdatesDuringRun(t *testing.T) {
	// Given: reader that updates progress
	cfg := ReaderConfig{
		DataDir: t.TempDir(),
	}
	reader := NewBackgroundReader(cfg)

	reader.ReadFunc = func(ctx context.Context, progress *ReadProgress) error {
		progress.SetStage(StageScanning, 100)
		progress.UpdateFiles(50)
		time.Sleep(10 * time.Millisecond)
		progress.SetStage(StageReading, 100)
		progress.UpdateFiles(100)
		return nil
	}

	// When: running reader
	ctx := context.Background()
	reader.Start(ctx)

	// Check progress during run
	time.Sleep(5 * time.Millisecond)
	assert.True(t, reader.IsRunning())

	// Wait for completion
	err := reader.Wait()
	require.NoError(t, err)

	// Then: final progress should show ready
	snap := reader.Progress().Snapshot()
	assert.Equal(t, "ready", snap.Status)
}

func TestBackgroundReader_Stop_GracefulShutdown(t *testing.T) {
	// Given: reader with long-running task
	cfg := ReaderConfig{
		DataDir: t.TempDir(),
	}
	reader := NewBackgroundReader(cfg)

	var stopped atomic.Bool
	reader.ReadFunc = func(ctx context.Context, progress *ReadProgress) error {
		progress.SetStage(StageBuffering, 1000)
		for i := 0; i < 1000; i++ {
			select {
			case <-ctx.Done():
				stopped.Store(true)
				return ctx.Err()
			case <-time.After(1 * time.Millisecond):
				progress.UpdateFiles(i)
			}
		}
		return nil
	}

	// When: starting and stopping
	ctx := context.Background()
	reader.Start(ctx)
	time.Sleep(10 * time.Millisecond)
	reader.Stop()

	// Then: should stop cleanly
	assert.True(t, stopped.Load())
	assert.False(t, reader.IsRunning())
}

func TestBackgroundReader_Stop_ContextCancellation(t *testing.T) {
	// Given: reader with context
	cfg := ReaderConfig{
		DataDir: t.TempDir(),
	}
	reader := NewBackgroundReader(cfg)

	var stopped atomic.Bool
	reader.ReadFunc = func(ctx context.Context, progress *ReadProgress) error {
		<-ctx.Done()
		stopped.Store(true)
		return ctx.Err()
	}

	// When: context is canceled
	ctx, cancel := context.WithCancel(context.Background())
	reader.Start(ctx)
	time.Sleep(5 * time.Millisecond)
	cancel()

	// Wait for shutdown
	_ = reader.Wait()

	// Then: should stop on context cancel
	assert.True(t, stopped.Load())
	assert.False(t, reader.IsRunning())
}

func TestBackgroundReader_Wait_BlocksUntilComplete(t *testing.T) {
	// Given: reader with timed task
	cfg := ReaderConfig{
		DataDir: t.TempDir(),
	}
	reader := NewBackgroundReader(cfg)

	reader.ReadFunc = func(ctx context.Context, progress *ReadProgress) error {
		time.Sleep(50 * time.Millisecond)
		return nil
	}

	// When: waiting for completion
	ctx := context.Background()
	reader.Start(ctx)

	start := time.Now()
	err := reader.Wait()
	elapsed := time.Since(start)

	// Then: should block until complete
	require.NoError(t, err)
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
}

func TestBackgroundReader_LockFile_Created(t *testing.T) {
	// Given: reader
	dataDir := t.TempDir()
	cfg := ReaderConfig{
		DataDir: dataDir,
	}
	reader := NewBackgroundReader(cfg)

	var lockExists atomic.Bool
	reader.ReadFunc = func(ctx context.Context, progress *ReadProgress) error {
		lockPath := filepath.Join(dataDir, "reading.lock")
		_, err := os.Stat(lockPath)
		lockExists.Store(err == nil)
		return nil
	}

	// When: running reader
	ctx := context.Background()
	reader.Start(ctx)
	err := reader.Wait()

	// Then: lock file should have been created during run
	require.NoError(t, err)
	assert.True(t, lockExists.Load())

	// Lock file should be removed after completion
	lockPath := filepath.Join(dataDir, "reading.lock")
	_, err = os.Stat(lockPath)
	assert.True(t, os.IsNotExist(err))
}

func TestBackgroundReader_Error_SetsProgress(t *testing.T) {
	// Given: reader that returns error
	cfg := ReaderConfig{
		DataDir: t.TempDir(),
	}
	reader := NewBackgroundReader(cfg)

	expectedErr := "producer stream closed unexpectedly"
	reader.ReadFunc = func(ctx context.Context, progress *ReadProgress) error {
		return &testError{message: expectedErr}
	}

	// When: running reader
	ctx := context.Background()
	reader.Start(ctx)
	err := reader.Wait()

	// Then: error should be set in progress
	require.Error(t, err)
	snap := reader.Progress().Snapshot()
	assert.Equal(t, "error", snap.Status)
	assert.Contains(t, snap.ErrorMessage, expectedErr)
}

func TestBackgroundReader_Start_IdempotentWhenRunning(t *testing.T) {
	// Given: running reader
	cfg := ReaderConfig{
		DataDir: t.TempDir(),
	}
	reader := NewBackgroundReader(cfg)

	var startCount atomic.Int32
	reader.ReadFunc = func(ctx context.Context, progress *ReadProgress) error {
		startCount.Add(1)
		time.Sleep(50 * time.Millisecond)
		return nil
	}

	// When: starting multiple times
	ctx := context.Background()
	reader.Start(ctx)
	reader.Start(ctx) // Should be ignored
	reader.Start(ctx) // Should be ignored
	_ = reader.Wait()

	// Then: should only start once
	assert.Equal(t, int32(1), startCount.Load())
}

func TestHasIncompleteLock(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(dir string)
		wantResult bool
	}{
		{
			name:       "no lock file",
			setup:      func(dir string) {},
			wantResult: false,
		},
		{
			name: "lock file exists",
			setup: func(dir string) {
				_ = os.WriteFile(filepath.Join(dir, "reading.lock"), []byte("test"), 0644)
			},
			wantResult: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			tt.setup(dir)

			result := HasIncompleteLock(dir)
			assert.Equal(t, tt.wantResult, result)
		})
	}
}

// testError is a simple error type for testing
type testError struct {
	message string
}

func (e *testError) Error() string {
	return e.message
}
