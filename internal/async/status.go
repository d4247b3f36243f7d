// Package async provides background processing infrastructure for gofzy.
package async

import (
	"sync"
	"time"
)

// ReadStatus represents the overall state of a full-drain read.
type ReadStatus string

const (
	// StatusReading indicates the producer stream is still being drained.
	StatusReading ReadStatus = "reading"
	// StatusReady indicates the read finished and the item list is complete.
	StatusReady ReadStatus = "ready"
	// StatusError indicates the read failed with an error.
	StatusError ReadStatus = "error"
)

// ReadStage represents the current stage of a full-drain read.
type ReadStage string

const (
	// StageScanning indicates the walker is discovering candidate paths.
	StageScanning ReadStage = "scanning"
	// StageReading indicates lines are being pulled off the producer stream.
	StageReading ReadStage = "reading"
	// StageBuffering indicates read items are being materialized into memory.
	StageBuffering ReadStage = "buffering"
)

// ReadProgressSnapshot is an immutable snapshot of read progress.
type ReadProgressSnapshot struct {
	Status         string  `json:"status"`
	Stage          string  `json:"stage"`
	FilesTotal     int     `json:"files_total"`
	FilesProcessed int     `json:"files_processed"`
	ItemsTotal     int     `json:"items_total"`
	ItemsRead      int     `json:"items_read"`
	ProgressPct    float64 `json:"progress_pct"`
	ElapsedSeconds int     `json:"elapsed_seconds"`
	ErrorMessage   string  `json:"error_message,omitempty"`
}

// ReadProgress provides thread-safe tracking of full-drain read progress.
type ReadProgress struct {
	mu sync.RWMutex

	status         ReadStatus
	stage          ReadStage
	filesTotal     int
	filesProcessed int
	itemsTotal     int
	itemsRead      int
	startTime      time.Time
	errorMessage   string
}

// NewReadProgress creates a new progress tracker initialized for reading.
func NewReadProgress() *ReadProgress {
	return &ReadProgress{
		status:    StatusReading,
		stage:     StageScanning,
		startTime: time.Now(),
	}
}

// SetStage updates the current stage and resets the file total count.
func (p *ReadProgress) SetStage(stage ReadStage, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stage = stage
	p.filesTotal = total
}

// UpdateFiles updates the number of files the walker has discovered.
func (p *ReadProgress) UpdateFiles(processed int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.filesProcessed = processed
}

// SetItemsTotal sets the total number of items expected from the producer.
func (p *ReadProgress) SetItemsTotal(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.itemsTotal = total
}

// UpdateItems updates the number of items read so far.
func (p *ReadProgress) UpdateItems(read int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.itemsRead = read
}

// SetError marks the read as failed with an error message.
func (p *ReadProgress) SetError(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status = StatusError
	p.errorMessage = message
}

// SetReady marks the read as complete and the item list as usable.
func (p *ReadProgress) SetReady() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status = StatusReady
}

// IsReading returns true if the producer stream is still being drained.
func (p *ReadProgress) IsReading() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.status == StatusReading
}

// Snapshot returns an immutable copy of the current progress state.
func (p *ReadProgress) Snapshot() ReadProgressSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var progressPct float64
	if p.filesTotal > 0 {
		progressPct = float64(p.filesProcessed) / float64(p.filesTotal) * 100.0
	}

	return ReadProgressSnapshot{
		Status:         string(p.status),
		Stage:          string(p.stage),
		FilesTotal:     p.filesTotal,
		FilesProcessed: p.filesProcessed,
		ItemsTotal:     p.itemsTotal,
		ItemsRead:      p.itemsRead,
		ProgressPct:    progressPct,
		ElapsedSeconds: int(time.Since(p.startTime).Seconds()),
		ErrorMessage:   p.errorMessage,
	}
}
