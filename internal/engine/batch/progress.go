package batch

import (
	"sync"
	"time"
)

// percentMultiplier is used to convert a ratio to percentage (0-100).
const percentMultiplier = 100

// Progress tracks how many items of a Map call have completed.
// It is safe for concurrent use.
type Progress struct {
	total     int
	processed int
	startTime time.Time
	lastTime  time.Time

	mu       sync.Mutex
	notifyMu sync.Mutex
}

// NewProgress creates a tracker for total items.
func NewProgress(total int) *Progress {
	now := time.Now()
	return &Progress{
		total:     total,
		startTime: now,
		lastTime:  now,
	}
}

// Done marks one item as completed and returns the resulting state.
func (p *Progress) Done() ProgressSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.processed++
	p.lastTime = time.Now()
	return p.snapshotLocked()
}

// doneAndNotify serialises callbacks so snapshots arrive in order.
func (p *Progress) doneAndNotify(cb ProgressCallback) {
	p.notifyMu.Lock()
	defer p.notifyMu.Unlock()
	cb(p.Done())
}

func (p *Progress) snapshotLocked() ProgressSnapshot {
	elapsed := time.Since(p.startTime)
	snap := ProgressSnapshot{
		TotalItems:     p.total,
		ProcessedItems: p.processed,
		StartTime:      p.startTime,
		LastUpdateTime: p.lastTime,
		ElapsedTime:    elapsed,
	}
	if p.total > 0 {
		snap.PercentComplete = float64(p.processed) / float64(p.total) * percentMultiplier
	}
	if secs := elapsed.Seconds(); secs > 0 {
		snap.ItemsPerSecond = float64(p.processed) / secs
	}
	return snap
}

// ProgressSnapshot is an immutable view of a Progress.
type ProgressSnapshot struct {
	TotalItems      int
	ProcessedItems  int
	StartTime       time.Time
	LastUpdateTime  time.Time
	PercentComplete float64
	ElapsedTime     time.Duration
	ItemsPerSecond  float64
}

// IsComplete reports whether every item has been processed.
func (s ProgressSnapshot) IsComplete() bool {
	return s.ProcessedItems >= s.TotalItems
}

// EstimatedTimeRemaining extrapolates from the average time per item.
// It returns 0 before the first item completes.
func (s ProgressSnapshot) EstimatedTimeRemaining() time.Duration {
	if s.ProcessedItems == 0 {
		return 0
	}
	perItem := s.ElapsedTime / time.Duration(s.ProcessedItems)
	return perItem * time.Duration(s.TotalItems-s.ProcessedItems)
}
