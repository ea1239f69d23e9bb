// Package timer provides stage-aware timing for long-running CLI operations.
package timer

import "time"

// Timer tracks elapsed time for an operation split into stages.
//
// Start begins the overall measurement, NewStage marks the beginning of the
// next stage, and GetTiming returns the total elapsed duration together with
// the duration of the current stage.
type Timer interface {
	Start()
	NewStage()
	GetTiming() (total time.Duration, stage time.Duration)
}

type realTimer struct {
	started    time.Time
	stageStart time.Time
	now        func() time.Time
}

// New creates a Timer backed by the wall clock.
func New() Timer {
	return &realTimer{now: time.Now}
}

// NewWithClock creates a Timer with a custom clock, used by tests.
func NewWithClock(now func() time.Time) Timer {
	return &realTimer{now: now}
}

func (t *realTimer) Start() {
	t.started = t.now()
	t.stageStart = t.started
}

func (t *realTimer) NewStage() {
	t.stageStart = t.now()
}

func (t *realTimer) GetTiming() (time.Duration, time.Duration) {
	if t.started.IsZero() {
		return 0, 0
	}

	current := t.now()

	return current.Sub(t.started).Round(time.Millisecond),
		current.Sub(t.stageStart).Round(time.Millisecond)
}
