package engine

import (
	"time"
)

// TimeManager tracks the time budget of one iterative-deepening search.
type TimeManager struct {
	startTime time.Time
	moveTime  time.Duration // 0 = no limit
}

// NewTimeManager creates a new time manager.
func NewTimeManager() *TimeManager {
	return &TimeManager{}
}

// Init starts the clock for a search allowed to run for moveTime.
func (tm *TimeManager) Init(moveTime time.Duration) {
	tm.startTime = time.Now()
	tm.moveTime = moveTime
}

// Deadline returns the time the search must stop by, or the zero time when
// there is no limit.
func (tm *TimeManager) Deadline() time.Time {
	if tm.moveTime <= 0 {
		return time.Time{}
	}
	return tm.startTime.Add(tm.moveTime)
}

// Elapsed returns the time since Init.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.startTime)
}

// Expired returns true once the budget is spent.
func (tm *TimeManager) Expired() bool {
	return tm.moveTime > 0 && tm.Elapsed() >= tm.moveTime
}

// ShouldStartIteration returns false once more than half the budget is used.
func (tm *TimeManager) ShouldStartIteration() bool {
	if tm.moveTime <= 0 {
		return true
	}
	elapsed := tm.Elapsed()
	return tm.moveTime-elapsed >= elapsed
}
