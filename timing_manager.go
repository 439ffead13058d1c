// timing_manager.go - Wall-clock performance timing

package main

import (
	"fmt"
	"time"
)

// TimingManager records the wall-clock span of a performance and formats it
// for the closing display.
type TimingManager struct {
	start time.Time
	end   time.Time
}

func NewTimingManager() *TimingManager {
	return &TimingManager{}
}

// StartTimer records the performance start instant.
func (tm *TimingManager) StartTimer() {
	tm.start = time.Now()
}

// EndTimer records the performance end instant.
func (tm *TimingManager) EndTimer() {
	tm.end = time.Now()
}

// ElapsedSeconds returns the span between the recorded instants. If the end
// was never recorded, it measures up to now.
func (tm *TimingManager) ElapsedSeconds() float64 {
	end := tm.end
	if end.IsZero() {
		end = time.Now()
	}
	return end.Sub(tm.start).Seconds()
}

// FormattedElapsedTime renders the elapsed span as M:SS.
func (tm *TimingManager) FormattedElapsedTime() string {
	return formatMinSec(int(tm.ElapsedSeconds()))
}

// DisplayElapsedTime prints the closing line of a completed performance.
func (tm *TimingManager) DisplayElapsedTime() {
	msgPrinter.Printf("Fine - elapsed time %s\n\n", tm.FormattedElapsedTime())
}

func formatMinSec(totalSeconds int) string {
	return fmt.Sprintf("%d:%02d",
		totalSeconds/secondsPerMinute, totalSeconds%secondsPerMinute)
}
