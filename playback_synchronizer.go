// playback_synchronizer.go - Verse-boundary handshake between player and orchestrator

package main

import "sync"

// PlaybackSynchronizer blocks the orchestrator between verses until the
// player signals completion. The completion flag is auto-reset by Wait, so a
// notification delivered before the orchestrator starts waiting is not lost
// and each notification releases exactly one wait.
type PlaybackSynchronizer struct {
	mu       sync.Mutex
	cond     *sync.Cond
	finished bool
}

func NewPlaybackSynchronizer() *PlaybackSynchronizer {
	ps := &PlaybackSynchronizer{}
	ps.cond = sync.NewCond(&ps.mu)
	return ps
}

// Wait blocks until Notify has been called, then consumes the notification.
func (ps *PlaybackSynchronizer) Wait() {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	for !ps.finished {
		ps.cond.Wait()
	}
	ps.finished = false
}

// Notify marks playback finished and wakes a waiter if one is blocked.
// Calling it with no waiter present is safe; the next Wait returns
// immediately.
func (ps *PlaybackSynchronizer) Notify() {
	ps.mu.Lock()
	ps.finished = true
	ps.mu.Unlock()
	ps.cond.Signal()
}

// Reset discards any pending notification.
func (ps *PlaybackSynchronizer) Reset() {
	ps.mu.Lock()
	ps.finished = false
	ps.mu.Unlock()
}
