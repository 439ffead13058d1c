// playback_synchronizer_test.go - Tests for the verse-boundary handshake

package main

import (
	"testing"
	"time"
)

// TestPlaybackSynchronizer_EarlyNotify checks that a notification delivered
// before Wait is not lost.
func TestPlaybackSynchronizer_EarlyNotify(t *testing.T) {
	ps := NewPlaybackSynchronizer()

	ps.Notify()

	done := make(chan struct{})
	go func() {
		ps.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait should return immediately after an early Notify")
	}
}

// TestPlaybackSynchronizer_NotifyWakesWaiter checks the normal wait/notify
// ordering.
func TestPlaybackSynchronizer_NotifyWakesWaiter(t *testing.T) {
	ps := NewPlaybackSynchronizer()

	done := make(chan struct{})
	go func() {
		ps.Wait()
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	ps.Notify()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Notify should wake the waiter")
	}
}

// TestPlaybackSynchronizer_AutoReset checks that each notification satisfies
// exactly one wait.
func TestPlaybackSynchronizer_AutoReset(t *testing.T) {
	ps := NewPlaybackSynchronizer()

	ps.Notify()
	ps.Wait()

	second := make(chan struct{})
	go func() {
		ps.Wait()
		close(second)
	}()

	select {
	case <-second:
		t.Fatal("second Wait should block until a second Notify")
	case <-time.After(50 * time.Millisecond):
	}

	ps.Notify()
	select {
	case <-second:
	case <-time.After(2 * time.Second):
		t.Fatal("second Notify should wake the second Wait")
	}
}

// TestPlaybackSynchronizer_NotifyWithNoWaiter checks that Notify is safe with
// no thread blocked.
func TestPlaybackSynchronizer_NotifyWithNoWaiter(t *testing.T) {
	ps := NewPlaybackSynchronizer()
	ps.Notify()
	ps.Notify() // second notify coalesces into the same pending flag
	ps.Wait()   // consumed without blocking
}

// TestPlaybackSynchronizer_Reset checks that Reset discards a pending
// notification.
func TestPlaybackSynchronizer_Reset(t *testing.T) {
	ps := NewPlaybackSynchronizer()
	ps.Notify()
	ps.Reset()

	done := make(chan struct{})
	go func() {
		ps.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Wait should block after Reset discarded the notification")
	case <-time.After(50 * time.Millisecond):
	}

	ps.Notify()
	<-done
}
