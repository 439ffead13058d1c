// playback_state_machine_test.go - Tests for playback state flags

package main

import "testing"

// TestPlaybackStateMachine_Defaults checks that a fresh state machine has
// every flag clear.
func TestPlaybackStateMachine_Defaults(t *testing.T) {
	sm := NewPlaybackStateMachine()

	if sm.PlayIntro() || sm.LastVerse() || sm.AlFine() || sm.Ritardando() || sm.DisplayWarnings() {
		t.Error("all flags should start clear")
	}
}

// TestPlaybackStateMachine_SetGet checks each flag independently.
func TestPlaybackStateMachine_SetGet(t *testing.T) {
	sm := NewPlaybackStateMachine()

	sm.SetPlayIntro(true)
	if !sm.PlayIntro() {
		t.Error("playIntro should be set")
	}
	sm.SetLastVerse(true)
	if !sm.LastVerse() {
		t.Error("lastVerse should be set")
	}
	sm.SetAlFine(true)
	if !sm.AlFine() {
		t.Error("alFine should be set")
	}
	sm.SetRitardando(true)
	if !sm.Ritardando() {
		t.Error("ritardando should be set")
	}
}

// TestPlaybackStateMachine_Reset checks that Reset clears the performance
// flags but keeps the warnings preference.
func TestPlaybackStateMachine_Reset(t *testing.T) {
	sm := NewPlaybackStateMachine()
	sm.SetPlayIntro(true)
	sm.SetLastVerse(true)
	sm.SetAlFine(true)
	sm.SetRitardando(true)
	sm.SetDisplayWarnings(true)

	sm.Reset()

	if sm.PlayIntro() || sm.LastVerse() || sm.AlFine() || sm.Ritardando() {
		t.Error("performance flags should be cleared by Reset")
	}
	if !sm.DisplayWarnings() {
		t.Error("displayWarnings is configuration and should survive Reset")
	}
}
