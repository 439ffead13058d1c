// playback_orchestrator_test.go - Tests for section sequencing

package main

import (
	"testing"
)

// orchestratorFixture builds an orchestrator around a fake player whose
// Play() immediately notifies the synchronizer, so section waits return
// without real playback.
func orchestratorFixture(loader *MidiLoader) (*PlaybackOrchestrator, *fakePlayer) {
	player := newFakePlayer()
	sync := NewPlaybackSynchronizer()
	po := NewPlaybackOrchestrator(player, sync, loader)
	player.onPlay = func() {
		if player.finCb != nil {
			player.finCb()
		}
	}
	return po, player
}

// loaderForPlayback builds a loader with playback metadata set directly.
func loaderForPlayback(verses int, segments []IntroductionSegment, playIntro bool) *MidiLoader {
	ml := NewMidiLoader()
	ml.preprocessor.verses = verses
	ml.preprocessor.fileTempo = 120
	ml.preprocessor.bpm = 120
	ml.preprocessor.introSegments = segments
	ml.speed = 1.0
	ml.playIntro = playIntro && len(segments) > 0
	return ml
}

func countCalls(calls []string, name string) int {
	n := 0
	for _, c := range calls {
		if c == name {
			n++
		}
	}
	return n
}

// TestPlaybackOrchestrator_Initialize checks callback wiring and the initial
// speed.
func TestPlaybackOrchestrator_Initialize(t *testing.T) {
	loader := loaderForPlayback(1, nil, false)
	loader.preprocessor.bpm = 90 // caller override: 90/120 = 0.75
	po, player := orchestratorFixture(loader)

	po.Initialize()

	if player.evCb == nil || player.hbCb == nil || player.finCb == nil {
		t.Error("Initialize should register all three callbacks")
	}
	if player.speed != 0.75 {
		t.Errorf("initial speed should be bpm ratio, got %f", player.speed)
	}
}

// TestPlaybackOrchestrator_PlaysEachVerse checks one play/wait cycle per
// verse and the last-verse flag pattern.
func TestPlaybackOrchestrator_PlaysEachVerse(t *testing.T) {
	loader := loaderForPlayback(3, nil, false)
	po, player := orchestratorFixture(loader)

	po.Initialize()
	po.ExecutePlayback()

	if got := countCalls(player.calls, "play"); got != 3 {
		t.Errorf("expected 3 plays for 3 verses, got %d", got)
	}
	if !po.StateMachine().LastVerse() {
		t.Error("lastVerse should be set for the final verse")
	}
	// Rewind happens between verses, not after the last one.
	if got := countCalls(player.calls, "rewind"); got != 2 {
		t.Errorf("expected 2 rewinds between 3 verses, got %d", got)
	}
}

// TestPlaybackOrchestrator_IntroThenVerses checks the introduction section
// precedes the verses, starting at the first segment.
func TestPlaybackOrchestrator_IntroThenVerses(t *testing.T) {
	segments := []IntroductionSegment{{Start: 960, End: 1440}}
	loader := loaderForPlayback(1, segments, true)
	po, player := orchestratorFixture(loader)

	po.Initialize()
	po.ExecutePlayback()

	if len(player.gotoTicks) == 0 || player.gotoTicks[0] != 960 {
		t.Errorf("introduction should seek to the first segment start, got %v", player.gotoTicks)
	}
	if got := countCalls(player.calls, "play"); got != 2 {
		t.Errorf("expected intro play plus 1 verse play, got %d", got)
	}
	if po.StateMachine().PlayIntro() {
		t.Error("playIntro flag should clear after the introduction")
	}
}

// TestPlaybackOrchestrator_NoIntroWithoutSegments checks the intro section
// is skipped when the loader disabled it.
func TestPlaybackOrchestrator_NoIntroWithoutSegments(t *testing.T) {
	loader := loaderForPlayback(2, nil, true) // playIntro forced off: no segments
	po, player := orchestratorFixture(loader)

	po.Initialize()
	po.ExecutePlayback()

	if got := countCalls(player.calls, "play"); got != 2 {
		t.Errorf("expected only verse plays, got %d", got)
	}
	if len(player.gotoTicks) != 0 {
		t.Errorf("no seek expected without an introduction, got %v", player.gotoTicks)
	}
}

// TestPlaybackOrchestrator_AlFineReplaysOnce checks a D.C. al Fine during
// the last verse triggers exactly one replay then terminates.
func TestPlaybackOrchestrator_AlFineReplaysOnce(t *testing.T) {
	loader := loaderForPlayback(1, nil, false)
	po, player := orchestratorFixture(loader)

	plays := 0
	player.onPlay = func() {
		plays++
		if plays == 1 {
			// The director would arm this when it sees the marker.
			po.StateMachine().SetAlFine(true)
		}
		if player.finCb != nil {
			player.finCb()
		}
	}

	po.Initialize()
	po.ExecutePlayback()

	if plays != 2 {
		t.Errorf("expected exactly one replay (2 plays total), got %d", plays)
	}
	if po.StateMachine().AlFine() {
		t.Error("alFine should clear after the replay")
	}
}

// TestPlaybackOrchestrator_SpeedResetPerVerse checks the ritardando state
// and speed reset at each verse boundary.
func TestPlaybackOrchestrator_SpeedResetPerVerse(t *testing.T) {
	loader := loaderForPlayback(2, nil, false)
	po, player := orchestratorFixture(loader)

	po.Initialize()

	var speedsAtPlay []float64
	player.onPlay = func() {
		speedsAtPlay = append(speedsAtPlay, player.speed)
		// Simulate a ritardando dragging the speed down mid-verse.
		player.speed = 0.4
		po.StateMachine().SetRitardando(true)
		if player.finCb != nil {
			player.finCb()
		}
	}

	po.ExecutePlayback()

	if len(speedsAtPlay) != 2 {
		t.Fatalf("expected 2 plays, got %d", len(speedsAtPlay))
	}
	for i, s := range speedsAtPlay {
		if s != 1.0 {
			t.Errorf("verse %d should start at base speed 1.0, got %f", i+1, s)
		}
	}
}
