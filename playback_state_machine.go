// playback_state_machine.go - Boolean playback state shared across verse boundaries

package main

// PlaybackStateMachine tracks the flags that shape a performance: whether the
// introduction is still pending, whether the current verse is the last,
// whether a D.C. al Fine return is armed, whether a ritardando is in effect,
// and whether warnings are shown.
//
// The flags are plain bools. All transitions happen either before playback
// starts or inside player callbacks that are serialized by the verse
// synchronizer, so no locking is needed.
type PlaybackStateMachine struct {
	playIntro       bool
	lastVerse       bool
	alFine          bool
	ritardando      bool
	displayWarnings bool
}

func NewPlaybackStateMachine() *PlaybackStateMachine {
	return &PlaybackStateMachine{}
}

func (sm *PlaybackStateMachine) PlayIntro() bool  { return sm.playIntro }
func (sm *PlaybackStateMachine) LastVerse() bool  { return sm.lastVerse }
func (sm *PlaybackStateMachine) AlFine() bool     { return sm.alFine }
func (sm *PlaybackStateMachine) Ritardando() bool { return sm.ritardando }

func (sm *PlaybackStateMachine) SetPlayIntro(v bool)  { sm.playIntro = v }
func (sm *PlaybackStateMachine) SetLastVerse(v bool)  { sm.lastVerse = v }
func (sm *PlaybackStateMachine) SetAlFine(v bool)     { sm.alFine = v }
func (sm *PlaybackStateMachine) SetRitardando(v bool) { sm.ritardando = v }

func (sm *PlaybackStateMachine) DisplayWarnings() bool     { return sm.displayWarnings }
func (sm *PlaybackStateMachine) SetDisplayWarnings(v bool) { sm.displayWarnings = v }

// Reset clears the per-performance flags. The warnings preference is an
// operator setting and survives the reset.
func (sm *PlaybackStateMachine) Reset() {
	sm.playIntro = false
	sm.lastVerse = false
	sm.alFine = false
	sm.ritardando = false
}
