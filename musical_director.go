// musical_director.go - Marker interpretation during live playback

package main

// MusicalDirector interprets marker events as they are dispatched: jumping
// between introduction segments, arming the ritardando, and handling the
// D.C. al Fine / Fine repeat pair. It returns per event whether the event
// should still be forwarded to the output device.
type MusicalDirector struct {
	player       Player
	stateMachine *PlaybackStateMachine
	loader       *MidiLoader

	introSegment int // cursor into the loader's segment list
}

func NewMusicalDirector(player Player, stateMachine *PlaybackStateMachine, loader *MidiLoader) *MusicalDirector {
	return &MusicalDirector{
		player:       player,
		stateMachine: stateMachine,
		loader:       loader,
	}
}

// InitializeIntroSegments resets the segment cursor to the first segment.
// Called at the start of each introduction playback.
func (md *MusicalDirector) InitializeIntroSegments() {
	md.introSegment = 0
}

// HandleEvent is the player's per-event callback. Returning false suppresses
// delivery of the event to the output device.
func (md *MusicalDirector) HandleEvent(ev *Event) bool {
	if md.stateMachine.PlayIntro() && len(md.loader.IntroSegments()) > 0 &&
		isMarkerText(ev.Message, markerIntroEnd) {
		md.processIntroMarker()
	}

	if (md.stateMachine.PlayIntro() || md.stateMachine.LastVerse()) &&
		isMarkerText(ev.Message, markerRitardando) {
		md.processRitardandoMarker()
	}

	if md.stateMachine.LastVerse() && isMarkerText(ev.Message, markerDCAlFine) {
		return md.processDCAlFineMarker(ev)
	}

	if md.stateMachine.AlFine() && isMarkerText(ev.Message, markerFine) {
		return md.processFineMarker()
	}

	return true // Send event to output device
}

func (md *MusicalDirector) processIntroMarker() {
	segments := md.loader.IntroSegments()

	md.introSegment++

	if md.introSegment < len(segments) {
		md.player.Stop()
		md.player.GoToTick(segments[md.introSegment].Start)
		md.player.Play()
		return
	}

	// Stop the introduction. In some hymns, this is not at the end.
	md.player.Stop()
	md.player.Finish()

	if md.loader.HasPotentialStuckNote() {
		md.player.NotesOff()

		if md.stateMachine.DisplayWarnings() {
			msgPrinter.Println(msgPrinter.Sprintf("   Warning: Final intro marker not past last NoteOff event"))
		}
	}
}

func (md *MusicalDirector) processRitardandoMarker() {
	md.stateMachine.SetRitardando(true)
	msgPrinter.Println(msgPrinter.Sprintf("  Ritardando"))
}

func (md *MusicalDirector) processDCAlFineMarker(ev *Event) bool {
	msgPrinter.Println(metaText(ev.Message))
	md.stateMachine.SetAlFine(true)
	md.player.Stop()
	md.player.Finish()
	return false // Don't send event to output device
}

func (md *MusicalDirector) processFineMarker() bool {
	md.player.Stop()
	md.player.Finish()
	return false // Don't send event to output device
}
