// playback_orchestrator.go - Section sequencing: introduction, verses, repeats

package main

import (
	"math"
	"time"
)

// PlaybackOrchestrator drives the performance: it wires the musical director
// and ritardando effector into the player's callback slots, then runs the
// fixed section sequence of introduction followed by verses. Each section is
// one play/wait cycle against the synchronizer; the player's finished
// callback supplies the matching notify.
type PlaybackOrchestrator struct {
	player       Player
	synchronizer *PlaybackSynchronizer
	loader       *MidiLoader

	stateMachine *PlaybackStateMachine
	director     *MusicalDirector
	effector     *RitardandoEffector

	baseSpeed float64 // caller speed multiplier
	baseTempo float64 // caller bpm over file-native bpm
}

func NewPlaybackOrchestrator(player Player, synchronizer *PlaybackSynchronizer, loader *MidiLoader) *PlaybackOrchestrator {
	sm := NewPlaybackStateMachine()
	return &PlaybackOrchestrator{
		player:       player,
		synchronizer: synchronizer,
		loader:       loader,
		stateMachine: sm,
		director:     NewMusicalDirector(player, sm, loader),
		effector:     NewRitardandoEffector(player, sm),
		baseSpeed:    1.0,
		baseTempo:    1.0,
	}
}

// StateMachine exposes the shared flags for startup configuration.
func (po *PlaybackOrchestrator) StateMachine() *PlaybackStateMachine { return po.stateMachine }

// Initialize computes the base tempo ratio, sets the starting speed and
// registers the playback callbacks.
func (po *PlaybackOrchestrator) Initialize() {
	po.baseSpeed = po.loader.Speed()
	po.baseTempo = float64(po.loader.BPM()) / float64(po.loader.FileTempo())

	po.player.SetSpeed(po.baseTempo * po.baseSpeed)

	po.player.SetCallbackHeartbeat(po.effector.HandleHeartbeat)
	po.player.SetCallbackEvent(po.director.HandleEvent)
	po.player.SetCallbackFinished(po.synchronizer.Notify)
}

// DisplayPlaybackInfo prints the title line: title, key, verse count and
// effective tempo.
func (po *PlaybackOrchestrator) DisplayPlaybackInfo() {
	bpm := int(math.Round(float64(po.loader.BPM()) * po.baseSpeed))
	msgPrinter.Printf("Playing: \"%s\" in %s - %s at %d bpm\n",
		po.loader.Title(), po.loader.KeySignature(),
		formatVerses(po.loader.Verses()), bpm)
}

// ExecutePlayback runs the full performance and returns when it finishes.
func (po *PlaybackOrchestrator) ExecutePlayback() {
	if po.loader.ShouldPlayIntro() {
		po.playIntroduction()
	}
	po.playVerses()
}

func (po *PlaybackOrchestrator) playIntroduction() {
	po.stateMachine.SetPlayIntro(true)
	po.stateMachine.SetRitardando(false)

	segments := po.loader.IntroSegments()
	if len(segments) > 0 {
		po.director.InitializeIntroSegments()
		po.player.GoToTick(segments[0].Start)
	}

	msgPrinter.Println(msgPrinter.Sprintf(" Playing introduction"))

	po.player.Play()
	po.synchronizer.Wait() // Wait for playback to finish

	po.stateMachine.SetRitardando(false)
	po.stateMachine.SetPlayIntro(false)
	po.setPlayerSpeed(po.baseSpeed)

	po.player.Rewind()
	po.pauseBetweenSections()
}

func (po *PlaybackOrchestrator) playVerses() {
	verses := po.loader.Verses()

	for verse := 0; verse < verses; verse++ {
		po.stateMachine.SetRitardando(false)
		po.setPlayerSpeed(po.baseSpeed)

		if verse == verses-verseDisplayOffset {
			po.stateMachine.SetLastVerse(true)
			msgPrinter.Printf(" Playing verse %d, last verse\n", verse+verseDisplayOffset)
		} else {
			msgPrinter.Printf(" Playing verse %d\n", verse+verseDisplayOffset)
		}

		po.player.Play()
		po.synchronizer.Wait() // Wait for playback to finish

		if !po.stateMachine.LastVerse() {
			po.player.Rewind()
			po.pauseBetweenSections()
		}

		// D.C. al Fine: return to the beginning and play until Fine.
		// Exactly one replay; the flag is cleared so the loop terminates.
		if po.stateMachine.AlFine() {
			po.player.Rewind()
			po.player.Play()
			po.synchronizer.Wait()
			po.stateMachine.SetAlFine(false)
		}
	}
}

// pauseBetweenSections sleeps for the configured pause, converted from file
// ticks to real time.
func (po *PlaybackOrchestrator) pauseBetweenSections() {
	pause := po.loader.PauseTicks()
	if pause.HasValue() {
		usec := int64(pause.Ticks()) * int64(po.loader.UsecPerTick())
		time.Sleep(time.Duration(usec) * time.Microsecond)
	}
}

func (po *PlaybackOrchestrator) setPlayerSpeed(multiplier float64) {
	po.player.SetSpeed(po.baseTempo * multiplier)
}
