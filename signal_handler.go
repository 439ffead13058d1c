// signal_handler.go - Ctrl-C cleanup: silence notes, report time, exit

package main

import (
	"os"
	"os/signal"

	"gitlab.com/gomidi/midi/v2"
)

// SignalHandler turns an interrupt into a clean shutdown: wake whatever
// section wait is outstanding, silence every sounding note, report the
// elapsed time and exit with the signal's conventional status.
type SignalHandler struct {
	out          OutputPort
	synchronizer *PlaybackSynchronizer
	timing       *TimingManager

	ch chan os.Signal
}

func NewSignalHandler(out OutputPort, synchronizer *PlaybackSynchronizer, timing *TimingManager) *SignalHandler {
	return &SignalHandler{
		out:          out,
		synchronizer: synchronizer,
		timing:       timing,
	}
}

// Setup installs the interrupt handler. The handling goroutine runs for the
// rest of the process lifetime.
func (sh *SignalHandler) Setup() {
	sh.ch = make(chan os.Signal, 1)
	signal.Notify(sh.ch, os.Interrupt)

	go func() {
		<-sh.ch
		sh.handleInterrupt()
	}()
}

func (sh *SignalHandler) handleInterrupt() {
	// Wake up the orchestrator's section wait first so it can't re-issue a
	// play while we shut down.
	sh.synchronizer.Notify()

	sh.EmergencyNotesOff()

	msgPrinter.Printf("\nElapsed time %s\n\n", sh.timing.FormattedElapsedTime())

	os.Exit(exitInterrupted)
}

// EmergencyNotesOff releases every note an organ hymn can be sounding:
// explicit note-offs across the melody and accompaniment channels over the
// playable key range.
func (sh *SignalHandler) EmergencyNotesOff() {
	for ch := uint8(notesOffFirstChannel); ch <= notesOffLastChannel; ch++ {
		for key := uint8(notesOffFirstKey); key <= notesOffLastKey; key++ {
			sh.out.Send(midi.NoteOn(ch, key, 0).Bytes()) // velocity 0 = note off
		}
	}
}
