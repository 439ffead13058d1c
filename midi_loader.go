// midi_loader.go - MIDI file loading and preprocessing

package main

import (
	"io"
	"os"

	"gitlab.com/gomidi/midi/v2/smf"
)

// MidiLoader reads a standard MIDI file, runs every event through the
// preprocessor and keeps the retained events per track for playback. The
// extracted metadata is exposed through forwarding getters and is read-only
// once loading completes.
type MidiLoader struct {
	preprocessor *EventPreProcessor

	tracks      [][]Event
	ppq         int
	usecPerTick int

	speed         float64
	playIntro     bool
	verbose       bool
	titleOverride string
}

func NewMidiLoader() *MidiLoader {
	ml := &MidiLoader{preprocessor: NewEventPreProcessor()}
	ml.resetState()
	return ml
}

func (ml *MidiLoader) resetState() {
	ml.preprocessor.Reset()
	ml.tracks = nil
	ml.ppq = 0
	ml.usecPerTick = 0
	ml.speed = 0
	ml.playIntro = false
	ml.verbose = false
	ml.titleOverride = ""
}

// applyOptions copies the load-relevant command-line settings.
func (ml *MidiLoader) applyOptions(opts *Options) {
	ml.speed = opts.Speed()
	ml.playIntro = opts.IsPlayIntro()
	ml.verbose = opts.IsVerbose()
	ml.titleOverride = opts.Title()
}

// fileExists reports whether path names an existing file.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadFile loads and preprocesses a MIDI file. It returns false when the
// file does not exist or cannot be parsed; the caller decides the exit path.
func (ml *MidiLoader) LoadFile(path string, opts *Options) bool {
	ml.resetState()
	ml.applyOptions(opts)

	if !fileExists(path) {
		if opts.IsStaging() {
			msgPrinter.Printf("Hymn %s was not found in the staging folder.\n\n", opts.FileName())
		} else {
			msgPrinter.Printf("Hymn %s was not found.\n\n", opts.FileName())
		}
		return false
	}

	f, err := os.Open(path)
	if err != nil {
		msgPrinter.Printf("Error loading MIDI file: %v\n", err)
		return false
	}
	defer f.Close()

	return ml.load(f, opts)
}

// Load preprocesses a MIDI stream. Split out of LoadFile so tests can feed
// in-memory files.
func (ml *MidiLoader) Load(r io.Reader, opts *Options) bool {
	ml.resetState()
	ml.applyOptions(opts)
	return ml.load(r, opts)
}

// LoadSong preprocesses an already-parsed MIDI file.
func (ml *MidiLoader) LoadSong(song *smf.SMF, opts *Options) bool {
	ml.resetState()
	ml.applyOptions(opts)
	return ml.processSong(song, opts)
}

func (ml *MidiLoader) load(r io.Reader, opts *Options) bool {
	song, err := smf.ReadFrom(r)
	if err != nil {
		msgPrinter.Printf("Error loading MIDI file: %v\n", err)
		return false
	}
	return ml.processSong(song, opts)
}

func (ml *MidiLoader) processSong(song *smf.SMF, opts *Options) bool {
	// A caller verse override wins over the file's embedded count.
	ml.preprocessor.SetVersesOverride(opts.Verses())

	for _, track := range song.Tracks {
		var kept []Event
		for _, tev := range track {
			ev := Event{Delta: tev.Delta, Message: tev.Message}
			if ml.preprocessor.ProcessEvent(ev, opts) {
				kept = append(kept, ev)
			}
		}
		ml.tracks = append(ml.tracks, kept)
	}

	metric, ok := song.TimeFormat.(smf.MetricTicks)
	if !ok {
		msgPrinter.Println(msgPrinter.Sprintf("Error loading MIDI file: unsupported time format"))
		return false
	}
	ml.ppq = int(metric)

	ml.finalizeLoading()
	return true
}

// finalizeLoading applies load-time defaults and derives tick timing.
func (ml *MidiLoader) finalizeLoading() {
	ml.preprocessor.finalize(ml.ppq)

	ml.usecPerTick = ml.preprocessor.UsecPerQuarter() / ml.ppq

	// If there are no intro markers in the file, the introduction can't be
	// played regardless of the command-line option.
	if len(ml.preprocessor.IntroSegments()) == 0 {
		ml.playIntro = false
	}
}

// Tracks returns the retained events of each track, in file order.
func (ml *MidiLoader) Tracks() [][]Event { return ml.tracks }

// PPQ returns the file resolution in ticks per quarter note.
func (ml *MidiLoader) PPQ() int { return ml.ppq }

// UsecPerTick returns the derived duration of one tick in microseconds.
func (ml *MidiLoader) UsecPerTick() int { return ml.usecPerTick }

// Speed returns the caller's speed multiplier.
func (ml *MidiLoader) Speed() float64 { return ml.speed }

// ShouldPlayIntro reports whether an introduction will be played.
func (ml *MidiLoader) ShouldPlayIntro() bool { return ml.playIntro }

func (ml *MidiLoader) IsVerbose() bool { return ml.verbose }

// Title returns the hymn title: the command-line override when given,
// otherwise the file's first track name.
func (ml *MidiLoader) Title() string {
	if ml.titleOverride != "" {
		return ml.titleOverride
	}
	return ml.preprocessor.Title()
}

// Forwarding getters over the extracted metadata.


func (ml *MidiLoader) KeySignature() string                 { return ml.preprocessor.KeySignature() }
func (ml *MidiLoader) TimeSignature() TimeSignature         { return ml.preprocessor.TimeSignature() }
func (ml *MidiLoader) IntroSegments() []IntroductionSegment { return ml.preprocessor.IntroSegments() }
func (ml *MidiLoader) Verses() int                          { return ml.preprocessor.Verses() }
func (ml *MidiLoader) UsecPerQuarter() int                  { return ml.preprocessor.UsecPerQuarter() }
func (ml *MidiLoader) FileTempo() int                       { return ml.preprocessor.FileTempo() }
func (ml *MidiLoader) BPM() int                             { return ml.preprocessor.BPM() }
func (ml *MidiLoader) PauseTicks() MidiTicks                { return ml.preprocessor.PauseTicks() }
func (ml *MidiLoader) HasPotentialStuckNote() bool          { return ml.preprocessor.HasPotentialStuckNote() }
func (ml *MidiLoader) IsFirstTempo() bool                   { return ml.preprocessor.IsFirstTempo() }
