// event_preprocessor.go - Single-pass MIDI event filter and metadata extractor

package main

import (
	"math"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// TimeSignature holds the time signature extracted from the first
// time-signature meta event at tick zero.
type TimeSignature struct {
	BeatsPerMeasure      uint8
	Denominator          uint8 // power-of-two exponent
	ClocksPerClick       uint8 // of metronome
	N32ndNotesPerQuarter uint8
}

// IntroductionSegment is a contiguous tick range in track 0 delimited by the
// open/close markers. A segment left open keeps End == 0; that indicates
// malformed input but is not fatal.
type IntroductionSegment struct {
	Start uint32
	End   uint32
}

// keySignatures maps signed fifths to key names. Major keys index at
// fifths+6, minor keys at fifths+9.
var keySignatures = [18]string{
	"Gb", "Db", "Ab", "Eb", "Bb", "F", "C",
	"G", "D", "A", "E", "B", "F#", "C#", "G#", "D#", "A#", "e#",
}

const (
	majorKeyOffset = 6
	minorKeyOffset = 9
)

// EventPreProcessor filters MIDI events and extracts playback metadata in a
// single pass over all tracks, in file order, during load. It decides per
// event whether the event is retained for playback, and accumulates the
// title, key signature, tempo, verse count, pause length and introduction
// segments as it goes.
//
// Custom meta events are processed for their data and then discarded so they
// never reach the output device.
type EventPreProcessor struct {
	title         string
	keySignature  string
	timeSignature TimeSignature
	introSegments []IntroductionSegment

	verses         int
	usecPerQuarter int
	fileTempo      int
	bpm            int
	pauseTicks     MidiTicks

	potentialStuckNote bool
	firstTempo         bool

	// Per-pass state.
	currentTrack    int
	totalTrackTicks int
	lastNoteOn      int
	lastNoteOff     int
}

// NewEventPreProcessor returns a preprocessor ready for a load pass.
func NewEventPreProcessor() *EventPreProcessor {
	ep := &EventPreProcessor{}
	ep.Reset()
	return ep
}

// Reset clears all accumulated state for a new file load.
func (ep *EventPreProcessor) Reset() {
	ep.title = ""
	ep.keySignature = ""
	ep.timeSignature = TimeSignature{}
	ep.introSegments = nil

	ep.verses = 0
	ep.usecPerQuarter = 0
	ep.fileTempo = 0
	ep.bpm = 0
	ep.pauseTicks.Clear()

	ep.potentialStuckNote = false
	ep.firstTempo = true

	ep.currentTrack = 0
	ep.totalTrackTicks = 0
	ep.lastNoteOn = 0
	ep.lastNoteOff = 0
}

// SetVersesOverride installs a caller-supplied verse count. It takes priority
// over file-embedded values and is never overwritten once set.
func (ep *EventPreProcessor) SetVersesOverride(verses int) {
	if verses > 0 {
		ep.verses = verses
	}
}

// ProcessEvent inspects one event and reports whether it should be retained
// for playback. Events must be fed in file order, track by track.
func (ep *EventPreProcessor) ProcessEvent(ev Event, opts *Options) bool {
	ep.totalTrackTicks += int(ev.Delta)

	msg := midi.Message(ev.Message)

	if msg.Is(midi.SysExMsg) {
		return false // Player doesn't handle SysEx.
	}

	// Throw away control change messages with specific exceptions reserved
	// for organ stop settings.
	var ch, cc, val uint8
	if msg.GetControlChange(&ch, &cc, &val) {
		return shouldLoadControlChange(cc)
	}

	if t, ok := metaType(ev.Message); ok {
		if t == metaLyrics {
			return false // Player doesn't handle lyrics.
		}

		if ep.totalTrackTicks == 0 { // Time-zero meta events
			ep.processTrackName(ev.Message)
			ep.processTimeSignature(ev.Message)
			ep.processTempo(ev.Message, opts)
			ep.processKeySignature(ev.Message)

			if !ep.processCustomMeta(ev.Message, opts) {
				// Custom meta event found and extracted - discard it.
				return false
			}
		}
	}

	if ep.currentTrack == 0 {
		ep.processIntroductionMarkers(ev.Message)
	}

	var key, vel uint8
	if msg.GetNoteStart(&ch, &key, &vel) {
		ep.lastNoteOn = ep.totalTrackTicks
	}
	if msg.GetNoteEnd(&ch, &key) {
		ep.lastNoteOff = ep.totalTrackTicks
	}

	if isMeta(ev.Message, metaEndOfTrack) {
		ep.currentTrack++

		if n := len(ep.introSegments); n > 0 {
			endIntro := ep.introSegments[n-1].End
			if uint32(ep.totalTrackTicks) == endIntro && uint32(ep.lastNoteOff) >= endIntro {
				// The introduction boundary may cut off a still-sounding note.
				ep.potentialStuckNote = true
			}
		}

		ep.totalTrackTicks = 0 // Reset ticks for next track
	}

	return true
}

// finalize fills the defaults once the pass is complete: one verse, a pause
// of one quarter note, and the standard tempo when the file carries none.
func (ep *EventPreProcessor) finalize(ppq int) {
	if ep.verses == 0 {
		ep.verses = defaultVerses
	}
	if ep.pauseTicks.IsNull() {
		ep.pauseTicks.Set(ppq)
	}
	if ep.firstTempo { // No tempo event anywhere in the file.
		ep.usecPerQuarter = defaultTempoUsecPerQuarter
		ep.fileTempo = defaultTempoBPM
		if ep.bpm == 0 {
			ep.bpm = defaultTempoBPM
		}
	}
}

func (ep *EventPreProcessor) processTrackName(msg smf.Message) {
	if isMeta(msg, metaTrackName) && ep.title == "" {
		ep.title = metaText(msg)
	}
}

func (ep *EventPreProcessor) processTimeSignature(msg smf.Message) {
	if !isMeta(msg, metaTimeSignature) {
		return
	}
	data := metaData(msg)
	if len(data) != 4 {
		return
	}
	ep.timeSignature = TimeSignature{
		BeatsPerMeasure:      data[0],
		Denominator:          data[1],
		ClocksPerClick:       data[2],
		N32ndNotesPerQuarter: data[3],
	}
}

func (ep *EventPreProcessor) processTempo(msg smf.Message, opts *Options) {
	if !isMeta(msg, metaTempo) {
		return
	}
	data := metaData(msg)
	if len(data) != 3 {
		return
	}

	// 24-bit big-endian microseconds per quarter note. Only the first tempo
	// event derives the file tempo; later ones are parsed but do not
	// re-trigger derivation.
	ep.usecPerQuarter = int(data[0])<<16 | int(data[1])<<8 | int(data[2])

	if !ep.firstTempo {
		return
	}

	ep.bpm = opts.BPM()
	usecPerBeat := opts.UsecPerBeat()

	if ep.usecPerQuarter > 0 {
		qpm := microsecondsPerMinute / ep.usecPerQuarter
		ep.fileTempo = beatsFromQuarters(qpm, ep.timeSignature.Denominator)
	} else {
		ep.usecPerQuarter = defaultTempoUsecPerQuarter
		ep.fileTempo = defaultTempoBPM
	}

	if ep.bpm > 0 && usecPerBeat > 0 {
		qpm := microsecondsPerMinute / usecPerBeat
		ep.bpm = beatsFromQuarters(qpm, ep.timeSignature.Denominator)
	} else {
		ep.bpm = ep.fileTempo
	}

	ep.firstTempo = false
}

// beatsFromQuarters converts quarter notes per minute to beats per minute in
// the file's beat unit.
func beatsFromQuarters(qpm int, denominator uint8) int {
	return int(float64(qpm) * math.Pow(2, float64(denominator)) / quarterNoteDenominator)
}

func (ep *EventPreProcessor) processKeySignature(msg smf.Message) {
	if !isMeta(msg, metaKeySignature) {
		return
	}
	data := metaData(msg)
	if len(data) != 2 {
		return
	}

	fifths := int(int8(data[0]))
	minor := data[1] != 0

	if minor {
		if idx := fifths + minorKeyOffset; idx >= 0 && idx < len(keySignatures) {
			ep.keySignature = keySignatures[idx] + msgPrinter.Sprintf(" minor")
		}
	} else {
		if idx := fifths + majorKeyOffset; idx >= 0 && idx < len(keySignatures) {
			ep.keySignature = keySignatures[idx]
		}
	}
}

// processCustomMeta extracts verse count and pause length from the private
// sequencer-specific sub-protocol and the deprecated legacy meta types.
// It returns false when a custom event was found so the caller discards it.
func (ep *EventPreProcessor) processCustomMeta(msg smf.Message, opts *Options) bool {
	t, ok := metaType(msg)
	if !ok {
		return true
	}
	data := metaData(msg)

	switch t {
	case metaDeprecatedVerses:
		if ep.verses == 0 && len(data) >= 1 {
			if d, ok := asciiDigit(data[0]); ok {
				ep.verses = d
			}
		}
		if opts.IsVerbose() || opts.DisplayWarnings() {
			msgPrinter.Println(msgPrinter.Sprintf("Warning: Deprecated Meta event for number of verses found"))
		}
		return false

	case metaDeprecatedPause:
		if len(data) >= 2 {
			ep.pauseTicks.Set(int(data[0])<<8 | int(data[1]))
		}
		if opts.IsVerbose() || opts.DisplayWarnings() {
			msgPrinter.Println(msgPrinter.Sprintf("Warning: Deprecated Meta event for pause found"))
		}
		return false

	case metaSequencerSpecific:
		if len(data) < 2 || data[0] != customPrivate {
			return true
		}
		switch data[1] {
		case customNumberOfVerses:
			if ep.verses == 0 && len(data) >= 3 {
				if d, ok := asciiDigit(data[2]); ok {
					ep.verses = d
				}
			}
			return false
		case customPauseBetweenVerses:
			if len(data) >= 4 {
				ep.pauseTicks.Set(int(data[2])<<8 | int(data[3]))
			}
			return false
		}
	}

	return true
}

func (ep *EventPreProcessor) processIntroductionMarkers(msg smf.Message) {
	if !isMeta(msg, metaMarker) {
		return
	}
	switch metaText(msg) {
	case markerIntroBegin:
		ep.introSegments = append(ep.introSegments, IntroductionSegment{
			Start: uint32(ep.totalTrackTicks),
		})
	case markerIntroEnd:
		if n := len(ep.introSegments); n > 0 {
			ep.introSegments[n-1].End = uint32(ep.totalTrackTicks)
		}
	}
}

// shouldLoadControlChange allows NRPN MSB/LSB and Data Entry MSB/LSB through;
// everything else is discarded in favor of the instrument's own controls.
func shouldLoadControlChange(cc uint8) bool {
	switch cc {
	case ccNRPNMSB, ccNRPNLSB, ccDataEntryMSB, ccDataEntryLSB:
		return true
	}
	return false
}

// asciiDigit converts an ASCII digit byte to its value.
func asciiDigit(b byte) (int, bool) {
	if b < '0' || b > '9' {
		return 0, false
	}
	return int(b - '0'), true
}

// Getters for the extracted metadata; valid once the pass completes.

func (ep *EventPreProcessor) Title() string                        { return ep.title }
func (ep *EventPreProcessor) KeySignature() string                 { return ep.keySignature }
func (ep *EventPreProcessor) TimeSignature() TimeSignature         { return ep.timeSignature }
func (ep *EventPreProcessor) IntroSegments() []IntroductionSegment { return ep.introSegments }
func (ep *EventPreProcessor) Verses() int                          { return ep.verses }
func (ep *EventPreProcessor) UsecPerQuarter() int                  { return ep.usecPerQuarter }
func (ep *EventPreProcessor) FileTempo() int                       { return ep.fileTempo }
func (ep *EventPreProcessor) BPM() int                             { return ep.bpm }
func (ep *EventPreProcessor) PauseTicks() MidiTicks                { return ep.pauseTicks }
func (ep *EventPreProcessor) HasPotentialStuckNote() bool          { return ep.potentialStuckNote }
func (ep *EventPreProcessor) IsFirstTempo() bool                   { return ep.firstTempo }
