// midi_constants.go - MIDI protocol numbers, custom meta sub-protocol and playback defaults

package main

// Meta event types (second byte of an FF meta message).
const (
	metaTrackName         = 0x03
	metaLyrics            = 0x05
	metaMarker            = 0x06
	metaEndOfTrack        = 0x2F
	metaTempo             = 0x51
	metaTimeSignature     = 0x58
	metaKeySignature      = 0x59
	metaSequencerSpecific = 0x7F

	// Non-standard meta types from older hymn files. Extracted for backward
	// compatibility and always discarded.
	metaDeprecatedVerses = 0x10
	metaDeprecatedPause  = 0x11
)

// Sequencer-specific sub-protocol carried in FF 7F meta events at tick zero
// of track 0. The payload starts with the private-use marker byte followed by
// a one-byte sub-type code.
const (
	customPrivate            = 0x7D
	customNumberOfVerses     = 0x01
	customPauseBetweenVerses = 0x02
)

// Control change numbers retained by the preprocessor. These four are
// reserved for external instrument stop control; every other control change
// is discarded at load time.
const (
	ccBankSelectMSB = 0
	ccDataEntryMSB  = 6
	ccBankSelectLSB = 32
	ccDataEntryLSB  = 38
	ccNRPNLSB       = 98
	ccNRPNMSB       = 99
	ccAllNotesOff   = 123
)

// Marker texts interpreted by the musical director. Compared verbatim against
// the text payload of marker meta events.
const (
	markerIntroBegin = "["
	markerIntroEnd   = "]"
	markerRitardando = `\`
	markerDCAlFine   = "D.C. al Fine"
	markerFine       = "Fine"
)

// Timing constants and playback defaults.
const (
	microsecondsPerMinute  = 60000000
	secondsPerMinute       = 60
	quarterNoteDenominator = 4

	defaultTempoBPM            = 120
	defaultTempoUsecPerQuarter = 500000

	defaultVerses = 1

	verseDisplayOffset = 1
)

// Ritardando tuning. The check interval is in player time-position
// microseconds; the decrement is applied each time the position lands on an
// exact multiple of the interval.
const (
	ritardandoCheckIntervalUsec = 100000
	ritardandoDecrement         = 0.002
)

// Emergency notes-off sweep range: channels 1-3, C2 through C7.
const (
	notesOffFirstChannel = 0
	notesOffLastChannel  = 2
	notesOffFirstKey     = 36 // C2
	notesOffLastKey      = 96 // C7
)

// Process exit codes shared with the wrapper scripts. The interrupt code
// follows the shell convention (128 + SIGINT) so it cannot collide with the
// file-not-found code.
const (
	exitFileNotFound   = 2
	exitDeviceNotFound = 6
	exitInterrupted    = 130
)
