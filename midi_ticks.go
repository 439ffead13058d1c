// midi_ticks.go - Optional MIDI tick count

package main

import "errors"

var errNegativeTicks = errors.New("midi ticks must be a non-negative integer")

// MidiTicks is a tick count that distinguishes "unset" from zero. It carries
// the pause length between playback sections in file-native ticks.
type MidiTicks struct {
	ticks int
	set   bool
}

// NewMidiTicks returns a MidiTicks holding the given count. Negative counts
// are rejected.
func NewMidiTicks(ticks int) (MidiTicks, error) {
	var mt MidiTicks
	if err := mt.Set(ticks); err != nil {
		return MidiTicks{}, err
	}
	return mt, nil
}

// Set stores a new count, rejecting negative values.
func (mt *MidiTicks) Set(ticks int) error {
	if ticks < 0 {
		return errNegativeTicks
	}
	mt.ticks = ticks
	mt.set = true
	return nil
}

// Clear returns the value to the unset state.
func (mt *MidiTicks) Clear() {
	*mt = MidiTicks{}
}

// HasValue reports whether a count has been set.
func (mt MidiTicks) HasValue() bool { return mt.set }

// IsNull reports whether the value is unset.
func (mt MidiTicks) IsNull() bool { return !mt.set }

// Ticks returns the stored count, or 0 when unset.
func (mt MidiTicks) Ticks() int { return mt.ticks }
