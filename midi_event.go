// midi_event.go - Timed MIDI events and raw meta-event access

package main

import (
	"gitlab.com/gomidi/midi/v2/smf"
)

// Event is a single timed event from a loaded MIDI file. Delta is the tick
// distance from the previous event in the same track. Message holds the raw
// message bytes in smf storage form; meta events are stored as
// 0xFF, type, payload.
type Event struct {
	Delta   uint32
	Message smf.Message
}

// metaType returns the meta type byte of a meta message, or false when the
// message is not a meta event.
func metaType(msg smf.Message) (byte, bool) {
	if len(msg) < 2 || msg[0] != 0xFF {
		return 0, false
	}
	return msg[1], true
}

// isMetaAny reports whether msg is a meta event of any type. Meta events are
// file-structure data and are never sent on the wire.
func isMetaAny(msg smf.Message) bool {
	_, ok := metaType(msg)
	return ok
}

// isMeta reports whether msg is a meta event of the given type.
func isMeta(msg smf.Message, typ byte) bool {
	t, ok := metaType(msg)
	return ok && t == typ
}

// metaData returns the payload of a meta message, nil for non-meta messages.
func metaData(msg smf.Message) []byte {
	if _, ok := metaType(msg); !ok {
		return nil
	}
	return msg[2:]
}

// metaText returns the text payload of a text-bearing meta event such as a
// marker or track name.
func metaText(msg smf.Message) string {
	return string(metaData(msg))
}

// isMarkerText reports whether msg is a marker meta event whose text equals
// text exactly.
func isMarkerText(msg smf.Message, text string) bool {
	return isMeta(msg, metaMarker) && metaText(msg) == text
}
