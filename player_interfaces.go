// player_interfaces.go - Player and output-port abstractions

package main

// OutputPort is the byte sink the player sends wire messages to. The real
// implementation wraps a hardware MIDI out; tests substitute a recorder.
type OutputPort interface {
	Send(data []byte) error
}

// Player drives timed delivery of loaded MIDI events to an output port. The
// concrete implementation is SyncPlayer; the musical director and the
// orchestrator only see this surface so tests can script playback.
//
// Play, Stop and GoToTick may be called from inside the event callback;
// implementations must not deadlock on re-entry.
type Player interface {
	// Play starts or resumes playback from the current position. It returns
	// once the playback goroutine is running.
	Play()

	// Stop halts playback without invoking the finished callback.
	Stop()

	// Finish halts playback and invokes the finished callback, as if the end
	// of the events had been reached.
	Finish()

	// Rewind returns the position to tick zero.
	Rewind()

	// GoToTick repositions playback at an absolute tick.
	GoToTick(tick uint32)

	// GetSpeed and SetSpeed scale playback rate; 1.0 is the file tempo.
	GetSpeed() float64
	SetSpeed(speed float64)

	// CurrentTimePos reports elapsed playback time in microseconds.
	CurrentTimePos() int64

	// NotesOff silences every channel on the output port.
	NotesOff()

	// SetCallbackEvent installs a hook invoked for each event before it is
	// sent. Returning false suppresses the send.
	SetCallbackEvent(fn func(ev *Event) bool)

	// SetCallbackHeartbeat installs a hook invoked once per dispatch step.
	SetCallbackHeartbeat(fn func())

	// SetCallbackFinished installs a hook invoked when the event stream ends
	// or Finish is called.
	SetCallbackFinished(fn func())
}
