// player_sync.go - Timed MIDI event dispatch to an output port

package main

import (
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2"
)

// minPlaybackSpeed keeps the sleep arithmetic finite when a ritardando has
// decremented the speed down to or past zero.
const minPlaybackSpeed = 0.001

// timedEvent is an event placed at an absolute tick in the merged schedule.
type timedEvent struct {
	tick uint32
	ev   Event
}

// SyncPlayer schedules loaded events against wall-clock time and delivers
// them to an OutputPort. All tracks are merged into one tick-ordered
// schedule at SetTracks time. Playback runs on an internal goroutine; the
// event, heartbeat and finished callbacks are invoked from that goroutine
// with no locks held, so callbacks are free to call Play, Stop, GoToTick or
// Finish re-entrantly.
//
// A generation counter invalidates the running dispatch goroutine whenever
// Stop or a reposition occurs, so a callback-triggered restart cleanly
// supersedes the goroutine it was called from.
type SyncPlayer struct {
	mu sync.Mutex

	events      []timedEvent
	pos         int
	tickPos     uint32
	posUsec     int64
	ppq         int
	usecPerTick float64
	speed       float64
	playing     bool
	gen         int

	out OutputPort

	onEvent     func(*Event) bool
	onHeartbeat func()
	onFinished  func()
}

// NewSyncPlayer returns a stopped player bound to an output port.
func NewSyncPlayer(out OutputPort) *SyncPlayer {
	const defaultPPQ = 96
	return &SyncPlayer{
		out:         out,
		speed:       1.0,
		ppq:         defaultPPQ,
		usecPerTick: float64(defaultTempoUsecPerQuarter) / defaultPPQ,
	}
}

// SetSchedule installs the merged event schedule, the file resolution in
// ticks per quarter note, and the tick duration in microseconds. Playback
// restarts from tick zero.
func (p *SyncPlayer) SetSchedule(events []timedEvent, ppq, usecPerTick int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.playing = false
	p.events = events
	p.pos = 0
	p.tickPos = 0
	p.posUsec = 0
	if ppq > 0 {
		p.ppq = ppq
	}
	if usecPerTick > 0 {
		p.usecPerTick = float64(usecPerTick)
	}
}

// SetTracks merges per-track event lists into a single tick-ordered schedule.
// Relative order of simultaneous events follows track order.
func (p *SyncPlayer) SetTracks(tracks [][]Event, ppq, usecPerTick int) {
	var merged []timedEvent
	for _, track := range tracks {
		abs := uint32(0)
		var trackEvents []timedEvent
		for _, ev := range track {
			abs += ev.Delta
			trackEvents = append(trackEvents, timedEvent{tick: abs, ev: ev})
		}
		merged = mergeSchedules(merged, trackEvents)
	}
	p.SetSchedule(merged, ppq, usecPerTick)
}

// mergeSchedules merges two tick-sorted schedules, keeping a's events first
// on ties.
func mergeSchedules(a, b []timedEvent) []timedEvent {
	if len(a) == 0 {
		return b
	}
	out := make([]timedEvent, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i].tick <= b[j].tick {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// Play starts or resumes dispatch from the current position.
func (p *SyncPlayer) Play() {
	p.mu.Lock()
	if p.playing {
		p.mu.Unlock()
		return
	}
	p.gen++
	p.playing = true
	g := p.gen
	p.mu.Unlock()

	go p.dispatch(g)
}

// Stop halts dispatch. The finished callback is not invoked.
func (p *SyncPlayer) Stop() {
	p.mu.Lock()
	p.gen++
	p.playing = false
	p.mu.Unlock()
}

// Finish halts dispatch and invokes the finished callback.
func (p *SyncPlayer) Finish() {
	p.mu.Lock()
	p.gen++
	p.playing = false
	fin := p.onFinished
	p.mu.Unlock()

	if fin != nil {
		fin()
	}
}

// Rewind returns the schedule to tick zero and resets elapsed time.
func (p *SyncPlayer) Rewind() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.pos = 0
	p.tickPos = 0
	p.posUsec = 0
}

// GoToTick repositions the schedule cursor at the first event at or after
// the given tick. Elapsed time keeps accumulating across the jump.
func (p *SyncPlayer) GoToTick(tick uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.pos = 0
	for p.pos < len(p.events) && p.events[p.pos].tick < tick {
		p.pos++
	}
	p.tickPos = tick
}

func (p *SyncPlayer) GetSpeed() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.speed
}

func (p *SyncPlayer) SetSpeed(speed float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.speed = speed
}

// CurrentTimePos reports accumulated playback time in microseconds.
func (p *SyncPlayer) CurrentTimePos() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.posUsec
}

// NotesOff sends All Notes Off on every MIDI channel.
func (p *SyncPlayer) NotesOff() {
	for ch := uint8(0); ch < 16; ch++ {
		p.out.Send(midi.ControlChange(ch, ccAllNotesOff, 0).Bytes())
	}
}

func (p *SyncPlayer) SetCallbackEvent(fn func(ev *Event) bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onEvent = fn
}

func (p *SyncPlayer) SetCallbackHeartbeat(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onHeartbeat = fn
}

func (p *SyncPlayer) SetCallbackFinished(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onFinished = fn
}

// dispatch walks the schedule for generation g: sleep the tick delta to the
// next event, account the elapsed time, fire the heartbeat, then deliver the
// event. The generation check after every sleep and callback detects
// supersession by Stop, Rewind, GoToTick or a new Play.
func (p *SyncPlayer) dispatch(g int) {
	for {
		p.mu.Lock()
		if p.gen != g || !p.playing {
			p.mu.Unlock()
			return
		}
		if p.pos >= len(p.events) {
			p.playing = false
			fin := p.onFinished
			p.mu.Unlock()
			if fin != nil {
				fin()
			}
			return
		}

		te := p.events[p.pos]
		delta := te.tick - p.tickPos
		speed := p.speed
		if speed < minPlaybackSpeed {
			speed = minPlaybackSpeed
		}
		waitUsec := int64(float64(delta) * p.usecPerTick / speed)
		p.mu.Unlock()

		if waitUsec > 0 {
			time.Sleep(time.Duration(waitUsec) * time.Microsecond)
		}

		p.mu.Lock()
		if p.gen != g || !p.playing {
			p.mu.Unlock()
			return
		}
		p.posUsec += waitUsec
		p.tickPos = te.tick
		p.pos++

		// Retained mid-file tempo changes reshape the remaining schedule.
		if isMeta(te.ev.Message, metaTempo) {
			if data := metaData(te.ev.Message); len(data) == 3 {
				usecPerQuarter := int(data[0])<<16 | int(data[1])<<8 | int(data[2])
				if usecPerQuarter > 0 {
					p.usecPerTick = float64(usecPerQuarter / p.ppq)
				}
			}
		}

		cbEvent := p.onEvent
		cbHeartbeat := p.onHeartbeat
		p.mu.Unlock()

		if cbHeartbeat != nil {
			cbHeartbeat()
		}

		ev := te.ev
		send := true
		if cbEvent != nil {
			send = cbEvent(&ev)
		}
		if send && !isMetaAny(ev.Message) {
			p.out.Send([]byte(ev.Message))
		}
	}
}
