package splitter

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2/smf"
)

// Event is a single delta-timed track entry.
// It is one of NoteOn, NoteOff, Tempo or Other.
type Event interface {
	delta() uint32
}

type NoteOn struct {
	Delta    uint32
	Channel  uint8
	Pitch    uint8
	Velocity uint8
}

type NoteOff struct {
	Delta    uint32
	Channel  uint8
	Pitch    uint8
	Velocity uint8
}

// Tempo is a set tempo meta event.
type Tempo struct {
	Delta uint32
	BPM   float64
}

// Other is any event the splitter does not care about.
type Other struct {
	Delta uint32
}

func (e NoteOn) delta() uint32  { return e.Delta }
func (e NoteOff) delta() uint32 { return e.Delta }
func (e Tempo) delta() uint32   { return e.Delta }
func (e Other) delta() uint32   { return e.Delta }

// EventTrack is one track of a Song, in file order.
type EventTrack []Event

// Song is a parsed MIDI file.
type Song struct {
	// TimeDivision is the number of ticks per quarter note.
	TimeDivision int
	Tracks       []EventTrack
}

// FromSMF converts a parsed standard MIDI file.
func FromSMF(mid *smf.SMF) (*Song, error) {
	ticks, ok := mid.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("%w: got %v", ErrUnsupportedTimeFormat, mid.TimeFormat)
	}
	song := &Song{
		TimeDivision: int(ticks),
		Tracks:       make([]EventTrack, 0, len(mid.Tracks)),
	}
	for _, t := range mid.Tracks {
		track := make(EventTrack, 0, len(t))
		for _, ev := range t {
			track = append(track, fromMessage(ev.Delta, ev.Message))
		}
		song.Tracks = append(song.Tracks, track)
	}
	return song, nil
}

func fromMessage(delta uint32, msg smf.Message) Event {
	var ch, key, vel uint8
	var bpm float64
	switch {
	case msg.GetNoteOn(&ch, &key, &vel):
		return NoteOn{Delta: delta, Channel: ch, Pitch: key, Velocity: vel}
	case msg.GetNoteOff(&ch, &key, &vel):
		return NoteOff{Delta: delta, Channel: ch, Pitch: key, Velocity: vel}
	case msg.GetMetaTempo(&bpm):
		return Tempo{Delta: delta, BPM: bpm}
	}
	return Other{Delta: delta}
}
