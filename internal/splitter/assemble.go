package splitter

import (
	"cmp"
	"slices"
)

// NumChannels is the number of MIDI channels.
const NumChannels = 16

// Message is a note on or note off, timed relative to its cell's origin.
type Message struct {
	When     int64
	On       bool
	Pitch    uint8
	Velocity uint8
}

// Track is one channel's worth of messages of a cell.
type Track struct {
	Group    GroupKey
	Channel  uint8
	Messages []Message
}

// Cell is one exportable grid entry.
type Cell struct {
	// Name is the suggested file name.
	Name string

	// Segment is the index of the time segment.
	Segment int

	// Origin is the absolute tick the messages are relative to, before shifting.
	Origin int64

	Tracks       []Track
	BPM          float64
	TimeDivision int
}

// Empty returns whether the cell contains no notes at all.
func (c *Cell) Empty() bool {
	for _, t := range c.Tracks {
		if len(t.Messages) > 0 {
			return false
		}
	}
	return true
}

// toMessages converts notes to a time ordered on/off message list relative to origin.
func toMessages(notes []Note, origin int64) []Message {
	msgs := make([]Message, 0, 2*len(notes))
	for _, n := range notes {
		msgs = append(msgs,
			Message{
				When:     n.Start - origin,
				On:       true,
				Pitch:    n.Pitch,
				Velocity: n.Velocity,
			},
			Message{
				When:  n.End - origin,
				Pitch: n.Pitch,
			})
	}
	sortNoteOffFirst(msgs)
	return msgs
}

// sortNoteOffFirst sorts by time; within a tick, note off events go first so
// that a note ending where the next one starts does not cut it off.
func sortNoteOffFirst(msgs []Message) {
	slices.SortStableFunc(msgs, func(a, b Message) int {
		if c := cmp.Compare(a.When, b.When); c != 0 {
			return c
		}
		if a.On == b.On {
			return 0
		}
		if a.On {
			return +1
		}
		return -1
	})
}

// shiftToZero moves all tracks earlier so the first message is at tick 0.
func shiftToZero(tracks []Track) {
	first := int64(-1)
	for _, t := range tracks {
		if len(t.Messages) == 0 {
			continue
		}
		if when := t.Messages[0].When; first < 0 || when < first {
			first = when
		}
	}
	if first <= 0 {
		return
	}
	for _, t := range tracks {
		for i := range t.Messages {
			t.Messages[i].When -= first
		}
	}
}
