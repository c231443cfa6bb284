package splitter

import (
	"cmp"
	"slices"
)

// noteTracker pairs the note on and note off events of a single track.
// Notes are keyed by pitch only; a new note on replaces a still open note.
type noteTracker struct {
	open map[uint8]Note
}

func newNoteTracker() *noteTracker {
	return &noteTracker{
		open: map[uint8]Note{},
	}
}

// Handle processes one event at absolute time tick and returns the note it completed, if any.
func (t *noteTracker) Handle(tick int64, ev Event) (Note, bool) {
	switch e := ev.(type) {
	case NoteOn:
		if e.Velocity == 0 {
			return t.release(tick, e.Pitch)
		}
		t.open[e.Pitch] = Note{
			Channel:  e.Channel,
			Pitch:    e.Pitch,
			Velocity: e.Velocity,
			Start:    tick,
		}
	case NoteOff:
		return t.release(tick, e.Pitch)
	case Tempo, Other:
		// Not note related.
	}
	return Note{}, false
}

func (t *noteTracker) release(tick int64, pitch uint8) (Note, bool) {
	n, found := t.open[pitch]
	if !found {
		return Note{}, false
	}
	delete(t.open, pitch)
	n.End = tick
	if n.End <= n.Start {
		// Zero length; nothing ever sounded.
		return Note{}, false
	}
	return n, true
}

// Extract returns all complete notes of the song, ordered by start tick.
// Notes starting at the same tick keep their track and event order.
// Notes that are never released are dropped.
//
// Every track starts at tick 0; deltas do not carry over from the previous track.
func Extract(song *Song) []Note {
	var notes []Note
	for _, t := range song.Tracks {
		tracker := newNoteTracker()
		var tick int64
		for _, ev := range t {
			tick += int64(ev.delta())
			n, done := tracker.Handle(tick, ev)
			if done {
				notes = append(notes, n)
			}
		}
	}
	slices.SortStableFunc(notes, func(a, b Note) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return notes
}
