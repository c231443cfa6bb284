package splitter

import (
	"errors"
)

var (
	// ErrMissingTempo is returned when no track carries a tempo meta event.
	ErrMissingTempo = errors.New("BPM is none: no tempo meta event found")

	// ErrMissingInput is returned when a split is requested without a song.
	ErrMissingInput = errors.New("no MIDI loaded")

	// ErrEmptyTimeline is returned when the song contains no complete notes.
	ErrEmptyTimeline = errors.New("no notes found")

	ErrUnsupportedTimeFormat = errors.New("unsupported time format, expected metric ticks")

	ErrNoSuchCell = errors.New("no such cell")
)
