package file

import (
	"bytes"
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/divVerent/midisplit/internal/splitter"
)

// Encode generates a type 1 MIDI file from a cell.
// The first track only carries the tempo; every cell track becomes one MIDI track.
func Encode(cell *splitter.Cell) (*smf.SMF, error) {
	newMIDI := smf.NewSMF1()
	newMIDI.TimeFormat = smf.MetricTicks(cell.TimeDivision)

	var tempo smf.Track
	tempo.Add(0, smf.MetaTempo(cell.BPM))
	tempo.Close(0)
	err := newMIDI.Add(tempo)
	if err != nil {
		return nil, fmt.Errorf("could not add tempo track: %w", err)
	}

	for _, t := range cell.Tracks {
		var track smf.Track
		track.Add(0, smf.MetaTrackSequenceName(t.Group.String()))
		var trackTime int64
		for _, msg := range t.Messages {
			var m smf.Message
			if msg.On {
				m = smf.Message(midi.NoteOn(t.Channel, msg.Pitch, msg.Velocity))
			} else {
				m = smf.Message(midi.NoteOff(t.Channel, msg.Pitch))
			}
			track = append(track, smf.Event{
				Delta:   uint32(msg.When - trackTime),
				Message: m,
			})
			trackTime = msg.When
		}
		track.Close(0)
		err := newMIDI.Add(track)
		if err != nil {
			return nil, fmt.Errorf("could not add track %v: %w", t.Group, err)
		}
	}
	return newMIDI, nil
}

// EncodeBytes is Encode followed by serialization.
func EncodeBytes(cell *splitter.Cell) ([]byte, error) {
	mid, err := Encode(cell)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	_, err = mid.WriteTo(&buf)
	if err != nil {
		return nil, fmt.Errorf("could not write %v: %w", cell.Name, err)
	}
	return buf.Bytes(), nil
}
