package splitter

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// DrumChannel is the General MIDI percussion channel (channel 10, zero based).
const DrumChannel = 9

// Note is a sounding interval [Start, End) in ticks.
type Note struct {
	Channel  uint8
	Pitch    uint8
	Velocity uint8
	Start    int64
	End      int64
}

// GroupKey identifies a channel group: either a plain channel,
// or a single drum pitch on the drum channel.
type GroupKey struct {
	Channel uint8
	Pitch   uint8
	Drum    bool
}

func (k GroupKey) String() string {
	if k.Drum {
		return fmt.Sprintf("%d-%d", k.Channel, k.Pitch)
	}
	return strconv.Itoa(int(k.Channel))
}

// Compare orders keys by channel, then plain before drum, then pitch.
func (k GroupKey) Compare(o GroupKey) int {
	if c := cmp.Compare(k.Channel, o.Channel); c != 0 {
		return c
	}
	if k.Drum != o.Drum {
		if k.Drum {
			return +1
		}
		return -1
	}
	return cmp.Compare(k.Pitch, o.Pitch)
}

// ParseGroupKey is the inverse of GroupKey.String.
func ParseGroupKey(s string) (GroupKey, error) {
	chStr, pitchStr, drum := strings.Cut(s, "-")
	ch, err := strconv.ParseUint(chStr, 10, 8)
	if err != nil || ch > 15 {
		return GroupKey{}, fmt.Errorf("invalid channel in group %q", s)
	}
	if !drum {
		return GroupKey{Channel: uint8(ch)}, nil
	}
	pitch, err := strconv.ParseUint(pitchStr, 10, 8)
	if err != nil || pitch > 127 {
		return GroupKey{}, fmt.Errorf("invalid pitch in group %q", s)
	}
	return GroupKey{Channel: uint8(ch), Pitch: uint8(pitch), Drum: true}, nil
}
