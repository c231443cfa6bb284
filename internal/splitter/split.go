package splitter

import (
	"fmt"
	"slices"
	"strconv"
)

// Options controls how a song is split. Nil fields take their default.
type Options struct {
	// SplitDrum gives every drum pitch its own group.
	SplitDrum *bool `yaml:"split_drum,omitempty" json:"split_drum,omitempty"`

	// RemoveChord reduces melodic channels to one note per start tick.
	RemoveChord *bool `yaml:"remove_chord,omitempty" json:"remove_chord,omitempty"`

	// Shift removes leading silence of every exported cell.
	Shift *bool `yaml:"shift,omitempty" json:"shift,omitempty"`

	// Reset renumbers channels of the all channels row.
	Reset *bool `yaml:"reset,omitempty" json:"reset,omitempty"`

	// SplitPoints are the bars to cut at.
	SplitPoints []float64 `yaml:"split_points,omitempty,flow" json:"split_points,omitempty"`

	// OneBasedSplitPoints makes split point n cut before bar n rather than at bar n.
	OneBasedSplitPoints *bool `yaml:"one_based_split_points,omitempty" json:"one_based_split_points,omitempty"`
}

func ptr[T any](v T) *T {
	return &v
}

// DefaultOptions returns the options used for every unset field.
func DefaultOptions() Options {
	return Options{
		SplitDrum:           ptr(true),
		RemoveChord:         ptr(true),
		Shift:               ptr(true),
		Reset:               ptr(true),
		OneBasedSplitPoints: ptr(false),
	}
}

// Resolve fills all unset fields with defaults.
func (o Options) Resolve() Options {
	return Merge(DefaultOptions(), o)
}

// SplitRequest is everything a split depends on.
type SplitRequest struct {
	Song    *Song
	Options Options
}

// Grid is the result of a split: notes per channel group and time segment.
type Grid struct {
	BPM          float64
	TimeDivision int

	// Options are the resolved options the grid was made with.
	Options Options

	// Groups lists all channel groups in order.
	Groups []GroupKey

	// Starts are the segment start ticks; segment i ends where segment i+1 starts.
	Starts []int64

	// End is the end tick of the last segment.
	End int64

	cells map[GroupKey][][]Note
}

// Split runs the full pipeline. It either fails or returns a complete grid.
func Split(req SplitRequest) (*Grid, error) {
	if req.Song == nil {
		return nil, ErrMissingInput
	}
	opts := req.Options.Resolve()
	bpm, err := req.Song.BPM()
	if err != nil {
		return nil, err
	}
	if req.Song.TimeDivision <= 0 {
		return nil, fmt.Errorf("%w: time division %d", ErrUnsupportedTimeFormat, req.Song.TimeDivision)
	}
	notes := Extract(req.Song)
	groups := Classify(notes, *opts.SplitDrum, *opts.RemoveChord)
	times, err := Boundaries(req.Song.TimeDivision, opts.SplitPoints, *opts.OneBasedSplitPoints, groups)
	if err != nil {
		return nil, err
	}
	keys := make([]GroupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, GroupKey.Compare)
	return &Grid{
		BPM:          bpm,
		TimeDivision: req.Song.TimeDivision,
		Options:      opts,
		Groups:       keys,
		Starts:       times[:len(times)-1],
		End:          times[len(times)-1],
		cells:        Segment(groups, times),
	}, nil
}

// NumSegments returns the number of time segments.
func (g *Grid) NumSegments() int {
	return len(g.Starts)
}

// Bar returns the bar number segment i starts at, in the configured numbering.
func (g *Grid) Bar(i int) float64 {
	bar := float64(g.Starts[i]) / float64(barTicks(g.TimeDivision))
	if *g.Options.OneBasedSplitPoints {
		bar++
	}
	return bar
}

func formatBar(bar float64) string {
	return strconv.FormatFloat(bar, 'f', -1, 64)
}

// Notes returns the notes of one cell. The slice must not be modified.
func (g *Grid) Notes(key GroupKey, segment int) ([]Note, error) {
	segs, found := g.cells[key]
	if !found {
		return nil, fmt.Errorf("%w: unknown group %v", ErrNoSuchCell, key)
	}
	if segment < 0 || segment >= len(segs) {
		return nil, fmt.Errorf("%w: segment %d out of range [0, %d)", ErrNoSuchCell, segment, len(segs))
	}
	return segs[segment], nil
}

func (g *Grid) newCell(name string, segment int, tracks []Track) *Cell {
	if *g.Options.Shift {
		shiftToZero(tracks)
	}
	return &Cell{
		Name:         fmt.Sprintf("midiSplit - %s at %s.mid", name, formatBar(g.Bar(segment))),
		Segment:      segment,
		Origin:       g.Starts[segment],
		Tracks:       tracks,
		BPM:          g.BPM,
		TimeDivision: g.TimeDivision,
	}
}

// Cell assembles the cell of one channel group and segment.
func (g *Grid) Cell(key GroupKey, segment int) (*Cell, error) {
	notes, err := g.Notes(key, segment)
	if err != nil {
		return nil, err
	}
	tracks := []Track{
		{
			Group:    key,
			Channel:  key.Channel,
			Messages: toMessages(notes, g.Starts[segment]),
		},
	}
	return g.newCell(key.String(), segment, tracks), nil
}

// AllName is the group name of the all channels row.
const AllName = "all"

// resetChannel returns the channel of the i-th melodic group when renumbering.
// The drum channel is skipped, so channels wrap after NumChannels-1 groups.
func resetChannel(i int) uint8 {
	ch := uint8(i % (NumChannels - 1))
	if ch >= DrumChannel {
		ch++
	}
	return ch
}

// All assembles the all channels cell of a segment: one track per group with
// notes in that segment. With Reset, melodic groups are renumbered by their
// position among the melodic groups in Groups, leaving out the drum channel;
// groups of the drum channel stay on it.
func (g *Grid) All(segment int) (*Cell, error) {
	if segment < 0 || segment >= g.NumSegments() {
		return nil, fmt.Errorf("%w: segment %d out of range [0, %d)", ErrNoSuchCell, segment, g.NumSegments())
	}
	var tracks []Track
	melodic := 0
	for _, k := range g.Groups {
		ch := k.Channel
		if *g.Options.Reset && k.Channel != DrumChannel {
			ch = resetChannel(melodic)
			melodic++
		}
		notes := g.cells[k][segment]
		if len(notes) == 0 {
			continue
		}
		tracks = append(tracks, Track{
			Group:    k,
			Channel:  ch,
			Messages: toMessages(notes, g.Starts[segment]),
		})
	}
	return g.newCell(AllName, segment, tracks), nil
}

// Cells assembles every cell of the grid: row by row in group order, then the
// all channels row. Cells without notes are skipped.
func (g *Grid) Cells() ([]*Cell, error) {
	var cells []*Cell
	for _, k := range g.Groups {
		for i := range g.NumSegments() {
			c, err := g.Cell(k, i)
			if err != nil {
				return nil, err
			}
			if c.Empty() {
				continue
			}
			cells = append(cells, c)
		}
	}
	for i := range g.NumSegments() {
		c, err := g.All(i)
		if err != nil {
			return nil, err
		}
		if c.Empty() {
			continue
		}
		cells = append(cells, c)
	}
	return cells, nil
}
