package splitter

import (
	"math"
	"slices"
)

// BeatsPerBar is fixed; all songs are treated as 4/4.
const BeatsPerBar = 4

// barTicks returns the length of one bar.
func barTicks(timeDivision int) int64 {
	return int64(timeDivision) * BeatsPerBar
}

// lastEnd returns the latest note end over all groups.
func lastEnd(groups map[GroupKey][]Note) (int64, bool) {
	var end int64
	found := false
	for _, notes := range groups {
		for _, n := range notes {
			if !found || n.End > end {
				end = n.End
				found = true
			}
		}
	}
	return end, found
}

// Boundaries computes the sorted segment boundaries in ticks: 0, then every
// valid split point, then the end of the last note.
//
// Split points are bar numbers; a point p cuts at the start of bar p counted
// from zero, or from one if oneBased is set. Fractional bars are allowed and
// rounded to the nearest tick. Points outside the song are ignored.
func Boundaries(timeDivision int, splitPoints []float64, oneBased bool, groups map[GroupKey][]Note) ([]int64, error) {
	end, found := lastEnd(groups)
	if !found {
		return nil, ErrEmptyTimeline
	}
	bar := barTicks(timeDivision)
	var cuts []int64
	for _, p := range splitPoints {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			continue
		}
		if oneBased {
			p--
		}
		tick := int64(math.Round(p * float64(bar)))
		if tick <= 0 || tick >= end {
			continue
		}
		cuts = append(cuts, tick)
	}
	slices.Sort(cuts)
	cuts = slices.Compact(cuts)
	times := make([]int64, 0, len(cuts)+2)
	times = append(times, 0)
	times = append(times, cuts...)
	return append(times, end), nil
}
