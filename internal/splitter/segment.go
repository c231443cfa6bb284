package splitter

// Segment cuts every group at the given boundaries.
// Segment i is the half-open tick range [times[i], times[i+1]).
// A note is put into the segment containing its start; if it lasts past the
// segment's end, it is clamped there and the rest carries over into the
// following segments, one fragment per segment.
func Segment(groups map[GroupKey][]Note, times []int64) map[GroupKey][][]Note {
	out := make(map[GroupKey][][]Note, len(groups))
	for k, notes := range groups {
		out[k] = segmentNotes(notes, times)
	}
	return out
}

// segmentNotes requires notes ordered by start, all within [times[0], times[len(times)-1]].
func segmentNotes(notes []Note, times []int64) [][]Note {
	segs := make([][]Note, len(times)-1)
	i := 1
	for _, n := range notes {
		for n.Start >= times[i] {
			i++
		}
		j := i
		for n.End > times[j] {
			head := n
			head.End = times[j]
			segs[j-1] = append(segs[j-1], head)
			n.Start = times[j]
			j++
		}
		segs[j-1] = append(segs[j-1], n)
	}
	return segs
}
