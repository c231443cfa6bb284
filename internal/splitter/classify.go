package splitter

// Classify sorts notes into channel groups.
//
// With splitDrum, every pitch on the drum channel gets its own group.
// With removeChord, notes of a melodic channel starting on the same tick as the
// group's previous note are collapsed: the longer note wins, and on equal
// length the earlier one is kept.
//
// The input must be ordered by start tick; every group keeps that order.
func Classify(notes []Note, splitDrum, removeChord bool) map[GroupKey][]Note {
	groups := map[GroupKey][]Note{}
	for _, n := range notes {
		if n.Channel == DrumChannel && splitDrum {
			k := GroupKey{Channel: n.Channel, Pitch: n.Pitch, Drum: true}
			groups[k] = append(groups[k], n)
			continue
		}
		k := GroupKey{Channel: n.Channel}
		g := groups[k]
		if removeChord && n.Channel != DrumChannel && len(g) > 0 {
			last := g[len(g)-1]
			if last.Start == n.Start {
				if n.End <= last.End {
					continue
				}
				g = g[:len(g)-1]
			}
		}
		groups[k] = append(g, n)
	}
	return groups
}
