package splitter

import (
	"log"
)

// DumpGrid logs the grid layout in concise form.
func DumpGrid(prefix string, g *Grid) {
	log.Printf("%s: %f bpm, %d ticks per quarter, %d groups, %d segments.", prefix, g.BPM, g.TimeDivision, len(g.Groups), g.NumSegments())
	for i, start := range g.Starts {
		end := g.End
		if i+1 < len(g.Starts) {
			end = g.Starts[i+1]
		}
		log.Printf("%s: segment %d: bar %s @ %d..%d.", prefix, i, formatBar(g.Bar(i)), start, end)
	}
	for _, k := range g.Groups {
		counts := make([]int, g.NumSegments())
		for i := range counts {
			counts[i] = len(g.cells[k][i])
		}
		log.Printf("%s: group %v: notes per segment %v.", prefix, k, counts)
	}
}
