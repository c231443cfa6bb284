package splitter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func oneGroup(notes ...Note) map[GroupKey][]Note {
	return map[GroupKey][]Note{{Channel: 0}: notes}
}

func TestBoundariesWithoutSplitPoints(t *testing.T) {
	times, err := Boundaries(480, nil, false, oneGroup(Note{Start: 0, End: 3000}))
	assert.NoError(t, err)
	assert.Equal(t, []int64{0, 3000}, times)
}

func TestBoundariesFilterSortDedup(t *testing.T) {
	groups := map[GroupKey][]Note{
		{Channel: 0}: {{Start: 0, End: 1920 * 3}},
		// The latest end does not have to be the last note of a group.
		{Channel: 1}: {{Start: 0, End: 1920*5 + 7}, {Start: 10, End: 20}},
		{Channel: 2}: nil,
	}
	times, err := Boundaries(480, []float64{4, 0, 2, -1, 2, 6, 0.5, math.NaN(), math.Inf(1)}, false, groups)
	assert.NoError(t, err)
	assert.Equal(t, []int64{0, 960, 1920 * 2, 1920 * 4, 1920*5 + 7}, times)
}

func TestBoundariesOneBased(t *testing.T) {
	times, err := Boundaries(480, []float64{1, 2, 3}, true, oneGroup(Note{Start: 0, End: 1920 * 4}))
	assert.NoError(t, err)
	assert.Equal(t, []int64{0, 1920, 1920 * 2, 1920 * 4}, times)
}

func TestBoundariesSplitPointAtEndIsIgnored(t *testing.T) {
	times, err := Boundaries(480, []float64{1}, false, oneGroup(Note{Start: 0, End: 1920}))
	assert.NoError(t, err)
	assert.Equal(t, []int64{0, 1920}, times)
}

func TestBoundariesEmpty(t *testing.T) {
	_, err := Boundaries(480, []float64{1}, false, map[GroupKey][]Note{{Channel: 0}: nil})
	assert.ErrorIs(t, err, ErrEmptyTimeline)
	_, err = Boundaries(480, nil, false, nil)
	assert.ErrorIs(t, err, ErrEmptyTimeline)
}
