package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/divVerent/midisplit/internal/splitter"
)

func testGrid(t *testing.T) *splitter.Grid {
	t.Helper()
	song := &splitter.Song{
		TimeDivision: 480,
		Tracks: []splitter.EventTrack{
			{
				splitter.Tempo{BPM: 120},
				splitter.NoteOn{Channel: 0, Pitch: 60, Velocity: 100},
				splitter.NoteOff{Delta: 3840, Channel: 0, Pitch: 60},
				splitter.NoteOn{Channel: 9, Pitch: 36, Velocity: 100},
				splitter.NoteOff{Delta: 120, Channel: 9, Pitch: 36},
			},
		},
	}
	g, err := splitter.Split(splitter.SplitRequest{Song: song, Options: splitter.Options{SplitPoints: []float64{1}}})
	require.NoError(t, err)
	return g
}

func TestPrint(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, NewWith(&sb, language.English, 0).Print(testGrid(t)))
	assert.Equal(t, strings.Join([]string{
		"120.00 bpm, 480 ticks per quarter, 2 groups, 2 segments",
		"bar       0    1",
		"0         1    1",
		"9-36      -    1",
		"all       1    2",
		"",
	}, "\n"), sb.String())
}

func TestPrintLocalized(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, NewWith(&sb, language.German, 0).Print(testGrid(t)))
	assert.True(t, strings.HasPrefix(sb.String(), "120,00 bpm"), sb.String())
}

func TestPrintTruncates(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, NewWith(&sb, language.English, 10).Print(testGrid(t)))
	for _, l := range strings.Split(strings.TrimSuffix(sb.String(), "\n"), "\n") {
		assert.LessOrEqual(t, len([]rune(l)), 10, l)
	}
}
