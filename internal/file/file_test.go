package file

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
	"testing/fstest"

	"filippo.io/age"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/divVerent/midisplit/internal/splitter"
)

// testMIDI returns a song with a two bar note on channel 0 followed by a kick drum.
func testMIDI(t *testing.T) []byte {
	t.Helper()
	var tr smf.Track
	tr.Add(0, smf.MetaTempo(120))
	tr.Add(0, midi.NoteOn(0, 60, 100))
	tr.Add(3840, midi.NoteOff(0, 60))
	tr.Add(0, midi.NoteOn(9, 36, 110))
	tr.Add(120, midi.NoteOff(9, 36))
	tr.Close(0)
	mid := smf.NewSMF1()
	mid.TimeFormat = smf.MetricTicks(480)
	require.NoError(t, mid.Add(tr))
	var buf bytes.Buffer
	_, err := mid.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func testFS(t *testing.T) fstest.MapFS {
	return fstest.MapFS{
		"song.mid":      &fstest.MapFile{Data: testMIDI(t)},
		"song.yml":      &fstest.MapFile{Data: []byte("input_file: song.mid\nsplit_points: [1]\nshift: false\n")},
		"midisplit.yml": &fstest.MapFile{Data: []byte("split_drum: true\nremove_chord: false\nsplit_points: [3]\n")},
	}
}

func TestReadOptionsAndConfig(t *testing.T) {
	fsys := testFS(t)
	options, err := ReadOptions(fsys, "song.yml")
	require.NoError(t, err)
	assert.Equal(t, "song.mid", options.InputFile)
	assert.Equal(t, []float64{1}, options.SplitPoints)
	require.NotNil(t, options.Shift)
	assert.False(t, *options.Shift)
	assert.Nil(t, options.SplitDrum)

	config, err := ReadConfig(fsys, "midisplit.yml")
	require.NoError(t, err)
	assert.True(t, *config.SplitDrum)
	assert.False(t, *config.RemoveChord)
	assert.Equal(t, []float64{3}, config.SplitPoints)

	_, err = ReadOptions(fsys, "missing.yml")
	assert.Error(t, err)
}

func TestProcess(t *testing.T) {
	fsys := testFS(t)
	config, err := ReadConfig(fsys, "midisplit.yml")
	require.NoError(t, err)
	options, err := ReadOptions(fsys, "song.yml")
	require.NoError(t, err)

	grid, err := Process(fsys, config, options, "")
	require.NoError(t, err)
	assert.NotEmpty(t, options.InputFileSHA256)
	// Options override config.
	assert.Equal(t, []int64{0, 1920}, grid.Starts)
	assert.False(t, *grid.Options.Shift)
	assert.False(t, *grid.Options.RemoveChord)
	assert.Equal(t, []splitter.GroupKey{{Channel: 0}, {Channel: 9, Pitch: 36, Drum: true}}, grid.Groups)

	// Second run verifies the checksum.
	_, err = Process(fsys, config, options, "")
	require.NoError(t, err)

	options.InputFileSHA256 = "0000"
	_, err = Process(fsys, config, options, "")
	assert.ErrorContains(t, err, "mismatching checksum")
}

func TestProcessErrors(t *testing.T) {
	fsys := fstest.MapFS{
		"garbage.mid": &fstest.MapFile{Data: []byte("MThd nope")},
	}
	_, err := Process(fsys, nil, &Options{}, "")
	assert.ErrorIs(t, err, splitter.ErrMissingInput)

	_, err = Process(fsys, nil, &Options{InputFile: "missing.mid"}, "")
	assert.Error(t, err)

	_, err = Process(fsys, nil, &Options{InputFile: "garbage.mid"}, "")
	assert.Error(t, err)
}

func TestProcessEncryptedInput(t *testing.T) {
	plain := testMIDI(t)
	recipient, err := age.NewScryptRecipient("hunter2")
	require.NoError(t, err)
	recipient.SetWorkFactor(10)
	var cipher bytes.Buffer
	w, err := age.Encrypt(&cipher, recipient)
	require.NoError(t, err)
	_, err = w.Write(plain)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	fsys := fstest.MapFS{
		"song.mid.age": &fstest.MapFile{Data: cipher.Bytes()},
	}
	_, err = Process(fsys, nil, &Options{InputFile: "song.mid.age"}, "")
	assert.ErrorContains(t, err, "no passphrase")

	_, err = Process(fsys, nil, &Options{InputFile: "song.mid.age"}, "wrong")
	assert.Error(t, err)

	grid, err := Process(fsys, nil, &Options{InputFile: "song.mid.age"}, "hunter2")
	require.NoError(t, err)
	assert.Len(t, grid.Groups, 2)
}

func TestEncodeRoundTrip(t *testing.T) {
	fsys := testFS(t)
	grid, err := Process(fsys, nil, &Options{InputFile: "song.mid", Options: splitter.Options{SplitPoints: []float64{1}}}, "")
	require.NoError(t, err)

	cell, err := grid.Cell(splitter.GroupKey{Channel: 9, Pitch: 36, Drum: true}, 1)
	require.NoError(t, err)
	data, err := EncodeBytes(cell)
	require.NoError(t, err)

	mid, err := ParseSMF(data)
	require.NoError(t, err)
	assert.Len(t, mid.Tracks, 2)
	song, err := splitter.FromSMF(mid)
	require.NoError(t, err)
	assert.Equal(t, 480, song.TimeDivision)
	bpm, err := song.BPM()
	require.NoError(t, err)
	assert.InDelta(t, 120.0, bpm, 1e-6)
	assert.Equal(t, []splitter.Note{
		{Channel: 9, Pitch: 36, Velocity: 110, Start: 0, End: 120},
	}, splitter.Extract(song))

	cell, err = grid.All(1)
	require.NoError(t, err)
	data, err = EncodeBytes(cell)
	require.NoError(t, err)
	mid, err = ParseSMF(data)
	require.NoError(t, err)
	song, err = splitter.FromSMF(mid)
	require.NoError(t, err)
	// Reset leaves the drum group on the drum channel.
	assert.Equal(t, []splitter.Note{
		{Channel: 0, Pitch: 60, Velocity: 100, Start: 0, End: 1920},
		{Channel: 9, Pitch: 36, Velocity: 110, Start: 1920, End: 2040},
	}, splitter.Extract(song))
}

func TestEncodeDeterministic(t *testing.T) {
	fsys := testFS(t)
	options := &Options{InputFile: "song.mid", Options: splitter.Options{SplitPoints: []float64{0.5, 1}}}
	a, err := Process(fsys, nil, options, "")
	require.NoError(t, err)
	b, err := Process(fsys, nil, options, "")
	require.NoError(t, err)
	ca, err := a.Cells()
	require.NoError(t, err)
	cb, err := b.Cells()
	require.NoError(t, err)
	require.Equal(t, len(ca), len(cb))
	for i := range ca {
		da, err := EncodeBytes(ca[i])
		require.NoError(t, err)
		db, err := EncodeBytes(cb[i])
		require.NoError(t, err)
		assert.Equal(t, da, db, ca[i].Name)
	}
}

func TestWriteArchive(t *testing.T) {
	fsys := testFS(t)
	grid, err := Process(fsys, nil, &Options{InputFile: "song.mid", Options: splitter.Options{SplitPoints: []float64{1}}}, "")
	require.NoError(t, err)
	outputs, err := Export(grid)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteArchive(&buf, outputs, ""))
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{
		"midiSplit - 0 at 0.mid",
		"midiSplit - 0 at 1.mid",
		"midiSplit - 9-36 at 1.mid",
		"midiSplit - all at 0.mid",
		"midiSplit - all at 1.mid",
	}, names)
}

func TestWriteArchiveEncrypted(t *testing.T) {
	fsys := testFS(t)
	grid, err := Process(fsys, nil, &Options{InputFile: "song.mid"}, "")
	require.NoError(t, err)
	outputs, err := Export(grid)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteArchive(&buf, outputs, "hunter2"))

	id, err := age.NewScryptIdentity("hunter2")
	require.NoError(t, err)
	r, err := age.Decrypt(bytes.NewReader(buf.Bytes()), id)
	require.NoError(t, err)
	plain, err := io.ReadAll(r)
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(plain), int64(len(plain)))
	require.NoError(t, err)
	assert.Len(t, zr.File, len(outputs))
}
