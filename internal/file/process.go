package file

import (
	"crypto/sha256"
	"fmt"
	"io/fs"

	"github.com/divVerent/midisplit/internal/splitter"
)

// Process reads the input file named by options and splits it.
// Options override the config defaults. When options carry no checksum, it is
// filled in from the input.
func Process(fsys fs.FS, config *splitter.Options, options *Options, passphrase string) (*splitter.Grid, error) {
	if options.InputFile == "" {
		return nil, splitter.ErrMissingInput
	}
	inBytes, err := ReadInput(fsys, options.InputFile, passphrase)
	if err != nil {
		return nil, err
	}

	sum := fmt.Sprintf("%x", sha256.Sum256(inBytes))
	if options.InputFileSHA256 != "" && options.InputFileSHA256 != sum {
		return nil, fmt.Errorf("mismatching checksum of %v: got %v, want %v", options.InputFile, sum, options.InputFileSHA256)
	}

	in, err := ParseSMF(inBytes)
	if err != nil {
		return nil, fmt.Errorf("could not parse %v: %w", options.InputFile, err)
	}
	song, err := splitter.FromSMF(in)
	if err != nil {
		return nil, fmt.Errorf("could not load %v: %w", options.InputFile, err)
	}

	var defaults splitter.Options
	if config != nil {
		defaults = *config
	}
	grid, err := splitter.Split(splitter.SplitRequest{
		Song:    song,
		Options: splitter.Merge(defaults, options.Options),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to split %v: %w", options.InputFile, err)
	}

	options.InputFileSHA256 = sum
	return grid, nil
}
