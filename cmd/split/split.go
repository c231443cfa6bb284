package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/divVerent/midisplit/internal/file"
	"github.com/divVerent/midisplit/internal/report"
	"github.com/divVerent/midisplit/internal/splitter"
	"github.com/divVerent/midisplit/internal/version"
)

// optionalBool is a boolean flag that stays nil unless given.
type optionalBool struct {
	v **bool
}

func (b optionalBool) String() string {
	if b.v == nil || *b.v == nil {
		return ""
	}
	return strconv.FormatBool(**b.v)
}

func (b optionalBool) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*b.v = &v
	return nil
}

func (b optionalBool) IsBoolFlag() bool {
	return true
}

var overrides splitter.Options

var (
	c           = flag.String("c", "midisplit.yml", "config file name (YAML) with default options; ignored if missing")
	i           = flag.String("i", "", "input file name: options (YAML), or a MIDI file (.mid, optionally .age encrypted)")
	split       = flag.String("split", "", "bars to split at, of the form n n n ...")
	oDir        = flag.String("o_dir", ".", "directory to write one MIDI file per cell to")
	zipOut      = flag.String("zip", "", "write all cells into this zip file instead")
	passphrase  = flag.String("passphrase", os.Getenv("MIDISPLIT_PASSPHRASE"), "passphrase for .age inputs; if set, the -zip output is encrypted too")
	addChecksum = flag.Bool("add_checksum", false, "automatically add checksum to the input YAML")
	dryRun      = flag.Bool("n", false, "only print the grid, do not write anything")
	dump        = flag.Bool("dump", false, "log the grid layout")
	showVersion = flag.Bool("version", false, "print the version and exit")
)

func init() {
	flag.Var(optionalBool{&overrides.SplitDrum}, "split_drum", "split the drum channel per pitch")
	flag.Var(optionalBool{&overrides.RemoveChord}, "remove_chord", "reduce chords to their longest note")
	flag.Var(optionalBool{&overrides.Shift}, "shift", "remove leading silence of every cell")
	flag.Var(optionalBool{&overrides.Reset}, "reset", "renumber channels of the all channels row")
	flag.Var(optionalBool{&overrides.OneBasedSplitPoints}, "one_based", "split point n cuts before bar n instead of at bar n")
}

func parseSplitPoints(s string) ([]float64, error) {
	var points []float64
	for _, item := range strings.Fields(s) {
		p, err := strconv.ParseFloat(item, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse -split: %q is not a number", item)
		}
		points = append(points, p)
	}
	return points, nil
}

func readConfig(name string) (*splitter.Options, error) {
	if name == "" {
		return nil, nil
	}
	config, err := file.ReadConfig(os.DirFS(filepath.Dir(name)), filepath.Base(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return config, err
}

// inputFS returns where to read an input file named in an options file from.
// Relative names are relative to the options file's directory dir; absolute
// names and names leaving dir are allowed too.
func inputFS(dir, name string) (fs.FS, string) {
	if !filepath.IsAbs(name) {
		name = filepath.Join(dir, name)
	}
	return os.DirFS(filepath.Dir(name)), filepath.Base(name)
}

func isOptionsFile(name string) bool {
	ext := filepath.Ext(name)
	return ext == ".yml" || ext == ".yaml"
}

func Main() error {
	if *i == "" {
		return errors.New("no input file given, use -i")
	}

	config, err := readConfig(*c)
	if err != nil {
		return fmt.Errorf("failed to read config: %v", err)
	}

	dir, base := filepath.Dir(*i), filepath.Base(*i)
	fsys := os.DirFS(dir)

	var options *file.Options
	if isOptionsFile(base) {
		options, err = file.ReadOptions(fsys, base)
		if err != nil {
			return fmt.Errorf("failed to read options: %v", err)
		}
	} else {
		options = &file.Options{InputFile: base}
	}

	overrides.SplitPoints, err = parseSplitPoints(*split)
	if err != nil {
		return err
	}
	// Flags apply to this run only; they are not written back.
	merged := *options
	merged.Options = splitter.Merge(options.Options, overrides)

	inFS := fsys
	if merged.InputFile != "" {
		inFS, merged.InputFile = inputFS(dir, merged.InputFile)
	}

	grid, err := file.Process(inFS, config, &merged, *passphrase)
	if err != nil {
		return fmt.Errorf("failed to process: %v", err)
	}

	if *dump {
		splitter.DumpGrid("grid", grid)
	}
	err = report.New(os.Stdout).Print(grid)
	if err != nil {
		return fmt.Errorf("failed to print grid: %v", err)
	}
	if *dryRun {
		return nil
	}

	outputs, err := file.Export(grid)
	if err != nil {
		return fmt.Errorf("failed to export: %v", err)
	}
	if *zipOut != "" {
		err = file.WriteArchiveFile(*zipOut, outputs, *passphrase)
		if err != nil {
			return fmt.Errorf("failed to write %v: %v", *zipOut, err)
		}
		log.Printf("wrote %d cells to %v", len(outputs), *zipOut)
	} else {
		err = file.WriteFiles(*oDir, outputs)
		if err != nil {
			return err
		}
	}

	if options.InputFileSHA256 == "" && *addChecksum && isOptionsFile(base) {
		options.InputFileSHA256 = merged.InputFileSHA256
		err := file.WriteOptions(*i, options)
		if err != nil {
			return fmt.Errorf("failed to write %v: %v", *i, err)
		}
	}

	return nil
}

func main() {
	flag.Parse()
	if *showVersion {
		fmt.Println(version.Version())
		return
	}
	err := Main()
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
