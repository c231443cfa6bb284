package file

import (
	"archive/zip"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"filippo.io/age"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/divVerent/midisplit/internal/splitter"
)

// Output is one exported MIDI file.
type Output struct {
	Name string
	MIDI *smf.SMF
}

// Export encodes every non-empty cell of the grid.
func Export(grid *splitter.Grid) ([]Output, error) {
	cells, err := grid.Cells()
	if err != nil {
		return nil, err
	}
	outputs := make([]Output, 0, len(cells))
	for _, cell := range cells {
		mid, err := Encode(cell)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, Output{Name: cell.Name, MIDI: mid})
	}
	return outputs, nil
}

// WriteFiles writes every output into dir.
func WriteFiles(dir string, outputs []Output) error {
	for _, out := range outputs {
		name := filepath.Join(dir, out.Name)
		err := out.MIDI.WriteFile(name)
		if err != nil {
			return fmt.Errorf("failed to write %v: %w", name, err)
		}
		log.Printf("wrote %v", name)
	}
	return nil
}

// WriteArchive writes all outputs as a zip archive.
// With a passphrase, the archive is age encrypted.
func WriteArchive(w io.Writer, outputs []Output, passphrase string) (err error) {
	if passphrase != "" {
		enc, encErr := encrypt(w, passphrase)
		if encErr != nil {
			return encErr
		}
		defer func() {
			closeErr := enc.Close()
			if closeErr != nil && err == nil {
				err = fmt.Errorf("could not finish encrypting: %w", closeErr)
			}
		}()
		w = enc
	}
	zw := zip.NewWriter(w)
	for _, out := range outputs {
		f, err := zw.Create(out.Name)
		if err != nil {
			return fmt.Errorf("could not add %v: %w", out.Name, err)
		}
		_, err = out.MIDI.WriteTo(f)
		if err != nil {
			return fmt.Errorf("could not write %v: %w", out.Name, err)
		}
	}
	return zw.Close()
}

func encrypt(w io.Writer, passphrase string) (io.WriteCloser, error) {
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return nil, fmt.Errorf("could not build scrypt recipient: %w", err)
	}
	enc, err := age.Encrypt(w, recipient)
	if err != nil {
		return nil, fmt.Errorf("could not start encrypting: %w", err)
	}
	return enc, nil
}

// WriteArchiveFile is WriteArchive into a newly created file.
func WriteArchiveFile(name string, outputs []Output, passphrase string) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("could not create %v: %w", name, err)
	}
	defer func() {
		closeErr := f.Close()
		if closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return WriteArchive(f, outputs, passphrase)
}
