package file

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"filippo.io/age"
	"gitlab.com/gomidi/midi/v2/smf"
)

// EncryptedSuffix marks age encrypted files.
const EncryptedSuffix = ".age"

// ReadInput reads an input file, decrypting it if it has the EncryptedSuffix.
func ReadInput(fsys fs.FS, name, passphrase string) ([]byte, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("could not read %v: %w", name, err)
	}
	if !strings.HasSuffix(name, EncryptedSuffix) {
		return data, nil
	}
	if passphrase == "" {
		return nil, fmt.Errorf("%v is encrypted, but no passphrase was given", name)
	}
	id, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("could not build scrypt identity: %w", err)
	}
	plaintextReader, err := age.Decrypt(bytes.NewReader(data), id)
	if err != nil {
		return nil, fmt.Errorf("could not start decrypting %v: %w", name, err)
	}
	plaintext, err := io.ReadAll(plaintextReader)
	if err != nil {
		return nil, fmt.Errorf("could not finish decrypting %v: %w", name, err)
	}
	return plaintext, nil
}

// ParseSMF parses MIDI file contents.
func ParseSMF(data []byte) (mid *smf.SMF, err error) {
	// The smf reader can panic on malformed input.
	defer func() {
		if r := recover(); r != nil {
			mid, err = nil, fmt.Errorf("could not parse MIDI: %v", r)
		}
	}()
	mid, err = smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("could not parse MIDI: %w", err)
	}
	if mid == nil {
		return nil, errors.New("could not parse MIDI: no data")
	}
	return mid, nil
}
