package file

import (
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/divVerent/midisplit/internal/splitter"
)

// ReadConfig reads the default split options.
func ReadConfig(fsys fs.FS, configFile string) (*splitter.Options, error) {
	f, err := fsys.Open(configFile)
	if err != nil {
		return nil, fmt.Errorf("could not open: %w", err)
	}
	defer f.Close()
	var config splitter.Options
	err = yaml.NewDecoder(f).Decode(&config)
	if err != nil {
		return nil, fmt.Errorf("could not decode: %w", err)
	}
	return &config, nil
}
