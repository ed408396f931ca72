package file

import (
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/trackfx/trackfx/internal/analysis"
)

// ReadConfig reads a YAML config. Settings it leaves out keep their defaults.
func ReadConfig(fsys fs.FS, configFile string) (*analysis.Config, error) {
	f, err := fsys.Open(configFile)
	if err != nil {
		return nil, fmt.Errorf("could not open: %v", err)
	}
	defer f.Close()
	var config analysis.Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	err = dec.Decode(&config)
	if err != nil {
		return nil, fmt.Errorf("could not decode: %v", err)
	}
	merged := analysis.Merge(analysis.DefaultConfig(), config)
	return &merged, nil
}
