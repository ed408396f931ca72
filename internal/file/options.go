package file

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/trackfx/trackfx/internal/analysis"
)

// ReadOptions reads the options of one song. Unknown settings are an error.
func ReadOptions(fsys fs.FS, optionsFile string) (*analysis.Options, error) {
	f, err := fsys.Open(optionsFile)
	if err != nil {
		return nil, fmt.Errorf("could not open %v: %v", optionsFile, err)
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var options analysis.Options
	err = dec.Decode(&options)
	if err != nil {
		return nil, fmt.Errorf("could not decode %v: %v", optionsFile, err)
	}
	if options.InputFile == "" {
		return nil, fmt.Errorf("%v has no input_file", optionsFile)
	}
	return &options, nil
}

// WriteOptions replaces optionsFile. The file is only replaced once the new
// content has been written completely.
func WriteOptions(optionsFile string, options *analysis.Options) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2) // Match yq.
	if err := enc.Encode(options); err != nil {
		return fmt.Errorf("could not encode options: %v", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("could not encode options: %v", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(optionsFile), filepath.Base(optionsFile)+".*")
	if err != nil {
		return fmt.Errorf("could not recreate %v: %v", optionsFile, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("could not write %v: %v", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not write %v: %v", tmp.Name(), err)
	}
	return os.Rename(tmp.Name(), optionsFile)
}
