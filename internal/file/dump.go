package file

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"

	"github.com/trackfx/trackfx/internal/analysis"
	"github.com/trackfx/trackfx/internal/chart"
)

// DumpChart writes the chart options refers to, decrypted, as a YAML chart.
func DumpChart(fsys fs.FS, options *analysis.Options, outFile string) error {
	passphrase, err := ReadPassphrase(fsys, options.PassphraseFile)
	if err != nil {
		return err
	}
	song, _, err := ReadChart(fsys, options.InputFile, passphrase)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	err = chart.WriteYAML(&buf, song)
	if err != nil {
		return err
	}
	err = os.WriteFile(outFile, buf.Bytes(), 0644)
	if err != nil {
		return fmt.Errorf("could not write %v: %v", outFile, err)
	}
	return nil
}
