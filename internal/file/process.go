package file

import (
	"fmt"
	"io/fs"
	"log"

	"github.com/trackfx/trackfx/internal/analysis"
)

// Cache stores analysis results by chart checksum and settings.
type Cache interface {
	Load(sum, key string) (*analysis.Result, bool, error)
	Save(sum, key string, result *analysis.Result) error
}

// Process analyzes the chart options refers to.
//
// If options carries a checksum, the chart must match it. Otherwise the
// checksum gets filled in, so the caller can write the options back.
func Process(fsys fs.FS, config *analysis.Config, options *analysis.Options) (*analysis.Result, error) {
	return ProcessCached(fsys, config, options, nil)
}

// ProcessCached is Process, looking up and storing results in cache if not nil.
func ProcessCached(fsys fs.FS, config *analysis.Config, options *analysis.Options, cache Cache) (*analysis.Result, error) {
	passphrase, err := ReadPassphrase(fsys, options.PassphraseFile)
	if err != nil {
		return nil, err
	}

	song, sum, err := ReadChart(fsys, options.InputFile, passphrase)
	if err != nil {
		return nil, err
	}

	if options.InputFileSHA256 != "" && options.InputFileSHA256 != sum {
		return nil, fmt.Errorf("mismatching checksum of %v: got %v, want %v", options.InputFile, sum, options.InputFileSHA256)
	}
	if options.InputFileSHA256 == "" {
		options.InputFileSHA256 = sum
	}

	var key string
	if cache != nil {
		key, err = analysis.CacheKey(config, options)
		if err != nil {
			return nil, err
		}
		res, found, err := cache.Load(sum, key)
		if err != nil {
			return nil, fmt.Errorf("could not load from cache: %v", err)
		}
		if found {
			log.Printf("Using cached analysis of %v.", options.InputFile)
			return res, nil
		}
	}

	res, err := analysis.Process(song, config, options)
	if err != nil {
		return nil, fmt.Errorf("failed to process: %v", err)
	}
	res.SHA256 = sum

	if cache != nil {
		err := cache.Save(sum, key, res)
		if err != nil {
			return nil, fmt.Errorf("could not save to cache: %v", err)
		}
	}
	return res, nil
}
