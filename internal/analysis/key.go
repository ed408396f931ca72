package analysis

import (
	"crypto/sha256"
	"fmt"

	"gopkg.in/yaml.v3"
)

// CacheKey identifies the settings a result depends on. Charts are identified
// by their checksum separately.
func CacheKey(config *Config, options *Options) (string, error) {
	settings := struct {
		Config    `yaml:",inline"`
		NoteSpeed float64 `yaml:"song_note_speed,omitempty"`
		Title     string  `yaml:"title,omitempty"`
	}{
		Config:    *config,
		NoteSpeed: options.NoteSpeed,
		Title:     options.Title,
	}
	// Where results are cached does not change them.
	settings.CacheFile = ""
	data, err := yaml.Marshal(&settings)
	if err != nil {
		return "", fmt.Errorf("could not encode settings: %v", err)
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}
