package analysis

import (
	"github.com/trackfx/trackfx/internal/chart"
	"github.com/trackfx/trackfx/internal/effect"
)

// Config holds the settings shared by all analyses.
type Config struct {
	// NoteSpeed is the highway scroll speed the effects are sliced for.
	NoteSpeed float64 `yaml:"note_speed,omitempty"`

	// TransitionScale is the on-highway length of a transition fade.
	TransitionScale float64 `yaml:"transition_scale,omitempty"`

	// Instruments restricts the analysis to these instruments. Empty means all.
	Instruments []chart.Instrument `yaml:"instruments,omitempty"`

	// CacheFile is the SQLite database caching analysis results.
	CacheFile string `yaml:"cache_file,omitempty"`

	// Validate checks every sliced effect list before returning it.
	Validate bool `yaml:"validate,omitempty"`
}

const DefaultNoteSpeed = 7.0

func DefaultConfig() Config {
	return Config{
		NoteSpeed:       DefaultNoteSpeed,
		TransitionScale: effect.DefaultTransitionScale,
		CacheFile:       "trackfx-cache.sqlite",
	}
}

// Options holds the settings of a single song.
type Options struct {
	// InputFile is the chart to analyze: .mid, .midi, .yml or .yaml, optionally
	// followed by .age.
	InputFile string `yaml:"input_file"`

	// InputFileSHA256 is the expected checksum of the decrypted chart.
	InputFileSHA256 string `yaml:"input_file_sha256,omitempty"`

	// PassphraseFile contains the passphrase of an encrypted chart.
	PassphraseFile string `yaml:"passphrase_file,omitempty"`

	// Title overrides the song name from the chart.
	Title string `yaml:"title,omitempty"`

	// NoteSpeed overrides the configured note speed for this song.
	NoteSpeed float64 `yaml:"note_speed,omitempty"`
}
