package analysis

import (
	"fmt"
	"log"
	"slices"

	"github.com/trackfx/trackfx/internal/chart"
	"github.com/trackfx/trackfx/internal/effect"
	"github.com/trackfx/trackfx/internal/unison"
)

// Position is a place in the chart, both in seconds and in bars.
type Position struct {
	Time float64 `json:"time"`
	// Bar and Beat are zero-based; HasBar is false when the chart has no tempo map.
	Bar    int     `json:"bar"`
	Beat   float64 `json:"beat"`
	HasBar bool    `json:"has_bar"`
}

// Unison is a star power phrase shared with another instrument.
type Unison struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type InstrumentResult struct {
	Instrument chart.Instrument `json:"instrument"`
	Difficulty chart.Difficulty `json:"difficulty"`

	// StarPower is the number of star power phrases of the instrument.
	StarPower int `json:"star_power"`

	Unisons []Unison          `json:"unisons"`
	Effects []effect.Interval `json:"effects"`
}

// Result is the analysis of one song.
type Result struct {
	Title       string             `json:"title"`
	SHA256      string             `json:"sha256,omitempty"`
	NoteSpeed   float64            `json:"note_speed"`
	Instruments []InstrumentResult `json:"instruments"`
}

func position(song *chart.Song, time float64, tick uint32) Position {
	bar, beat, ok := song.BarBeat(tick)
	return Position{Time: time, Bar: bar, Beat: beat, HasBar: ok}
}

// Process finds the unisons and track effects of every instrument of song.
func Process(song *chart.Song, config *Config, options *Options) (*Result, error) {
	tracks := song.Tracks()
	if len(tracks) == 0 {
		return nil, chart.ErrNoTracks
	}
	noteSpeed := config.NoteSpeed
	if options.NoteSpeed != 0 {
		noteSpeed = options.NoteSpeed
	}
	slicer := effect.Slicer{TransitionScale: config.TransitionScale}
	res := &Result{
		Title:     song.Name,
		NoteSpeed: noteSpeed,
	}
	if options.Title != "" {
		res.Title = options.Title
	}
	for _, t := range tracks {
		if len(config.Instruments) != 0 && !slices.Contains(config.Instruments, t.Instrument) {
			continue
		}
		part := t.AnyDifficulty()
		if part == nil {
			log.Printf("Instrument %v has no difficulties, skipping.", t.Instrument)
			continue
		}
		phrases := unison.FindPhrases(t.Instrument, song)
		ir := InstrumentResult{
			Instrument: t.Instrument,
			Difficulty: part.Difficulty,
			StarPower:  len(part.PhrasesOf(chart.StarPower)),
			Effects: slicer.Slice(noteSpeed,
				effect.FromPhrases(part.PhrasesOf(chart.Solo, chart.DrumFill)),
				effect.FromPhrases(phrases),
			),
		}
		for _, p := range phrases {
			ir.Unisons = append(ir.Unisons, Unison{
				Start: position(song, p.Time, p.Tick),
				End:   position(song, p.TimeEnd, p.Tick+p.TickLength),
			})
		}
		if config.Validate {
			if err := effect.Validate(ir.Effects); err != nil {
				return nil, fmt.Errorf("invalid effects for %v: %v", t.Instrument, err)
			}
		}
		res.Instruments = append(res.Instruments, ir)
	}
	return res, nil
}
