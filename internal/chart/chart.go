package chart

import (
	"fmt"
	"slices"
)

// Phrase is a timed region of a chart, tagged with its purpose.
type Phrase struct {
	Time       float64    `yaml:"time" json:"time"`
	TimeEnd    float64    `yaml:"time_end" json:"time_end"`
	Tick       uint32     `yaml:"tick,omitempty" json:"tick"`
	TickLength uint32     `yaml:"tick_length,omitempty" json:"tick_length"`
	Type       PhraseType `yaml:"type" json:"type"`
}

// Part is the data of one instrument at one difficulty.
type Part struct {
	Instrument Instrument
	Difficulty Difficulty
	Phrases    []Phrase
}

// PhrasesOf returns the phrases having one of the given types, in chart order.
func (p *Part) PhrasesOf(types ...PhraseType) []Phrase {
	var out []Phrase
	for _, ph := range p.Phrases {
		if slices.Contains(types, ph.Type) {
			out = append(out, ph)
		}
	}
	return out
}

// Track holds all difficulties charted for one instrument.
type Track struct {
	Instrument   Instrument
	Difficulties map[Difficulty]*Part
}

func NewTrack(inst Instrument) *Track {
	return &Track{
		Instrument:   inst,
		Difficulties: map[Difficulty]*Part{},
	}
}

// Difficulty returns the part for the given difficulty.
func (t *Track) Difficulty(d Difficulty) (*Part, bool) {
	p, ok := t.Difficulties[d]
	return p, ok
}

// AnyDifficulty returns the easiest charted difficulty, or nil if the track is empty.
//
// Phrases are authored once per instrument, so any difficulty carries the same phrase list.
func (t *Track) AnyDifficulty() *Part {
	for _, d := range AllDifficulties {
		if p, ok := t.Difficulties[d]; ok {
			return p
		}
	}
	return nil
}

// Part returns the part for d, creating it if needed.
func (t *Track) Part(d Difficulty) *Part {
	p, ok := t.Difficulties[d]
	if !ok {
		p = &Part{Instrument: t.Instrument, Difficulty: d}
		t.Difficulties[d] = p
	}
	return p
}

// TimeSignature is a time signature change at a tick.
type TimeSignature struct {
	Tick        uint32 `yaml:"tick"`
	Numerator   int    `yaml:"numerator"`
	Denominator int    `yaml:"denominator"`
}

// Song is a decoded chart: every instrument track, grouped by instrument family.
type Song struct {
	Name string

	// Resolution is the number of ticks per quarter note; zero if unknown.
	Resolution     uint16
	TimeSignatures []TimeSignature

	FiveFret  []*Track
	SixFret   []*Track
	Drums     []*Track
	ProGuitar []*Track
	ProKeys   *Track
	Vocals    *Track
}

// AddTrack files the track under its instrument family.
func (s *Song) AddTrack(t *Track) error {
	switch t.Instrument.Family() {
	case FamilyFiveFret:
		s.FiveFret = append(s.FiveFret, t)
	case FamilySixFret:
		s.SixFret = append(s.SixFret, t)
	case FamilyDrums:
		s.Drums = append(s.Drums, t)
	case FamilyProGuitar:
		s.ProGuitar = append(s.ProGuitar, t)
	case FamilyProKeys:
		if s.ProKeys != nil {
			return fmt.Errorf("duplicate pro keys track")
		}
		s.ProKeys = t
	case FamilyVocals:
		if s.Vocals != nil {
			return fmt.Errorf("duplicate vocals track")
		}
		s.Vocals = t
	default:
		return fmt.Errorf("unknown instrument family for %v", t.Instrument)
	}
	return nil
}

// Tracks returns all tracks that can take part in a unison: five fret, six fret,
// drums, pro guitar, then pro keys. Vocals never participate.
func (s *Song) Tracks() []*Track {
	var out []*Track
	out = append(out, s.FiveFret...)
	out = append(out, s.SixFret...)
	out = append(out, s.Drums...)
	out = append(out, s.ProGuitar...)
	if s.ProKeys != nil {
		out = append(out, s.ProKeys)
	}
	return out
}

// Track finds the track of the given instrument.
func (s *Song) Track(inst Instrument) (*Track, bool) {
	if inst.Family() == FamilyVocals {
		return s.Vocals, s.Vocals != nil && s.Vocals.Instrument == inst
	}
	for _, t := range s.Tracks() {
		if t.Instrument == inst {
			return t, true
		}
	}
	return nil, false
}

// BarBeat maps a tick to a zero-based bar and beat. It returns ok=false when the
// song carries no resolution.
func (s *Song) BarBeat(tick uint32) (bar int, beat float64, ok bool) {
	if s.Resolution == 0 {
		return 0, 0, false
	}
	b := newBars(int64(s.Resolution), s.TimeSignatures)
	bar, beat = b.FromTick(int64(tick))
	return bar, beat, true
}
