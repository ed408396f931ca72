package chart

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type PhraseType int

const (
	StarPower PhraseType = iota
	Solo
	DrumFill
	TremoloLane
	TrillLane
	RangeShift
	BigRockEnding
	VersusPlayer1
	VersusPlayer2
)

var phraseTypeNames = []string{
	StarPower:     "star_power",
	Solo:          "solo",
	DrumFill:      "drum_fill",
	TremoloLane:   "tremolo_lane",
	TrillLane:     "trill_lane",
	RangeShift:    "range_shift",
	BigRockEnding: "big_rock_ending",
	VersusPlayer1: "versus_player1",
	VersusPlayer2: "versus_player2",
}

func (t PhraseType) String() string {
	if t < 0 || int(t) >= len(phraseTypeNames) {
		return fmt.Sprintf("PhraseType(%d)", int(t))
	}
	return phraseTypeNames[t]
}

func ParsePhraseType(s string) (PhraseType, error) {
	i, err := parseName(phraseTypeNames, s)
	if err != nil {
		return 0, fmt.Errorf("unknown phrase type %q", s)
	}
	return PhraseType(i), nil
}

func (t PhraseType) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

func (t *PhraseType) UnmarshalYAML(value *yaml.Node) error {
	v, err := ParsePhraseType(value.Value)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

type Difficulty int

const (
	Beginner Difficulty = iota
	Easy
	Medium
	Hard
	Expert
	ExpertPlus
)

// AllDifficulties lists the difficulties from easiest to hardest.
var AllDifficulties = []Difficulty{Beginner, Easy, Medium, Hard, Expert, ExpertPlus}

var difficultyNames = []string{
	Beginner:   "beginner",
	Easy:       "easy",
	Medium:     "medium",
	Hard:       "hard",
	Expert:     "expert",
	ExpertPlus: "expert_plus",
}

func (d Difficulty) String() string {
	if d < 0 || int(d) >= len(difficultyNames) {
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
	return difficultyNames[d]
}

func ParseDifficulty(s string) (Difficulty, error) {
	i, err := parseName(difficultyNames, s)
	if err != nil {
		return 0, fmt.Errorf("unknown difficulty %q", s)
	}
	return Difficulty(i), nil
}

func (d Difficulty) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

func (d *Difficulty) UnmarshalYAML(value *yaml.Node) error {
	v, err := ParseDifficulty(value.Value)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Family groups instruments that share a note layout.
type Family int

const (
	FamilyFiveFret Family = iota
	FamilySixFret
	FamilyDrums
	FamilyProGuitar
	FamilyProKeys
	FamilyVocals
)

type Instrument int

const (
	FiveFretGuitar Instrument = iota
	FiveFretBass
	FiveFretRhythm
	FiveFretCoopGuitar
	Keys
	SixFretGuitar
	SixFretBass
	SixFretRhythm
	SixFretCoopGuitar
	FourLaneDrums
	ProDrums
	FiveLaneDrums
	ProGuitar17Fret
	ProGuitar22Fret
	ProBass17Fret
	ProBass22Fret
	ProKeys
	Vocals
	Harmony
)

var instrumentInfo = []struct {
	name   string
	family Family
}{
	FiveFretGuitar:     {"guitar", FamilyFiveFret},
	FiveFretBass:       {"bass", FamilyFiveFret},
	FiveFretRhythm:     {"rhythm", FamilyFiveFret},
	FiveFretCoopGuitar: {"guitar_coop", FamilyFiveFret},
	Keys:               {"keys", FamilyFiveFret},
	SixFretGuitar:      {"guitar_ghl", FamilySixFret},
	SixFretBass:        {"bass_ghl", FamilySixFret},
	SixFretRhythm:      {"rhythm_ghl", FamilySixFret},
	SixFretCoopGuitar:  {"guitar_coop_ghl", FamilySixFret},
	FourLaneDrums:      {"drums", FamilyDrums},
	ProDrums:           {"pro_drums", FamilyDrums},
	FiveLaneDrums:      {"five_lane_drums", FamilyDrums},
	ProGuitar17Fret:    {"pro_guitar_17", FamilyProGuitar},
	ProGuitar22Fret:    {"pro_guitar_22", FamilyProGuitar},
	ProBass17Fret:      {"pro_bass_17", FamilyProGuitar},
	ProBass22Fret:      {"pro_bass_22", FamilyProGuitar},
	ProKeys:            {"pro_keys", FamilyProKeys},
	Vocals:             {"vocals", FamilyVocals},
	Harmony:            {"harmony", FamilyVocals},
}

func (i Instrument) String() string {
	if i < 0 || int(i) >= len(instrumentInfo) {
		return fmt.Sprintf("Instrument(%d)", int(i))
	}
	return instrumentInfo[i].name
}

func (i Instrument) Family() Family {
	if i < 0 || int(i) >= len(instrumentInfo) {
		return -1
	}
	return instrumentInfo[i].family
}

// Instruments lists every known instrument.
func Instruments() []Instrument {
	out := make([]Instrument, len(instrumentInfo))
	for i := range out {
		out[i] = Instrument(i)
	}
	return out
}

func ParseInstrument(s string) (Instrument, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, info := range instrumentInfo {
		if info.name == s {
			return Instrument(i), nil
		}
	}
	return 0, fmt.Errorf("unknown instrument %q", s)
}

func (i Instrument) MarshalYAML() (interface{}, error) {
	return i.String(), nil
}

func (i *Instrument) UnmarshalYAML(value *yaml.Node) error {
	v, err := ParseInstrument(value.Value)
	if err != nil {
		return err
	}
	*i = v
	return nil
}

func parseName(names []string, s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown name %q", s)
}
