package chart

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"log"
	"slices"

	"gitlab.com/gomidi/midi/v2/smf"
)

// Marker notes shared by most instrument tracks.
const (
	noteRangeShiftMax   = 9
	noteDrumsExpertKick = 95
	noteSolo            = 103
	noteVersusPlayer1   = 105
	noteVersusPlayer2   = 106
	noteProSolo         = 115
	noteStarPower       = 116
	noteDrumFill        = 120
	noteTremoloLane     = 126
	noteTrillLane       = 127
)

type noteRange struct {
	difficulty Difficulty
	low, high  uint8
}

var gemRanges = map[Family][]noteRange{
	FamilyFiveFret: {
		{Easy, 60, 64}, {Medium, 72, 76}, {Hard, 84, 88}, {Expert, 96, 100},
	},
	FamilySixFret: {
		{Easy, 58, 64}, {Medium, 70, 76}, {Hard, 82, 88}, {Expert, 94, 100},
	},
	FamilyDrums: {
		{Easy, 60, 65}, {Medium, 72, 77}, {Hard, 84, 89}, {Expert, 96, 101},
		{ExpertPlus, noteDrumsExpertKick, noteDrumsExpertKick},
	},
	FamilyProGuitar: {
		{Easy, 24, 29}, {Medium, 48, 53}, {Hard, 72, 77}, {Expert, 96, 101},
	},
}

const (
	proKeysLow  = 48
	proKeysHigh = 72
)

type midiTrack struct {
	instrument Instrument
	// difficulty is fixed for tracks that only carry one, like pro keys.
	difficulty Difficulty
	fixed      bool
}

var midiTracks = map[string]midiTrack{
	"PART GUITAR":          {instrument: FiveFretGuitar},
	"PART BASS":            {instrument: FiveFretBass},
	"PART RHYTHM":          {instrument: FiveFretRhythm},
	"PART GUITAR COOP":     {instrument: FiveFretCoopGuitar},
	"PART KEYS":            {instrument: Keys},
	"PART GUITAR GHL":      {instrument: SixFretGuitar},
	"PART BASS GHL":        {instrument: SixFretBass},
	"PART RHYTHM GHL":      {instrument: SixFretRhythm},
	"PART GUITAR COOP GHL": {instrument: SixFretCoopGuitar},
	"PART DRUMS":           {instrument: ProDrums},
	"PART REAL_GUITAR":     {instrument: ProGuitar17Fret},
	"PART REAL_GUITAR_22":  {instrument: ProGuitar22Fret},
	"PART REAL_BASS":       {instrument: ProBass17Fret},
	"PART REAL_BASS_22":    {instrument: ProBass22Fret},
	"PART REAL_KEYS_E":     {instrument: ProKeys, difficulty: Easy, fixed: true},
	"PART REAL_KEYS_M":     {instrument: ProKeys, difficulty: Medium, fixed: true},
	"PART REAL_KEYS_H":     {instrument: ProKeys, difficulty: Hard, fixed: true},
	"PART REAL_KEYS_X":     {instrument: ProKeys, difficulty: Expert, fixed: true},
	"PART VOCALS":          {instrument: Vocals, difficulty: Expert, fixed: true},
	"HARM1":                {instrument: Harmony, difficulty: Expert, fixed: true},
}

// ErrNoTracks is returned when a chart contains no instrument tracks at all.
var ErrNoTracks = errors.New("no instrument tracks")

// phraseForMarker maps a marker note to a phrase type for an instrument family.
func phraseForMarker(f Family, note uint8) (PhraseType, bool) {
	switch note {
	case noteStarPower:
		return StarPower, true
	case noteTrillLane:
		return TrillLane, f != FamilyVocals
	case noteTremoloLane:
		return TremoloLane, f != FamilyVocals && f != FamilyProKeys
	case noteSolo:
		return Solo, f == FamilyFiveFret || f == FamilySixFret || f == FamilyDrums
	case noteProSolo:
		return Solo, f == FamilyProGuitar || f == FamilyProKeys
	case noteDrumFill:
		if f == FamilyDrums {
			return DrumFill, true
		}
		return BigRockEnding, f == FamilyFiveFret || f == FamilyProGuitar
	case noteVersusPlayer1:
		return VersusPlayer1, f != FamilyVocals
	case noteVersusPlayer2:
		return VersusPlayer2, f != FamilyVocals
	}
	if f == FamilyProKeys && note <= noteRangeShiftMax {
		return RangeShift, true
	}
	return 0, false
}

// ReadMIDIFrom decodes a standard MIDI file and reads its phrases.
func ReadMIDIFrom(r io.Reader) (*Song, error) {
	mid, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("could not parse MIDI: %v", err)
	}
	return ReadMIDI(mid)
}

// ReadMIDI extracts the phrases of every known instrument track.
func ReadMIDI(mid *smf.SMF) (*Song, error) {
	tm, sigs, err := readTiming(mid)
	if err != nil {
		return nil, err
	}
	song := &Song{
		Resolution:     uint16(tm.resolution),
		TimeSignatures: sigs,
	}
	found := false
	for i, t := range mid.Tracks {
		name := trackName(t)
		info, ok := midiTracks[name]
		if !ok {
			if i == 0 && name != "" {
				song.Name = name
			}
			continue
		}
		found = true
		phrases, difficulties, err := readTrackPhrases(t, info, tm)
		if err != nil {
			return nil, fmt.Errorf("track %d (%v): %v", i, name, err)
		}
		if len(difficulties) == 0 {
			log.Printf("Track %q has no notes, skipping.", name)
			continue
		}
		track, ok := song.Track(info.instrument)
		if !ok && info.instrument.Family() == FamilyVocals && song.Vocals != nil {
			log.Printf("Track %q ignored, song already has vocals.", name)
			continue
		}
		if !ok {
			track = NewTrack(info.instrument)
			if err := song.AddTrack(track); err != nil {
				return nil, err
			}
		}
		for _, d := range difficulties {
			part := track.Part(d)
			part.Phrases = append(part.Phrases, phrases...)
		}
	}
	if !found {
		return nil, ErrNoTracks
	}
	return song, nil
}

func trackName(t smf.Track) string {
	var name string
	for _, ev := range t {
		if ev.Message.GetMetaTrackName(&name) {
			return name
		}
	}
	return ""
}

func readTrackPhrases(t smf.Track, info midiTrack, tm *tempoMap) ([]Phrase, []Difficulty, error) {
	family := info.instrument.Family()
	tracker := newMarkerTracker()
	present := map[Difficulty]bool{}
	if info.fixed && family == FamilyVocals {
		present[info.difficulty] = true
	}
	var phrases []Phrase
	err := forEachTrackEvent(t, func(tick int64, msg smf.Message) error {
		var ch, note, vel uint8
		if msg.GetNoteStart(&ch, &note, &vel) {
			if d, ok := gemDifficulty(info, note); ok {
				present[d] = true
			}
		}
		key, start, closed := tracker.Handle(tick, msg)
		if !closed {
			return nil
		}
		typ, ok := phraseForMarker(family, key)
		if !ok {
			return nil
		}
		phrases = append(phrases, Phrase{
			Time:       tm.Seconds(start),
			TimeEnd:    tm.Seconds(tick),
			Tick:       uint32(start),
			TickLength: uint32(tick - start),
			Type:       typ,
		})
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	for _, key := range tracker.Open() {
		if _, ok := phraseForMarker(family, key); ok {
			log.Printf("Unterminated phrase marker %d, dropping it.", key)
		}
	}
	slices.SortStableFunc(phrases, func(a, b Phrase) int {
		return cmp.Compare(a.Tick, b.Tick)
	})
	var difficulties []Difficulty
	for _, d := range AllDifficulties {
		if present[d] {
			difficulties = append(difficulties, d)
		}
	}
	return phrases, difficulties, nil
}

func gemDifficulty(info midiTrack, note uint8) (Difficulty, bool) {
	family := info.instrument.Family()
	if family == FamilyProKeys {
		return info.difficulty, note >= proKeysLow && note <= proKeysHigh
	}
	for _, r := range gemRanges[family] {
		if note >= r.low && note <= r.high {
			return r.difficulty, true
		}
	}
	return 0, false
}
