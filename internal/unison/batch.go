package unison

import (
	"log"

	"github.com/trackfx/trackfx/internal/chart"
	"github.com/trackfx/trackfx/internal/effect"
)

func phraseKey(p chart.Phrase) effect.Key {
	return effect.Key{Start: p.Time, End: p.TimeEnd}
}

// findTrack looks for the track of inst, trying families in the order
// five fret, drums, six fret, pro guitar, pro keys.
func findTrack(inst chart.Instrument, song *chart.Song) (*chart.Track, bool) {
	for _, tracks := range [][]*chart.Track{song.FiveFret, song.Drums, song.SixFret, song.ProGuitar} {
		for _, t := range tracks {
			if t.Instrument == inst {
				return t, true
			}
		}
	}
	if song.ProKeys != nil && song.ProKeys.Instrument == inst {
		return song.ProKeys, true
	}
	return nil, false
}

func starPower(t *chart.Track) []chart.Phrase {
	p := t.AnyDifficulty()
	if p == nil {
		return nil
	}
	return p.PhrasesOf(chart.StarPower)
}

// sameSections reports whether both lists have the same time ranges in the same order.
func sameSections(a, b []chart.Phrase) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if phraseKey(a[i]) != phraseKey(b[i]) {
			return false
		}
	}
	return true
}

// FindPhrases returns the star power phrases of inst that some other
// instrument of the song has with exactly the same time range.
//
// Other instruments with identical star power lists are counted once. The
// result keeps the chart order of inst's phrases and has no duplicates. If
// song has no track for inst, the result is empty.
func FindPhrases(inst chart.Instrument, song *chart.Song) []chart.Phrase {
	self, ok := findTrack(inst, song)
	if !ok || self.AnyDifficulty() == nil {
		log.Printf("Could not find any instrument difficulty for %v.", inst)
		return nil
	}
	own := starPower(self)

	var accepted [][]chart.Phrase
	for _, t := range song.Tracks() {
		if t.Instrument == inst {
			continue
		}
		sp := starPower(t)
		dup := false
		for _, a := range accepted {
			if sameSections(sp, a) {
				dup = true
				break
			}
		}
		if dup {
			if Verbose {
				log.Printf("Found duplicate star power list on %v.", t.Instrument)
			}
			continue
		}
		accepted = append(accepted, sp)
	}

	others := map[effect.Key]bool{}
	for _, l := range accepted {
		for _, p := range l {
			others[phraseKey(p)] = true
		}
	}
	seen := map[effect.Key]bool{}
	var out []chart.Phrase
	for _, p := range own {
		k := phraseKey(p)
		if !others[k] || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return out
}
