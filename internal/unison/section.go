package unison

import (
	"github.com/trackfx/trackfx/internal/chart"
	"github.com/trackfx/trackfx/internal/effect"
)

// Section is a star power phrase of one player, with the instrument it is
// played on.
type Section struct {
	Start, End float64
	Instrument chart.Instrument
}

// Key identifies the section by time alone, so sections of different
// instruments can match.
func (s Section) Key() effect.Key {
	return effect.Key{Start: s.Start, End: s.End}
}

func sectionsOf(inst chart.Instrument, intervals []effect.Interval) []Section {
	out := make([]Section, 0, len(intervals))
	for _, iv := range intervals {
		out = append(out, Section{Start: iv.Start, End: iv.End, Instrument: inst})
	}
	return out
}

func hasKey(sections []Section, k effect.Key) bool {
	for _, s := range sections {
		if s.Key() == k {
			return true
		}
	}
	return false
}
