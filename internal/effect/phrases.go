package effect

import (
	"log"

	"github.com/trackfx/trackfx/internal/chart"
)

var phraseKinds = map[chart.PhraseType]Kind{
	chart.Solo:      Solo,
	chart.DrumFill:  DrumFill,
	chart.StarPower: Unison,
}

// FromPhrases converts solo, drum fill and star power phrases to intervals.
// Other phrase types are skipped.
func FromPhrases(lists ...[]chart.Phrase) []Interval {
	var out []Interval
	for _, l := range lists {
		for _, p := range l {
			k, ok := phraseKinds[p.Type]
			if !ok {
				log.Printf("Phrase type %v has no track effect, skipping.", p.Type)
				continue
			}
			out = append(out, NewInterval(p.Time, p.TimeEnd, k))
		}
	}
	return out
}
