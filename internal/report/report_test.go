package report

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/text/language"

	"github.com/trackfx/trackfx/internal/analysis"
	"github.com/trackfx/trackfx/internal/chart"
	"github.com/trackfx/trackfx/internal/effect"
)

func TestTimeline(t *testing.T) {
	effects := []effect.Interval{
		effect.NewInterval(0, 2, effect.Solo),
		effect.NewInterval(2, 4, effect.SoloAndUnison),
		effect.NewInterval(6, 8, effect.DrumFill),
	}
	if got, want := timeline(effects, 10, 10), "ssSS--dd--"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := timeline(nil, 0, 10); got != "" {
		t.Errorf("got %q for an empty song", got)
	}
}

func TestRender(t *testing.T) {
	res := &analysis.Result{
		Title:     "Fixture",
		SHA256:    "0123456789abcdef",
		NoteSpeed: 7,
		Instruments: []analysis.InstrumentResult{
			{
				Instrument: chart.ProDrums,
				Difficulty: chart.Expert,
				StarPower:  2,
				Unisons: []analysis.Unison{{
					Start: analysis.Position{Time: 61.5, Bar: 3, Beat: 1, HasBar: true},
					End:   analysis.Position{Time: 63, Bar: 4, HasBar: true},
				}},
				Effects: []effect.Interval{effect.NewInterval(61.5, 63, effect.Unison)},
			},
			{
				Instrument: chart.FiveFretGuitar,
				Difficulty: chart.Hard,
			},
		},
	}
	var buf bytes.Buffer
	if err := Render(&buf, res, Options{Width: 42, Language: language.English}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"FIXTURE\n=======\n",
		"Note speed 7.00, chart 0123456789ab",
		"Pro Drums (expert): 2 star power, 1 unison\n",
		"1:01.500 - 1:03.000  bar 4.2.00 - 5.1.00",
		"Guitar (hard): 0 star power, 0 unisons\n",
		"  " + strings.Repeat("-", 39) + "u\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report lacks %q:\n%s", want, out)
		}
	}
}
