package analysis

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/trackfx/trackfx/internal/chart"
	"github.com/trackfx/trackfx/internal/effect"
)

const testChart = `
name: Fixture
resolution: 480
tracks:
  - instrument: guitar
    parts:
      - difficulty: expert
        phrases:
          - {time: 2, time_end: 4, tick: 1920, tick_length: 1920, type: star_power}
          - {time: 8, time_end: 12, type: solo}
  - instrument: pro_drums
    parts:
      - difficulty: expert
        phrases:
          - {time: 2, time_end: 4, tick: 1920, tick_length: 1920, type: star_power}
          - {time: 6, time_end: 7, type: star_power}
          - {time: 9, time_end: 10, type: drum_fill}
`

func readChart(t *testing.T) *chart.Song {
	t.Helper()
	song, err := chart.ReadYAML(strings.NewReader(testChart))
	if err != nil {
		t.Fatalf("could not read chart: %v", err)
	}
	return song
}

func TestProcess(t *testing.T) {
	config := DefaultConfig()
	config.NoteSpeed = 1e9
	config.Validate = true
	res, err := Process(readChart(t), &config, &Options{})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if res.Title != "Fixture" || len(res.Instruments) != 2 {
		t.Fatalf("got result %+v", res)
	}
	g := res.Instruments[0]
	if g.Instrument != chart.FiveFretGuitar || g.StarPower != 1 || len(g.Unisons) != 1 {
		t.Errorf("got guitar %+v", g)
	}
	want := Unison{
		Start: Position{Time: 2, Bar: 1, Beat: 0, HasBar: true},
		End:   Position{Time: 4, Bar: 2, Beat: 0, HasBar: true},
	}
	if g.Unisons[0] != want {
		t.Errorf("got unison %+v, want %+v", g.Unisons[0], want)
	}
	wantEffects := []effect.Interval{
		effect.NewInterval(2, 4, effect.Unison),
		effect.NewInterval(8, 12, effect.Solo),
	}
	if !reflect.DeepEqual(g.Effects, wantEffects) {
		t.Errorf("got guitar effects %v, want %v", g.Effects, wantEffects)
	}
	d := res.Instruments[1]
	if d.StarPower != 2 || len(d.Effects) != 2 {
		t.Errorf("got drums %+v", d)
	}
}

func TestProcessOptions(t *testing.T) {
	config := DefaultConfig()
	config.Instruments = []chart.Instrument{chart.ProDrums}
	res, err := Process(readChart(t), &config, &Options{Title: "Other", NoteSpeed: 3})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if res.Title != "Other" || res.NoteSpeed != 3 {
		t.Errorf("options ignored: %+v", res)
	}
	if len(res.Instruments) != 1 || res.Instruments[0].Instrument != chart.ProDrums {
		t.Errorf("instrument filter ignored: %+v", res.Instruments)
	}
}

func TestProcessEmpty(t *testing.T) {
	config := DefaultConfig()
	if _, err := Process(&chart.Song{}, &config, &Options{}); !errors.Is(err, chart.ErrNoTracks) {
		t.Errorf("got error %v, want %v", err, chart.ErrNoTracks)
	}
}

func TestMerge(t *testing.T) {
	partial := Config{
		NoteSpeed:   9,
		Instruments: []chart.Instrument{chart.Keys},
	}
	got := Merge(DefaultConfig(), partial)
	want := DefaultConfig()
	want.NoteSpeed = 9
	want.Instruments = []chart.Instrument{chart.Keys}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if got := Merge(DefaultConfig(), Config{}); !reflect.DeepEqual(got, DefaultConfig()) {
		t.Errorf("merging nothing changed the defaults: %+v", got)
	}
}
