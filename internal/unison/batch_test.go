package unison

import (
	"reflect"
	"testing"

	"github.com/trackfx/trackfx/internal/chart"
)

func track(t *testing.T, song *chart.Song, inst chart.Instrument, d chart.Difficulty, phrases ...chart.Phrase) {
	t.Helper()
	tr := chart.NewTrack(inst)
	tr.Part(d).Phrases = phrases
	if err := song.AddTrack(tr); err != nil {
		t.Fatalf("AddTrack(%v): %v", inst, err)
	}
}

func phrase(start, end float64, typ chart.PhraseType) chart.Phrase {
	return chart.Phrase{Time: start, TimeEnd: end, Type: typ}
}

func starPowers(ranges ...float64) []chart.Phrase {
	var out []chart.Phrase
	for i := 0; i+1 < len(ranges); i += 2 {
		out = append(out, phrase(ranges[i], ranges[i+1], chart.StarPower))
	}
	return out
}

func TestFindPhrases(t *testing.T) {
	cases := []struct {
		name  string
		other []chart.Phrase
		want  []chart.Phrase
	}{
		{"identical", starPowers(1, 2, 5, 6), starPowers(1, 2, 5, 6)},
		{"disjoint", starPowers(1, 3, 5, 7), nil},
		{"partial", starPowers(0, 1, 5, 6), starPowers(5, 6)},
	}
	for _, c := range cases {
		song := &chart.Song{}
		track(t, song, chart.FiveFretGuitar, chart.Expert, starPowers(1, 2, 5, 6)...)
		track(t, song, chart.ProDrums, chart.Hard, c.other...)
		got := FindPhrases(chart.FiveFretGuitar, song)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("%s: got %v, want %v", c.name, got, c.want)
		}
	}
}

func TestFindPhrasesIgnoresOtherTypes(t *testing.T) {
	song := &chart.Song{}
	track(t, song, chart.ProKeys, chart.Expert,
		phrase(1, 2, chart.StarPower),
		phrase(3, 4, chart.StarPower),
		phrase(3, 4, chart.StarPower),
		phrase(8, 9, chart.Solo),
	)
	track(t, song, chart.FiveFretBass, chart.Easy, phrase(3, 4, chart.StarPower), phrase(8, 9, chart.Solo))
	track(t, song, chart.SixFretGuitar, chart.Easy, phrase(3, 4, chart.StarPower), phrase(8, 9, chart.Solo))
	track(t, song, chart.Vocals, chart.Expert, phrase(1, 2, chart.StarPower))
	got := FindPhrases(chart.ProKeys, song)
	if want := starPowers(3, 4); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFindPhrasesMissing(t *testing.T) {
	song := &chart.Song{}
	track(t, song, chart.FiveFretGuitar, chart.Expert, starPowers(1, 2)...)
	if got := FindPhrases(chart.ProBass17Fret, song); len(got) != 0 {
		t.Errorf("got %v for a missing instrument", got)
	}
	song.AddTrack(chart.NewTrack(chart.ProBass17Fret))
	if got := FindPhrases(chart.ProBass17Fret, song); len(got) != 0 {
		t.Errorf("got %v for an instrument without difficulties", got)
	}
}

func TestSameSections(t *testing.T) {
	a := starPowers(1, 2, 3, 4)
	if !sameSections(a, starPowers(1, 2, 3, 4)) {
		t.Errorf("equal lists differ")
	}
	if sameSections(a, starPowers(3, 4, 1, 2)) {
		t.Errorf("order must matter")
	}
	if sameSections(a, starPowers(1, 2)) {
		t.Errorf("length must matter")
	}
}
