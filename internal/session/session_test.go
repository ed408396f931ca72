package session

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/trackfx/trackfx/internal/chart"
	"github.com/trackfx/trackfx/internal/effect"
)

const testChart = `
tracks:
  - instrument: guitar
    parts:
      - difficulty: expert
        phrases:
          - {time: 1, time_end: 2, type: star_power}
          - {time: 4, time_end: 8, type: solo}
          - {time: 5, time_end: 6, type: star_power}
  - instrument: bass
    parts:
      - difficulty: hard
        phrases:
          - {time: 1, time_end: 2, type: star_power}
          - {time: 5, time_end: 6, type: star_power}
  - instrument: pro_drums
    parts:
      - difficulty: expert
        phrases:
          - {time: 5, time_end: 6, type: star_power}
          - {time: 10, time_end: 11, type: drum_fill}
  - instrument: vocals
    parts:
      - difficulty: expert
        phrases:
          - {time: 1, time_end: 2, type: star_power}
`

func newSession(t *testing.T) *Session {
	t.Helper()
	song, err := chart.ReadYAML(strings.NewReader(testChart))
	if err != nil {
		t.Fatalf("could not read chart: %v", err)
	}
	return New(&Options{Song: song})
}

func TestSession(t *testing.T) {
	s := newSession(t)
	defer s.Close()
	var observed []UnisonState
	s.OnUnisonComplete(func(u UnisonState) {
		observed = append(observed, u)
	})

	s.Enqueue(Command{Join: &Player{Name: "ann", Instrument: chart.FiveFretGuitar, Difficulty: chart.Expert}})
	s.Enqueue(Command{Join: &Player{Name: "bob", Instrument: chart.FiveFretBass, Difficulty: chart.Expert}})
	s.Enqueue(Command{Join: &Player{Name: "cat", Instrument: chart.Vocals, Difficulty: chart.Expert}})
	state := s.Update()
	if state.Err != nil {
		t.Fatalf("joining failed: %v", state.Err)
	}
	if want := []string{"ann", "bob", "cat"}; !reflect.DeepEqual(state.Players, want) {
		t.Errorf("got players %v, want %v", state.Players, want)
	}
	if s.TrackPlayers() != 2 {
		t.Errorf("got %d track players, want 2", s.TrackPlayers())
	}

	s.Enqueue(Command{Register: "ann"})
	s.Enqueue(Command{Register: "bob"})
	state = s.Update()
	if state.Err != nil {
		t.Fatalf("registering failed: %v", state.Err)
	}
	if state.Reported != 2 || len(state.Unisons) != 2 {
		t.Fatalf("got %d reported, unisons %+v", state.Reported, state.Unisons)
	}
	if got := state.Unisons[0]; got.Start != 1 || got.End != 2 || got.PartCount != 2 {
		t.Errorf("got first unison %+v", got)
	}
	if want := []chart.Instrument{chart.FiveFretGuitar, chart.FiveFretBass}; !reflect.DeepEqual(state.Unisons[0].Instruments, want) {
		t.Errorf("got instruments %v, want %v", state.Unisons[0].Instruments, want)
	}

	s.Enqueue(Command{Hit: &Hit{Player: "ann", Time: 1.5}})
	s.Enqueue(Command{Hit: &Hit{Player: "bob", Time: 1.9}})
	state = s.Update()
	if len(state.Completed) != 1 || state.Completed[0].Start != 1 || !state.Completed[0].Completed {
		t.Errorf("got completed %+v", state.Completed)
	}
	if len(observed) != 1 {
		t.Errorf("observer saw %+v", observed)
	}
	state = s.Update()
	if len(state.Completed) != 0 {
		t.Errorf("completions reported twice: %+v", state.Completed)
	}
	if !state.Unisons[0].Completed || state.Unisons[1].Completed {
		t.Errorf("got unisons %+v", state.Unisons)
	}

	s.Enqueue(Command{Reset: true})
	state = s.Update()
	if state.Reported != 0 || len(state.Unisons) != 0 {
		t.Errorf("reset left %+v", state)
	}
}

func TestSessionErrors(t *testing.T) {
	s := newSession(t)
	cases := []Command{
		{Register: "nobody"},
		{Hit: &Hit{Player: "nobody", Time: 1}},
	}
	for _, cmd := range cases {
		s.Enqueue(cmd)
		if err := s.Update().Err; !errors.Is(err, ErrUnknownPlayer) {
			t.Errorf("%+v: got error %v, want %v", cmd, err, ErrUnknownPlayer)
		}
	}
	if err := s.Join(&Player{Name: "x", Instrument: chart.ProKeys}); err == nil {
		t.Errorf("joining without a track succeeded")
	}
	if err := s.Join(&Player{Name: "v", Instrument: chart.Vocals}); err != nil {
		t.Fatalf("joining vocals failed: %v", err)
	}
	if err := s.Join(&Player{Name: "v", Instrument: chart.FiveFretGuitar}); err == nil {
		t.Errorf("joining twice succeeded")
	}
	v, _ := s.Player("v")
	if err := s.Register(v); err == nil {
		t.Errorf("registering vocals succeeded")
	}
}

func TestTrackEffects(t *testing.T) {
	s := newSession(t)
	p := &Player{Name: "ann", Instrument: chart.FiveFretGuitar, Difficulty: chart.Expert}
	got, err := s.TrackEffects(p, 1e9)
	if err != nil {
		t.Fatalf("TrackEffects failed: %v", err)
	}
	want := []effect.Interval{
		effect.NewInterval(1, 2, effect.Unison),
		{Start: 4, End: 5, Kind: effect.Solo, StartTransition: true},
		{Start: 5, End: 6, Kind: effect.SoloAndUnison},
		{Start: 6, End: 8, Kind: effect.Solo, EndTransition: true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	// Bass only has hard, which is used instead.
	p = &Player{Name: "bob", Instrument: chart.FiveFretBass, Difficulty: chart.Expert}
	got, err = s.TrackEffects(p, 1e9)
	if err != nil {
		t.Fatalf("TrackEffects failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %v, want two unisons", got)
	}
}

func TestSessionNoSong(t *testing.T) {
	s := New(nil)
	defer s.Close()
	p := &Player{Name: "ann", Instrument: chart.FiveFretGuitar, Difficulty: chart.Expert}
	if err := s.Join(p); !errors.Is(err, ErrNoSong) {
		t.Errorf("got error %v, want %v", err, ErrNoSong)
	}
	if _, err := s.TrackEffects(p, 1); !errors.Is(err, ErrNoSong) {
		t.Errorf("got error %v, want %v", err, ErrNoSong)
	}
	if err := s.Register(p); !errors.Is(err, ErrNoSong) {
		t.Errorf("got error %v, want %v", err, ErrNoSong)
	}
	if state := s.Update(); len(state.Players) != 0 || state.Err != nil {
		t.Errorf("got state %+v", state)
	}
}
