package session

import (
	"errors"
	"fmt"
	"log"
	"reflect"

	"github.com/trackfx/trackfx/internal/chart"
	"github.com/trackfx/trackfx/internal/effect"
	"github.com/trackfx/trackfx/internal/unison"
)

// Player is one participant of a session.
type Player struct {
	Name       string
	Instrument chart.Instrument
	Difficulty chart.Difficulty
}

// IsVocals reports whether the player sings. Vocalists never take part in unisons.
func (p *Player) IsVocals() bool {
	return p.Instrument.Family() == chart.FamilyVocals
}

func (p *Player) String() string {
	return fmt.Sprintf("%s (%v %v)", p.Name, p.Instrument, p.Difficulty)
}

// Hit reports a completed star power phrase.
type Hit struct {
	Player string
	Time   float64
}

type Command struct {
	// Join adds a player to the roster.
	Join *Player

	// Register sends the named player's star power phrases to the unison detector.
	Register string

	// Hit notifies that a player completed a star power phrase.
	Hit *Hit

	// Reset forgets all registrations and unisons. The roster stays.
	Reset bool
}

// IsZero returns if the command is an empty message.
func (c Command) IsZero() bool {
	return reflect.DeepEqual(c, Command{})
}

// UnisonState describes one unison event.
type UnisonState struct {
	Start, End   float64
	Players      []string
	// Instruments holds the instrument of each player, in the order of Players.
	Instruments  []chart.Instrument
	PartCount    int
	SuccessCount int
	Completed    bool
}

// State is the state of the session after an update.
type State struct {
	// Err is the error of the last failed command of the update, if any.
	Err error

	// Players lists the roster in join order.
	Players []string

	// Reported is the number of players who registered their star power.
	Reported int

	// Unisons lists all unison events by start time.
	Unisons []UnisonState

	// Completed lists the unisons completed during this update.
	Completed []UnisonState
}

type Options struct {
	// Song is the chart everybody plays.
	Song *chart.Song

	// TransitionScale is passed to the effect slicer. Zero means the default.
	TransitionScale float64
}

// Session owns the roster and the unison detector of one song being played.
//
// Commands are queued and applied by Update, once per frame. A Session is not
// safe for concurrent use.
type Session struct {
	song     *chart.Song
	slicer   effect.Slicer
	players  []*Player
	detector *unison.Detector[*Player]

	commands  []Command
	completed []UnisonState

	unsubscribe []func()
}

var (
	ErrUnknownPlayer = errors.New("unknown player")
	ErrNoSong        = errors.New("no song loaded")
)

// New returns a session for options.Song. Without a song, players cannot join.
func New(options *Options) *Session {
	if options == nil {
		options = &Options{}
	}
	scale := options.TransitionScale
	if scale == 0 {
		scale = effect.DefaultTransitionScale
	}
	s := &Session{
		song:   options.Song,
		slicer: effect.Slicer{TransitionScale: scale},
	}
	s.detector = unison.NewDetector[*Player](s)
	s.unsubscribe = append(s.unsubscribe, s.detector.OnComplete(func(e *unison.Event[*Player]) {
		s.completed = append(s.completed, unisonState(e))
	}))
	return s
}

// TrackPlayers counts the players who can take part in unisons.
func (s *Session) TrackPlayers() int {
	n := 0
	for _, p := range s.players {
		if !p.IsVocals() {
			n++
		}
	}
	return n
}

// Enqueue queues a command for the next Update.
func (s *Session) Enqueue(cmd Command) {
	if cmd.IsZero() {
		log.Printf("Ignoring empty command.")
		return
	}
	s.commands = append(s.commands, cmd)
}

// Update applies all queued commands and returns the resulting state.
func (s *Session) Update() State {
	var lastErr error
	cmds := s.commands
	s.commands = nil
	for _, cmd := range cmds {
		if err := s.handleCommand(cmd); err != nil {
			log.Printf("Command %+v failed: %v.", cmd, err)
			lastErr = err
		}
	}
	state := s.State()
	state.Err = lastErr
	state.Completed = s.completed
	s.completed = nil
	return state
}

func (s *Session) handleCommand(cmd Command) error {
	switch {
	case cmd.Join != nil:
		return s.Join(cmd.Join)
	case cmd.Register != "":
		p, ok := s.Player(cmd.Register)
		if !ok {
			return fmt.Errorf("%w %q", ErrUnknownPlayer, cmd.Register)
		}
		return s.Register(p)
	case cmd.Hit != nil:
		p, ok := s.Player(cmd.Hit.Player)
		if !ok {
			return fmt.Errorf("%w %q", ErrUnknownPlayer, cmd.Hit.Player)
		}
		s.detector.NotifyPhraseHit(p, cmd.Hit.Time)
		return nil
	case cmd.Reset:
		s.detector.Reset()
		return nil
	default:
		return fmt.Errorf("unrecognized command: %+v", cmd)
	}
}

// State returns the current state, without completions.
func (s *Session) State() State {
	state := State{
		Reported: s.detector.Reported(),
	}
	for _, p := range s.players {
		state.Players = append(state.Players, p.Name)
	}
	for _, e := range s.detector.Events() {
		state.Unisons = append(state.Unisons, unisonState(e))
	}
	return state
}

func unisonState(e *unison.Event[*Player]) UnisonState {
	u := UnisonState{
		Start:        e.Start,
		End:          e.End,
		PartCount:    e.PartCount(),
		SuccessCount: e.SuccessCount(),
		Completed:    e.Completed(),
	}
	for _, p := range e.Players() {
		u.Players = append(u.Players, p.Name)
	}
	u.Instruments = e.Instruments()
	return u
}

// Join adds p to the roster.
func (s *Session) Join(p *Player) error {
	if p.Name == "" {
		return errors.New("player has no name")
	}
	if s.song == nil {
		return ErrNoSong
	}
	if _, found := s.Player(p.Name); found {
		return fmt.Errorf("player %q already joined", p.Name)
	}
	if _, found := s.song.Track(p.Instrument); !found {
		return fmt.Errorf("song has no %v track", p.Instrument)
	}
	s.players = append(s.players, p)
	return nil
}

// Player finds a player by name.
func (s *Session) Player(name string) (*Player, bool) {
	for _, p := range s.players {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// part returns the part p plays, or any difficulty of p's instrument if the
// chart lacks p's difficulty.
func (s *Session) part(p *Player) (*chart.Part, error) {
	if s.song == nil {
		return nil, ErrNoSong
	}
	track, found := s.song.Track(p.Instrument)
	if !found {
		return nil, fmt.Errorf("song has no %v track", p.Instrument)
	}
	if part, found := track.Difficulty(p.Difficulty); found {
		return part, nil
	}
	part := track.AnyDifficulty()
	if part == nil {
		return nil, fmt.Errorf("%v track has no difficulties", p.Instrument)
	}
	log.Printf("No %v difficulty for %v, using %v.", p.Difficulty, p.Instrument, part.Difficulty)
	return part, nil
}

// Register sends p's star power phrases to the unison detector.
func (s *Session) Register(p *Player) error {
	if p.IsVocals() {
		return fmt.Errorf("%v cannot take part in unisons", p)
	}
	part, err := s.part(p)
	if err != nil {
		return err
	}
	s.detector.RegisterTrack(p, p.Instrument, effect.FromPhrases(part.PhrasesOf(chart.StarPower)))
	return nil
}

// TrackEffects returns the sliced solo, drum fill and unison effects of p's track.
func (s *Session) TrackEffects(p *Player, noteSpeed float64) ([]effect.Interval, error) {
	if p.IsVocals() {
		return nil, fmt.Errorf("%v has no track effects", p)
	}
	part, err := s.part(p)
	if err != nil {
		return nil, err
	}
	return s.slicer.Slice(noteSpeed,
		effect.FromPhrases(part.PhrasesOf(chart.Solo, chart.DrumFill)),
		effect.FromPhrases(unison.FindPhrases(p.Instrument, s.song)),
	), nil
}

// OnUnisonComplete calls fn whenever a unison gets completed. The returned
// function removes fn again.
func (s *Session) OnUnisonComplete(fn func(UnisonState)) (unsubscribe func()) {
	u := s.detector.OnComplete(func(e *unison.Event[*Player]) {
		fn(unisonState(e))
	})
	s.unsubscribe = append(s.unsubscribe, u)
	return u
}

// Close removes all observers the session registered.
func (s *Session) Close() {
	for _, u := range s.unsubscribe {
		u()
	}
	s.unsubscribe = nil
}
