package unison

import (
	"log"
	"slices"

	"github.com/trackfx/trackfx/internal/chart"
	"github.com/trackfx/trackfx/internal/effect"
)

// Event is a star power phrase shared by several players.
type Event[P comparable] struct {
	Start, End float64

	players     []P
	instruments map[P]chart.Instrument
	succeeded   map[P]bool
	completed bool
}

func newEvent[P comparable](k effect.Key) *Event[P] {
	return &Event[P]{
		Start:       k.Start,
		End:         k.End,
		instruments: map[P]chart.Instrument{},
		succeeded:   map[P]bool{},
	}
}

func (e *Event[P]) Key() effect.Key {
	return effect.Key{Start: e.Start, End: e.End}
}

// PartCount is the number of players sharing the phrase.
func (e *Event[P]) PartCount() int {
	return len(e.players)
}

// SuccessCount is the number of players who completed their phrase.
func (e *Event[P]) SuccessCount() int {
	return len(e.succeeded)
}

// Completed reports whether every player completed the phrase.
func (e *Event[P]) Completed() bool {
	return e.completed
}

// Players returns the players sharing the phrase, in the order they joined.
func (e *Event[P]) Players() []P {
	return slices.Clone(e.players)
}

func (e *Event[P]) Has(p P) bool {
	return slices.Contains(e.players, p)
}

// Instruments returns the instrument of each player, in the order of Players.
func (e *Event[P]) Instruments() []chart.Instrument {
	out := make([]chart.Instrument, 0, len(e.players))
	for _, p := range e.players {
		out = append(out, e.instruments[p])
	}
	return out
}

// AddPlayer adds p playing inst to the event. Adding a player twice has no effect.
func (e *Event[P]) AddPlayer(p P, inst chart.Instrument) {
	if e.Has(p) {
		return
	}
	e.players = append(e.players, p)
	e.instruments[p] = inst
}

// removePlayer takes p out of the event, forgetting its success.
func (e *Event[P]) removePlayer(p P) {
	i := slices.Index(e.players, p)
	if i < 0 {
		return
	}
	e.players = slices.Delete(e.players, i, i+1)
	delete(e.instruments, p)
	delete(e.succeeded, p)
}

// Success records that p completed the phrase. It returns true when this
// completes the event.
func (e *Event[P]) Success(p P) bool {
	if !e.Has(p) || e.succeeded[p] {
		return false
	}
	e.succeeded[p] = true
	e.checkInvariant()
	return e.settle()
}

// settle marks the event completed once every player succeeded, and reports
// whether it just did.
func (e *Event[P]) settle() bool {
	if e.completed || e.PartCount() < 2 || e.SuccessCount() < e.PartCount() {
		return false
	}
	e.completed = true
	return true
}

func (e *Event[P]) checkInvariant() {
	if e.SuccessCount() > e.PartCount() {
		log.Panicf("unison %v-%v: %d successes for %d parts", e.Start, e.End, e.SuccessCount(), e.PartCount())
	}
}
