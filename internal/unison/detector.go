package unison

import (
	"cmp"
	"log"
	"slices"

	"github.com/trackfx/trackfx/internal/chart"
	"github.com/trackfx/trackfx/internal/effect"
)

// Verbose enables debug logging.
var Verbose = false

// Roster reports how many players can take part in unisons, i.e. every player
// except vocalists.
type Roster interface {
	TrackPlayers() int
}

// Detector finds star power phrases shared by several players as their tracks
// are registered, and follows their completion.
//
// A Detector is not safe for concurrent use.
type Detector[P comparable] struct {
	roster Roster

	sections map[P][]Section
	reported []P

	events []*Event[P]
	byKey  map[effect.Key]*Event[P]

	observers    map[int]func(*Event[P])
	nextObserver int
}

func NewDetector[P comparable](roster Roster) *Detector[P] {
	return &Detector[P]{
		roster:    roster,
		sections:  map[P][]Section{},
		byKey:     map[effect.Key]*Event[P]{},
		observers: map[int]func(*Event[P]){},
	}
}

// RegisterTrack records the star power phrases p plays on inst. A player
// without star power is ignored.
//
// Registering a player again replaces its phrases: it leaves the events of
// phrases it no longer has, and events no longer shared are dropped.
//
// Once at least two players have registered, phrases with the same time range
// become unison events. Once every track player of the roster has registered,
// events with fewer than two players are dropped.
func (d *Detector[P]) RegisterTrack(p P, inst chart.Instrument, phrases []effect.Interval) {
	if len(phrases) == 0 {
		if Verbose {
			log.Printf("Player %v has no star power.", p)
		}
		return
	}
	expected := d.roster.TrackPlayers()
	sections := sectionsOf(inst, phrases)
	if _, ok := d.sections[p]; ok {
		d.leave(p, sections)
	} else {
		d.reported = append(d.reported, p)
	}
	d.sections[p] = sections
	if len(d.reported) >= 2 {
		d.match()
	}
	if len(d.reported) >= expected {
		d.prune()
		if Verbose {
			log.Printf("Created %d unison events for %d players.", len(d.events), expected)
		}
	}
}

// leave takes p out of every event not among its new sections, or played on
// another instrument now. Matching only creates shared events, so events left
// with a single player are dropped right away.
func (d *Detector[P]) leave(p P, sections []Section) {
	changed := false
	for _, e := range d.events {
		if !e.Has(p) {
			continue
		}
		if i := slices.IndexFunc(sections, func(s Section) bool { return s.Key() == e.Key() }); i >= 0 && sections[i].Instrument == e.instruments[p] {
			continue
		}
		log.Printf("Player %v no longer has star power at %v-%v, leaving the unison.", p, e.Start, e.End)
		e.removePlayer(p)
		changed = true
		if e.settle() {
			d.notify(e)
		}
	}
	if changed {
		d.prune()
	}
}

func (d *Detector[P]) match() {
	for _, p := range d.reported {
		own := d.sections[p]
		for _, other := range d.reported {
			if other == p {
				continue
			}
			for _, s := range own {
				k := s.Key()
				if !hasKey(d.sections[other], k) {
					continue
				}
				e, ok := d.byKey[k]
				if !ok {
					e = newEvent[P](k)
					d.byKey[k] = e
					d.events = append(d.events, e)
				}
				e.AddPlayer(p, s.Instrument)
			}
		}
	}
}

func (d *Detector[P]) prune() {
	kept := make([]*Event[P], 0, len(d.events))
	for _, e := range d.events {
		if e.PartCount() < 2 {
			delete(d.byKey, e.Key())
			continue
		}
		kept = append(kept, e)
	}
	d.events = kept
}

// NotifyPhraseHit records that p completed a star power phrase active at time.
//
// Phrase ends differ between instruments, so an event matches when time lies
// strictly inside it.
func (d *Detector[P]) NotifyPhraseHit(p P, time float64) {
	for _, e := range d.events {
		if e.Start < time && time < e.End && e.Success(p) {
			if Verbose {
				log.Printf("Unison %v-%v completed.", e.Start, e.End)
			}
			d.notify(e)
		}
	}
	for _, e := range d.events {
		e.checkInvariant()
	}
}

func (d *Detector[P]) notify(e *Event[P]) {
	ids := make([]int, 0, len(d.observers))
	for id := range d.observers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := d.observers[id]; ok {
			fn(e)
		}
	}
}

// OnComplete calls fn whenever a unison event gets completed. The returned
// function removes fn again.
func (d *Detector[P]) OnComplete(fn func(*Event[P])) (unsubscribe func()) {
	id := d.nextObserver
	d.nextObserver++
	d.observers[id] = fn
	return func() {
		delete(d.observers, id)
	}
}

// Events returns the current unison events sorted by start time.
func (d *Detector[P]) Events() []*Event[P] {
	out := slices.Clone(d.events)
	slices.SortStableFunc(out, func(a, b *Event[P]) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return out
}

// Event finds the event of the given time range.
func (d *Detector[P]) Event(k effect.Key) (*Event[P], bool) {
	e, ok := d.byKey[k]
	return e, ok
}

// Reported returns how many players have registered.
func (d *Detector[P]) Reported() int {
	return len(d.reported)
}

// Reset forgets all registrations and events. Observers stay subscribed.
func (d *Detector[P]) Reset() {
	d.sections = map[P][]Section{}
	d.reported = nil
	d.events = nil
	d.byKey = map[effect.Key]*Event[P]{}
}
