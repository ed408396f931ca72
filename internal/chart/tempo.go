package chart

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2/smf"
)

const defaultBPM = 120.0

type tempoChange struct {
	tick    int64
	seconds float64 // absolute time of tick
	bpm     float64
}

// tempoMap converts ticks to seconds.
type tempoMap struct {
	resolution int64
	changes    []tempoChange
}

// readTiming collects tempo changes and time signatures from all tracks.
func readTiming(mid *smf.SMF) (*tempoMap, []TimeSignature, error) {
	mt, ok := mid.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, nil, fmt.Errorf("unsupported time format %v", mid.TimeFormat)
	}
	tm := &tempoMap{
		resolution: int64(mt),
		changes: []tempoChange{
			{tick: 0, seconds: 0, bpm: defaultBPM},
		},
	}
	var sigs []TimeSignature
	err := forEachEvent(mid, func(tick int64, track int, msg smf.Message) error {
		var bpm float64
		if msg.GetMetaTempo(&bpm) {
			if bpm <= 0 {
				return fmt.Errorf("invalid tempo %v at tick %d", bpm, tick)
			}
			tm.add(tick, bpm)
			return nil
		}
		var num, denom, cpt, dsqpq uint8
		if msg.GetMetaTimeSig(&num, &denom, &cpt, &dsqpq) {
			sigs = append(sigs, TimeSignature{
				Tick:        uint32(tick),
				Numerator:   int(num),
				Denominator: int(denom),
			})
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return tm, sigs, nil
}

// add appends a tempo change. Changes must arrive in tick order.
func (tm *tempoMap) add(tick int64, bpm float64) {
	last := &tm.changes[len(tm.changes)-1]
	if tick == last.tick {
		// Several tempos on one tick: the later one wins.
		last.bpm = bpm
		return
	}
	tm.changes = append(tm.changes, tempoChange{
		tick:    tick,
		seconds: tm.Seconds(tick),
		bpm:     bpm,
	})
}

// Seconds returns the absolute time of tick.
func (tm *tempoMap) Seconds(tick int64) float64 {
	c := tm.changes[0]
	for _, next := range tm.changes[1:] {
		if next.tick > tick {
			break
		}
		c = next
	}
	quarters := float64(tick-c.tick) / float64(tm.resolution)
	return c.seconds + quarters*60/c.bpm
}
