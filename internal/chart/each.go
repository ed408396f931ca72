package chart

import (
	"errors"

	"gitlab.com/gomidi/midi/v2/smf"
)

// StopIteration can be returned to return without failure.
var StopIteration = errors.New("forEachEvent: StopIteration")

// forEachEvent calls yield for every event of the file in absolute tick order,
// across all tracks. Ties are broken by track index.
func forEachEvent(mid *smf.SMF, yield func(tick int64, track int, msg smf.Message) error) error {
	// pos is the index of the NEXT event from each track.
	pos := make([]int, len(mid.Tracks))
	// at is the tick of the LAST event from each track.
	at := make([]int64, len(mid.Tracks))
	for {
		earliest := -1
		var earliestTick int64
		for i, t := range mid.Tracks {
			p := pos[i]
			if p >= len(t) {
				continue
			}
			tick := at[i] + int64(t[p].Delta)
			if earliest < 0 || tick < earliestTick {
				earliest = i
				earliestTick = tick
			}
		}
		if earliest < 0 {
			return nil
		}
		msg := mid.Tracks[earliest][pos[earliest]].Message
		if !msg.Is(smf.MetaEndOfTrackMsg) {
			err := yield(earliestTick, earliest, msg)
			if errors.Is(err, StopIteration) {
				return nil
			}
			if err != nil {
				return err
			}
		}
		pos[earliest]++
		at[earliest] = earliestTick
	}
}

// forEachTrackEvent calls yield for every event of a single track with its absolute tick.
func forEachTrackEvent(t smf.Track, yield func(tick int64, msg smf.Message) error) error {
	var tick int64
	for _, ev := range t {
		tick += int64(ev.Delta)
		if ev.Message.Is(smf.MetaEndOfTrackMsg) {
			continue
		}
		err := yield(tick, ev.Message)
		if errors.Is(err, StopIteration) {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}
