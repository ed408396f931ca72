package chart

import (
	"slices"
)

type timeSig struct {
	start int64
	num   int
	denom int
}

// bars maps ticks to bar/beat positions.
type bars struct {
	resolution int64
	sigs       []timeSig
}

func newBars(resolution int64, sigs []TimeSignature) bars {
	b := bars{
		resolution: resolution,
		sigs: []timeSig{
			{start: 0, num: 4, denom: 4},
		},
	}
	for _, s := range sigs {
		if s.Numerator <= 0 || s.Denominator <= 0 {
			continue
		}
		b.sigs = append(b.sigs, timeSig{start: int64(s.Tick), num: s.Numerator, denom: s.Denominator})
	}
	// If there are multiple time signatures at the same start time, only keep the LAST one.
	// As CompactFunc keeps the first of a set of duplicates, we first reverse and then call CompactFunc.
	slices.Reverse(b.sigs)
	slices.SortStableFunc(b.sigs, func(x, y timeSig) int {
		if x.start < y.start {
			return -1
		}
		if x.start > y.start {
			return +1
		}
		return 0
	})
	b.sigs = slices.CompactFunc(b.sigs, func(x, y timeSig) bool {
		return x.start == y.start
	})
	return b
}

func (s timeSig) beatLength(resolution int64) int64 {
	return resolution * 4 / int64(s.denom)
}

func (s timeSig) barLength(resolution int64) int64 {
	return s.beatLength(resolution) * int64(s.num)
}

// FromTick returns the zero-based bar and the fractional beat within it.
// A time signature change in the middle of a bar ends that bar early.
func (b bars) FromTick(tick int64) (int, float64) {
	bar := 0
	last := len(b.sigs) - 1
	for i, sig := range b.sigs {
		barLen := sig.barLength(b.resolution)
		beatLen := sig.beatLength(b.resolution)
		if barLen <= 0 {
			continue
		}
		if i == last || tick < b.sigs[i+1].start {
			n := tick - sig.start
			if n < 0 {
				n = 0
			}
			return bar + int(n/barLen), float64(n%barLen) / float64(beatLen)
		}
		span := b.sigs[i+1].start - sig.start
		// Partial bars count as one.
		bar += int((span + barLen - 1) / barLen)
	}
	return bar, 0
}
