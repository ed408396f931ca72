package effect

import (
	"cmp"
	"fmt"
	"log"
	"slices"
)

// DefaultTransitionScale is the length of one transition fade on the highway.
const DefaultTransitionScale = 0.5

// Verbose enables debug logging of the slicing steps.
var Verbose = false

// Slicer turns overlapping effect intervals into a single timeline.
type Slicer struct {
	// TransitionScale is the on-highway length of a transition fade.
	TransitionScale float64
}

// Slice slices with the default transition scale.
func Slice(noteSpeed float64, lists ...[]Interval) []Interval {
	return Slicer{TransitionScale: DefaultTransitionScale}.Slice(noteSpeed, lists...)
}

// MinGap returns the shortest gap, in seconds, that can show a seam between two
// intervals at the given note speed.
func (s Slicer) MinGap(noteSpeed float64) float64 {
	if noteSpeed <= 0 {
		return 0
	}
	return 2 * s.TransitionScale / noteSpeed
}

// Slice merges all lists into a sorted sequence of non-overlapping intervals.
//
// Overlapping time gets a combined kind. Edges where two output intervals meet,
// or come closer than MinGap, have their transitions disabled. The input slices
// are not modified.
func (s Slicer) Slice(noteSpeed float64, lists ...[]Interval) []Interval {
	work := prepare(lists)
	minGap := s.MinGap(noteSpeed)
	var out []Interval
	i := 0
	for i < len(work) {
		cur := work[i]
		if i+1 == len(work) {
			out = emit(out, cur)
			break
		}
		next := &work[i+1]
		if next.Start < cur.Start {
			// The time before cur has already been emitted.
			if next.End <= cur.Start {
				work = slices.Delete(work, i+1, i+2)
				continue
			}
			next.Start = cur.Start
			next.StartTransition = false
		}
		switch {
		case cur.End <= next.Start:
			if cur.End == next.Start || next.Start-cur.End < minGap {
				mid := (cur.End + next.Start) / 2
				cur.End = mid
				cur.EndTransition = false
				next.Start = mid
				next.StartTransition = false
			}
			out = emit(out, cur)
			i++
		case cur.Contains(*next):
			out, i = sliceNested(work, i, out)
		default:
			out, i = sliceOverlap(work, i, out)
		}
	}
	if Verbose {
		log.Printf("Sliced %d effects into %d.", len(work), len(out))
	}
	return out
}

func prepare(lists [][]Interval) []Interval {
	var work []Interval
	for _, l := range lists {
		for _, iv := range l {
			if !(iv.End > iv.Start) {
				log.Printf("Dropping effect with inverted range: %v.", iv)
				continue
			}
			work = append(work, iv)
		}
	}
	slices.SortStableFunc(work, func(a, b Interval) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return work
}

func emit(out []Interval, iv Interval) []Interval {
	if iv.End <= iv.Start {
		return out
	}
	return append(out, iv)
}

func combine(outer, inner Kind) Kind {
	k, ok := Combine(outer, inner)
	switch {
	case !ok:
		log.Printf("Unsupported effect combination: %v inside %v, keeping %v.", inner, outer, outer)
	case outer == inner:
		log.Printf("Overlapping %v effects, merging them.", outer)
	case reversed[kindPair{outer, inner}]:
		log.Printf("%v starts inside %v, showing %v.", inner, outer, k)
	}
	return k
}

// sliceNested handles work[i] containing work[i+1], and any further intervals
// it contains. The remaining tail of work[i] is put back as the new head; the
// returned index points at it.
func sliceNested(work []Interval, i int, out []Interval) ([]Interval, int) {
	outer := work[i]
	head := outer
	head.End = work[i+1].Start
	head.EndTransition = false
	out = emit(out, head)
	at := head.End
	j := i + 1
	for ; j < len(work) && outer.Contains(work[j]); j++ {
		in := work[j]
		if in.End <= at {
			if Verbose {
				log.Printf("Effect %v hidden by earlier nested effect.", in)
			}
			continue
		}
		if in.Start > at {
			fill := outer
			fill.Start, fill.End = at, in.Start
			fill.StartTransition, fill.EndTransition = false, false
			out = emit(out, fill)
		}
		out = emit(out, Interval{
			Start: max(in.Start, at),
			End:   in.End,
			Kind:  combine(outer.Kind, in.Kind),
		})
		at = in.End
	}
	tail := outer
	tail.Start = at
	tail.StartTransition = false
	work[j-1] = tail
	return out, j - 1
}

// sliceOverlap handles work[i+1] starting inside work[i] and reaching its end or
// beyond. Whatever remains after the shared part is put back as the new head.
func sliceOverlap(work []Interval, i int, out []Interval) ([]Interval, int) {
	cur, next := work[i], work[i+1]
	head := cur
	head.End = next.Start
	head.EndTransition = false
	out = emit(out, head)

	shared := Interval{
		Start: next.Start,
		End:   min(cur.End, next.End),
		Kind:  combine(cur.Kind, next.Kind),
	}
	if head.End <= head.Start {
		shared.StartTransition = cur.StartTransition && next.StartTransition
	}
	var rest Interval
	switch {
	case next.End > cur.End:
		rest = next
		rest.Start = cur.End
	case cur.End > next.End:
		rest = cur
		rest.Start = next.End
	default:
		shared.EndTransition = cur.EndTransition && next.EndTransition
		work[i+1] = shared
		return out, i + 1
	}
	rest.StartTransition = false
	out = emit(out, shared)
	work[i+1] = rest
	return out, i + 1
}

// Validate checks that intervals are non-empty, sorted and do not overlap.
func Validate(intervals []Interval) error {
	for i, iv := range intervals {
		if !(iv.End > iv.Start) {
			return fmt.Errorf("effect %d (%v) is empty", i, iv)
		}
		if i > 0 && intervals[i-1].End > iv.Start {
			return fmt.Errorf("effect %d (%v) overlaps %v", i, iv, intervals[i-1])
		}
	}
	return nil
}
