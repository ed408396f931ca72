package effect

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind says which visual effect an interval drives.
type Kind int

const (
	Solo Kind = iota
	Unison
	SoloAndUnison
	DrumFill
	SoloAndDrumFill
	DrumFillAndUnison
)

var kindNames = []string{
	Solo:              "Solo",
	Unison:            "Unison",
	SoloAndUnison:     "SoloAndUnison",
	DrumFill:          "DrumFill",
	SoloAndDrumFill:   "SoloAndDrumFill",
	DrumFillAndUnison: "DrumFillAndUnison",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Key identifies an interval by its time range alone.
type Key struct {
	Start, End float64
}

// Interval is a labelled time range on the track, in seconds.
//
// Two intervals with the same Key are the same event even if their kinds
// differ. Code that needs to look intervals up or deduplicate them must use
// Key, not the Interval value.
type Interval struct {
	Start float64
	End   float64
	Kind  Kind

	// StartTransition and EndTransition enable the fade at each edge.
	StartTransition bool
	EndTransition   bool
}

// NewInterval returns an interval with both transitions enabled.
func NewInterval(start, end float64, kind Kind) Interval {
	return Interval{
		Start:           start,
		End:             end,
		Kind:            kind,
		StartTransition: true,
		EndTransition:   true,
	}
}

func (iv Interval) Key() Key {
	return Key{Start: iv.Start, End: iv.End}
}

func (iv Interval) Duration() float64 {
	return iv.End - iv.Start
}

// Overlaps reports whether the two intervals share any time. Intervals that
// only touch do not overlap.
func (iv Interval) Overlaps(o Interval) bool {
	return iv.Start < o.End && o.Start < iv.End
}

// Contains reports whether o lies strictly inside iv, touching neither edge.
func (iv Interval) Contains(o Interval) bool {
	return iv.Start < o.Start && o.End < iv.End
}

func (iv Interval) String() string {
	edge := func(b bool, on, off string) string {
		if b {
			return on
		}
		return off
	}
	return fmt.Sprintf("%s%.3f,%.3f%s %v",
		edge(iv.StartTransition, "[", "|"), iv.Start, iv.End, edge(iv.EndTransition, "]", "|"), iv.Kind)
}

// ParseKind parses a kind name such as "solo" or "DrumFillAndUnison".
func ParseKind(s string) (Kind, error) {
	norm := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", ""))
	for k, name := range kindNames {
		if strings.ToLower(name) == norm {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown effect kind %q", s)
}

// ParseInterval parses an interval written as KIND:START-END, with times in
// seconds. Both transitions are enabled.
func ParseInterval(s string) (Interval, error) {
	name, times, ok := strings.Cut(s, ":")
	if !ok {
		return Interval{}, fmt.Errorf("%q is not of the form KIND:START-END", s)
	}
	kind, err := ParseKind(name)
	if err != nil {
		return Interval{}, err
	}
	start, end, ok := strings.Cut(times, "-")
	if !ok {
		return Interval{}, fmt.Errorf("%q is not of the form KIND:START-END", s)
	}
	startT, err := strconv.ParseFloat(start, 64)
	if err != nil {
		return Interval{}, fmt.Errorf("invalid start in %q: %v", s, err)
	}
	endT, err := strconv.ParseFloat(end, 64)
	if err != nil {
		return Interval{}, fmt.Errorf("invalid end in %q: %v", s, err)
	}
	return NewInterval(startT, endT, kind), nil
}
