package chart

import (
	"slices"

	"gitlab.com/gomidi/midi/v2/smf"
)

// markerTracker follows note-on/note-off pairs of phrase marker notes.
type markerTracker struct {
	open map[uint8]int64
}

func newMarkerTracker() *markerTracker {
	return &markerTracker{
		open: map[uint8]int64{},
	}
}

// Handle processes msg. When it closes a marker, it returns the marker's key and start tick.
func (t *markerTracker) Handle(tick int64, msg smf.Message) (key uint8, start int64, closed bool) {
	var ch, note uint8
	if msg.GetNoteStart(&ch, &note, nil) {
		if _, ok := t.open[note]; !ok {
			t.open[note] = tick
		}
		return 0, 0, false
	}
	if msg.GetNoteEnd(&ch, &note) {
		start, ok := t.open[note]
		if !ok {
			return 0, 0, false
		}
		delete(t.open, note)
		return note, start, true
	}
	return 0, 0, false
}

// Open returns the keys of markers that never got closed, sorted.
func (t *markerTracker) Open() []uint8 {
	keys := make([]uint8, 0, len(t.open))
	for k := range t.open {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
