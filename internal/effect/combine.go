package effect

type kindPair struct {
	outer, inner Kind
}

// reversed lists the pairings resolved although the combined effect usually
// starts outside.
var reversed = map[kindPair]bool{
	{Unison, Solo}:     true,
	{Unison, DrumFill}: true,
}

var combinations = map[kindPair]Kind{
	{Solo, Unison}:     SoloAndUnison,
	{Unison, Solo}:     SoloAndUnison,
	{Solo, DrumFill}:   SoloAndDrumFill,
	{DrumFill, Unison}: DrumFillAndUnison,
	{Unison, DrumFill}: DrumFillAndUnison,
}

// Combine returns the kind of the time shared by an outer and an inner interval.
// Unsupported pairings return the outer kind and false.
func Combine(outer, inner Kind) (Kind, bool) {
	if outer == inner {
		return outer, true
	}
	if k, ok := combinations[kindPair{outer, inner}]; ok {
		return k, true
	}
	return outer, false
}
