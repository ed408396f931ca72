package main

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/trackfx/trackfx/internal/effect"
	"github.com/trackfx/trackfx/internal/version"
)

var (
	noteSpeed       = kingpin.Flag("note-speed", "highway scroll speed; zero or less disables snapping").Default("7").Float64()
	transitionScale = kingpin.Flag("transition-scale", "length of an effect fade in highway units").Default("0.5").Float64()
	verbose         = kingpin.Flag("verbose", "log every slicing step").Short('v').Bool()
	check           = kingpin.Flag("check", "fail unless the output is sorted and non-overlapping").Bool()
	intervals       = kingpin.Arg("interval", "effect of the form KIND:START-END, e.g. solo:12.5-20; each argument is its own list").Required().Strings()
)

func Main() error {
	var lists [][]effect.Interval
	for _, arg := range *intervals {
		iv, err := effect.ParseInterval(arg)
		if err != nil {
			return fmt.Errorf("failed to parse interval: %v", err)
		}
		lists = append(lists, []effect.Interval{iv})
	}

	effect.Verbose = *verbose
	out := effect.Slicer{TransitionScale: *transitionScale}.Slice(*noteSpeed, lists...)
	for _, iv := range out {
		fmt.Println(iv)
	}

	if *check {
		if err := effect.Validate(out); err != nil {
			return fmt.Errorf("invalid output: %v", err)
		}
	}
	return nil
}

func main() {
	kingpin.Version(version.Version())
	kingpin.Parse()
	err := Main()
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
