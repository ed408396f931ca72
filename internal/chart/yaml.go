package chart

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type yamlPart struct {
	Difficulty Difficulty `yaml:"difficulty"`
	Phrases    []Phrase   `yaml:"phrases"`
}

type yamlTrack struct {
	Instrument Instrument `yaml:"instrument"`
	Parts      []yamlPart `yaml:"parts"`
}

type yamlSong struct {
	Name           string          `yaml:"name,omitempty"`
	Resolution     uint16          `yaml:"resolution,omitempty"`
	TimeSignatures []TimeSignature `yaml:"time_signatures,omitempty"`
	Tracks         []yamlTrack     `yaml:"tracks"`
}

// ReadYAML reads a chart written as YAML phrase lists.
func ReadYAML(r io.Reader) (*Song, error) {
	var ys yamlSong
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err := dec.Decode(&ys)
	if err != nil {
		return nil, fmt.Errorf("could not decode chart: %v", err)
	}
	if len(ys.Tracks) == 0 {
		return nil, ErrNoTracks
	}
	song := &Song{
		Name:           ys.Name,
		Resolution:     ys.Resolution,
		TimeSignatures: ys.TimeSignatures,
	}
	for _, yt := range ys.Tracks {
		if _, found := song.Track(yt.Instrument); found {
			return nil, fmt.Errorf("duplicate track %v", yt.Instrument)
		}
		t := NewTrack(yt.Instrument)
		for _, yp := range yt.Parts {
			if _, found := t.Difficulty(yp.Difficulty); found {
				return nil, fmt.Errorf("duplicate difficulty %v of %v", yp.Difficulty, yt.Instrument)
			}
			p := t.Part(yp.Difficulty)
			p.Phrases = yp.Phrases
		}
		if err := song.AddTrack(t); err != nil {
			return nil, err
		}
	}
	return song, nil
}

// WriteYAML writes song in the format ReadYAML reads.
func WriteYAML(w io.Writer, song *Song) error {
	ys := yamlSong{
		Name:           song.Name,
		Resolution:     song.Resolution,
		TimeSignatures: song.TimeSignatures,
	}
	tracks := song.Tracks()
	if song.Vocals != nil {
		tracks = append(tracks, song.Vocals)
	}
	for _, t := range tracks {
		yt := yamlTrack{Instrument: t.Instrument}
		for _, d := range AllDifficulties {
			p, ok := t.Difficulty(d)
			if !ok {
				continue
			}
			yt.Parts = append(yt.Parts, yamlPart{Difficulty: d, Phrases: p.Phrases})
		}
		ys.Tracks = append(ys.Tracks, yt)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	err := enc.Encode(&ys)
	if err != nil {
		return fmt.Errorf("could not encode chart: %v", err)
	}
	return enc.Close()
}
