package report

import (
	"fmt"
	"io"
	"log"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/jeandeaual/go-locale"
	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/trackfx/trackfx/internal/analysis"
	"github.com/trackfx/trackfx/internal/effect"
)

const defaultWidth = 80

const reportTemplate = `
{{- $title := .Title | default "Untitled" -}}
{{ $title | upper }}
{{ repeat (len $title) "=" }}
Note speed {{ number .NoteSpeed }}{{ with .SHA256 }}, chart {{ trunc 12 . }}{{ end }}
{{ range .Instruments }}
{{ .Instrument | toString | replace "_" " " | title }} ({{ .Difficulty }}): {{ .StarPower }} star power, {{ len .Unisons }} unison{{ if ne (len .Unisons) 1 }}s{{ end }}
{{- range .Unisons }}
  {{ seconds .Start.Time }} - {{ seconds .End.Time }}{{ if .Start.HasBar }}  bar {{ position .Start }} - {{ position .End }}{{ end }}
{{- end }}
  {{ timeline .Effects }}
{{ end -}}
`

var kindMarks = map[effect.Kind]byte{
	effect.Solo:              's',
	effect.Unison:            'u',
	effect.SoloAndUnison:     'S',
	effect.DrumFill:          'd',
	effect.SoloAndDrumFill:   'D',
	effect.DrumFillAndUnison: 'U',
}

type Options struct {
	// Width is the width of the effect timelines. Zero means the terminal width.
	Width int

	// Language formats numbers. Undetermined means the user's locale.
	Language language.Tag
}

// DetectLanguage returns the first usable locale of the user, or English.
func DetectLanguage() language.Tag {
	locs, err := locale.GetLocales()
	if err != nil {
		log.Printf("Could not detect locales - working without: %v.", err)
	}
	for _, loc := range locs {
		lang, err := language.Parse(loc)
		if err != nil {
			continue
		}
		return lang
	}
	return language.English
}

// TerminalWidth returns the width of the terminal at fd, or 80 if fd is no terminal.
func TerminalWidth(fd int) int {
	if !term.IsTerminal(fd) {
		return defaultWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// timeline draws effects as one character per column, spanning [0, end).
func timeline(effects []effect.Interval, end float64, width int) string {
	if width <= 0 || end <= 0 {
		return ""
	}
	var b strings.Builder
	i := 0
	for c := 0; c < width; c++ {
		t := (float64(c) + 0.5) * end / float64(width)
		for i < len(effects) && effects[i].End <= t {
			i++
		}
		if i < len(effects) && effects[i].Start <= t {
			b.WriteByte(kindMarks[effects[i].Kind])
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

// Render writes a text report of res.
func Render(w io.Writer, res *analysis.Result, opts Options) error {
	lang := opts.Language
	if lang == language.Und {
		lang = DetectLanguage()
	}
	printer := message.NewPrinter(lang)
	width := opts.Width
	if width == 0 {
		width = defaultWidth
	}
	// Timelines are indented by two.
	width -= 2

	var end float64
	for _, ir := range res.Instruments {
		if n := len(ir.Effects); n != 0 && ir.Effects[n-1].End > end {
			end = ir.Effects[n-1].End
		}
	}

	funcs := sprig.TxtFuncMap()
	funcs["number"] = func(v float64) string {
		return printer.Sprintf("%.2f", v)
	}
	funcs["seconds"] = func(v float64) string {
		m := int(v) / 60
		return fmt.Sprintf("%d:%06.3f", m, v-float64(60*m))
	}
	funcs["position"] = func(p analysis.Position) string {
		return printer.Sprintf("%d.%.2f", p.Bar+1, p.Beat+1)
	}
	funcs["timeline"] = func(effects []effect.Interval) string {
		return timeline(effects, end, width)
	}
	tmpl, err := template.New("report").Funcs(funcs).Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("could not parse template: %v", err)
	}
	err = tmpl.Execute(w, res)
	if err != nil {
		return fmt.Errorf("could not render report: %v", err)
	}
	return nil
}
