package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/trackfx/trackfx/internal/chart"
	"github.com/trackfx/trackfx/internal/file"
	"github.com/trackfx/trackfx/internal/session"
	"github.com/trackfx/trackfx/internal/version"
)

var (
	i               = kingpin.Flag("input", "chart file name (MIDI or YAML, optionally age encrypted)").Short('i').Required().String()
	passphraseFile  = kingpin.Flag("passphrase-file", "file holding the passphrase of an encrypted chart").String()
	noteSpeed       = kingpin.Flag("note-speed", "highway scroll speed for the effects command").Default("7").Float64()
	transitionScale = kingpin.Flag("transition-scale", "length of an effect fade in highway units").Default("0.5").Float64()
)

var (
	joinRE     = regexp.MustCompile(`^j(?:oin)? (\S+) (\S+)(?: (\S+))?$`)
	registerRE = regexp.MustCompile(`^r(?:eg(?:ister)?)? (\S+)$`)
	hitRE      = regexp.MustCompile(`^h(?:it)? (\S+) ([\d.]+)$`)
	effectsRE  = regexp.MustCompile(`^e(?:ff(?:ects)?)? (\S+)$`)
	resetRE    = regexp.MustCompile(`^reset$`)
	statusRE   = regexp.MustCompile(`^s(?:t(?:atus)?)?$`)
	helpRE     = regexp.MustCompile(`^(?:\?|help)$`)
	quitRE     = regexp.MustCompile(`^q(?:u(?:it?)?)?$`)
)

const help = `Commands:
  join NAME INSTRUMENT [DIFFICULTY]  add a player (difficulty defaults to expert)
  register NAME                      send the player's star power to the detector
  hit NAME TIME                      the player completed the phrase around TIME
  effects NAME                       show the sliced track effects of the player
  status                             show players and unisons
  reset                              forget all registrations
  quit
`

var errQuit = errors.New("quit")

func processCommand(s *session.Session, out io.Writer, cmd string) error {
	if sub := joinRE.FindStringSubmatch(cmd); sub != nil {
		inst, err := chart.ParseInstrument(sub[2])
		if err != nil {
			return err
		}
		diff := chart.Expert
		if sub[3] != "" {
			diff, err = chart.ParseDifficulty(sub[3])
			if err != nil {
				return err
			}
		}
		s.Enqueue(session.Command{
			Join: &session.Player{Name: sub[1], Instrument: inst, Difficulty: diff},
		})
		return nil
	}
	if sub := registerRE.FindStringSubmatch(cmd); sub != nil {
		s.Enqueue(session.Command{
			Register: sub[1],
		})
		return nil
	}
	if sub := hitRE.FindStringSubmatch(cmd); sub != nil {
		t, err := strconv.ParseFloat(sub[2], 64)
		if err != nil {
			return errors.New("failed to parse command: does not end with a number")
		}
		s.Enqueue(session.Command{
			Hit: &session.Hit{Player: sub[1], Time: t},
		})
		return nil
	}
	if sub := effectsRE.FindStringSubmatch(cmd); sub != nil {
		p, found := s.Player(sub[1])
		if !found {
			return fmt.Errorf("%w %q", session.ErrUnknownPlayer, sub[1])
		}
		effects, err := s.TrackEffects(p, *noteSpeed)
		if err != nil {
			return err
		}
		if len(effects) == 0 {
			fmt.Fprintf(out, "%v has no track effects.\n", p)
		}
		for _, iv := range effects {
			fmt.Fprintf(out, "  %v\n", iv)
		}
		return nil
	}
	if resetRE.MatchString(cmd) {
		s.Enqueue(session.Command{
			Reset: true,
		})
		return nil
	}
	if statusRE.MatchString(cmd) {
		printStatus(out, s.State())
		return nil
	}
	if helpRE.MatchString(cmd) {
		fmt.Fprint(out, help)
		var names []string
		for _, inst := range chart.Instruments() {
			names = append(names, inst.String())
		}
		fmt.Fprintf(out, "Instruments: %v\n", strings.Join(names, " "))
		return nil
	}
	if quitRE.MatchString(cmd) {
		return errQuit
	}
	return errors.New("unknown command")
}

func printStatus(out io.Writer, state session.State) {
	fmt.Fprintf(out, "Players: %v\n", strings.Join(state.Players, ", "))
	fmt.Fprintf(out, "Registered: %d\n", state.Reported)
	for _, u := range state.Unisons {
		mark := " "
		if u.Completed {
			mark = "*"
		}
		parts := make([]string, len(u.Players))
		for i, name := range u.Players {
			parts[i] = fmt.Sprintf("%s (%v)", name, u.Instruments[i])
		}
		fmt.Fprintf(out, " %s %8.3f - %8.3f  %d/%d  %v\n", mark, u.Start, u.End, u.SuccessCount, u.PartCount, strings.Join(parts, ", "))
	}
}

func completer(s *session.Session) readline.AutoCompleter {
	players := func(string) []string {
		return s.State().Players
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("join"),
		readline.PcItem("register", readline.PcItemDynamic(players)),
		readline.PcItem("hit", readline.PcItemDynamic(players)),
		readline.PcItem("effects", readline.PcItemDynamic(players)),
		readline.PcItem("status"),
		readline.PcItem("reset"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

func historyFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		log.Printf("Could not find cache directory - not keeping history: %v.", err)
		return ""
	}
	return filepath.Join(dir, "trackfx_unison_history")
}

func Main() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %v", err)
	}
	fsys := os.DirFS(cwd)

	passphrase, err := file.ReadPassphrase(fsys, *passphraseFile)
	if err != nil {
		return err
	}
	song, _, err := file.ReadChart(fsys, *i, passphrase)
	if err != nil {
		return fmt.Errorf("failed to read chart: %w", err)
	}

	s := session.New(&session.Options{
		Song:            song,
		TransitionScale: *transitionScale,
	})
	defer s.Close()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:       "\033[1munison>\033[m ",
		HistoryFile:  historyFile(),
		AutoComplete: completer(s),
	})
	if err != nil {
		return fmt.Errorf("could not initialize readline: %v", err)
	}
	defer rl.Close()
	out := rl.Stdout()
	log.SetOutput(rl.Stderr())

	s.OnUnisonComplete(func(u session.UnisonState) {
		fmt.Fprintf(out, "\033[1;32mUnison at %.3f completed by %v!\033[m\n", u.Start, strings.Join(u.Players, ", "))
	})

	fmt.Fprintf(out, "%v - %d tracks. Type help for commands.\n", song.Name, len(song.Tracks()))
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt || err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read command: %v", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		err = processCommand(s, out, line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(out, "\033[1;31mCould not parse command %q:\033[0;31m %v\033[m\n", line, err)
			continue
		}
		state := s.Update()
		if state.Err != nil {
			fmt.Fprintf(out, "\033[1;31mError:\033[0;31m %v\033[m\n", state.Err)
		}
	}
}

func main() {
	kingpin.Version(version.Version())
	kingpin.Parse()
	err := Main()
	if err != nil {
		log.Printf("Exiting due to: %v.", err)
		os.Exit(1)
	}
}
