package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/trackfx/trackfx/internal/analysis"
	"github.com/trackfx/trackfx/internal/file"
	"github.com/trackfx/trackfx/internal/report"
	"github.com/trackfx/trackfx/internal/store"
	"github.com/trackfx/trackfx/internal/version"
)

var (
	c           = kingpin.Flag("config", "config file name (YAML)").Short('c').Default("trackfx.yml").String()
	i           = kingpin.Flag("input", "song options file name (YAML)").Short('i').Required().String()
	addChecksum = kingpin.Flag("add-checksum", "automatically add the chart checksum to the options file").Bool()
	useCache    = kingpin.Flag("cache", "look up and store results in the cache file of the config").Default("true").Bool()
	pruneAfter  = kingpin.Flag("prune-after", "remove cached results older than this").Default("720h").Duration()
	asJSON      = kingpin.Flag("json", "write the result as JSON instead of a report").Bool()
	width       = kingpin.Flag("width", "width of the effect timelines; zero means the terminal width").Int()
	dumpChart   = kingpin.Flag("dump-chart", "also write the decrypted chart as YAML to this file").String()
)

func writeResult(res *analysis.Result) error {
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	w := *width
	if w <= 0 {
		w = report.TerminalWidth(int(os.Stdout.Fd()))
	}
	return report.Render(os.Stdout, res, report.Options{
		Width:    w,
		Language: report.DetectLanguage(),
	})
}

func Main() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %v", err)
	}
	fsys := os.DirFS(cwd)

	config, err := file.ReadConfig(fsys, *c)
	if err != nil {
		return fmt.Errorf("failed to read config: %v", err)
	}

	options, err := file.ReadOptions(fsys, *i)
	if err != nil {
		return fmt.Errorf("failed to read options: %v", err)
	}

	wantChecksum := options.InputFileSHA256 == ""

	if *dumpChart != "" {
		err := file.DumpChart(fsys, options, *dumpChart)
		if err != nil {
			return fmt.Errorf("failed to dump chart: %v", err)
		}
	}

	var res *analysis.Result
	if *useCache && config.CacheFile != "" {
		cache, err := store.Open(config.CacheFile)
		if err != nil {
			return fmt.Errorf("failed to open cache: %v", err)
		}
		defer cache.Close()
		if n, err := cache.Prune(time.Now().Add(-*pruneAfter)); err != nil {
			log.Printf("Could not prune cache - continuing anyway: %v.", err)
		} else if n > 0 {
			log.Printf("Pruned %d cached results.", n)
		}
		res, err = file.ProcessCached(fsys, config, options, cache)
		if err != nil {
			return fmt.Errorf("failed to process: %v", err)
		}
	} else {
		res, err = file.Process(fsys, config, options)
		if err != nil {
			return fmt.Errorf("failed to process: %v", err)
		}
	}

	err = writeResult(res)
	if err != nil {
		return fmt.Errorf("failed to write result: %v", err)
	}

	if wantChecksum && *addChecksum && options.InputFileSHA256 != "" {
		err := file.WriteOptions(*i, options)
		if err != nil {
			return fmt.Errorf("failed to write %v: %v", *i, err)
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
