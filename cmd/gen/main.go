package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"

	"pkg.jsn.cam/benchgen/internal/history"
	"pkg.jsn.cam/benchgen/pkg/fixture"
)

/*generates gened_output.json: an array of nested records used as parser benchmark input*/

const usage = `Usage: gen [flags] [count]

Writes count records (default 1000000) as one JSON array with sorted keys
and 4-space indentation.

Flags:
`

func main() {
	if err := execute(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("[GEN] %v", err)
	}
}

func execute(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}

	output := fs.String("output", fixture.DefaultOutputPath, "Output JSON file path")
	seed := fs.Uint64("seed", 0, "Random seed; 0 picks one")
	showProgress := fs.Bool("progress", false, "Render a progress bar on stderr")
	historyPath := fs.String("history", "", "Record the run in this bbolt file")
	listHistory := fs.Bool("list-history", false, "Print the runs recorded in -history and exit")
	forget := fs.String("forget", "", "Remove the run with this ID from -history and exit")
	clearHistory := fs.Bool("clear-history", false, "Remove every run from -history and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case *listHistory:
		return printHistory(*historyPath, stdout)
	case *forget != "":
		return withHistory(*historyPath, "-forget", func(store *history.Store) error {
			if err := store.Delete(*forget); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Removed run %s\n", *forget)
			return nil
		})
	case *clearHistory:
		return withHistory(*historyPath, "-clear-history", func(store *history.Store) error {
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(stdout, "Cleared run history")
			return nil
		})
	}

	// nothing may touch the filesystem before the count is known to be valid
	count, err := fixture.ParseCount(fs.Args())
	if err != nil {
		return err
	}

	var store *history.Store
	if *historyPath != "" {
		store, err = history.Open(*historyPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	if *seed == 0 {
		*seed = rand.Uint64()
	}

	absPath, err := filepath.Abs(*output)
	if err != nil {
		return err
	}
	run := history.NewRun(count, *seed, absPath)

	log.Printf("[GEN] Generating %s records (seed %d)", humanize.Comma(int64(count)), *seed)

	var p fixture.Progress
	if *showProgress && count > 0 {
		p = progressbar.NewOptions64(int64(count),
			progressbar.OptionSetWriter(stderr),
			progressbar.OptionSetDescription("generating"),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionOnCompletion(func() { fmt.Fprintln(stderr) }),
		)
	}

	records := fixture.NewSeeded(*seed).Generate(count, p)

	n, err := fixture.WriteFile(*output, records)
	if err != nil {
		return err
	}
	run.Finish(n)

	fmt.Fprintf(stdout, "wrote %s records (%s) to %s\n",
		humanize.Comma(int64(count)), humanize.Bytes(uint64(n)), *output)

	if store != nil {
		if err := store.Record(run); err != nil {
			return err
		}
		log.Printf("[GEN] Recorded run %s", run.ID)
	}

	return nil
}

// withHistory opens the history file for a maintenance flag and closes it after fn
func withHistory(path, flagName string, fn func(store *history.Store) error) error {
	if path == "" {
		return fmt.Errorf("%s requires -history", flagName)
	}

	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(store)
}

func printHistory(path string, w io.Writer) error {
	return withHistory(path, "-list-history", func(store *history.Store) error {
		return listRuns(store, w)
	})
}

func listRuns(store *history.Store, w io.Writer) error {
	runs, err := store.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return nil
	}

	for _, run := range runs {
		fmt.Fprintf(w, "%s  %s  %s records  %s  seed=%d  took %v  %s\n",
			run.ID,
			run.StartedAt.Format("2006-01-02 15:04:05"),
			humanize.Comma(int64(run.Count)),
			humanize.Bytes(uint64(run.Bytes)),
			run.Seed,
			run.Duration.Round(time.Millisecond),
			run.Path,
		)
	}

	return nil
}
