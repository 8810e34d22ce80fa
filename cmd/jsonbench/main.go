package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"pkg.jsn.cam/benchgen/pkg/fixture"
)

/*times repeated decoding of a generated fixture with encoding/json*/

func main() {
	if err := execute(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("[BENCH] %v", err)
	}
}

func execute(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("jsonbench", flag.ContinueOnError)
	fs.SetOutput(stderr)

	file := fs.String("file", fixture.DefaultOutputPath, "Fixture to parse")
	times := fs.Int("times", 20, "Number of timed parses")
	validate := fs.Bool("validate", false, "Check the fixture against the record schema before timing")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *times < 1 {
		return fmt.Errorf("-times must be at least 1, got %d", *times)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("failed to read fixture: %w", err)
	}
	log.Printf("[BENCH] Loaded %s (%s)", *file, humanize.Bytes(uint64(len(data))))

	if *validate {
		count, err := fixture.Validate(data)
		if err != nil {
			return fmt.Errorf("%s: %w", *file, err)
		}
		fmt.Fprintf(stdout, "Validated %s records\n", humanize.Comma(int64(count)))
	}

	avg, err := benchmark(data, *times, func(i int, elapsed time.Duration) {
		fmt.Fprintf(stdout, "Parsed %d bytes in %f ms\n", len(data), millis(elapsed))
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Average parsing time: %f ms\n", millis(avg))
	return nil
}

// benchmark decodes data times times, reporting each run, and returns the
// mean decode time.
func benchmark(data []byte, times int, report func(i int, elapsed time.Duration)) (time.Duration, error) {
	var total time.Duration

	for i := 0; i < times; i++ {
		start := time.Now()

		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return 0, fmt.Errorf("run %d: failed to decode JSON: %w", i, err)
		}

		elapsed := time.Since(start)
		total += elapsed
		if report != nil {
			report(i, elapsed)
		}
	}

	return total / time.Duration(times), nil
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
