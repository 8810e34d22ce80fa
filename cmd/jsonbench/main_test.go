package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pkg.jsn.cam/benchgen/pkg/fixture"
)

func writeFixture(t *testing.T, count int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), fixture.DefaultOutputPath)
	if _, err := fixture.WriteFile(path, fixture.NewSeeded(11).Generate(count, nil)); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestBenchmark(t *testing.T) {
	data, err := fixture.Encode(fixture.NewSeeded(1).Generate(50, nil))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	runs := 0
	avg, err := benchmark(data, 5, func(i int, elapsed time.Duration) {
		if i != runs {
			t.Errorf("report index = %d, want %d", i, runs)
		}
		runs++
	})
	if err != nil {
		t.Fatalf("benchmark failed: %v", err)
	}
	if runs != 5 {
		t.Errorf("reported %d runs, want 5", runs)
	}
	if avg < 0 {
		t.Errorf("average = %v, want >= 0", avg)
	}
}

func TestBenchmarkInvalidJSON(t *testing.T) {
	if _, err := benchmark([]byte("[{"), 3, nil); err == nil {
		t.Error("benchmark should fail on malformed JSON")
	}
}

func TestExecute(t *testing.T) {
	path := writeFixture(t, 30)

	var stdout bytes.Buffer
	if err := execute([]string{"-file", path, "-times", "3", "-validate"}, &stdout, io.Discard); err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	out := stdout.String()
	if !strings.Contains(out, "Validated 30 records") {
		t.Errorf("validation line missing:\n%s", out)
	}
	if got := strings.Count(out, "Parsed "); got != 3 {
		t.Errorf("printed %d run lines, want 3:\n%s", got, out)
	}
	if !strings.Contains(out, "Average parsing time:") {
		t.Errorf("average line missing:\n%s", out)
	}
}

func TestExecuteValidateRejectsUnsortedKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	doc := `[{"foo": 1, "bar": {"baz": "", "bizbizbiz": "abcdefghijklmnopqrst", "bouou": [], "poo": "true"}}]`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	err := execute([]string{"-file", path, "-validate"}, io.Discard, io.Discard)
	if !errors.Is(err, fixture.ErrKeyOrder) {
		t.Errorf("execute error = %v, want ErrKeyOrder", err)
	}
}

func TestExecuteMissingFile(t *testing.T) {
	err := execute([]string{"-file", filepath.Join(t.TempDir(), "missing.json")}, io.Discard, io.Discard)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("execute error = %v, want os.ErrNotExist", err)
	}
}

func TestExecuteRejectsZeroTimes(t *testing.T) {
	path := writeFixture(t, 1)
	if err := execute([]string{"-file", path, "-times", "0"}, io.Discard, io.Discard); err == nil {
		t.Error("-times 0 should be rejected")
	}
}
