package fixture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultOutputPath is relative to the working directory
const DefaultOutputPath = "gened_output.json"

const indent = "    "

// Encode renders records as one JSON array with sorted keys and 4-space
// indentation. No trailing newline is written.
func Encode(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}

	data, err := json.MarshalIndent(records, "", indent)
	if err != nil {
		return nil, fmt.Errorf("failed to encode records: %w", err)
	}

	return data, nil
}

// WriteFile encodes records and writes them to path, replacing any existing
// file. It returns the number of bytes written.
func WriteFile(path string, records []Record) (n int64, err error) {
	data, err := Encode(records)
	if err != nil {
		return 0, err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to open output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	written, err := file.Write(data)
	if err != nil {
		return int64(written), fmt.Errorf("failed to write output file: %w", err)
	}

	return int64(written), nil
}
