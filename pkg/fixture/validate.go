package fixture

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Validate checks a generated document: it must be an array of records that
// match the schema, with object keys sorted at every level. It returns the
// number of records.
func Validate(data []byte) (int, error) {
	if err := CheckKeyOrder(data); err != nil {
		return 0, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var records []map[string]any
	if err := dec.Decode(&records); err != nil {
		return 0, fmt.Errorf("%w: document is not an array of objects: %v", ErrSchemaViolation, err)
	}
	if records == nil {
		return 0, fmt.Errorf("%w: document is null", ErrSchemaViolation)
	}
	if _, err := dec.Token(); err != io.EOF {
		return 0, fmt.Errorf("%w: trailing data after top-level array", ErrSchemaViolation)
	}

	for i, rec := range records {
		if err := checkRecord(rec); err != nil {
			return 0, fmt.Errorf("record %d: %w", i, err)
		}
	}

	return len(records), nil
}

// CheckKeyOrder walks the token stream and fails on the first object whose
// keys are not in strictly increasing order.
func CheckKeyOrder(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to decode JSON: %w", err)
	}
	return walkKeys(dec, tok, "$")
}

func walkKeys(dec *json.Decoder, tok json.Token, path string) error {
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil
	}

	switch delim {
	case '[':
		for i := 0; dec.More(); i++ {
			elem, err := dec.Token()
			if err != nil {
				return fmt.Errorf("failed to decode JSON: %w", err)
			}
			if err := walkKeys(dec, elem, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case '{':
		prev := ""
		for first := true; dec.More(); first = false {
			keyTok, err := dec.Token()
			if err != nil {
				return fmt.Errorf("failed to decode JSON: %w", err)
			}
			key := keyTok.(string)
			if !first && key <= prev {
				return fmt.Errorf("%w: %q follows %q at %s", ErrKeyOrder, key, prev, path)
			}
			prev = key

			val, err := dec.Token()
			if err != nil {
				return fmt.Errorf("failed to decode JSON: %w", err)
			}
			if err := walkKeys(dec, val, path+"."+key); err != nil {
				return err
			}
		}
	}

	// closing delimiter
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("failed to decode JSON: %w", err)
	}
	return nil
}

func checkRecord(rec map[string]any) error {
	if err := checkKeys(rec, "bar", "foo"); err != nil {
		return err
	}
	if err := checkInt("foo", rec["foo"]); err != nil {
		return err
	}

	bar, ok := rec["bar"].(map[string]any)
	if !ok {
		return fmt.Errorf("%w: bar is %T, want object", ErrSchemaViolation, rec["bar"])
	}
	if err := checkKeys(bar, "baz", "bizbizbiz", "bouou", "poo"); err != nil {
		return err
	}
	if err := checkLetters("bar.baz", bar["baz"], 0, MaxBazLen); err != nil {
		return err
	}
	if err := checkLetters("bar.bizbizbiz", bar["bizbizbiz"], MinBizbizbizLen, MaxBizbizbizLen); err != nil {
		return err
	}

	poo, ok := bar["poo"].(string)
	if !ok {
		return fmt.Errorf("%w: bar.poo is %T, want string", ErrSchemaViolation, bar["poo"])
	}
	if !isPooValue(poo) {
		return fmt.Errorf("%w: bar.poo = %q", ErrSchemaViolation, poo)
	}

	bouou, ok := bar["bouou"].([]any)
	if !ok {
		return fmt.Errorf("%w: bar.bouou is %T, want array", ErrSchemaViolation, bar["bouou"])
	}
	if len(bouou) > MaxBououLen {
		return fmt.Errorf("%w: bar.bouou has %d elements", ErrSchemaViolation, len(bouou))
	}
	for i, v := range bouou {
		if err := checkInt(fmt.Sprintf("bar.bouou[%d]", i), v); err != nil {
			return err
		}
	}

	return nil
}

func checkKeys(obj map[string]any, want ...string) error {
	if len(obj) != len(want) {
		return fmt.Errorf("%w: got %d keys, want %s", ErrSchemaViolation, len(obj), strings.Join(want, ", "))
	}
	for _, k := range want {
		if _, ok := obj[k]; !ok {
			return fmt.Errorf("%w: missing key %q", ErrSchemaViolation, k)
		}
	}
	return nil
}

func checkInt(field string, v any) error {
	num, ok := v.(json.Number)
	if !ok {
		return fmt.Errorf("%w: %s is %T, want integer", ErrSchemaViolation, field, v)
	}
	n, err := num.Int64()
	if err != nil {
		return fmt.Errorf("%w: %s = %s is not an integer", ErrSchemaViolation, field, num)
	}
	if n < 0 || n > MaxInt {
		return fmt.Errorf("%w: %s = %d out of range [0, %d]", ErrSchemaViolation, field, n, MaxInt)
	}
	return nil
}

func checkLetters(field string, v any, minLen, maxLen int) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("%w: %s is %T, want string", ErrSchemaViolation, field, v)
	}
	if len(s) < minLen || len(s) > maxLen {
		return fmt.Errorf("%w: %s has length %d, want [%d, %d]", ErrSchemaViolation, field, len(s), minLen, maxLen)
	}
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(Letters, s[i]) < 0 {
			return fmt.Errorf("%w: %s contains non-letter %q", ErrSchemaViolation, field, s[i])
		}
	}
	return nil
}

func isPooValue(s string) bool {
	for _, v := range PooValues {
		if s == v {
			return true
		}
	}
	return false
}
