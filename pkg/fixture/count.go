package fixture

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCount reads the optional record count from positional arguments.
// With no arguments it returns DefaultCount. Only args[0] is considered.
func ParseCount(args []string) (int, error) {
	if len(args) == 0 {
		return DefaultCount, nil
	}

	raw := strings.TrimSpace(args[0])
	count, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidCount, args[0])
	}
	if count < 0 {
		return 0, fmt.Errorf("%w: %d is negative", ErrInvalidCount, count)
	}

	return count, nil
}
