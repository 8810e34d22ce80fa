package fixture

import "errors"

// Sentinel errors for common error conditions
var (
	// Argument errors
	ErrInvalidCount = errors.New("invalid record count")

	// Validation errors
	ErrSchemaViolation = errors.New("record does not match schema")
	ErrKeyOrder        = errors.New("object keys not sorted")
)
