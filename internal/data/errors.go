package data

import (
	"errors"
	"fmt"
)

// ErrInvalidSpec marks a malformed type definition. Loaders wrap it so
// callers can test with errors.Is.
var ErrInvalidSpec = errors.New("invalid spec")

func invalid(table, name, format string, args ...any) error {
	return fmt.Errorf("%s %q: %s: %w", table, name, fmt.Sprintf(format, args...), ErrInvalidSpec)
}
