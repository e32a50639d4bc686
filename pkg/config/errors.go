package config

import (
	"errors"
	"fmt"
)

var (
	// ErrReadConfig indicates the catalog file could not be read or parsed.
	ErrReadConfig = errors.New("failed to read catalog file")

	// ErrInvalidConfig indicates the catalog file does not match the overlay schema or holds
	// values that cannot be applied.
	ErrInvalidConfig = errors.New("invalid catalog file")
)

// LoadError wraps a loading failure with the file it came from.
type LoadError struct {
	Path   string
	Detail string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %v: %s", e.Path, e.Err, e.Detail)
	}

	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func (e *LoadError) Is(target error) bool {
	return errors.Is(e.Err, target)
}
