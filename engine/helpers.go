package engine

import "fmt"

// wrapf prefixes err with a formatted context, keeping it matchable with
// errors.Is.
func wrapf(err error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
