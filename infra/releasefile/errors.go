package releasefile

import "fmt"

// ValidationError reports a malformed or out of range line in a release
// file. Line is the 0-based index of the offending line.
type ValidationError struct {
	Line   int
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("line %d: %s (got %q)", e.Line, e.Reason, e.Value)
}
