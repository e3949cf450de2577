package loader

import "fmt"

// SourceError ties a fetch, decode or validation failure to the source
// that caused it.
type SourceError struct {
	Source string
	Op     string // "fetch", "decode" or "validate"
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Source, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }
