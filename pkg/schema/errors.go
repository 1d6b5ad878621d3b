package schema

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Key    string // Field name
	Reason string // Human-readable reason for failure
	Value  any    // The value that failed validation
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Key, e.Reason)
}

// ValidationErrors returns the field failures carried by err, or nil.
func ValidationErrors(err error) []*ValidationError {
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		var single *ValidationError
		if errors.As(err, &single) {
			return []*ValidationError{single}
		}
		return nil
	}
	var out []*ValidationError
	for _, e := range merr.Errors {
		var verr *ValidationError
		if errors.As(e, &verr) {
			out = append(out, verr)
		}
	}
	return out
}
