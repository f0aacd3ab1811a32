package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for bit-mask and registry misuse. These indicate
// programming or configuration bugs and are treated as fatal.
var (
	// ErrDuplicateName indicates a named column or provider was registered twice.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrUnknownName indicates a lookup of a column name that was never added.
	ErrUnknownName = errors.New("unknown name")

	// ErrUnknownCut indicates a configuration referenced a cut that is not
	// present in the cut library.
	ErrUnknownCut = errors.New("unknown cut")

	// ErrUnknownWeight indicates a configuration referenced a weight
	// identifier with no registered provider.
	ErrUnknownWeight = errors.New("unknown weight")

	// ErrUnknownCategory indicates a lookup of a category name the active
	// selection does not produce.
	ErrUnknownCategory = errors.New("unknown category")
)

// SchemaError reports a field referenced by a cut or provider that is
// missing from the batch or carries the wrong type. It aborts the current
// batch; sibling batches are unaffected.
type SchemaError struct {
	Field string
	Want  string
}

// NewSchemaError creates a SchemaError for the given field and expected type.
func NewSchemaError(field, want string) *SchemaError {
	return &SchemaError{Field: field, Want: want}
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: field %q not available as %s", e.Field, e.Want)
}

// ShapeError reports a provider or cut output whose length does not match
// the batch. The batch is aborted rather than padded.
type ShapeError struct {
	Name string
	Got  int
	Want int
}

// NewShapeError creates a ShapeError for the named array.
func NewShapeError(name string, got, want int) *ShapeError {
	return &ShapeError{Name: name, Got: got, Want: want}
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("shape: %q has length %d, batch has length %d", e.Name, e.Got, e.Want)
}

// ConfigError aggregates every issue found during configuration
// validation so a user can fix a misconfigured run in one pass. It is
// raised before any batch is processed and halts the entire run.
type ConfigError struct {
	Issues []error
}

func (e *ConfigError) Error() string {
	if len(e.Issues) == 0 {
		return "configuration invalid"
	}
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = issue.Error()
	}
	return fmt.Sprintf("configuration invalid (%d issues): %s", len(e.Issues), strings.Join(msgs, "; "))
}

// Unwrap exposes the collected issues to errors.Is / errors.As.
func (e *ConfigError) Unwrap() []error { return e.Issues }
