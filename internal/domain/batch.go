// Package domain defines the core types shared by the categorization and
// weight-resolution engines: columnar event batches, batch metadata, named
// cuts, and the error taxonomy.
//
// Everything in this package is immutable after construction. Per-batch
// arrays (boolean columns, weight arrays) are the only values recomputed
// per processed chunk of events; the configuration objects built on top of
// these types are created once per run and shared read-only across workers.
package domain

import "fmt"

// EventBatch is a columnar, fixed-length view over a chunk of events.
// Cuts and weight providers read per-field arrays through it; the engine
// never owns the underlying storage or its schema.
//
// Accessors return a *SchemaError when the field is absent or has the
// wrong type. Schema errors are configuration bugs, not transient
// failures: they abort the current batch and are never retried.
type EventBatch interface {
	// Len returns the number of events in the batch.
	Len() int

	// Floats returns the float64 column for the named field.
	Floats(field string) ([]float64, error)

	// Ints returns the int64 column for the named field.
	Ints(field string) ([]int64, error)

	// Bools returns the boolean column for the named field.
	Bools(field string) ([]bool, error)
}

// Metadata carries the per-batch record handed in by the dataset layer:
// the sample this chunk belongs to and the run-condition keys cuts and
// weight providers select on (year, era, working points via Extra).
type Metadata struct {
	Sample  string `json:"sample" validate:"required"`
	Dataset string `json:"dataset"`
	Year    string `json:"year"`
	Era     string `json:"era"`
	IsMC    bool   `json:"is_mc"`

	// Extra holds free-form keys such as trigger lists or working points.
	Extra map[string]string `json:"extra,omitempty"`
}

// ColumnBatch is an in-memory EventBatch backed by plain column maps.
// It is the batch implementation used by tests and by the worker path,
// where partitions are decoded into memory before processing.
type ColumnBatch struct {
	length int
	floats map[string][]float64
	ints   map[string][]int64
	bools  map[string][]bool
}

// NewColumnBatch creates an empty batch of the given length.
func NewColumnBatch(length int) *ColumnBatch {
	return &ColumnBatch{
		length: length,
		floats: make(map[string][]float64),
		ints:   make(map[string][]int64),
		bools:  make(map[string][]bool),
	}
}

// SetFloats stores a float column. The column length must match the batch.
func (b *ColumnBatch) SetFloats(field string, col []float64) error {
	if len(col) != b.length {
		return fmt.Errorf("column %q: length %d does not match batch length %d", field, len(col), b.length)
	}
	b.floats[field] = col
	return nil
}

// SetInts stores an integer column. The column length must match the batch.
func (b *ColumnBatch) SetInts(field string, col []int64) error {
	if len(col) != b.length {
		return fmt.Errorf("column %q: length %d does not match batch length %d", field, len(col), b.length)
	}
	b.ints[field] = col
	return nil
}

// SetBools stores a boolean column. The column length must match the batch.
func (b *ColumnBatch) SetBools(field string, col []bool) error {
	if len(col) != b.length {
		return fmt.Errorf("column %q: length %d does not match batch length %d", field, len(col), b.length)
	}
	b.bools[field] = col
	return nil
}

// Len returns the number of events in the batch.
func (b *ColumnBatch) Len() int { return b.length }

// Floats returns the float64 column for the named field.
func (b *ColumnBatch) Floats(field string) ([]float64, error) {
	col, ok := b.floats[field]
	if !ok {
		return nil, NewSchemaError(field, "float64")
	}
	return col, nil
}

// Ints returns the int64 column for the named field.
func (b *ColumnBatch) Ints(field string) ([]int64, error) {
	col, ok := b.ints[field]
	if !ok {
		return nil, NewSchemaError(field, "int64")
	}
	return col, nil
}

// Bools returns the boolean column for the named field.
func (b *ColumnBatch) Bools(field string) ([]bool, error) {
	col, ok := b.bools[field]
	if !ok {
		return nil, NewSchemaError(field, "bool")
	}
	return col, nil
}
