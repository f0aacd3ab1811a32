// Package mask implements a per-event boolean-vector store holding an
// arbitrary number of named columns, unconstrained by the native word
// width. Each column occupies one bit per event inside word-indexed
// []uint64 vectors; a name directory maps the column name to its
// (word, bit) slot. Once the 65th column is added a second word vector is
// chained transparently, and so on — callers never observe the word
// boundary. Composition operations (AllOf, AnyOf, NoneOf) touch only the
// words spanning the requested names.
//
// The cartesian selection engine is the primary consumer: a cross product
// of axes routinely produces far more categories than fit in a single
// machine word.
package mask

import (
	"fmt"

	"github.com/hepstack/cutflow/internal/domain"
)

const wordBits = 64

// slot locates a named column inside the packed storage.
type slot struct {
	word int
	bit  uint
}

// Mask stores named per-event boolean columns in packed form.
// Columns are immutable after Add; all composition operations return
// freshly allocated vectors.
type Mask struct {
	length int
	names  []string
	index  map[string]slot
	// words[w][i] holds bit b of event i for every column in slot (w, b).
	words [][]uint64
}

// New creates an empty mask for batches of the given length.
func New(length int) *Mask {
	return &Mask{
		length: length,
		index:  make(map[string]slot),
	}
}

// Len returns the event count the mask was sized for.
func (m *Mask) Len() int { return m.length }

// Names returns the column names in insertion order.
func (m *Mask) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Count returns the number of stored columns.
func (m *Mask) Count() int { return len(m.names) }

// Has reports whether a column with the given name was added.
func (m *Mask) Has(name string) bool {
	_, ok := m.index[name]
	return ok
}

// Add stores a named boolean column. It fails if the name is already
// present or the column length does not match the mask.
func (m *Mask) Add(name string, col []bool) error {
	if _, ok := m.index[name]; ok {
		return fmt.Errorf("mask: column %q: %w", name, domain.ErrDuplicateName)
	}
	if len(col) != m.length {
		return domain.NewShapeError("mask column "+name, len(col), m.length)
	}

	n := len(m.names)
	s := slot{word: n / wordBits, bit: uint(n % wordBits)}
	if s.word == len(m.words) {
		m.words = append(m.words, make([]uint64, m.length))
	}

	vec := m.words[s.word]
	for i, v := range col {
		if v {
			vec[i] |= 1 << s.bit
		}
	}

	m.names = append(m.names, name)
	m.index[name] = s
	return nil
}

// Get returns a copy of the named column.
func (m *Mask) Get(name string) ([]bool, error) {
	s, ok := m.index[name]
	if !ok {
		return nil, fmt.Errorf("mask: column %q: %w", name, domain.ErrUnknownName)
	}

	out := make([]bool, m.length)
	vec := m.words[s.word]
	for i := range out {
		out[i] = vec[i]&(1<<s.bit) != 0
	}
	return out, nil
}

// selectBits groups the requested names into one bit pattern per touched
// word, so composition iterates only the words the subset spans.
func (m *Mask) selectBits(names []string) (map[int]uint64, error) {
	sel := make(map[int]uint64, 1)
	for _, name := range names {
		s, ok := m.index[name]
		if !ok {
			return nil, fmt.Errorf("mask: column %q: %w", name, domain.ErrUnknownName)
		}
		sel[s.word] |= 1 << s.bit
	}
	return sel, nil
}

// AllOf returns the elementwise AND across the named columns. An empty
// name list yields an all-true vector, the identity of AND.
func (m *Mask) AllOf(names ...string) ([]bool, error) {
	sel, err := m.selectBits(names)
	if err != nil {
		return nil, err
	}

	out := make([]bool, m.length)
	for i := range out {
		out[i] = true
	}
	for w, bits := range sel {
		vec := m.words[w]
		for i := range out {
			out[i] = out[i] && vec[i]&bits == bits
		}
	}
	return out, nil
}

// AnyOf returns the elementwise OR across the named columns. An empty
// name list yields an all-false vector, the identity of OR.
func (m *Mask) AnyOf(names ...string) ([]bool, error) {
	sel, err := m.selectBits(names)
	if err != nil {
		return nil, err
	}

	out := make([]bool, m.length)
	for w, bits := range sel {
		vec := m.words[w]
		for i := range out {
			out[i] = out[i] || vec[i]&bits != 0
		}
	}
	return out, nil
}

// NoneOf returns the elementwise NOT-any across the named columns: true
// for events that fail every named column.
func (m *Mask) NoneOf(names ...string) ([]bool, error) {
	any, err := m.AnyOf(names...)
	if err != nil {
		return nil, err
	}
	for i := range any {
		any[i] = !any[i]
	}
	return any, nil
}

// CountTrue returns the number of events passing the named column.
func (m *Mask) CountTrue(name string) (int, error) {
	s, ok := m.index[name]
	if !ok {
		return 0, fmt.Errorf("mask: column %q: %w", name, domain.ErrUnknownName)
	}

	n := 0
	vec := m.words[s.word]
	bit := uint64(1) << s.bit
	for i := range vec {
		if vec[i]&bit != 0 {
			n++
		}
	}
	return n, nil
}
