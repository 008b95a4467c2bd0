package layout

import (
	"math/bits"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/bitfield/errors"
)

// EnumSpecifier is the derived form of an alternative set: its canonical bit
// width and both directions of the label/discriminant mapping. Specifiers
// are shared between compilations and must not be modified.
type EnumSpecifier struct {
	Forward  map[string]uint64
	Backward map[uint64]string
	SetID    string
	Labels   []string // declaration order
	Values   []uint64 // discriminant of Labels[i]
	Errors   []*errors.Error
	Count    int
	Bits     int
	// PowerOfTwo reports whether Count alternatives fill Bits exactly
	PowerOfTwo bool
}

// Lookup returns the discriminant of a label
func (s *EnumSpecifier) Lookup(label string) (uint64, bool) {
	v, ok := s.Forward[label]
	return v, ok
}

// Label returns the label of a discriminant
func (s *EnumSpecifier) Label(value uint64) (string, bool) {
	l, ok := s.Backward[value]
	return l, ok
}

// Valid reports whether derivation found no problems with the set
func (s *EnumSpecifier) Valid() bool {
	return len(s.Errors) == 0
}

// CanonicalBits returns the width for n alternatives: 1 for a single
// alternative, otherwise ceil(log2(n)).
func CanonicalBits(n int) int {
	if n <= 1 {
		return 1
	}
	return bits.Len(uint(n - 1))
}

// Derive computes the specifier of an alternative set
func Derive(set *AlternativeSet) *EnumSpecifier {
	n := len(set.Alternatives)
	spec := &EnumSpecifier{
		SetID:      set.ID,
		Count:      n,
		Bits:       CanonicalBits(n),
		PowerOfTwo: n > 0 && n&(n-1) == 0,
		Forward:    make(map[string]uint64, n),
		Backward:   make(map[uint64]string, n),
		Labels:     make([]string, 0, n),
		Values:     make([]uint64, 0, n),
	}

	if n == 0 {
		spec.Errors = append(spec.Errors, errors.EmptyAlternativeSet(set.ID))
		return spec
	}

	max := uint64(1)<<uint(spec.Bits) - 1
	next := uint64(0)
	for _, alt := range set.Alternatives {
		value := next
		if alt.Discriminant != nil {
			value = *alt.Discriminant
		}
		next = value + 1

		if _, dup := spec.Forward[alt.Label]; dup {
			spec.Errors = append(spec.Errors, errors.DuplicateLabel(set.ID, alt.Label))
			continue
		}
		if _, dup := spec.Backward[value]; dup {
			spec.Errors = append(spec.Errors, errors.DuplicateDiscriminant(set.ID, alt.Label, value))
			continue
		}
		if value > max {
			spec.Errors = append(spec.Errors, errors.DiscriminantOutOfRange(set.ID, alt.Label, value, max))
		}

		spec.Forward[alt.Label] = value
		spec.Backward[value] = alt.Label
		spec.Labels = append(spec.Labels, alt.Label)
		spec.Values = append(spec.Values, value)
	}

	return spec
}

// SpecifierTable memoizes specifiers by alternative set identity. Requests
// are independent, so one ID may carry different cases in different inputs;
// each distinct definition is derived once and kept under its ID.
// It is safe for concurrent use.
type SpecifierTable struct {
	specs map[string][]tableEntry
	mu    sync.RWMutex
}

type tableEntry struct {
	spec *EnumSpecifier
	alts []Alternative // private copy of the definition
}

// NewSpecifierTable creates an empty table
func NewSpecifierTable() *SpecifierTable {
	return &SpecifierTable{specs: make(map[string][]tableEntry)}
}

// Get returns the specifier for set, deriving it on first use of this
// definition
func (t *SpecifierTable) Get(set *AlternativeSet) *EnumSpecifier {
	t.mu.RLock()
	spec, ok := t.find(set)
	t.mu.RUnlock()
	if ok {
		return spec
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	// Another goroutine may have derived it while we waited.
	if spec, ok = t.find(set); ok {
		return spec
	}
	spec = Derive(set)
	t.specs[set.ID] = append(t.specs[set.ID], tableEntry{spec: spec, alts: cloneAlternatives(set.Alternatives)})
	Logger().Debug("derived enum specifier",
		zap.String("set", set.ID),
		zap.Int("alternatives", spec.Count),
		zap.Int("bits", spec.Bits),
		zap.Int("definitions", len(t.specs[set.ID])),
		zap.Int("errors", len(spec.Errors)))
	return spec
}

// find must be called with t.mu held
func (t *SpecifierTable) find(set *AlternativeSet) (*EnumSpecifier, bool) {
	for _, e := range t.specs[set.ID] {
		if sameAlternatives(e.alts, set.Alternatives) {
			return e.spec, true
		}
	}
	return nil, false
}

// Lookup returns the first specifier derived under id
func (t *SpecifierTable) Lookup(id string) (*EnumSpecifier, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	entries := t.specs[id]
	if len(entries) == 0 {
		return nil, false
	}
	return entries[0].spec, true
}

// Prime derives every set up front, so a following parallel phase only reads
func (t *SpecifierTable) Prime(sets ...*AlternativeSet) {
	for _, s := range sets {
		if s != nil {
			t.Get(s)
		}
	}
}

// Len returns the number of memoized specifiers
func (t *SpecifierTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, entries := range t.specs {
		n += len(entries)
	}
	return n
}

// sameAlternatives reports whether two definitions list the same labels with
// the same explicit discriminants, in the same order
func sameAlternatives(a, b []Alternative) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Label != b[i].Label {
			return false
		}
		da, db := a[i].Discriminant, b[i].Discriminant
		if (da == nil) != (db == nil) || (da != nil && *da != *db) {
			return false
		}
	}
	return true
}

func cloneAlternatives(alts []Alternative) []Alternative {
	out := make([]Alternative, len(alts))
	for i, a := range alts {
		out[i].Label = a.Label
		if a.Discriminant != nil {
			d := *a.Discriminant
			out[i].Discriminant = &d
		}
	}
	return out
}
