package layout

import "strconv"

// MaxFieldBits is the widest field a layout can hold
const MaxFieldBits = 64

// WidthKind tags the source of a field's bit width
type WidthKind uint8

const (
	WidthFixed   WidthKind = iota // declared directly
	WidthDerived                  // counted from an alternative set
)

func (k WidthKind) String() string {
	switch k {
	case WidthFixed:
		return "fixed"
	case WidthDerived:
		return "derived"
	default:
		return "unknown"
	}
}

// WidthSource is either Fixed(Bits) or Derived(Set)
type WidthSource struct {
	Set  string
	Bits uint
	Kind WidthKind
}

// Fixed returns a width source of exactly bits
func Fixed(bits uint) WidthSource {
	return WidthSource{Kind: WidthFixed, Bits: bits}
}

// Derived returns a width source counted from the named alternative set
func Derived(set string) WidthSource {
	return WidthSource{Kind: WidthDerived, Set: set}
}

func (w WidthSource) String() string {
	if w.Kind == WidthDerived {
		return "derived(" + w.Set + ")"
	}
	return "fixed(" + strconv.FormatUint(uint64(w.Bits), 10) + ")"
}

// RawField is one unvalidated field as supplied by a declaration front end.
// Exactly one of Width and Set must be given; Bits optionally overrides the
// derived width of an enumerated field.
type RawField struct {
	Width *uint
	Bits  *uint
	Name  string
	Set   string
}

// FixedField returns a raw field of a declared width
func FixedField(name string, width uint) RawField {
	return RawField{Name: name, Width: &width}
}

// EnumField returns a raw field whose width comes from an alternative set
func EnumField(name, set string) RawField {
	return RawField{Name: name, Set: set}
}

// WithBits returns a copy of f carrying a bits override
func (f RawField) WithBits(bits uint) RawField {
	f.Bits = &bits
	return f
}

// FieldDescriptor is a validated field. Declaration order is bit order.
type FieldDescriptor struct {
	Override *uint
	Name     string
	Source   WidthSource
}

// Alternative is one named case of an alternative set. A nil Discriminant
// takes the previous value plus one, starting at zero.
type Alternative struct {
	Discriminant *uint64
	Label        string
}

// AlternativeSet is an ordered enumeration usable as a width source.
// ID is its identity for memoization.
type AlternativeSet struct {
	ID           string
	Alternatives []Alternative
}

// Labels builds a set whose discriminants are 0..N-1 in declaration order
func Labels(id string, labels ...string) *AlternativeSet {
	alts := make([]Alternative, len(labels))
	for i, l := range labels {
		alts[i] = Alternative{Label: l}
	}
	return &AlternativeSet{ID: id, Alternatives: alts}
}

// Case returns an alternative with an explicit discriminant
func Case(label string, discriminant uint64) Alternative {
	return Alternative{Label: label, Discriminant: &discriminant}
}

// Input is one compilation request
type Input struct {
	Name   string
	Fields []RawField
	Sets   []*AlternativeSet
}

// ResolvedField is a field placed in the layout
type ResolvedField struct {
	Specifier *EnumSpecifier // nil for fixed-width fields
	Name      string
	Bits      int
	Offset    int
}

// End returns the bit just past the field
func (f ResolvedField) End() int {
	return f.Offset + f.Bits
}

// Layout is the byte-aligned arrangement of all fields
type Layout struct {
	index      map[string]int
	Name       string
	Fields     []ResolvedField
	TotalBits  int
	TotalBytes int
}

// Field returns the placed field with the given name
func (l *Layout) Field(name string) (ResolvedField, bool) {
	i, ok := l.index[name]
	if !ok {
		return ResolvedField{}, false
	}
	return l.Fields[i], true
}

// StorageWidth is the unsigned integer size a field is read into
type StorageWidth uint8

const (
	Storage8  StorageWidth = 8
	Storage16 StorageWidth = 16
	Storage32 StorageWidth = 32
	Storage64 StorageWidth = 64
)

// StorageFor returns the smallest storage width holding bits
func StorageFor(bits int) StorageWidth {
	switch {
	case bits <= 8:
		return Storage8
	case bits <= 16:
		return Storage16
	case bits <= 32:
		return Storage32
	default:
		return Storage64
	}
}

// TypeName returns the Go type used for get/set signatures
func (s StorageWidth) TypeName() string {
	return "uint" + strconv.Itoa(int(s))
}

// Result is a successful compilation
type Result struct {
	Layout    *Layout
	Accessors []AccessorSpec
}

// Accessor returns the accessor spec for a field
func (r *Result) Accessor(name string) (*AccessorSpec, bool) {
	i, ok := r.Layout.index[name]
	if !ok {
		return nil, false
	}
	return &r.Accessors[i], true
}
