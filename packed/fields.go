package packed

import (
	"go.uber.org/zap"

	"github.com/wippyai/bitfield/errors"
	"github.com/wippyai/bitfield/layout"
)

// storage loads and stores the bytes an accessor touches
type storage interface {
	load(a *layout.AccessorSpec) ([]byte, error)
	store(a *layout.AccessorSpec, chunk []byte) error
}

// FieldValue is a snapshot of one field
type FieldValue struct {
	Name   string
	Label  string // empty for fixed fields or unknown discriminants
	Value  uint64
	Bits   int
	Offset int
}

type fields struct {
	res *layout.Result
	st  storage
}

func (f *fields) accessor(name string) (*layout.AccessorSpec, error) {
	a, ok := f.res.Accessor(name)
	if !ok {
		return nil, errors.UnknownField(name)
	}
	return a, nil
}

func (f *fields) specifier(name string) (*layout.EnumSpecifier, error) {
	rf, ok := f.res.Layout.Field(name)
	if !ok {
		return nil, errors.UnknownField(name)
	}
	if rf.Specifier == nil {
		return nil, errors.TypeMismatch(name, "field has no alternative set")
	}
	return rf.Specifier, nil
}

// Layout returns the layout the accessors were compiled from
func (f *fields) Layout() *layout.Layout {
	return f.res.Layout
}

// Get reads a field
func (f *fields) Get(name string) (uint64, error) {
	a, err := f.accessor(name)
	if err != nil {
		return 0, err
	}
	chunk, err := f.st.load(a)
	if err != nil {
		return 0, err
	}
	return a.ReadRange(chunk), nil
}

// Set writes a field, leaving every other field untouched
func (f *fields) Set(name string, v uint64) error {
	a, err := f.accessor(name)
	if err != nil {
		return err
	}
	if v&^a.Mask() != 0 {
		return errors.Overflow(name, v, uint64(a.Bits))
	}
	chunk, err := f.st.load(a)
	if err != nil {
		return err
	}
	a.WriteRange(chunk, v)
	return f.st.store(a, chunk)
}

// Bool reads a one-bit field
func (f *fields) Bool(name string) (bool, error) {
	a, err := f.accessor(name)
	if err != nil {
		return false, err
	}
	if a.Bits != 1 {
		return false, errors.TypeMismatch(name, "bool needs a 1-bit field")
	}
	v, err := f.Get(name)
	return v == 1, err
}

// SetBool writes a one-bit field
func (f *fields) SetBool(name string, b bool) error {
	a, err := f.accessor(name)
	if err != nil {
		return err
	}
	if a.Bits != 1 {
		return errors.TypeMismatch(name, "bool needs a 1-bit field")
	}
	var v uint64
	if b {
		v = 1
	}
	return f.Set(name, v)
}

// Label reads an enumerated field and maps it back to its alternative
func (f *fields) Label(name string) (string, error) {
	spec, err := f.specifier(name)
	if err != nil {
		return "", err
	}
	v, err := f.Get(name)
	if err != nil {
		return "", err
	}
	label, ok := spec.Label(v)
	if !ok {
		return "", errors.InvalidDiscriminant(name, spec.SetID, v)
	}
	return label, nil
}

// MustLabel is Label for callers that treat unknown discriminants as
// corrupted storage. It panics on any error.
func (f *fields) MustLabel(name string) string {
	label, err := f.Label(name)
	if err != nil {
		Logger().Error("read of enumerated field failed", zap.String("field", name), zap.Error(err))
		panic(err)
	}
	return label
}

// SetLabel writes the discriminant of an alternative
func (f *fields) SetLabel(name, label string) error {
	spec, err := f.specifier(name)
	if err != nil {
		return err
	}
	v, ok := spec.Lookup(label)
	if !ok {
		return errors.UnknownLabel(name, spec.SetID, label)
	}
	return f.Set(name, v)
}

// Values reads every field in layout order
func (f *fields) Values() ([]FieldValue, error) {
	out := make([]FieldValue, 0, len(f.res.Layout.Fields))
	for _, rf := range f.res.Layout.Fields {
		v, err := f.Get(rf.Name)
		if err != nil {
			return nil, err
		}
		fv := FieldValue{Name: rf.Name, Value: v, Bits: rf.Bits, Offset: rf.Offset}
		if rf.Specifier != nil {
			fv.Label, _ = rf.Specifier.Label(v)
		}
		out = append(out, fv)
	}
	return out, nil
}
