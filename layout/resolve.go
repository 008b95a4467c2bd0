package layout

import "github.com/wippyai/bitfield/errors"

// Width is a descriptor with its resolved bit width
type Width struct {
	Specifier *EnumSpecifier // set for derived fields
	Field     FieldDescriptor
	Bits      int
}

// Resolver assigns bit widths to descriptors
type Resolver struct {
	specs *SpecifierTable
	sets  map[string]*AlternativeSet
	exact bool
}

// NewResolver creates a resolver over the supplied alternative sets. With
// exact set, a bits override must equal the derived width instead of merely
// holding it.
func NewResolver(specs *SpecifierTable, sets []*AlternativeSet, exact bool) *Resolver {
	if specs == nil {
		specs = NewSpecifierTable()
	}
	return &Resolver{
		specs: specs,
		sets:  setIndex(sets),
		exact: exact,
	}
}

// Resolve returns the widths of every descriptor that resolved cleanly,
// in input order, and all errors found along the way. Problems with an
// alternative set are reported once, however many fields reference it.
func (r *Resolver) Resolve(descs []FieldDescriptor) ([]Width, errors.List) {
	var errs errors.List
	widths := make([]Width, 0, len(descs))
	reported := make(map[string]bool)

	for _, d := range descs {
		switch d.Source.Kind {
		case WidthFixed:
			w := d.Source.Bits
			if w < 1 || w > MaxFieldBits {
				errs.Add(errors.FieldWidthOutOfRange(d.Name, uint64(w)))
				continue
			}
			if d.Override != nil && *d.Override != w {
				errs.Add(errors.BitsOverrideMismatch(d.Name, uint64(*d.Override), uint64(w)))
				continue
			}
			widths = append(widths, Width{Field: d, Bits: int(w)})

		case WidthDerived:
			set, ok := r.sets[d.Source.Set]
			if !ok {
				errs.Add(errors.UnknownAlternativeSet(d.Name, d.Source.Set))
				continue
			}

			spec := r.specs.Get(set)
			if !reported[set.ID] {
				reported[set.ID] = true
				for _, e := range spec.Errors {
					cp := *e
					errs.Add(&cp)
				}
			}
			if !spec.Valid() {
				continue
			}

			bits, err := r.derivedWidth(d, spec)
			if err != nil {
				errs.Add(err)
				continue
			}
			widths = append(widths, Width{Field: d, Bits: bits, Specifier: spec})
		}
	}

	return widths, errs
}

func (r *Resolver) derivedWidth(d FieldDescriptor, spec *EnumSpecifier) (int, *errors.Error) {
	if d.Override == nil {
		if !spec.PowerOfTwo {
			err := errors.EnumNotPowerOfTwo(spec.SetID, spec.Count)
			err.Field = d.Name
			return 0, err
		}
		return spec.Bits, nil
	}

	o := *d.Override
	if o < 1 || o > MaxFieldBits {
		return 0, errors.FieldWidthOutOfRange(d.Name, uint64(o))
	}
	if int(o) < spec.Bits || (r.exact && int(o) != spec.Bits) {
		return 0, errors.BitsOverrideMismatch(d.Name, uint64(o), uint64(spec.Bits))
	}
	return int(o), nil
}
