package layout

import "github.com/wippyai/bitfield/errors"

// Parse validates the raw field list. It returns one descriptor per
// structurally usable field, in declaration order, together with every
// problem found. Fields with a broken width source are dropped from the
// descriptor list; duplicates are kept so their widths are still checked.
func Parse(in Input) ([]FieldDescriptor, errors.List) {
	var errs errors.List

	if len(in.Fields) == 0 {
		errs.Add(errors.EmptyFieldList())
		return nil, errs
	}

	sets := setIndex(in.Sets)
	for _, id := range conflictingSets(in.Sets) {
		errs.Add(errors.ConflictingAlternativeSet(id))
	}
	seen := make(map[string]bool, len(in.Fields))
	descs := make([]FieldDescriptor, 0, len(in.Fields))

	for i, f := range in.Fields {
		if f.Name == "" {
			errs.Add(errors.InvalidFieldName(i))
		} else if seen[f.Name] {
			errs.Add(errors.DuplicateFieldName(f.Name))
		}
		seen[f.Name] = true

		hasWidth := f.Width != nil
		hasSet := f.Set != ""
		if hasWidth == hasSet {
			errs.Add(errors.AmbiguousWidthSource(f.Name))
			continue
		}

		desc := FieldDescriptor{Name: f.Name, Override: f.Bits}
		if hasWidth {
			desc.Source = Fixed(*f.Width)
		} else {
			if _, ok := sets[f.Set]; !ok {
				errs.Add(errors.UnknownAlternativeSet(f.Name, f.Set))
				continue
			}
			desc.Source = Derived(f.Set)
		}
		descs = append(descs, desc)
	}

	return descs, errs
}

// setIndex maps set identities to definitions. Conflicting redefinitions are
// reported by Parse; the index keeps the first.
func setIndex(sets []*AlternativeSet) map[string]*AlternativeSet {
	m := make(map[string]*AlternativeSet, len(sets))
	for _, s := range sets {
		if s == nil {
			continue
		}
		if _, dup := m[s.ID]; !dup {
			m[s.ID] = s
		}
	}
	return m
}

// conflictingSets returns, once each and in input order, the IDs defined more
// than once with different alternatives. Repeating an identical definition is
// allowed.
func conflictingSets(sets []*AlternativeSet) []string {
	first := make(map[string]*AlternativeSet, len(sets))
	reported := make(map[string]bool)
	var ids []string
	for _, s := range sets {
		if s == nil {
			continue
		}
		prev, ok := first[s.ID]
		if !ok {
			first[s.ID] = s
			continue
		}
		if !reported[s.ID] && !sameAlternatives(prev.Alternatives, s.Alternatives) {
			reported[s.ID] = true
			ids = append(ids, s.ID)
		}
	}
	return ids
}
