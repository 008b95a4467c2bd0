// Package witsource builds layout inputs from WIT record types.
//
// Each record field becomes one packed field:
//
//	bool            1 bit
//	u8/u16/u32/u64  8/16/32/64 bits
//	enum            width derived from the case count
//	flags           one 1-bit field per flag, named field.flag
//
// Type aliases are followed. Signed, float, char, string and compound types
// have no packed encoding and are reported as errors.KindUnsupported.
package witsource

import (
	"fmt"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/bitfield/errors"
	"github.com/wippyai/bitfield/layout"
)

// FromTypeDef converts a WIT record type definition. All unsupported fields
// are reported together.
func FromTypeDef(td *wit.TypeDef) (layout.Input, error) {
	name := typeName(td)
	rec, ok := resolveAlias(td).(*wit.Record)
	if !ok {
		return layout.Input{}, errors.Unsupported(errors.PhaseLoad,
			fmt.Sprintf("type %s is not a record", name))
	}

	b := &builder{in: layout.Input{Name: name}, seen: make(map[string]bool)}
	var errs errors.List
	for _, f := range rec.Fields {
		if err := b.field(name, f); err != nil {
			errs.Add(err)
		}
	}
	if errs.Len() > 0 {
		return layout.Input{}, errs
	}
	return b.in, nil
}

// Load reads a JSON-encoded WIT resolve (as produced by wasm-tools) and
// converts the named record.
func Load(path, typeName string) (layout.Input, error) {
	res, err := wit.LoadJSON(path)
	if err != nil {
		return layout.Input{}, errors.Load("read WIT "+path, err)
	}
	td := Find(res, typeName)
	if td == nil {
		return layout.Input{}, errors.NotFound(errors.PhaseLoad, "WIT type", typeName)
	}
	return FromTypeDef(td)
}

// Find returns the first named type definition called name, or nil
func Find(res *wit.Resolve, name string) *wit.TypeDef {
	for _, td := range res.TypeDefs {
		if td.Name != nil && *td.Name == name {
			return td
		}
	}
	return nil
}

type builder struct {
	seen map[string]bool
	in   layout.Input
}

func (b *builder) field(record string, f wit.Field) *errors.Error {
	switch t := f.Type.(type) {
	case wit.Bool:
		b.fixed(f.Name, 1)
	case wit.U8:
		b.fixed(f.Name, 8)
	case wit.U16:
		b.fixed(f.Name, 16)
	case wit.U32:
		b.fixed(f.Name, 32)
	case wit.U64:
		b.fixed(f.Name, 64)
	case *wit.TypeDef:
		return b.typeDef(record, f.Name, t)
	default:
		return unsupported(f.Name, fmt.Sprintf("%T", f.Type))
	}
	return nil
}

func (b *builder) typeDef(record, field string, td *wit.TypeDef) *errors.Error {
	switch kind := resolveAlias(td).(type) {
	case *wit.Enum:
		b.enum(record, field, td, kind)
	case *wit.Flags:
		for _, flag := range kind.Flags {
			b.fixed(field+"."+flag.Name, 1)
		}
	case wit.Type:
		return b.field(record, wit.Field{Name: field, Type: kind})
	default:
		return unsupported(field, fmt.Sprintf("%T", kind))
	}
	return nil
}

// enum registers the case list once per named type so that fields sharing
// an enum share one alternative set.
func (b *builder) enum(record, field string, td *wit.TypeDef, e *wit.Enum) {
	id := record + "." + field
	if td.Name != nil {
		id = *td.Name
	}
	if !b.seen[id] {
		b.seen[id] = true
		labels := make([]string, len(e.Cases))
		for i, c := range e.Cases {
			labels[i] = c.Name
		}
		b.in.Sets = append(b.in.Sets, layout.Labels(id, labels...))
	}
	b.in.Fields = append(b.in.Fields, layout.EnumField(field, id))
}

func (b *builder) fixed(name string, bits uint) {
	b.in.Fields = append(b.in.Fields, layout.FixedField(name, bits))
}

// resolveAlias follows `type a = b` chains down to a concrete kind
func resolveAlias(td *wit.TypeDef) wit.TypeDefKind {
	kind := td.Kind
	for {
		next, ok := kind.(*wit.TypeDef)
		if !ok {
			return kind
		}
		kind = next.Kind
	}
}

func typeName(td *wit.TypeDef) string {
	if td.Name != nil {
		return *td.Name
	}
	return "anonymous"
}

func unsupported(field, what string) *errors.Error {
	return errors.New(errors.PhaseLoad, errors.KindUnsupported).
		Field(field).
		Detail("%s has no packed encoding", what).
		Build()
}
