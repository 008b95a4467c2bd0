// Package layout compiles declarative bit-field descriptors into a packed,
// byte-aligned layout and per-field accessor specifications.
//
// A compilation is a single linear pass:
//
//	Parse → Resolve → Plan → Synthesize
//
// Parse checks the descriptor list is structurally sound. Resolve assigns
// every field a bit width, either declared directly (Fixed) or derived from an
// enumerated alternative set (Derived), optionally forced by a bits override.
// Plan places fields contiguously in declaration order and requires the total
// to be a multiple of eight bits. Synthesize describes, per field, which bytes
// to touch and how to shift and mask them.
//
// # Bit Order
//
// Bit 0 of byte 0 is the least-significant bit of the whole layout. A field
// spanning several bytes takes its low-order bits from the earliest byte:
//
//	value = byte[n] >> shift | byte[n+1] << (8-shift) | ...
//
// # Errors
//
// Every stage except Plan accumulates its errors so a caller sees every
// problem at once. A misaligned total is reported alone and stops the pass
// before synthesis. Failed compilations return an errors.List and no Layout.
//
// # Usage
//
//	c := layout.NewCompiler()
//	res, err := c.Compile(layout.Input{
//		Fields: []layout.RawField{
//			layout.FixedField("a", 1),
//			layout.FixedField("b", 3),
//			layout.EnumField("mode", "Mode"),
//		},
//		Sets: []*layout.AlternativeSet{layout.Labels("Mode", "Off", "Low", "Mid", "High")},
//	})
//
// Enum specifiers are memoized in a SpecifierTable. A Compiler owns one unless
// a shared table is passed through Config; tables are safe for concurrent use.
package layout
