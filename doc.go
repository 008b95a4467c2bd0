// Package bitfield compiles declarative bit-field descriptions into packed,
// byte-aligned layouts and reads and writes them in place.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	bitfield/            Root package with the Memory interface
//	├── layout/          Descriptor validation, width resolution, offsets, accessor specs
//	├── packed/          Get/set of fields in a byte slice or any Memory
//	├── wasmmem/         Memory backed by WebAssembly linear memory (wazero)
//	├── witsource/       WIT records as field descriptors
//	├── schema/          JSON field descriptions
//	├── errors/          Structured error types
//	└── cmd/bitfield/    Command line front end
//
// # Quick Start
//
//	res, err := layout.Compile(layout.Input{
//		Name: "header",
//		Fields: []layout.RawField{
//			layout.FixedField("version", 4),
//			layout.EnumField("kind", "Kind"),
//			layout.FixedField("length", 26),
//		},
//		Sets: []*layout.AlternativeSet{layout.Labels("Kind", "Data", "Ack", "Ping", "Close")},
//	})
//	if err != nil {
//		log.Fatal(err) // errors.List with every problem found
//	}
//
//	rec := packed.New(res)
//	_ = rec.Set("length", 1500)
//	_ = rec.SetLabel("kind", "Ack")
//	fmt.Printf("% x\n", rec.Bytes())
//
// # Bit Order
//
// Layouts are least-significant-bit first: bit 0 of byte 0 is bit 0 of the
// first field, and a field crossing bytes takes its low bits from the earlier
// byte.
//
// # Thread Safety
//
// Compilers and specifier tables are safe for concurrent use. Records and
// views are not; synchronize access to one buffer externally.
package bitfield
