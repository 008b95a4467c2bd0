// Package packed reads and writes fields of a compiled layout in place.
//
// A Record owns a byte slice of exactly the layout's size. A View addresses a
// record stored at some offset of a bitfield.Memory, such as WebAssembly
// linear memory. Both expose the same accessors:
//
//	rec := packed.New(res)
//	rec.Set("length", 1500)
//	v, _ := rec.Get("length")
//	rec.SetLabel("kind", "Ack")
//	kind, _ := rec.Label("kind")
//
// Set rejects values wider than the field. Label reports stored bits that
// match no alternative as errors.KindInvalidDiscriminant; MustLabel panics on
// the same condition.
package packed
