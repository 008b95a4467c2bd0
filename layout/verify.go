package layout

import (
	"fmt"

	"github.com/prysmaticlabs/go-bitfield"

	"github.com/wippyai/bitfield/errors"
)

// Verify checks that the fields of l partition [0, TotalBits) exactly, in
// declaration order, and that every width and discriminant fits.
//
// Plan and Derive already guarantee all of this for layouts they build, so
// inside Compile it is an assertion: a failure there means a planner bug, not
// bad input. It is exported for layouts assembled or modified by hand.
func Verify(l *Layout) error {
	if l.TotalBits%8 != 0 || l.TotalBytes*8 != l.TotalBits {
		return errors.NotByteAligned(uint64(l.TotalBits))
	}

	covered := bitfield.NewBitlist(uint64(l.TotalBits))
	next := 0
	for _, f := range l.Fields {
		if f.Bits < 1 || f.Bits > MaxFieldBits {
			return errors.FieldWidthOutOfRange(f.Name, uint64(f.Bits))
		}
		if f.Offset != next {
			return errors.New(errors.PhasePlan, errors.KindInvalidData).
				Field(f.Name).
				Value(uint64(f.Offset)).
				Bound(uint64(next)).
				Detail("field starts at bit %d, expected %d", f.Offset, next).
				Build()
		}
		for bit := f.Offset; bit < f.End(); bit++ {
			if bit >= l.TotalBits || covered.BitAt(uint64(bit)) {
				return errors.InvalidData(errors.PhasePlan, fmt.Sprintf("bit %d of %s overlaps or exceeds the layout", bit, f.Name))
			}
			covered.SetBitAt(uint64(bit), true)
		}
		if f.Specifier != nil {
			for i, v := range f.Specifier.Values {
				if f.Bits < 64 && v >= uint64(1)<<uint(f.Bits) {
					return errors.DiscriminantOutOfRange(f.Specifier.SetID, f.Specifier.Labels[i], v, uint64(1)<<uint(f.Bits)-1)
				}
			}
		}
		next = f.End()
	}

	if covered.Count() != uint64(l.TotalBits) {
		return errors.InvalidData(errors.PhasePlan, fmt.Sprintf("fields cover %d of %d bits", covered.Count(), l.TotalBits))
	}
	return nil
}
