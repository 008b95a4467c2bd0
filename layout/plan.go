package layout

import "github.com/wippyai/bitfield/errors"

// Plan places resolved fields back to back in declaration order. A total
// that is not a whole number of bytes yields NotByteAligned and no layout.
func Plan(name string, widths []Width) (*Layout, *errors.Error) {
	l := &Layout{
		Name:   name,
		Fields: make([]ResolvedField, 0, len(widths)),
		index:  make(map[string]int, len(widths)),
	}

	offset := 0
	for i, w := range widths {
		l.Fields = append(l.Fields, ResolvedField{
			Name:      w.Field.Name,
			Bits:      w.Bits,
			Offset:    offset,
			Specifier: w.Specifier,
		})
		l.index[w.Field.Name] = i
		offset += w.Bits
	}

	if offset%8 != 0 {
		return nil, errors.NotByteAligned(uint64(offset))
	}

	l.TotalBits = offset
	l.TotalBytes = offset / 8
	return l, nil
}
