package layout

import (
	"testing"

	"github.com/wippyai/bitfield/errors"
)

func TestVerify(t *testing.T) {
	enum := Derive(Labels("E", "A", "B", "C", "D"))

	tests := []struct {
		name   string
		layout *Layout
		kind   errors.Kind
	}{
		{
			name: "valid",
			layout: &Layout{TotalBits: 16, TotalBytes: 2, Fields: []ResolvedField{
				{Name: "a", Bits: 2, Offset: 0, Specifier: enum},
				{Name: "b", Bits: 14, Offset: 2},
			}},
		},
		{
			name: "gap",
			layout: &Layout{TotalBits: 8, TotalBytes: 1, Fields: []ResolvedField{
				{Name: "a", Bits: 3, Offset: 0},
				{Name: "b", Bits: 4, Offset: 4},
			}},
			kind: errors.KindInvalidData,
		},
		{
			name: "overlap",
			layout: &Layout{TotalBits: 8, TotalBytes: 1, Fields: []ResolvedField{
				{Name: "a", Bits: 4, Offset: 0},
				{Name: "b", Bits: 4, Offset: 3},
			}},
			kind: errors.KindInvalidData,
		},
		{
			name: "short",
			layout: &Layout{TotalBits: 16, TotalBytes: 2, Fields: []ResolvedField{
				{Name: "a", Bits: 8, Offset: 0},
			}},
			kind: errors.KindInvalidData,
		},
		{
			name: "overrun",
			layout: &Layout{TotalBits: 8, TotalBytes: 1, Fields: []ResolvedField{
				{Name: "a", Bits: 16, Offset: 0},
			}},
			kind: errors.KindInvalidData,
		},
		{
			name:   "misaligned",
			layout: &Layout{TotalBits: 7, TotalBytes: 0},
			kind:   errors.KindNotByteAligned,
		},
		{
			name: "zero_width",
			layout: &Layout{TotalBits: 8, TotalBytes: 1, Fields: []ResolvedField{
				{Name: "a", Bits: 0, Offset: 0},
				{Name: "b", Bits: 8, Offset: 0},
			}},
			kind: errors.KindFieldWidthOutOfRange,
		},
		{
			name: "narrow_enum",
			layout: &Layout{TotalBits: 8, TotalBytes: 1, Fields: []ResolvedField{
				{Name: "a", Bits: 1, Offset: 0, Specifier: enum},
				{Name: "b", Bits: 7, Offset: 1},
			}},
			kind: errors.KindDiscriminantOutOfRange,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Verify(tc.layout)
			if tc.kind == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			e, ok := err.(*errors.Error)
			if !ok {
				t.Fatalf("err = %v, want *errors.Error", err)
			}
			if e.Kind != tc.kind {
				t.Errorf("kind = %v, want %v", e.Kind, tc.kind)
			}
		})
	}
}
