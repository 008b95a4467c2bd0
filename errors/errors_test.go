package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseDerive,
				Kind:   KindDiscriminantOutOfRange,
				Field:  "mode",
				Set:    "Mode",
				Label:  "Turbo",
				Detail: "discriminant 9 out of range (max 3)",
			},
			contains: []string{"[derive]", "discriminant_out_of_range", "mode", "set Mode", "label Turbo", "max 3"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseParse,
				Kind:  KindEmptyFieldList,
			},
			contains: []string{"[parse]", "empty_field_list"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindInvalidData,
				Detail: "decode schema",
				Cause:  errors.New("unexpected EOF"),
			},
			contains: []string{"[load]", "invalid_data", "decode schema", "caused by", "unexpected EOF"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseLoad,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseResolve,
		Kind:  KindFieldWidthOutOfRange,
		Field: "foo",
	}

	if !err.Is(&Error{Phase: PhaseResolve, Kind: KindFieldWidthOutOfRange}) {
		t.Error("Is should match same phase and kind")
	}

	if err.Is(&Error{Phase: PhaseParse, Kind: KindFieldWidthOutOfRange}) {
		t.Error("Is should not match different phase")
	}

	if err.Is(&Error{Phase: PhaseResolve, Kind: KindBitsOverrideMismatch}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseResolve, Kind: KindFieldWidthOutOfRange}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseResolve, KindBitsOverrideMismatch).
		Field("mode").
		Set("Mode").
		Label("Fast").
		Value(1).
		Bound(2).
		Cause(cause).
		Detail("bits = %d, need %d", 1, 2).
		Build()

	if err.Phase != PhaseResolve {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseResolve)
	}
	if err.Kind != KindBitsOverrideMismatch {
		t.Errorf("Kind = %v, want %v", err.Kind, KindBitsOverrideMismatch)
	}
	if err.Field != "mode" || err.Set != "Mode" || err.Label != "Fast" {
		t.Errorf("Field=%q Set=%q Label=%q", err.Field, err.Set, err.Label)
	}
	if err.Value != 1 || err.Bound != 2 {
		t.Errorf("Value=%d Bound=%d, want 1 and 2", err.Value, err.Bound)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "bits = 1, need 2" {
		t.Errorf("Detail = %v, want 'bits = 1, need 2'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("DuplicateFieldName", func(t *testing.T) {
		err := DuplicateFieldName("a")
		if err.Kind != KindDuplicateFieldName || err.Phase != PhaseParse {
			t.Errorf("got %v/%v", err.Phase, err.Kind)
		}
		if err.Field != "a" {
			t.Errorf("Field = %q, want a", err.Field)
		}
	})

	t.Run("ConflictingAlternativeSet", func(t *testing.T) {
		err := ConflictingAlternativeSet("kind")
		if err.Kind != KindConflictingAlternativeSet || err.Phase != PhaseParse || err.Set != "kind" {
			t.Errorf("got %+v", err)
		}
	})

	t.Run("FieldWidthOutOfRange", func(t *testing.T) {
		err := FieldWidthOutOfRange("big", 65)
		if err.Kind != KindFieldWidthOutOfRange {
			t.Errorf("Kind = %v", err.Kind)
		}
		if err.Value != 65 || err.Bound != 64 {
			t.Errorf("Value=%d Bound=%d", err.Value, err.Bound)
		}
	})

	t.Run("EnumNotPowerOfTwo", func(t *testing.T) {
		err := EnumNotPowerOfTwo("Color", 3)
		if err.Kind != KindEnumNotPowerOfTwo || err.Set != "Color" || err.Value != 3 {
			t.Errorf("got %+v", err)
		}
	})

	t.Run("DiscriminantOutOfRange", func(t *testing.T) {
		err := DiscriminantOutOfRange("Color", "Blue", 4, 3)
		if err.Label != "Blue" || err.Value != 4 || err.Bound != 3 {
			t.Errorf("got %+v", err)
		}
		if !strings.Contains(err.Detail, "max 3") {
			t.Errorf("Detail = %q, should mention max", err.Detail)
		}
	})

	t.Run("BitsOverrideMismatch", func(t *testing.T) {
		err := BitsOverrideMismatch("mode", 1, 2)
		if err.Value != 1 || err.Bound != 2 {
			t.Errorf("Value=%d Bound=%d", err.Value, err.Bound)
		}
	})

	t.Run("NotByteAligned", func(t *testing.T) {
		err := NotByteAligned(7)
		if err.Kind != KindNotByteAligned || err.Phase != PhasePlan || err.Value != 7 {
			t.Errorf("got %+v", err)
		}
	})

	t.Run("Overflow", func(t *testing.T) {
		err := Overflow("a", 300, 8)
		if err.Kind != KindOverflow || err.Value != 300 || err.Bound != 8 {
			t.Errorf("got %+v", err)
		}
	})

	t.Run("InvalidDiscriminant", func(t *testing.T) {
		err := InvalidDiscriminant("mode", "Mode", 3)
		if err.Kind != KindInvalidDiscriminant {
			t.Errorf("Kind = %v", err.Kind)
		}
		if !strings.Contains(err.Error(), "matches no alternative") {
			t.Errorf("message %q", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		cause := errors.New("inner")
		err := Wrap(PhaseLoad, KindInvalidData, cause, "outer")
		if !errors.Is(err, cause) {
			t.Error("Wrap should preserve cause")
		}
	})
}

func TestList(t *testing.T) {
	var l List
	if l.Err() != nil {
		t.Fatal("empty list should produce nil error")
	}

	l.Add(DuplicateFieldName("a"), nil, FieldWidthOutOfRange("b", 0))
	if l.Len() != 2 {
		t.Fatalf("Len = %d, want 2", l.Len())
	}
	if !l.Has(KindDuplicateFieldName) || l.Has(KindNotByteAligned) {
		t.Errorf("Has mismatch: %v", l.Kinds())
	}

	err := l.Err()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.HasPrefix(err.Error(), "2 errors:") {
		t.Errorf("message %q", err.Error())
	}

	if !errors.Is(err, &Error{Phase: PhaseResolve, Kind: KindFieldWidthOutOfRange}) {
		t.Error("errors.Is should see list members")
	}

	var target *Error
	if !errors.As(err, &target) || target.Kind != KindDuplicateFieldName {
		t.Errorf("errors.As = %v", target)
	}
}

func TestList_SingleMessage(t *testing.T) {
	l := List{NotByteAligned(7)}
	if l.Error() != NotByteAligned(7).Error() {
		t.Errorf("single-element list should read as its member, got %q", l.Error())
	}
}
