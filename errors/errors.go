package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseParse      Phase = "parse"      // descriptor validation
	PhaseDerive     Phase = "derive"     // enum specifier derivation
	PhaseResolve    Phase = "resolve"    // bit width resolution
	PhasePlan       Phase = "plan"       // offset assignment
	PhaseSynthesize Phase = "synthesize" // accessor synthesis
	PhaseAccess     Phase = "access"     // reading/writing packed data
	PhaseLoad       Phase = "load"       // schema and WIT loading
	PhaseRuntime    Phase = "runtime"    // wasm memory backend
)

// Kind categorizes the error
type Kind string

const (
	KindEmptyFieldList            Kind = "empty_field_list"
	KindDuplicateFieldName        Kind = "duplicate_field_name"
	KindInvalidFieldName          Kind = "invalid_field_name"
	KindAmbiguousWidthSource      Kind = "ambiguous_width_source"
	KindUnknownAlternativeSet     Kind = "unknown_alternative_set"
	KindConflictingAlternativeSet Kind = "conflicting_alternative_set"
	KindFieldWidthOutOfRange      Kind = "field_width_out_of_range"
	KindEnumNotPowerOfTwo         Kind = "enum_not_power_of_two"
	KindEmptyAlternativeSet       Kind = "empty_alternative_set"
	KindDuplicateLabel            Kind = "duplicate_label"
	KindDuplicateDiscriminant     Kind = "duplicate_discriminant"
	KindDiscriminantOutOfRange    Kind = "discriminant_out_of_range"
	KindBitsOverrideMismatch      Kind = "bits_override_mismatch"
	KindNotByteAligned            Kind = "not_byte_aligned"

	KindUnknownField        Kind = "unknown_field"
	KindUnknownLabel        Kind = "unknown_label"
	KindOverflow            Kind = "overflow"
	KindOutOfBounds         Kind = "out_of_bounds"
	KindInvalidDiscriminant Kind = "invalid_discriminant"
	KindTypeMismatch        Kind = "type_mismatch"
	KindUnsupported         Kind = "unsupported"
	KindInvalidData         Kind = "invalid_data"
	KindNotFound            Kind = "not_found"
	KindInstantiation       Kind = "instantiation"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Field  string // field name, when the error concerns one field
	Set    string // alternative set identity
	Label  string // alternative label
	Detail string
	Value  uint64 // observed value: width, count, discriminant or total bits
	Bound  uint64 // limit Value was checked against
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Field != "" {
		b.WriteString(" at ")
		b.WriteString(e.Field)
	}

	if e.Set != "" || e.Label != "" {
		b.WriteString(" (")
		if e.Set != "" {
			b.WriteString("set ")
			b.WriteString(e.Set)
		}
		if e.Label != "" {
			if e.Set != "" {
				b.WriteString(", ")
			}
			b.WriteString("label ")
			b.WriteString(e.Label)
		}
		b.WriteByte(')')
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Field sets the field name
func (b *Builder) Field(name string) *Builder {
	b.err.Field = name
	return b
}

// Set sets the alternative set identity
func (b *Builder) Set(id string) *Builder {
	b.err.Set = id
	return b
}

// Label sets the alternative label
func (b *Builder) Label(label string) *Builder {
	b.err.Label = label
	return b
}

// Value sets the offending value
func (b *Builder) Value(v uint64) *Builder {
	b.err.Value = v
	return b
}

// Bound sets the limit the value was checked against
func (b *Builder) Bound(v uint64) *Builder {
	b.err.Bound = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Structural (compile-time) constructors

// EmptyFieldList reports a descriptor list with no fields
func EmptyFieldList() *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindEmptyFieldList,
		Detail: "at least one field is required",
	}
}

// DuplicateFieldName reports a name declared more than once
func DuplicateFieldName(name string) *Error {
	return &Error{
		Phase: PhaseParse,
		Kind:  KindDuplicateFieldName,
		Field: name,
	}
}

// InvalidFieldName reports an unusable name at the given declaration index
func InvalidFieldName(index int) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidFieldName,
		Value:  uint64(index),
		Detail: fmt.Sprintf("field #%d has an empty name", index),
	}
}

// AmbiguousWidthSource reports a field with zero or two width sources
func AmbiguousWidthSource(name string) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindAmbiguousWidthSource,
		Field:  name,
		Detail: "exactly one of width or alternative set is required",
	}
}

// UnknownAlternativeSet reports a reference to a set that was not supplied
func UnknownAlternativeSet(field, set string) *Error {
	return &Error{
		Phase: PhaseParse,
		Kind:  KindUnknownAlternativeSet,
		Field: field,
		Set:   set,
	}
}

// ConflictingAlternativeSet reports one set ID defined with different
// alternatives in the same input
func ConflictingAlternativeSet(set string) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindConflictingAlternativeSet,
		Set:    set,
		Detail: "set is defined more than once with different alternatives",
	}
}

// FieldWidthOutOfRange reports a width outside 1..=64
func FieldWidthOutOfRange(name string, width uint64) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindFieldWidthOutOfRange,
		Field:  name,
		Value:  width,
		Bound:  64,
		Detail: fmt.Sprintf("width %d outside 1..=64", width),
	}
}

// EnumNotPowerOfTwo reports an alternative count with no exact bit width
func EnumNotPowerOfTwo(set string, count int) *Error {
	return &Error{
		Phase:  PhaseDerive,
		Kind:   KindEnumNotPowerOfTwo,
		Set:    set,
		Value:  uint64(count),
		Detail: fmt.Sprintf("%d alternatives is not a power of two", count),
	}
}

// EmptyAlternativeSet reports a set with no alternatives
func EmptyAlternativeSet(set string) *Error {
	return &Error{
		Phase: PhaseDerive,
		Kind:  KindEmptyAlternativeSet,
		Set:   set,
	}
}

// DuplicateLabel reports a label used twice within one set
func DuplicateLabel(set, label string) *Error {
	return &Error{
		Phase: PhaseDerive,
		Kind:  KindDuplicateLabel,
		Set:   set,
		Label: label,
	}
}

// DuplicateDiscriminant reports two labels sharing one value
func DuplicateDiscriminant(set, label string, value uint64) *Error {
	return &Error{
		Phase:  PhaseDerive,
		Kind:   KindDuplicateDiscriminant,
		Set:    set,
		Label:  label,
		Value:  value,
		Detail: fmt.Sprintf("discriminant %d already assigned", value),
	}
}

// DiscriminantOutOfRange reports a discriminant above max, the largest value
// the set's bit width can hold
func DiscriminantOutOfRange(set, label string, value, max uint64) *Error {
	return &Error{
		Phase:  PhaseDerive,
		Kind:   KindDiscriminantOutOfRange,
		Set:    set,
		Label:  label,
		Value:  value,
		Bound:  max,
		Detail: fmt.Sprintf("discriminant %d out of range (max %d)", value, max),
	}
}

// BitsOverrideMismatch reports an override that cannot hold the field
func BitsOverrideMismatch(name string, declared, required uint64) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindBitsOverrideMismatch,
		Field:  name,
		Value:  declared,
		Bound:  required,
		Detail: fmt.Sprintf("bits = %d, need %d", declared, required),
	}
}

// NotByteAligned reports a total width that is not a multiple of eight
func NotByteAligned(totalBits uint64) *Error {
	return &Error{
		Phase:  PhasePlan,
		Kind:   KindNotByteAligned,
		Value:  totalBits,
		Bound:  8,
		Detail: fmt.Sprintf("total of %d bits is not a multiple of 8", totalBits),
	}
}

// Access-time constructors

// UnknownField reports an access by a name the layout does not declare
func UnknownField(name string) *Error {
	return &Error{
		Phase: PhaseAccess,
		Kind:  KindUnknownField,
		Field: name,
	}
}

// UnknownLabel reports a label that is not part of the field's set
func UnknownLabel(field, set, label string) *Error {
	return &Error{
		Phase: PhaseAccess,
		Kind:  KindUnknownLabel,
		Field: field,
		Set:   set,
		Label: label,
	}
}

// Overflow reports a value wider than the field it is written to
func Overflow(field string, value uint64, bits uint64) *Error {
	return &Error{
		Phase:  PhaseAccess,
		Kind:   KindOverflow,
		Field:  field,
		Value:  value,
		Bound:  bits,
		Detail: fmt.Sprintf("value %d overflows %d bits", value, bits),
	}
}

// OutOfBounds reports storage shorter than the layout needs
func OutOfBounds(phase Phase, offset, length uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Value:  offset,
		Bound:  length,
		Detail: fmt.Sprintf("offset %d out of bounds (length %d)", offset, length),
	}
}

// InvalidDiscriminant reports stored bits that match no alternative
func InvalidDiscriminant(field, set string, value uint64) *Error {
	return &Error{
		Phase:  PhaseAccess,
		Kind:   KindInvalidDiscriminant,
		Field:  field,
		Set:    set,
		Value:  value,
		Detail: "stored value " + strconv.FormatUint(value, 10) + " matches no alternative",
	}
}

// TypeMismatch reports an accessor used with the wrong shape of field
func TypeMismatch(field, detail string) *Error {
	return &Error{
		Phase:  PhaseAccess,
		Kind:   KindTypeMismatch,
		Field:  field,
		Detail: detail,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Load creates a schema loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// Instantiation creates a wasm instantiation error
func Instantiation(cause error) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindInstantiation,
		Detail: "instantiate memory module",
		Cause:  cause,
	}
}
