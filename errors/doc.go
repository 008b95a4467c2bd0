// Package errors provides structured error types for the bitfield library.
//
// Errors are categorized by Phase (which pipeline stage produced them) and Kind
// (error category). The Error type carries the minimal data needed to describe
// the problem: field name, alternative-set identity, label, observed value and
// the bound it was checked against. Rendering is left to the caller; Error()
// only produces a compact diagnostic line.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseResolve, errors.KindBitsOverrideMismatch).
//		Field("mode").
//		Value(1).
//		Bound(2).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NotByteAligned(7)
//	err := errors.DiscriminantOutOfRange("mode", "Fast", 9, 3)
//
// Compilation never stops at the first problem; stages append to a List,
// which itself implements error and unwraps to its members.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
