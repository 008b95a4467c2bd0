package errors

import (
	"fmt"
	"strings"
)

// List accumulates errors from a compilation pass in the order they were found
type List []*Error

// Add appends non-nil errors
func (l *List) Add(errs ...*Error) {
	for _, e := range errs {
		if e != nil {
			*l = append(*l, e)
		}
	}
}

// Len returns the number of collected errors
func (l List) Len() int {
	return len(l)
}

// Has reports whether any collected error has the given kind
func (l List) Has(kind Kind) bool {
	for _, e := range l {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// Kinds returns the kind of every collected error, in order
func (l List) Kinds() []Kind {
	kinds := make([]Kind, len(l))
	for i, e := range l {
		kinds[i] = e.Kind
	}
	return kinds
}

// Err returns nil for an empty list, so callers never see a typed nil
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d errors:", len(l)))
	for _, e := range l {
		b.WriteString("\n  ")
		b.WriteString(e.Error())
	}
	return b.String()
}

// Unwrap exposes members to errors.Is and errors.As
func (l List) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}
