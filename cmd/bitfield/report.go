package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wippyai/bitfield/errors"
	"github.com/wippyai/bitfield/layout"
	"github.com/wippyai/bitfield/packed"
)

// fieldAccess is implemented by packed.Record and packed.View
type fieldAccess interface {
	Get(name string) (uint64, error)
	Set(name string, v uint64) error
	SetBool(name string, b bool) error
	SetLabel(name, label string) error
	Values() ([]packed.FieldValue, error)
}

// target is the record the CLI edits and where it lives
type target struct {
	fields fieldAccess
	bytes  func() ([]byte, error)
	where  string
}

type assignment struct {
	name  string
	value string
}

// parseAssignments splits "a=1,b=Ack" into ordered pairs
func parseAssignments(s string) ([]assignment, error) {
	if s == "" {
		return nil, nil
	}
	var out []assignment
	for _, kv := range strings.Split(s, ",") {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
			return nil, errors.New(errors.PhaseAccess, errors.KindInvalidData).
				Detail("bad assignment %q, want name=value", kv).
				Build()
		}
		out = append(out, assignment{name: strings.TrimSpace(parts[0]), value: strings.TrimSpace(parts[1])})
	}
	return out, nil
}

// assign writes raw to a field. Enumerated fields take a label or a number,
// one-bit fields also take true/false, everything else takes a number in any
// base strconv understands.
func assign(f fieldAccess, l *layout.Layout, name, raw string) error {
	rf, ok := l.Field(name)
	if !ok {
		return errors.UnknownField(name)
	}
	if rf.Specifier != nil {
		if _, ok := rf.Specifier.Lookup(raw); ok {
			return f.SetLabel(name, raw)
		}
	}
	if rf.Bits == 1 {
		if b, err := strconv.ParseBool(raw); err == nil {
			return f.SetBool(name, b)
		}
	}
	v, err := strconv.ParseUint(raw, 0, 64)
	if err != nil {
		if rf.Specifier != nil {
			return errors.UnknownLabel(name, rf.Specifier.SetID, raw)
		}
		return errors.New(errors.PhaseAccess, errors.KindInvalidData).
			Field(name).
			Cause(err).
			Detail("cannot parse %q", raw).
			Build()
	}
	return f.Set(name, v)
}

// report prints the layout table followed by the record's current contents
func report(w io.Writer, res *layout.Result, tgt *target) error {
	l := res.Layout
	fmt.Fprintf(w, "Layout: %s\n", l.Name)
	fmt.Fprintf(w, "Size: %d bits, %d bytes\n\n", l.TotalBits, l.TotalBytes)

	fmt.Fprintf(w, "  %-16s %6s %5s %-7s %-6s %s\n", "FIELD", "OFFSET", "BITS", "TYPE", "BYTES", "VALUES")
	for _, a := range res.Accessors {
		rf, _ := l.Field(a.Field)
		values := ""
		if rf.Specifier != nil {
			values = strings.Join(rf.Specifier.Labels, "|")
		}
		fmt.Fprintf(w, "  %-16s %6d %5d %-7s %-6s %s\n",
			a.Field, a.Offset, a.Bits, a.Storage.TypeName(),
			fmt.Sprintf("%d..%d", a.FirstByte, a.LastByte), values)
	}

	vals, err := tgt.fields.Values()
	if err != nil {
		return err
	}
	data, err := tgt.bytes()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\nRecord (%s): % x\n", tgt.where, data)
	for _, v := range vals {
		fmt.Fprintf(w, "  %-16s = %s\n", v.Name, formatValue(v))
	}
	return nil
}

func formatValue(v packed.FieldValue) string {
	if v.Label != "" {
		return fmt.Sprintf("%s (%d)", v.Label, v.Value)
	}
	return fmt.Sprintf("%d (%#x)", v.Value, v.Value)
}
