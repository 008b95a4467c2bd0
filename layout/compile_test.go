package layout

import (
	stderrors "errors"
	"fmt"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/bitfield/errors"
)

func mustCompile(t *testing.T, in Input) *Result {
	t.Helper()
	res, err := Compile(in)
	if err != nil {
		t.Fatalf("compile %s: %v", in.Name, err)
	}
	return res
}

func errorList(t *testing.T, err error) errors.List {
	t.Helper()
	var list errors.List
	if !stderrors.As(err, &list) {
		t.Fatalf("error %v is not an errors.List", err)
	}
	return list
}

func TestCompile_ScenarioA(t *testing.T) {
	res := mustCompile(t, Input{Name: "A", Fields: []RawField{
		FixedField("a", 1),
		FixedField("b", 3),
		FixedField("c", 4),
	}})
	if res.Layout.TotalBits != 8 || res.Layout.TotalBytes != 1 {
		t.Errorf("TotalBits=%d TotalBytes=%d", res.Layout.TotalBits, res.Layout.TotalBytes)
	}
	c, _ := res.Layout.Field("c")
	if c.Offset != 4 || c.End() != 8 {
		t.Errorf("c occupies [%d, %d), want [4, 8)", c.Offset, c.End())
	}
	acc, ok := res.Accessor("c")
	if !ok || acc.FirstByte != 0 || acc.LastByte != 0 {
		t.Errorf("accessor c = %+v", acc)
	}
}

func TestCompile_ScenarioB(t *testing.T) {
	res := mustCompile(t, Input{Name: "B", Fields: []RawField{
		FixedField("a", 1),
		FixedField("b", 3),
		FixedField("c", 4),
		FixedField("d", 24),
	}})
	if res.Layout.TotalBits != 32 || res.Layout.TotalBytes != 4 {
		t.Fatalf("TotalBits=%d TotalBytes=%d", res.Layout.TotalBits, res.Layout.TotalBytes)
	}

	d, _ := res.Accessor("d")
	if d.FirstByte != 1 || d.LastByte != 3 {
		t.Errorf("d spans bytes [%d, %d], want [1, 3]", d.FirstByte, d.LastByte)
	}
	if d.Storage != Storage32 {
		t.Errorf("d storage = %d, want 32", d.Storage)
	}

	data := []byte{0x5A, 0, 0, 0}
	d.Write(data, 0xABCDEF)
	if got := d.Read(data); got != 0xABCDEF {
		t.Errorf("d = %#x, want 0xabcdef", got)
	}
	if data[0] != 0x5A {
		t.Errorf("byte 0 = %#x, want untouched 0x5a", data[0])
	}
	if data[1] != 0xEF || data[2] != 0xCD || data[3] != 0xAB {
		t.Errorf("bytes = % x, want ef cd ab", data[1:])
	}
}

func TestCompile_ScenarioC(t *testing.T) {
	res, err := Compile(Input{Name: "C", Fields: []RawField{
		FixedField("a", 3),
		FixedField("b", 4),
	}})
	if res != nil {
		t.Error("misaligned compilation should produce no result")
	}
	list := errorList(t, err)
	if list.Len() != 1 {
		t.Fatalf("errors = %v, want exactly one", list.Kinds())
	}
	if list[0].Kind != errors.KindNotByteAligned || list[0].Value != 7 {
		t.Errorf("error = %+v, want not_byte_aligned(7)", list[0])
	}
}

func TestCompile_ScenarioD(t *testing.T) {
	set := &AlternativeSet{ID: "Tri", Alternatives: []Alternative{Case("X", 0), Case("Y", 1), Case("Z", 2)}}

	_, err := Compile(Input{
		Name:   "D",
		Fields: []RawField{EnumField("t", "Tri"), FixedField("pad", 6)},
		Sets:   []*AlternativeSet{set},
	})
	list := errorList(t, err)
	if list.Len() != 1 || list[0].Kind != errors.KindEnumNotPowerOfTwo || list[0].Value != 3 {
		t.Fatalf("errors = %v, want enum_not_power_of_two(3)", list)
	}

	res := mustCompile(t, Input{
		Name:   "D",
		Fields: []RawField{EnumField("t", "Tri").WithBits(2), FixedField("pad", 6)},
		Sets:   []*AlternativeSet{set},
	})
	f, _ := res.Layout.Field("t")
	if f.Bits != 2 {
		t.Errorf("t bits = %d, want 2", f.Bits)
	}
	if f.Specifier == nil || f.Specifier.SetID != "Tri" {
		t.Errorf("t specifier = %+v", f.Specifier)
	}
}

func TestCompile_AccumulatesAcrossStages(t *testing.T) {
	_, err := Compile(Input{
		Name: "bad",
		Fields: []RawField{
			FixedField("a", 4),
			FixedField("a", 4),
			FixedField("zero", 0),
			FixedField("wide", 65),
			EnumField("ghost", "Nope"),
			EnumField("tri", "Tri"),
			FixedField("odd", 3),
		},
		Sets: []*AlternativeSet{labelsN("Tri", 3)},
	})
	list := errorList(t, err)
	want := []errors.Kind{
		errors.KindDuplicateFieldName,
		errors.KindUnknownAlternativeSet,
		errors.KindFieldWidthOutOfRange,
		errors.KindFieldWidthOutOfRange,
		errors.KindEnumNotPowerOfTwo,
	}
	got := list.Kinds()
	if len(got) != len(want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("kinds[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if list.Has(errors.KindNotByteAligned) {
		t.Error("alignment is only checked once every width resolved")
	}
}

func TestCompile_EmptyFieldList(t *testing.T) {
	_, err := Compile(Input{Name: "empty"})
	list := errorList(t, err)
	if list.Len() != 1 || list[0].Kind != errors.KindEmptyFieldList {
		t.Errorf("errors = %v", list.Kinds())
	}
}

func TestCompile_AlignmentProperty(t *testing.T) {
	for total := 1; total <= 40; total++ {
		var fields []RawField
		remaining := total
		for i := 0; remaining > 0; i++ {
			w := i%5 + 1
			if w > remaining {
				w = remaining
			}
			fields = append(fields, FixedField(fmt.Sprintf("f%d", i), uint(w)))
			remaining -= w
		}

		res, err := Compile(Input{Name: "p", Fields: fields})
		if total%8 == 0 {
			if err != nil {
				t.Fatalf("total %d: %v", total, err)
			}
			if res.Layout.TotalBytes != total/8 {
				t.Errorf("total %d: TotalBytes = %d", total, res.Layout.TotalBytes)
			}
			if verr := Verify(res.Layout); verr != nil {
				t.Errorf("total %d: %v", total, verr)
			}
			continue
		}
		list := errorList(t, err)
		if list.Len() != 1 || list[0].Value != uint64(total) {
			t.Errorf("total %d: errors = %v", total, list)
		}
	}
}

func TestCompile_EnumLayout(t *testing.T) {
	res := mustCompile(t, Input{
		Name: "flags",
		Fields: []RawField{
			FixedField("enabled", 1),
			EnumField("mode", "Mode"),
			EnumField("backup", "Mode"),
			FixedField("level", 5),
		},
		Sets: []*AlternativeSet{Labels("Mode", "Off", "Low")},
	})
	mode, _ := res.Layout.Field("mode")
	backup, _ := res.Layout.Field("backup")
	if mode.Specifier != backup.Specifier {
		t.Error("fields over one set should share its specifier")
	}
	if mode.Bits != 1 || backup.Offset != 2 {
		t.Errorf("mode = %+v, backup = %+v", mode, backup)
	}
	if res.Layout.TotalBytes != 1 {
		t.Errorf("TotalBytes = %d, want 1", res.Layout.TotalBytes)
	}
}

func TestCompile_SharedTableAndExactConfig(t *testing.T) {
	table := NewSpecifierTable()
	c := NewCompilerWithConfig(&Config{Specifiers: table, ExactOverride: true})
	if c.Specifiers() != table {
		t.Fatal("compiler should use the configured table")
	}

	in := Input{
		Name:   "exact",
		Fields: []RawField{EnumField("m", "M").WithBits(4), FixedField("pad", 4)},
		Sets:   []*AlternativeSet{labelsN("M", 4)},
	}
	_, err := c.Compile(in)
	list := errorList(t, err)
	if list.Len() != 1 || list[0].Kind != errors.KindBitsOverrideMismatch {
		t.Errorf("errors = %v", list.Kinds())
	}
	if table.Len() != 1 {
		t.Errorf("table.Len = %d, want 1", table.Len())
	}

	if _, err := NewCompiler().Compile(in); err != nil {
		t.Errorf("default compiler should accept a wider override: %v", err)
	}
}

func TestCompile_Logging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	c := NewCompilerWithConfig(&Config{Logger: zap.New(core)})

	if _, err := c.Compile(Input{Name: "logged", Fields: []RawField{FixedField("a", 8)}}); err != nil {
		t.Fatal(err)
	}
	if logs.FilterMessage("compiled layout").Len() != 1 {
		t.Errorf("expected a compiled layout entry, got %v", logs.All())
	}
	entry := logs.FilterMessage("compiled layout").All()[0]
	if entry.ContextMap()["layout"] != "logged" {
		t.Errorf("context = %v", entry.ContextMap())
	}
}

func TestCompileBatch(t *testing.T) {
	mode := labelsN("Mode", 4)
	inputs := make([]Input, 48)
	for i := range inputs {
		inputs[i] = Input{
			Name: fmt.Sprintf("s%d", i),
			Fields: []RawField{
				EnumField("mode", "Mode"),
				FixedField("n", uint(6+8*(i%4))),
			},
			Sets: []*AlternativeSet{mode},
		}
	}
	inputs = append(inputs, Input{Name: "broken", Fields: []RawField{FixedField("x", 5)}})

	c := NewCompiler()
	results := c.CompileBatch(inputs)
	if len(results) != len(inputs) {
		t.Fatalf("len(results) = %d", len(results))
	}
	for i, r := range results[:48] {
		if r.Err != nil {
			t.Fatalf("%s: %v", inputs[i].Name, r.Err)
		}
		if r.Result.Layout.Name != inputs[i].Name {
			t.Errorf("result %d is for %s", i, r.Result.Layout.Name)
		}
		want := (2 + 6 + 8*(i%4)) / 8
		if r.Result.Layout.TotalBytes != want {
			t.Errorf("%s: TotalBytes = %d, want %d", inputs[i].Name, r.Result.Layout.TotalBytes, want)
		}
	}
	if results[48].Err == nil || results[48].Result != nil {
		t.Error("broken input should fail")
	}
	if c.Specifiers().Len() != 1 {
		t.Errorf("specifiers = %d, want 1", c.Specifiers().Len())
	}
}

func kindInput(name string, labels []string, pad uint) Input {
	return Input{
		Name:   name,
		Fields: []RawField{EnumField("k", "kind"), FixedField("pad", pad)},
		Sets:   []*AlternativeSet{Labels("kind", labels...)},
	}
}

func TestCompile_ReusedCompilerSameSetID(t *testing.T) {
	c := NewCompiler()

	first, err := c.Compile(kindInput("two", []string{"A", "B"}, 7))
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Compile(kindInput("four", []string{"A", "B", "C", "D"}, 6))
	if err != nil {
		t.Fatalf("second layout: %v", err)
	}

	k1, _ := first.Layout.Field("k")
	k2, _ := second.Layout.Field("k")
	if k1.Bits != 1 || k2.Bits != 2 {
		t.Errorf("k widths = %d and %d, want 1 and 2", k1.Bits, k2.Bits)
	}
	if _, ok := k2.Specifier.Lookup("D"); !ok {
		t.Error("second layout should use its own alternatives")
	}
	if second.Layout.TotalBytes != 1 {
		t.Errorf("TotalBytes = %d", second.Layout.TotalBytes)
	}
}

func TestCompileBatch_SameSetIDDifferentCases(t *testing.T) {
	inputs := []Input{
		kindInput("two", []string{"A", "B"}, 7),
		kindInput("four", []string{"A", "B", "C", "D"}, 6),
		kindInput("eight", []string{"A", "B", "C", "D", "E", "F", "G", "H"}, 5),
		kindInput("two-again", []string{"A", "B"}, 15),
	}
	c := NewCompiler()
	results := c.CompileBatch(inputs)

	want := []int{1, 2, 3, 1}
	for i, r := range results {
		if r.Err != nil {
			t.Fatalf("%s: %v", inputs[i].Name, r.Err)
		}
		k, _ := r.Result.Layout.Field("k")
		if k.Bits != want[i] {
			t.Errorf("%s: k bits = %d, want %d", inputs[i].Name, k.Bits, want[i])
		}
	}
	if c.Specifiers().Len() != 3 {
		t.Errorf("specifiers = %d, want 3", c.Specifiers().Len())
	}
}

func TestCompile_ConflictingSetsInOneInput(t *testing.T) {
	_, err := Compile(Input{
		Name:   "conflict",
		Fields: []RawField{EnumField("k", "kind"), FixedField("pad", 7)},
		Sets:   []*AlternativeSet{Labels("kind", "A", "B"), Labels("kind", "A", "B", "C", "D")},
	})
	list := errorList(t, err)
	if !list.Has(errors.KindConflictingAlternativeSet) {
		t.Errorf("errors = %v", list.Kinds())
	}
}
