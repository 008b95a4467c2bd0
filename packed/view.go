package packed

import (
	"math"

	bitfield "github.com/wippyai/bitfield"
	"github.com/wippyai/bitfield/errors"
	"github.com/wippyai/bitfield/layout"
)

// View addresses a record stored at Base in a Memory. Every access reads the
// touched bytes from memory and writes them back.
type View struct {
	fields
	mem  bitfield.Memory
	base uint32
}

// NewView returns a view of the record at base. If mem reports its size, the
// whole record must fit.
func NewView(res *layout.Result, mem bitfield.Memory, base uint32) (*View, error) {
	if sz, ok := mem.(bitfield.MemorySizer); ok {
		end := uint64(base) + uint64(res.Layout.TotalBytes)
		if end > uint64(sz.Size()) {
			return nil, errors.OutOfBounds(errors.PhaseAccess, end, uint64(sz.Size()))
		}
	}
	v := &View{mem: mem, base: base}
	v.fields = fields{res: res, st: &memStorage{mem: mem, base: base}}
	return v, nil
}

// Base returns the record's offset in memory
func (v *View) Base() uint32 {
	return v.base
}

// Load copies the whole record out of memory
func (v *View) Load() (*Record, error) {
	data, err := v.mem.Read(v.base, uint32(v.res.Layout.TotalBytes))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseAccess, errors.KindOutOfBounds, err, "load record")
	}
	return newRecord(v.res, append([]byte(nil), data...)), nil
}

// Store copies a record into memory
func (v *View) Store(r *Record) error {
	if len(r.data) != v.res.Layout.TotalBytes {
		return errors.New(errors.PhaseAccess, errors.KindOutOfBounds).
			Value(uint64(len(r.data))).
			Bound(uint64(v.res.Layout.TotalBytes)).
			Detail("record size does not match view").
			Build()
	}
	if err := v.mem.Write(v.base, r.data); err != nil {
		return errors.Wrap(errors.PhaseAccess, errors.KindOutOfBounds, err, "store record")
	}
	return nil
}

type memStorage struct {
	mem  bitfield.Memory
	base uint32
}

// offset returns the absolute address of the accessor's first byte. Memory
// without a size is not bounds-checked by NewView, so the sum may exceed the
// 32-bit address space.
func (m *memStorage) offset(a *layout.AccessorSpec) (uint32, error) {
	start := uint64(m.base) + uint64(a.FirstByte)
	if start+uint64(a.Len()) > math.MaxUint32+1 {
		return 0, errors.OutOfBounds(errors.PhaseAccess, start, uint64(a.Len()))
	}
	return uint32(start), nil
}

func (m *memStorage) load(a *layout.AccessorSpec) ([]byte, error) {
	off, err := m.offset(a)
	if err != nil {
		return nil, err
	}
	data, err := m.mem.Read(off, uint32(a.Len()))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseAccess, errors.KindOutOfBounds, err, "read "+a.Field)
	}
	// Memory implementations may return a view of their storage.
	return append([]byte(nil), data...), nil
}

func (m *memStorage) store(a *layout.AccessorSpec, chunk []byte) error {
	off, err := m.offset(a)
	if err != nil {
		return err
	}
	if err := m.mem.Write(off, chunk); err != nil {
		return errors.Wrap(errors.PhaseAccess, errors.KindOutOfBounds, err, "write "+a.Field)
	}
	return nil
}
