package packed

import (
	"github.com/wippyai/bitfield/errors"
	"github.com/wippyai/bitfield/layout"
)

// Record is a packed value held in its own byte slice
type Record struct {
	fields
	data []byte
}

// New returns a zeroed record for res
func New(res *layout.Result) *Record {
	return newRecord(res, make([]byte, res.Layout.TotalBytes))
}

// FromBytes wraps data, which must be exactly the layout's size. The record
// aliases data; writes are visible to the caller.
func FromBytes(res *layout.Result, data []byte) (*Record, error) {
	if len(data) != res.Layout.TotalBytes {
		return nil, errors.New(errors.PhaseAccess, errors.KindOutOfBounds).
			Value(uint64(len(data))).
			Bound(uint64(res.Layout.TotalBytes)).
			Detail("record of %d bytes needs %d", len(data), res.Layout.TotalBytes).
			Build()
	}
	return newRecord(res, data), nil
}

func newRecord(res *layout.Result, data []byte) *Record {
	r := &Record{data: data}
	r.fields = fields{res: res, st: sliceStorage(data)}
	return r
}

// Bytes returns the underlying storage
func (r *Record) Bytes() []byte {
	return r.data
}

// Reset zeroes every field
func (r *Record) Reset() {
	clear(r.data)
}

type sliceStorage []byte

func (s sliceStorage) load(a *layout.AccessorSpec) ([]byte, error) {
	return s[a.FirstByte : a.LastByte+1], nil
}

// store is a no-op: load hands out a subslice that WriteRange edits in place.
func (s sliceStorage) store(*layout.AccessorSpec, []byte) error {
	return nil
}
