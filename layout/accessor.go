package layout

// ByteStep describes the part of one storage byte that a field covers
type ByteStep struct {
	Index      int   // byte index in storage
	Mask       uint8 // field bits within the byte
	ByteShift  uint  // position of the lowest covered bit within the byte
	ValueShift uint  // position of those bits within the field value
}

// AccessorSpec describes how to read and write one field
type AccessorSpec struct {
	Field     string
	Steps     []ByteStep
	Bits      int
	Offset    int
	FirstByte int
	LastByte  int
	Storage   StorageWidth
}

// Synthesize derives one accessor spec per field, in layout order
func Synthesize(l *Layout) []AccessorSpec {
	specs := make([]AccessorSpec, len(l.Fields))
	for i, f := range l.Fields {
		specs[i] = SynthesizeField(f)
	}
	return specs
}

// SynthesizeField derives the accessor spec of a single placed field
func SynthesizeField(f ResolvedField) AccessorSpec {
	first := f.Offset / 8
	last := (f.Offset + f.Bits - 1) / 8

	spec := AccessorSpec{
		Field:     f.Name,
		Bits:      f.Bits,
		Offset:    f.Offset,
		FirstByte: first,
		LastByte:  last,
		Storage:   StorageFor(f.Bits),
		Steps:     make([]ByteStep, 0, last-first+1),
	}

	remaining := uint(f.Bits)
	inByte := uint(f.Offset % 8)
	valueShift := uint(0)
	for idx := first; idx <= last; idx++ {
		n := 8 - inByte
		if remaining < n {
			n = remaining
		}
		spec.Steps = append(spec.Steps, ByteStep{
			Index:      idx,
			Mask:       uint8((uint(1)<<n - 1) << inByte),
			ByteShift:  inByte,
			ValueShift: valueShift,
		})
		valueShift += n
		remaining -= n
		inByte = 0
	}

	return spec
}

// Len returns the number of storage bytes the field touches
func (a *AccessorSpec) Len() int {
	return a.LastByte - a.FirstByte + 1
}

// Mask returns the value mask of the field
func (a *AccessorSpec) Mask() uint64 {
	if a.Bits >= 64 {
		return ^uint64(0)
	}
	return uint64(1)<<uint(a.Bits) - 1
}

// Read assembles the field from data. data must hold at least LastByte+1 bytes.
func (a *AccessorSpec) Read(data []byte) uint64 {
	return a.ReadRange(data[a.FirstByte : a.LastByte+1])
}

// Write stores the low Bits bits of v into data, leaving every bit outside
// the field untouched.
func (a *AccessorSpec) Write(data []byte, v uint64) {
	a.WriteRange(data[a.FirstByte:a.LastByte+1], v)
}

// ReadRange is Read over only the touched bytes, FirstByte through LastByte.
func (a *AccessorSpec) ReadRange(chunk []byte) uint64 {
	var v uint64
	for _, s := range a.Steps {
		b := chunk[s.Index-a.FirstByte]
		v |= uint64((b&s.Mask)>>s.ByteShift) << s.ValueShift
	}
	return v & a.Mask()
}

// WriteRange is Write over only the touched bytes, FirstByte through LastByte.
func (a *AccessorSpec) WriteRange(chunk []byte, v uint64) {
	for _, s := range a.Steps {
		i := s.Index - a.FirstByte
		part := uint8(v>>s.ValueShift) << s.ByteShift
		chunk[i] = chunk[i]&^s.Mask | part&s.Mask
	}
}
