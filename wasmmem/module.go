package wasmmem

import "bytes"

const (
	sectionMemory byte = 5
	sectionExport byte = 7
	exportMemory  byte = 2
	limitsHasMax  byte = 1

	// ExportName is the name the memory is exported under
	ExportName = "memory"
)

// memoryModule encodes a module that declares one memory and exports it.
// max == 0 leaves the memory unbounded.
func memoryModule(min, max uint32) []byte {
	var out bytes.Buffer
	out.Write([]byte{0x00, 0x61, 0x73, 0x6d}) // \0asm
	out.Write([]byte{0x01, 0x00, 0x00, 0x00}) // version 1

	var mem bytes.Buffer
	writeLEB128u(&mem, 1)
	if max > 0 {
		mem.WriteByte(limitsHasMax)
		writeLEB128u(&mem, min)
		writeLEB128u(&mem, max)
	} else {
		mem.WriteByte(0)
		writeLEB128u(&mem, min)
	}
	writeSection(&out, sectionMemory, mem.Bytes())

	var exp bytes.Buffer
	writeLEB128u(&exp, 1)
	writeLEB128u(&exp, uint32(len(ExportName)))
	exp.WriteString(ExportName)
	exp.WriteByte(exportMemory)
	writeLEB128u(&exp, 0)
	writeSection(&out, sectionExport, exp.Bytes())

	return out.Bytes()
}

func writeSection(w *bytes.Buffer, id byte, data []byte) {
	w.WriteByte(id)
	writeLEB128u(w, uint32(len(data)))
	w.Write(data)
}

func writeLEB128u(w *bytes.Buffer, v uint32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.WriteByte(b)
		if v == 0 {
			return
		}
	}
}
