// Package wasmmem backs packed records with WebAssembly linear memory.
//
// New instantiates a module in wazero whose only content is an exported
// memory, and returns that memory as a bitfield.Memory. A packed.View placed
// on it reads and writes records the same way guest code compiled against
// the layout would.
package wasmmem
