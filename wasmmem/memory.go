package wasmmem

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	bitfield "github.com/wippyai/bitfield"
	"github.com/wippyai/bitfield/errors"
)

// PageSize is the size of one WebAssembly memory page in bytes
const PageSize = 65536

// Config holds configuration for the memory backend
type Config struct {
	// MemoryPages is the initial size in pages (64KB each). 0 means 1.
	MemoryPages uint32

	// MemoryLimitPages caps growth in pages. 0 means the runtime default
	// (65536 pages = 4GB).
	MemoryLimitPages uint32
}

// Memory is a wazero linear memory that implements bitfield.Memory
type Memory struct {
	runtime wazero.Runtime
	module  api.Module
	mem     api.Memory
}

// New instantiates a memory with the default configuration
func New(ctx context.Context) (*Memory, error) {
	return NewWithConfig(ctx, nil)
}

// NewWithConfig instantiates a memory-only module and exposes its memory
func NewWithConfig(ctx context.Context, cfg *Config) (*Memory, error) {
	var pages, limit uint32 = 1, 0
	if cfg != nil {
		if cfg.MemoryPages > 0 {
			pages = cfg.MemoryPages
		}
		limit = cfg.MemoryLimitPages
	}
	if limit > 0 && pages > limit {
		return nil, errors.New(errors.PhaseRuntime, errors.KindInstantiation).
			Value(uint64(pages)).
			Bound(uint64(limit)).
			Detail("initial pages %d exceed limit %d", pages, limit).
			Build()
	}

	runtimeCfg := wazero.NewRuntimeConfig()
	if limit > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(limit)
	}
	runtime := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	compiled, err := runtime.CompileModule(ctx, memoryModule(pages, limit))
	if err != nil {
		_ = runtime.Close(ctx)
		return nil, errors.Instantiation(fmt.Errorf("compile failed: %w", err))
	}
	mod, err := runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		_ = runtime.Close(ctx)
		return nil, errors.Instantiation(err)
	}
	mem := mod.ExportedMemory(ExportName)
	if mem == nil {
		_ = runtime.Close(ctx)
		return nil, errors.NotFound(errors.PhaseRuntime, "memory export", ExportName)
	}

	Logger().Debug("instantiated memory",
		zap.Uint32("pages", pages),
		zap.Uint32("limit_pages", limit),
	)
	return &Memory{runtime: runtime, module: mod, mem: mem}, nil
}

func (m *Memory) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseRuntime, uint64(offset), uint64(length))
	}
	return data, nil
}

func (m *Memory) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return errors.OutOfBounds(errors.PhaseRuntime, uint64(offset), uint64(len(data)))
	}
	return nil
}

func (m *Memory) ReadU8(offset uint32) (uint8, error) {
	v, ok := m.mem.ReadByte(offset)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseRuntime, uint64(offset), 1)
	}
	return v, nil
}

func (m *Memory) WriteU8(offset uint32, value uint8) error {
	if !m.mem.WriteByte(offset, value) {
		return errors.OutOfBounds(errors.PhaseRuntime, uint64(offset), 1)
	}
	return nil
}

// Size returns the current memory size in bytes
func (m *Memory) Size() uint32 {
	if m.mem == nil {
		return 0
	}
	return m.mem.Size()
}

// Grow adds delta pages and returns the previous size in pages
func (m *Memory) Grow(delta uint32) (uint32, error) {
	prev, ok := m.mem.Grow(delta)
	if !ok {
		return 0, errors.New(errors.PhaseRuntime, errors.KindOutOfBounds).
			Value(uint64(delta)).
			Detail("cannot grow memory by %d pages", delta).
			Build()
	}
	Logger().Debug("memory grown", zap.Uint32("from_pages", prev), zap.Uint32("delta", delta))
	return prev, nil
}

// Close releases the module and its runtime
func (m *Memory) Close(ctx context.Context) error {
	if m.runtime == nil {
		return nil
	}
	err := m.runtime.Close(ctx)
	m.runtime = nil
	m.module = nil
	m.mem = nil
	return err
}

var _ bitfield.Memory = (*Memory)(nil)
var _ bitfield.MemorySizer = (*Memory)(nil)
