package layout

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/bitfield/errors"
)

// Config holds configuration for compiler creation
type Config struct {
	// Specifiers is the memo table shared with other compilers.
	// nil gives the compiler a private table.
	Specifiers *SpecifierTable

	// Logger overrides the package logger for this compiler.
	Logger *zap.Logger

	// ExactOverride requires a bits override on an enumerated field to equal
	// the derived width rather than merely hold it.
	ExactOverride bool
}

// Compiler runs the Parse → Resolve → Plan → Synthesize pipeline.
// It is safe for concurrent use.
type Compiler struct {
	specs *SpecifierTable
	log   *zap.Logger
	exact bool
}

// NewCompiler creates a compiler with a private specifier table
func NewCompiler() *Compiler {
	return NewCompilerWithConfig(nil)
}

// NewCompilerWithConfig creates a compiler with custom configuration
func NewCompilerWithConfig(cfg *Config) *Compiler {
	c := &Compiler{}
	if cfg != nil {
		c.specs = cfg.Specifiers
		c.log = cfg.Logger
		c.exact = cfg.ExactOverride
	}
	if c.specs == nil {
		c.specs = NewSpecifierTable()
	}
	if c.log == nil {
		c.log = Logger()
	}
	return c
}

// Specifiers returns the compiler's memo table
func (c *Compiler) Specifiers() *SpecifierTable {
	return c.specs
}

// Compile validates and lays out one field list. On failure the returned
// error is an errors.List and the result is nil.
func (c *Compiler) Compile(in Input) (*Result, error) {
	log := c.log.With(zap.String("layout", in.Name))

	descs, errs := Parse(in)
	log.Debug("parsed fields", zap.Int("fields", len(descs)), zap.Int("errors", errs.Len()))

	widths, resolveErrs := NewResolver(c.specs, in.Sets, c.exact).Resolve(descs)
	errs = append(errs, resolveErrs...)
	log.Debug("resolved widths", zap.Int("fields", len(widths)), zap.Int("errors", resolveErrs.Len()))

	if len(errs) > 0 {
		log.Debug("compilation failed", zap.Strings("kinds", kindStrings(errs)))
		return nil, errs
	}

	l, planErr := Plan(in.Name, widths)
	if planErr != nil {
		log.Debug("compilation failed", zap.Uint64("total_bits", planErr.Value))
		return nil, errors.List{planErr}
	}

	// Plan already guarantees the partition; this only catches planner bugs.
	if err := Verify(l); err != nil {
		return nil, errors.List{errors.Wrap(errors.PhasePlan, errors.KindInvalidData, err, "layout failed verification")}
	}

	res := &Result{Layout: l, Accessors: Synthesize(l)}
	log.Debug("compiled layout",
		zap.Int("total_bits", l.TotalBits),
		zap.Int("total_bytes", l.TotalBytes),
		zap.Int("fields", len(l.Fields)))
	return res, nil
}

// BatchResult is the outcome of one request in a batch
type BatchResult struct {
	Result *Result
	Err    error
}

// CompileBatch compiles independent requests concurrently. Results are
// returned in input order. Alternative sets are primed into the memo table
// before the parallel phase starts.
func (c *Compiler) CompileBatch(inputs []Input) []BatchResult {
	for _, in := range inputs {
		c.specs.Prime(in.Sets...)
	}

	results := make([]BatchResult, len(inputs))
	var wg sync.WaitGroup
	for i := range inputs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := c.Compile(inputs[i])
			results[i] = BatchResult{Result: res, Err: err}
		}(i)
	}
	wg.Wait()
	return results
}

// Compile compiles in with a fresh compiler
func Compile(in Input) (*Result, error) {
	return NewCompiler().Compile(in)
}

func kindStrings(errs errors.List) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = string(e.Kind)
	}
	return out
}
