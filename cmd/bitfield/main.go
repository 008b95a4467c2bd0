package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/bitfield/errors"
	"github.com/wippyai/bitfield/layout"
	"github.com/wippyai/bitfield/packed"
	"github.com/wippyai/bitfield/schema"
	"github.com/wippyai/bitfield/wasmmem"
	"github.com/wippyai/bitfield/witsource"
)

type options struct {
	schemaFile  string
	witFile     string
	typeName    string
	assignments string
	base        uint
	exact       bool
	verbose     bool
	interactive bool
	wasm        bool
}

func main() {
	var opts options
	flag.StringVar(&opts.schemaFile, "schema", "", "Path to JSON layout schema")
	flag.StringVar(&opts.witFile, "wit", "", "Path to WIT resolve JSON (wasm-tools component wit --json)")
	flag.StringVar(&opts.typeName, "type", "", "WIT record type to lay out (with -wit)")
	flag.StringVar(&opts.assignments, "set", "", "Field values to write (name=value,name2=label)")
	flag.BoolVar(&opts.exact, "exact", false, "Require enum bits overrides to equal the derived width")
	flag.BoolVar(&opts.verbose, "v", false, "Verbose logging")
	flag.BoolVar(&opts.interactive, "i", false, "Interactive mode with TUI")
	flag.BoolVar(&opts.wasm, "wasm", false, "Store the record in wasm linear memory")
	flag.UintVar(&opts.base, "base", 0, "Record offset in wasm memory (with -wasm)")
	flag.Parse()

	if (opts.schemaFile == "") == (opts.witFile == "") || (opts.witFile != "" && opts.typeName == "") {
		fmt.Fprintln(os.Stderr, "Usage: bitfield -schema <layout.json> [-set k=v,...] [-exact] [-wasm] [-v]")
		fmt.Fprintln(os.Stderr, "       bitfield -wit <resolve.json> -type <record> [-set k=v,...]")
		fmt.Fprintln(os.Stderr, "       bitfield -schema <layout.json> -i  (interactive mode)")
		os.Exit(1)
	}

	log, err := newLogger(opts.verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	layout.SetLogger(log)
	packed.SetLogger(log)
	wasmmem.SetLogger(log)

	if err := run(context.Background(), opts, log); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func run(ctx context.Context, opts options, log *zap.Logger) error {
	in, err := loadInput(opts)
	if err != nil {
		return err
	}

	compiler := layout.NewCompilerWithConfig(&layout.Config{
		Logger:        log,
		ExactOverride: opts.exact,
	})
	res, err := compiler.Compile(in)
	if err != nil {
		return err
	}

	tgt, closeFn, err := newTarget(ctx, res, opts)
	if err != nil {
		return err
	}
	defer closeFn()

	assigns, err := parseAssignments(opts.assignments)
	if err != nil {
		return err
	}
	for _, a := range assigns {
		if err := assign(tgt.fields, res.Layout, a.name, a.value); err != nil {
			return err
		}
	}

	if opts.interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("interactive mode needs a terminal")
		}
		return runInteractive(res, tgt)
	}
	return report(os.Stdout, res, tgt)
}

func loadInput(opts options) (layout.Input, error) {
	if opts.witFile != "" {
		return witsource.Load(opts.witFile, opts.typeName)
	}
	return schema.LoadFile(opts.schemaFile)
}

// newTarget places the record in a plain buffer, or in wasm memory with -wasm
func newTarget(ctx context.Context, res *layout.Result, opts options) (*target, func(), error) {
	if !opts.wasm {
		rec := packed.New(res)
		return &target{
			fields: rec,
			bytes:  func() ([]byte, error) { return rec.Bytes(), nil },
			where:  "buffer",
		}, func() {}, nil
	}

	mem, err := wasmmem.New(ctx)
	if err != nil {
		return nil, nil, err
	}
	view, err := packed.NewView(res, mem, uint32(opts.base))
	if err != nil {
		_ = mem.Close(ctx)
		return nil, nil, err
	}
	return &target{
			fields: view,
			bytes: func() ([]byte, error) {
				rec, err := view.Load()
				if err != nil {
					return nil, err
				}
				return rec.Bytes(), nil
			},
			where: fmt.Sprintf("wasm memory @%#x", opts.base),
		}, func() {
			_ = mem.Close(ctx)
		}, nil
}

func printError(err error) {
	var list errors.List
	if stderrors.As(err, &list) && list.Len() > 1 {
		fmt.Fprintf(os.Stderr, "Error: %d problems\n", list.Len())
		for _, e := range list {
			fmt.Fprintf(os.Stderr, "  %v\n", e)
		}
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
