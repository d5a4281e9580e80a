package main

import (
	"flag"
	"fmt"
	"io"
	"math/big"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"
	"lukechampine.com/uint128"

	"github.com/wippyai/bitpack/decl"
	"github.com/wippyai/bitpack/gen"
	"github.com/wippyai/bitpack/layout"
)

type config struct {
	in          string
	out         string
	pkg         string
	checked     bool
	showLayout  bool
	interactive bool
	verbose     bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.in, "in", "", "Declaration file (.yaml/.yml for YAML)")
	flag.StringVar(&cfg.out, "out", "", "Output file (default stdout)")
	flag.StringVar(&cfg.pkg, "pkg", gen.DefaultOptions().Package, "Package name of generated code")
	flag.BoolVar(&cfg.checked, "checked", false, "Also generate checked setters")
	flag.BoolVar(&cfg.showLayout, "layout", false, "Print layout tables and bit diagrams instead of code")
	flag.BoolVar(&cfg.interactive, "i", false, "Interactive mode with TUI")
	flag.BoolVar(&cfg.verbose, "v", false, "Verbose logging")
	flag.Parse()

	if cfg.in == "" {
		fmt.Fprintln(os.Stderr, "Usage: bitpack -in <file> [-pkg name] [-out file.go] [-checked]")
		fmt.Fprintln(os.Stderr, "       bitpack -in <file> -layout")
		fmt.Fprintln(os.Stderr, "       bitpack -in <file> -i  (interactive mode)")
		os.Exit(1)
	}

	log := zap.NewNop()
	if cfg.verbose {
		var err error
		if log, err = zap.NewDevelopment(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer log.Sync()
	}
	layout.SetLogger(log.Named("layout"))
	decl.SetLogger(log.Named("decl"))
	gen.SetLogger(log.Named("gen"))

	if cfg.interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(cfg.in); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func load(path string) ([]*layout.Layout, error) {
	drafts, err := decl.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return decl.Compile(layout.NewCompilerWithDefaults(), drafts)
}

func run(cfg config, stdout io.Writer) error {
	layouts, err := load(cfg.in)
	if err != nil {
		return err
	}

	if cfg.showLayout {
		for i, l := range layouts {
			if i > 0 {
				fmt.Fprintln(stdout)
			}
			fmt.Fprint(stdout, l.String())
			fmt.Fprintln(stdout, l.Diagram())
		}
		return nil
	}

	opts := gen.DefaultOptions()
	opts.Package = cfg.pkg
	opts.CheckedSetters = cfg.checked
	src, err := gen.Generate(layouts, opts)
	if err != nil {
		return err
	}

	if cfg.out == "" {
		_, err = stdout.Write(src)
		return err
	}
	if err := os.WriteFile(cfg.out, src, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// parseValue reads a non-negative integer of at most 128 bits in decimal,
// 0x hex, 0o octal or 0b binary.
func parseValue(s string) (uint128.Uint128, error) {
	i, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return uint128.Zero, fmt.Errorf("invalid number %q", s)
	}
	if i.Sign() < 0 {
		return uint128.Zero, fmt.Errorf("negative value %s", s)
	}
	if i.BitLen() > 128 {
		return uint128.Zero, fmt.Errorf("value %s exceeds 128 bits", s)
	}
	return uint128.FromBig(i), nil
}
