// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"irvaudit/internal/clibase"
	"irvaudit/internal/cliutil"
)

// Options holds the flagship tool's flags: the shared set plus the audit
// extras (solver, store, section toggles).
type Options struct {
	clibase.Common

	Config      string
	SolverURL   string
	Store       string
	Exact       bool
	NoMargin    bool
	NoCondorcet bool
}

// ParseArgs registers and parses all irvaudit flags. It returns flag.ErrHelp
// when help was requested.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool

	noHeader := clibase.Register(fs, &opt.Common)
	fs.StringVar(&opt.Config, "config", "", "TOML config file (default $IRVAUDIT_CONFIG)")
	fs.StringVar(&opt.SolverURL, "solver", "", "exact-margin solver URL (overrides config)")
	fs.StringVar(&opt.Store, "store", "", "SQLite result store path (overrides config)")
	fs.BoolVar(&opt.Exact, "exact", false, "ask the configured solver for the exact margin")
	fs.BoolVar(&opt.NoMargin, "no-margin", false, "skip margin bounds")
	fs.BoolVar(&opt.NoCondorcet, "no-condorcet", false, "skip pairwise analysis")
	fs.BoolVar(&help, "h", false, "show this help and exit")
	fs.BoolVar(&help, "help", false, "show this help and exit")

	clibase.UsageCommon(fs, fs.Name(), "IRV election audit", "", func(out io.Writer, def func(string) string) {
		fmt.Fprintf(out, "Usage: %s [flags] election.blt\n", fs.Name())
		fmt.Fprintln(out, "\nAudit:")
		fmt.Fprintln(out, "      --config string    TOML config file (default $IRVAUDIT_CONFIG)")
		fmt.Fprintln(out, "      --solver string    Exact-margin solver URL (overrides config)")
		fmt.Fprintln(out, "      --store string     SQLite result store path (overrides config)")
		fmt.Fprintf(out, "      --exact            Ask the configured solver for the exact margin [%s]\n", def("exact"))
		fmt.Fprintf(out, "      --no-margin        Skip margin bounds [%s]\n", def("no-margin"))
		fmt.Fprintf(out, "      --no-condorcet     Skip pairwise analysis [%s]\n", def("no-condorcet"))
	})

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return opt, err
	}
	if help {
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	if err := clibase.AfterParse(&opt.Common, noHeader, posArgs); err != nil {
		return opt, err
	}
	if len(opt.BltFiles) != 1 {
		return opt, errors.New("exactly one .blt ballot file expected")
	}
	return opt, nil
}
