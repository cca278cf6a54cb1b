// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"irvaudit-core/blt"
	"irvaudit-core/condorcet"
	"irvaudit-core/irv"
	"irvaudit-core/margin"
	"irvaudit/internal/cli"
	"irvaudit/internal/cmdutil"
	"irvaudit/internal/config"
	"irvaudit/internal/report"
	"irvaudit/internal/resultstore"
	"irvaudit/internal/solver"
	"irvaudit/internal/version"
	"irvaudit/internal/writers"
)

// RunContext runs the flagship audit: IRV count, margin bounds, optional
// exact margin, pairwise comparison, one report out, one store row recorded.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("irvaudit")
	fs.SetOutput(io.Discard)

	showUsage := func() int {
		fs.SetOutput(outw)
		fs.Usage()
		if err := outw.Flush(); writers.IsBrokenPipe(err) {
			return 0
		} else if err != nil {
			fmt.Fprintln(stderr, err)
			return 3
		}
		return 0
	}

	if len(argv) == 0 {
		_, _ = cli.ParseArgs(fs, []string{"-h"})
		return showUsage()
	}

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return showUsage()
		}
		fmt.Fprintln(stderr, err)
		if c := showUsage(); c != 0 {
			return c
		}
		return 2
	}
	if opts.Version {
		fmt.Fprintf(outw, "irvaudit version %s\n", version.Version)
		return 0
	}

	log := cmdutil.NewLogger(stderr, opts.Quiet)

	cfg, err := config.Load(opts.Config)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if opts.SolverURL != "" {
		cfg.SolverURL = opts.SolverURL
	}
	if opts.Store != "" {
		cfg.StorePath = opts.Store
	}

	path := opts.BltFiles[0]
	e, err := blt.ParseFile(path)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	rules := opts.ParsedRules()
	res, warns, err := irv.Run(e, rules)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 3
	}
	for _, w := range warns {
		log.Warn("batch elimination tie",
			"round", w.Round, "tied", w.Tied, "eliminated", w.Eliminated)
	}

	in := report.Inputs{
		Source:   path,
		Election: e,
		Rules:    rules,
		Result:   res,
		Warnings: warns,
	}

	if !opts.NoMargin {
		b := margin.Compute(e, rules, res)
		in.Bounds = &b
		if opts.Exact {
			if cfg.SolverURL == "" {
				log.Warn("exact margin requested but no solver configured")
			} else {
				s := solver.New(cfg.SolverURL, rules, cfg.SolverTimeout())
				if m, err := margin.Exact(parent, s, e, res); err != nil {
					log.Warn("exact margin unavailable", "err", err)
				} else {
					in.Exact = &m
				}
			}
		}
	}
	if !opts.NoCondorcet {
		in.Condorcet = condorcet.Build(e, opts.Threads)
	}

	rep := report.Build(in)

	if err := writers.WriteReport(opts.Output, outw, &rep, opts.Header); err != nil {
		if writers.IsBrokenPipe(err) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 3
	}
	if err := outw.Flush(); err != nil {
		if writers.IsBrokenPipe(err) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 3
	}

	// The report already went out; a store hiccup should not fail the audit.
	if cfg.StorePath != "" {
		if st, err := resultstore.Open(cfg.StorePath); err != nil {
			log.Warn("result store unavailable", "err", err)
		} else {
			if err := st.Put(parent, &rep); err != nil {
				log.Warn("result not recorded", "err", err)
			}
			_ = st.Close()
		}
	}
	return 0
}

// Run is RunContext with a background context, for tests and direct callers.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
