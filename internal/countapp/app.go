// internal/countapp/app.go
package countapp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"irvaudit-core/blt"
	"irvaudit-core/irv"
	"irvaudit/internal/clibase"
	"irvaudit/internal/cliutil"
	"irvaudit/internal/cmdutil"
	"irvaudit/internal/jsonlutil"
	"irvaudit/internal/report"
	"irvaudit/internal/version"
	"irvaudit/internal/writers"
	"irvaudit/pkg/api"
)

func parseArgs(fs *flag.FlagSet, argv []string) (clibase.Common, error) {
	var opt clibase.Common
	var help bool
	noHeader := clibase.Register(fs, &opt)
	fs.BoolVar(&help, "h", false, "show this help and exit")
	fs.BoolVar(&help, "help", false, "show this help and exit")

	clibase.UsageCommon(fs, fs.Name(), "IRV rounds, winner, eliminations", "", func(out io.Writer, def func(string) string) {
		fmt.Fprintf(out, "Usage: %s [flags] election.blt\n", fs.Name())
		fmt.Fprintln(out, "\nWith -o jsonl, each elimination round streams as one JSON line.")
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
	if err := clibase.AfterParse(&opt, noHeader, posArgs); err != nil {
		return opt, err
	}
	if len(opt.BltFiles) != 1 {
		return opt, errors.New("exactly one .blt ballot file expected")
	}
	return opt, nil
}

// RunContext counts one election and prints the rounds. No margin or
// pairwise work happens here.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := flag.NewFlagSet("irvcount", flag.ContinueOnError)
	fs.Usage = func() {}
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
		_, _ = parseArgs(fs, []string{"-h"})
		return showUsage()
	}

	opts, err := parseArgs(fs, argv)
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
		fmt.Fprintf(outw, "irvcount version %s\n", version.Version)
		return 0
	}

	log := cmdutil.NewLogger(stderr, opts.Quiet)

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

	if opts.Output == "jsonl" {
		return streamRounds(outw, stderr, res)
	}

	rep := report.Build(report.Inputs{
		Source:   path,
		Election: e,
		Rules:    rules,
		Result:   res,
		Warnings: warns,
	})
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
	return 0
}

// streamRounds emits one TallyV1 JSON line per round as the natural shape
// for downstream per-round tooling.
func streamRounds(outw *bufio.Writer, stderr io.Writer, res irv.Result) int {
	in, done := jsonlutil.Start[api.TallyV1](outw, len(res.Rounds),
		func(enc *json.Encoder, t api.TallyV1) error { return enc.Encode(t) },
		writers.IsBrokenPipe,
	)
	for _, r := range res.Rounds {
		in <- api.TallyV1{Round: r.Round, Votes: r.Votes, Exhausted: r.Exhausted}
	}
	close(in)
	if err := <-done; err != nil {
		fmt.Fprintln(stderr, err)
		return 3
	}
	if err := outw.Flush(); err != nil && !writers.IsBrokenPipe(err) {
		fmt.Fprintln(stderr, err)
		return 3
	}
	return 0
}

// Run is RunContext with a background context.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
