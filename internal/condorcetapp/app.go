// internal/condorcetapp/app.go
package condorcetapp

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"irvaudit-core/blt"
	"irvaudit-core/condorcet"
	"irvaudit/internal/clibase"
	"irvaudit/internal/cliutil"
	"irvaudit/internal/jsonutil"
	"irvaudit/internal/output"
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

	clibase.UsageCommon(fs, fs.Name(), "pairwise matrix and Condorcet winner", "text | tsv | json", func(out io.Writer, def func(string) string) {
		fmt.Fprintf(out, "Usage: %s [flags] election.blt\n", fs.Name())
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
	switch opt.Output {
	case "text", "tsv", "json":
	default:
		return opt, fmt.Errorf("invalid --output %q (want text | tsv | json)", opt.Output)
	}
	return opt, nil
}

// condorcetDoc is the standalone JSON document this tool emits; the
// elimination-based tools embed the same CondorcetV1 in their full reports.
type condorcetDoc struct {
	Description string            `json:"description,omitempty"`
	Candidates  []api.CandidateV1 `json:"candidates"`
	Condorcet   *api.CondorcetV1  `json:"condorcet"`
}

// RunContext builds the pairwise matrix for one election and prints the
// Condorcet findings.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := flag.NewFlagSet("irvcondorcet", flag.ContinueOnError)
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
		fmt.Fprintf(outw, "irvcondorcet version %s\n", version.Version)
		return 0
	}

	e, err := blt.ParseFile(opts.BltFiles[0])
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	m := condorcet.Build(e, opts.Threads)
	cands := output.ToAPICandidates(e)
	cond := output.ToAPICondorcet(e, m, 0)

	switch opts.Output {
	case "text":
		err = output.RenderCondorcetText(outw, cands, cond, e.Description, opts.Header)
	case "tsv":
		err = output.RenderPairwiseTSV(outw, cands, cond, opts.Header)
	case "json":
		err = jsonutil.EncodePretty(outw, condorcetDoc{
			Description: e.Description,
			Candidates:  cands,
			Condorcet:   cond,
		})
	}
	if err != nil {
		if writers.IsBrokenPipe(err) {
			return 0
		}
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
