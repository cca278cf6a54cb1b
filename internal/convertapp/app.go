// internal/convertapp/app.go
package convertapp

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"irvaudit/internal/convert"
	"irvaudit/internal/version"
	"irvaudit/internal/writers"
)

type options struct {
	ImagePath  string
	MasterPath string
	Version    bool
}

func parseArgs(fs *flag.FlagSet, argv []string) (options, error) {
	var opt options
	var help bool
	fs.BoolVar(&opt.Version, "version", false, "print version and exit")
	fs.BoolVar(&help, "h", false, "show this help and exit")
	fs.BoolVar(&help, "help", false, "show this help and exit")

	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "%s %s\n", fs.Name(), version.Version)
		fmt.Fprintln(out, "Convert a fixed-width ballot-image export to .blt.")
		fmt.Fprintf(out, "\nUsage: %s ballot-image.txt master-lookup.txt > election.blt\n", fs.Name())
		fmt.Fprintln(out, "\nFlags:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if help {
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	if fs.NArg() != 2 {
		return opt, errors.New("expected exactly two arguments: ballot image and master lookup")
	}
	opt.ImagePath = fs.Arg(0)
	opt.MasterPath = fs.Arg(1)
	return opt, nil
}

// RunContext converts one ballot-image export to .blt on stdout.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := flag.NewFlagSet("txt2blt", flag.ContinueOnError)
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
		fmt.Fprintf(outw, "txt2blt version %s\n", version.Version)
		return 0
	}

	mf, err := os.Open(opts.MasterPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	m, err := convert.ParseMaster(mf)
	_ = mf.Close()
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", opts.MasterPath, err)
		return 2
	}

	imf, err := os.Open(opts.ImagePath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	defer imf.Close()

	if err := convert.Convert(imf, m, outw); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", opts.ImagePath, err)
		return 2
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
