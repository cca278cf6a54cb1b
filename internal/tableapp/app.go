// internal/tableapp/app.go
package tableapp

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"irvaudit/internal/config"
	"irvaudit/internal/jsonutil"
	"irvaudit/internal/resultstore"
	"irvaudit/internal/version"
	"irvaudit/internal/writers"
)

type options struct {
	Config  string
	Store   string
	Output  string
	Header  bool
	Version bool
}

func parseArgs(fs *flag.FlagSet, argv []string) (options, error) {
	opt := options{Output: "markdown", Header: true}
	var help, noHeader bool
	fs.StringVar(&opt.Config, "config", "", "TOML config file (default $IRVAUDIT_CONFIG)")
	fs.StringVar(&opt.Store, "store", "", "result store path (overrides config)")
	fs.StringVar(&opt.Output, "output", opt.Output, "output format: markdown | tsv | json")
	fs.StringVar(&opt.Output, "o", opt.Output, "")
	fs.BoolVar(&noHeader, "no-header", false, "suppress the header row")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit")
	fs.BoolVar(&help, "h", false, "show this help and exit")
	fs.BoolVar(&help, "help", false, "show this help and exit")

	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "%s %s\n", fs.Name(), version.Version)
		fmt.Fprintln(out, "Tabulate recorded audit runs from the result store.")
		fmt.Fprintf(out, "\nUsage: %s [flags]\n", fs.Name())
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
	opt.Header = !noHeader
	if fs.NArg() != 0 {
		return opt, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	switch opt.Output {
	case "markdown", "tsv", "json":
	default:
		return opt, fmt.Errorf("invalid --output %q (want markdown | tsv | json)", opt.Output)
	}
	return opt, nil
}

// RunContext lists every recorded audit run as a table.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := flag.NewFlagSet("irvtable", flag.ContinueOnError)
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
		fmt.Fprintf(outw, "irvtable version %s\n", version.Version)
		return 0
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if opts.Store != "" {
		cfg.StorePath = opts.Store
	}
	if cfg.StorePath == "" {
		fmt.Fprintln(stderr, "no result store configured (use --store or IRVAUDIT_STORE)")
		return 2
	}

	st, err := resultstore.Open(cfg.StorePath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	defer st.Close()

	runs, err := st.List(parent)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 3
	}

	switch opts.Output {
	case "markdown":
		err = renderMarkdown(outw, runs, opts.Header)
	case "tsv":
		err = renderTSV(outw, runs, opts.Header)
	case "json":
		err = jsonutil.EncodePretty(outw, runsDoc(runs))
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

var columns = []string{
	"created", "contest", "source", "rules", "ballots",
	"winner", "rounds", "margin", "exact", "condorcet",
}

func rowCells(r resultstore.Row) []string {
	contest := r.Description
	if contest == "" {
		contest = "-"
	}
	return []string{
		r.CreatedAt, contest, r.Source, r.Rules,
		strconv.Itoa(r.Ballots), r.Winner, strconv.Itoa(r.Rounds),
		marginCell(r), optInt(r.ExactMargin), condorcetCell(r),
	}
}

func marginCell(r resultstore.Row) string {
	if r.LowerBound == nil {
		return "-"
	}
	upper := "?"
	if r.UpperBound != nil {
		upper = strconv.Itoa(*r.UpperBound)
	}
	return fmt.Sprintf("%d..%s", *r.LowerBound, upper)
}

func optInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func condorcetCell(r resultstore.Row) string {
	if r.CondorcetWinner == nil {
		return "-"
	}
	if r.CondorcetAgrees != nil && !*r.CondorcetAgrees {
		return *r.CondorcetWinner + " (disagrees)"
	}
	return *r.CondorcetWinner
}

func renderMarkdown(w io.Writer, runs []resultstore.Row, header bool) error {
	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = len(c)
	}
	cells := make([][]string, len(runs))
	for i, r := range runs {
		cells[i] = rowCells(r)
		for j, c := range cells[i] {
			if len(c) > widths[j] {
				widths[j] = len(c)
			}
		}
	}

	writeRow := func(row []string) error {
		var b strings.Builder
		for j, c := range row {
			fmt.Fprintf(&b, "| %-*s ", widths[j], c)
		}
		b.WriteString("|\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	if header {
		if err := writeRow(columns); err != nil {
			return err
		}
		var b strings.Builder
		for _, wd := range widths {
			fmt.Fprintf(&b, "|%s", strings.Repeat("-", wd+2))
		}
		b.WriteString("|\n")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	for _, row := range cells {
		if err := writeRow(row); err != nil {
			return err
		}
	}
	return nil
}

func renderTSV(w io.Writer, runs []resultstore.Row, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, strings.Join(columns, "\t")); err != nil {
			return err
		}
	}
	for _, r := range runs {
		if _, err := fmt.Fprintln(w, strings.Join(rowCells(r), "\t")); err != nil {
			return err
		}
	}
	return nil
}

type runDocV1 struct {
	RunID           string  `json:"run_id"`
	CreatedAt       string  `json:"created_at"`
	Source          string  `json:"source,omitempty"`
	Description     string  `json:"description,omitempty"`
	Rules           string  `json:"rules"`
	Candidates      int     `json:"candidates"`
	Ballots         int     `json:"ballots"`
	Winner          string  `json:"winner"`
	Rounds          int     `json:"rounds"`
	SimpleLower     *int    `json:"simple_lower,omitempty"`
	LowerBound      *int    `json:"lower_bound,omitempty"`
	UpperBound      *int    `json:"upper_bound,omitempty"`
	ExactMargin     *int    `json:"exact_margin,omitempty"`
	CondorcetWinner *string `json:"condorcet_winner,omitempty"`
	CondorcetAgrees *bool   `json:"condorcet_agrees,omitempty"`
}

func runsDoc(runs []resultstore.Row) []runDocV1 {
	out := make([]runDocV1, len(runs))
	for i, r := range runs {
		out[i] = runDocV1{
			RunID: r.RunID, CreatedAt: r.CreatedAt, Source: r.Source,
			Description: r.Description, Rules: r.Rules, Candidates: r.Candidates,
			Ballots: r.Ballots, Winner: r.Winner, Rounds: r.Rounds,
			SimpleLower: r.SimpleLower, LowerBound: r.LowerBound,
			UpperBound: r.UpperBound, ExactMargin: r.ExactMargin,
			CondorcetWinner: r.CondorcetWinner, CondorcetAgrees: r.CondorcetAgrees,
		}
	}
	return out
}

// Run is RunContext with a background context.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
