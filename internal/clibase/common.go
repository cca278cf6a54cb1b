// internal/clibase/common.go
package clibase

import (
	"errors"
	"flag"
	"fmt"

	"irvaudit-core/irv"
	"irvaudit/internal/cliutil"
)

// Common holds the CLI fields shared by irvaudit, irvcount, and irvcondorcet.
type Common struct {
	// Input
	BltFiles []string // positional .blt paths, globs expanded

	// Count
	Rules   string
	Threads int

	// Output
	Output string
	Header bool

	// Misc
	Quiet   bool
	Version bool
}

// Output formats accepted by the shared validator. Individual tools may
// support a subset; the writer registry catches those at dispatch time.
var outputFormats = map[string]bool{
	"text": true, "tsv": true, "json": true, "jsonl": true, "xlsx": true,
}

// Register wires the shared flags onto fs and returns a pointer to the
// no-header bool; AfterParse folds it into Common.Header.
func Register(fs *flag.FlagSet, c *Common) *bool {
	fs.StringVar(&c.Rules, "rules", "sf", "elimination rules: base | sf | complete")
	fs.StringVar(&c.Rules, "r", "sf", "alias of --rules")
	fs.IntVar(&c.Threads, "threads", 0, "worker threads for pairwise analysis (0=all CPUs)")
	fs.IntVar(&c.Threads, "t", 0, "alias of --threads")

	fs.StringVar(&c.Output, "output", "text", "output: text | tsv | json | jsonl | xlsx")
	fs.StringVar(&c.Output, "o", "text", "alias of --output")
	noHeader := false
	fs.BoolVar(&noHeader, "no-header", false, "suppress header line in text/TSV")

	fs.BoolVar(&c.Quiet, "quiet", false, "suppress warnings")
	fs.BoolVar(&c.Quiet, "q", false, "alias of --quiet")
	fs.BoolVar(&c.Version, "version", false, "print version and exit")
	fs.BoolVar(&c.Version, "v", false, "alias of --version")
	return &noHeader
}

// AfterParse finalizes the header bool, expands positional globs into
// BltFiles, and runs the shared validation.
func AfterParse(c *Common, noHeader *bool, posArgs []string) error {
	c.Header = !*noHeader
	exp, err := cliutil.ExpandPositionals(posArgs)
	if err != nil {
		return err
	}
	c.BltFiles = append(c.BltFiles, exp...)
	return Validate(c)
}

// Validate applies the invariants shared by every tool.
func Validate(c *Common) error {
	if len(c.BltFiles) == 0 {
		return errors.New("a .blt ballot file is required")
	}
	if _, err := irv.ParseRules(c.Rules); err != nil {
		return err
	}
	if c.Threads < 0 {
		return errors.New("--threads must be >= 0")
	}
	if !outputFormats[c.Output] {
		return fmt.Errorf("invalid --output %q", c.Output)
	}
	return nil
}

// ParsedRules returns the validated rule variant.
func (c *Common) ParsedRules() irv.Rules {
	r, _ := irv.ParseRules(c.Rules)
	return r
}
