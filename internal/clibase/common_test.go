package clibase

import (
	"flag"
	"io"
	"testing"

	"irvaudit-core/irv"
)

func parse(t *testing.T, argv []string, pos []string) (Common, error) {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var c Common
	noHeader := Register(fs, &c)
	if err := fs.Parse(argv); err != nil {
		t.Fatalf("parse %v: %v", argv, err)
	}
	err := AfterParse(&c, noHeader, pos)
	return c, err
}

func TestDefaults(t *testing.T) {
	c, err := parse(t, nil, []string{"x.blt"})
	if err != nil {
		t.Fatalf("AfterParse: %v", err)
	}
	if c.Rules != "sf" || c.Output != "text" || !c.Header || c.Quiet {
		t.Errorf("defaults = %+v", c)
	}
	if c.ParsedRules() != irv.SFRCV {
		t.Errorf("ParsedRules = %v", c.ParsedRules())
	}
}

func TestNoHeaderFoldsIn(t *testing.T) {
	c, err := parse(t, []string{"--no-header"}, []string{"x.blt"})
	if err != nil {
		t.Fatalf("AfterParse: %v", err)
	}
	if c.Header {
		t.Error("Header = true after --no-header")
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name string
		argv []string
		pos  []string
	}{
		{"no files", nil, nil},
		{"bad rules", []string{"--rules", "borda"}, []string{"x.blt"}},
		{"negative threads", []string{"--threads", "-1"}, []string{"x.blt"}},
		{"bad output", []string{"-o", "yaml"}, []string{"x.blt"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parse(t, tc.argv, tc.pos); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
