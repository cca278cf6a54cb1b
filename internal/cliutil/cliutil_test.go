package cliutil

import (
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func newFS() *flag.FlagSet {
	fs := flag.NewFlagSet("t", flag.ContinueOnError)
	fs.String("rules", "sf", "")
	fs.Bool("quiet", false, "")
	return fs
}

func TestSplitFlagsAndPositionals(t *testing.T) {
	cases := []struct {
		name     string
		argv     []string
		wantFlag []string
		wantPos  []string
	}{
		{
			"flags with values",
			[]string{"--rules", "base", "votes.blt"},
			[]string{"--rules", "base"},
			[]string{"votes.blt"},
		},
		{
			"bool flag takes no value",
			[]string{"--quiet", "votes.blt"},
			[]string{"--quiet"},
			[]string{"votes.blt"},
		},
		{
			"equals form",
			[]string{"--rules=base", "a.blt", "b.blt"},
			[]string{"--rules=base"},
			[]string{"a.blt", "b.blt"},
		},
		{
			"double dash ends flags",
			[]string{"--quiet", "--", "--rules"},
			[]string{"--quiet"},
			[]string{"--rules"},
		},
		{
			"stdin dash is positional",
			[]string{"-"},
			nil,
			[]string{"-"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotFlag, gotPos := SplitFlagsAndPositionals(newFS(), tc.argv)
			if !reflect.DeepEqual(gotFlag, tc.wantFlag) {
				t.Errorf("flags = %v, want %v", gotFlag, tc.wantFlag)
			}
			if !reflect.DeepEqual(gotPos, tc.wantPos) {
				t.Errorf("positionals = %v, want %v", gotPos, tc.wantPos)
			}
		})
	}
}

func TestExpandPositionals(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.blt", "b.blt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := ExpandPositionals([]string{filepath.Join(dir, "*.blt"), "-"})
	if err != nil {
		t.Fatalf("ExpandPositionals: %v", err)
	}
	want := []string{filepath.Join(dir, "a.blt"), filepath.Join(dir, "b.blt"), "-"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expanded = %v, want %v", got, want)
	}

	if _, err := ExpandPositionals([]string{filepath.Join(dir, "*.csv")}); err == nil {
		t.Error("expected error for glob matching nothing")
	}
}
