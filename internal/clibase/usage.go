// internal/clibase/usage.go
package clibase

import (
	"flag"
	"fmt"
	"io"

	"irvaudit/internal/version"
)

// UsageCommon installs a shared Usage() handler on fs. outputs names the
// formats the tool actually accepts (empty means the full writer set); extra
// prints the tool-specific sections (synopsis, extra flag blocks) before the
// shared ones.
func UsageCommon(fs *flag.FlagSet, name, oneLine, outputs string, extra func(out io.Writer, def func(string) string)) {
	if outputs == "" {
		outputs = "text | tsv | json | jsonl | xlsx"
	}
	fs.Usage = func() {
		out := fs.Output()
		def := func(flagName string) string {
			if f := fs.Lookup(flagName); f != nil {
				return f.DefValue
			}
			return ""
		}

		fmt.Fprintf(out, "%s – %s\n", name, oneLine)
		fmt.Fprintf(out, "Version: %s\n\n", version.Version)

		if extra != nil {
			extra(out, def)
		}

		fmt.Fprintln(out, "\nCount:")
		fmt.Fprintf(out, "  -r, --rules string     Elimination rules: base | sf | complete [%s]\n", def("rules"))
		fmt.Fprintf(out, "  -t, --threads int      Worker threads for pairwise analysis (0=all CPUs) [%s]\n", def("threads"))

		fmt.Fprintln(out, "\nOutput:")
		fmt.Fprintf(out, "  -o, --output string    Output: %s [%s]\n", outputs, def("output"))
		fmt.Fprintf(out, "      --no-header        Suppress header line in text/TSV [%s]\n", def("no-header"))

		fmt.Fprintln(out, "\nMiscellaneous:")
		fmt.Fprintf(out, "  -q, --quiet            Suppress warnings [%s]\n", def("quiet"))
		fmt.Fprintln(out, "  -v, --version          Print version and exit")
		fmt.Fprintln(out, "  -h, --help             Show this help and exit")
	}
}
