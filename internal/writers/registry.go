// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"

	"irvaudit/pkg/api"
)

// ReportFunc renders one finished report to w.
type ReportFunc func(w io.Writer, rep *api.ReportV1, header bool) error

// Report is the format registry; writer files register themselves in init().
var Report = map[string]ReportFunc{}

// RegisterReport installs a writer for format (last registration wins).
func RegisterReport(format string, fn ReportFunc) { Report[format] = fn }

// WriteReport dispatches to the registered writer for format.
func WriteReport(format string, w io.Writer, rep *api.ReportV1, header bool) error {
	fn, ok := Report[format]
	if !ok {
		return fmt.Errorf("unknown report format %q (no writer registered)", format)
	}
	return fn(w, rep, header)
}

// Formats lists the registered format names (unsorted).
func Formats() []string {
	out := make([]string, 0, len(Report))
	for f := range Report {
		out = append(out, f)
	}
	return out
}
