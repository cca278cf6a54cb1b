// internal/writers/json.go
package writers

import (
	"encoding/json"
	"io"

	"irvaudit/internal/jsonutil"
	"irvaudit/pkg/api"
)

func init() {
	RegisterReport("json", func(w io.Writer, rep *api.ReportV1, _ bool) error {
		return jsonutil.EncodePretty(w, rep)
	})
	// One compact line per report; composes with shell pipelines over many
	// contest files.
	RegisterReport("jsonl", func(w io.Writer, rep *api.ReportV1, _ bool) error {
		return json.NewEncoder(w).Encode(rep)
	})
}
