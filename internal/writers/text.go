// internal/writers/text.go
package writers

import (
	"io"

	"irvaudit/internal/output"
	"irvaudit/pkg/api"
)

func init() {
	RegisterReport("text", func(w io.Writer, rep *api.ReportV1, header bool) error {
		return output.RenderText(w, rep, header)
	})
	RegisterReport("tsv", func(w io.Writer, rep *api.ReportV1, header bool) error {
		return output.RenderRoundsTSV(w, rep, header)
	})
}
