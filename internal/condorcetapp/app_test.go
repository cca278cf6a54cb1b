package condorcetapp

import (
	"bytes"
	"strings"
	"testing"
)

// The shared usage block must advertise only the formats this tool accepts.
func TestUsageMatchesAcceptedFormats(t *testing.T) {
	var out, errBuf bytes.Buffer
	if code := Run([]string{"-h"}, &out, &errBuf); code != 0 {
		t.Fatalf("help exit %d, stderr=%s", code, errBuf.String())
	}
	text := out.String()
	if !strings.Contains(text, "Output: text | tsv | json ") {
		t.Errorf("usage output line wrong:\n%s", text)
	}
	for _, fmtName := range []string{"jsonl", "xlsx"} {
		if strings.Contains(text, fmtName) {
			t.Errorf("usage advertises unsupported format %q:\n%s", fmtName, text)
		}
	}

	out.Reset()
	errBuf.Reset()
	if code := Run([]string{"-o", "xlsx", "x.blt"}, &out, &errBuf); code != 2 {
		t.Errorf("-o xlsx: exit %d, want 2", code)
	}
	if !strings.Contains(errBuf.String(), `invalid --output "xlsx"`) {
		t.Errorf("stderr = %q", errBuf.String())
	}
}
