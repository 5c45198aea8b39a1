package report

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractPDFText reads the PDF at path and concatenates the text of every
// page, each tagged with its page number. Pages that fail to decode are
// skipped; an entirely empty result is the caller's signal to treat the
// document as unprocessed.
func ExtractPDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		fmt.Fprintf(&b, "\n--- PAGE %d ---\n%s", i, text)
	}
	return b.String(), nil
}
