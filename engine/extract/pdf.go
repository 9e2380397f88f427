package extract

import (
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/windlabs/wind-engine/engine/domain"
)

// FromPDF extracts the plain text of every page and records each page's
// character range within the concatenated text. Pages are joined with a
// single newline.
func FromPDF(path string) (Result, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return Result{}, domain.NewExtractionError(path, err)
	}
	defer f.Close()

	var b strings.Builder
	var pages []domain.PageBoundary

	total := reader.NumPage()
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return Result{}, domain.NewExtractionError(path, err)
		}

		start := b.Len()
		b.WriteString(text)
		pages = append(pages, domain.PageBoundary{
			PageNumber: i,
			CharStart:  start,
			CharEnd:    b.Len(),
		})
		b.WriteByte('\n')
	}

	return Result{Text: b.String(), Pages: pages}, nil
}
