package extract

import (
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor treats each page of a PDF as one slide. It is only reachable
// when pdf is added to the allowed upload extensions.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

func (e *PDFExtractor) Extract(r io.ReaderAt, size int64) (slides []string, err error) {
	// The pdf library panics on some malformed documents.
	defer func() {
		if rec := recover(); rec != nil {
			slides = nil
			err = fmt.Errorf("%w: reading pdf: %v", ErrBadDocument, rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: opening pdf: %v", ErrBadDocument, err)
	}

	slides = make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			slides = append(slides, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %v", ErrBadDocument, i, err)
		}
		slides = append(slides, strings.TrimSpace(text))
	}
	return slides, nil
}
