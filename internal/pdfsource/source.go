// Package pdfsource supplies whole-document text and last-page table grids
// to the extraction pipeline.
package pdfsource

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/ehf-cli/internal/config"
)

// Source reads page text and table grids from PDF files. Text returns the
// full document text in page order; LastPageRows returns the row grids of
// the final page only, with vertically stacked cell values joined by "\n",
// along with that page's 1-based number.
type Source interface {
	Text(ctx context.Context, pdfPath string) (string, error)
	LastPageRows(ctx context.Context, pdfPath string) ([][]string, int, error)
}

// New creates a Source based on config.
func New(cfg config.PDFConfig) (Source, error) {
	switch cfg.Provider {
	case "native", "":
		return NewNative(), nil
	case "pdftotext":
		return NewPdfToText(cfg.PdfToTextPath), nil
	default:
		return nil, eris.Errorf("pdfsource: unknown provider %q", cfg.Provider)
	}
}
