package pdfsource

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/rotisserie/eris"
)

// PdfToText extracts text from PDFs using the pdftotext CLI tool. Table
// grids still come from the native reader: layout text carries no cell
// geometry.
type PdfToText struct {
	binPath string
	native  *Native
}

// NewPdfToText creates a PdfToText source. If binPath is empty, "pdftotext"
// is used.
func NewPdfToText(binPath string) *PdfToText {
	if binPath == "" {
		binPath = "pdftotext"
	}
	return &PdfToText{binPath: binPath, native: NewNative()}
}

// Text runs pdftotext -layout on the given PDF and returns stdout.
func (p *PdfToText) Text(ctx context.Context, pdfPath string) (string, error) {
	cmd := exec.CommandContext(ctx, p.binPath, "-layout", pdfPath, "-")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", eris.Wrapf(err, "pdfsource: pdftotext failed for %s: %s", pdfPath, stderr.String())
	}

	return stdout.String(), nil
}

// LastPageRows delegates to the native reader.
func (p *PdfToText) LastPageRows(ctx context.Context, pdfPath string) ([][]string, int, error) {
	return p.native.LastPageRows(ctx, pdfPath)
}
