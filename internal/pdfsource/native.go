package pdfsource

import (
	"context"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Horizontal gap (in points) that separates two cells on the same text row.
const cellGap = 14.0

// Horizontal gap that renders as a space inside one cell.
const wordGap = 1.0

// Tolerance when clustering cell start positions into columns.
const columnTolerance = 10.0

// Native extracts text and table grids in-process via the embedded text
// layer. Scanned (image-only) PDFs are out of scope; they yield empty text.
type Native struct{}

// NewNative creates a Native source.
func NewNative() *Native {
	return &Native{}
}

// Text returns the concatenated text of every page in order. Unreadable
// pages are skipped with a warning; they never abort the document.
func (n *Native) Text(_ context.Context, pdfPath string) (string, error) {
	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return "", eris.Wrapf(err, "pdfsource: open %s", pdfPath)
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			zap.L().Warn("pdfsource: unreadable page skipped",
				zap.String("file", pdfPath),
				zap.Int("page", i),
				zap.Error(err),
			)
			continue
		}
		b.WriteString(pageText)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// LastPageRows reconstructs the final page's table as row grids. Column
// boundaries are inferred from the horizontal clustering of cell starts;
// continuation rows (empty first column) are folded into the row above
// with a "\n" join, so a cell listing several lots comes back as one
// multi-line value.
func (n *Native) LastPageRows(_ context.Context, pdfPath string) ([][]string, int, error) {
	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return nil, 0, eris.Wrapf(err, "pdfsource: open %s", pdfPath)
	}
	defer f.Close()

	lastPage := r.NumPage()
	if lastPage == 0 {
		return nil, 0, nil
	}
	page := r.Page(lastPage)
	if page.V.IsNull() {
		return nil, lastPage, nil
	}

	rows, err := page.GetTextByRow()
	if err != nil {
		return nil, lastPage, eris.Wrapf(err, "pdfsource: rows of last page of %s", pdfPath)
	}

	lines := make([][]span, 0, len(rows))
	for _, row := range rows {
		if s := splitSpans(row.Content); len(s) > 0 {
			lines = append(lines, s)
		}
	}
	return buildGrid(lines), lastPage, nil
}

// span is one contiguous run of text on a row.
type span struct {
	x    float64
	text string
}

// splitSpans groups a row's glyph runs into cell-sized spans.
func splitSpans(content pdf.TextHorizontal) []span {
	var spans []span
	var cur strings.Builder
	var curX, prevEnd float64

	flush := func() {
		if text := strings.TrimSpace(cur.String()); text != "" {
			spans = append(spans, span{x: curX, text: text})
		}
		cur.Reset()
	}

	for i, t := range content {
		if i == 0 {
			curX = t.X
		} else {
			gap := t.X - prevEnd
			if gap > cellGap {
				flush()
				curX = t.X
			} else if gap > wordGap {
				cur.WriteByte(' ')
			}
		}
		cur.WriteString(t.S)
		prevEnd = t.X + t.W
	}
	flush()
	return spans
}

// buildGrid assigns spans to inferred columns and folds continuation rows
// into the row above.
func buildGrid(lines [][]span) [][]string {
	if len(lines) == 0 {
		return nil
	}

	cols := inferColumns(lines)

	var grid [][]string
	for _, line := range lines {
		cells := make([]string, len(cols))
		for _, s := range line {
			c := nearestColumn(cols, s.x)
			if cells[c] != "" {
				cells[c] += " " + s.text
			} else {
				cells[c] = s.text
			}
		}

		// A row with an empty first column continues the row above.
		if cells[0] == "" && len(grid) > 0 {
			prev := grid[len(grid)-1]
			for c, v := range cells {
				if v == "" {
					continue
				}
				if prev[c] != "" {
					prev[c] += "\n" + v
				} else {
					prev[c] = v
				}
			}
			continue
		}
		grid = append(grid, cells)
	}
	return grid
}

// inferColumns clusters span start positions across all lines.
func inferColumns(lines [][]span) []float64 {
	var xs []float64
	for _, line := range lines {
		for _, s := range line {
			xs = append(xs, s.x)
		}
	}
	sort.Float64s(xs)

	var cols []float64
	for _, x := range xs {
		if len(cols) == 0 || x-cols[len(cols)-1] > columnTolerance {
			cols = append(cols, x)
		}
	}
	return cols
}

func nearestColumn(cols []float64, x float64) int {
	best := 0
	for i, c := range cols {
		if abs(x-c) < abs(x-cols[best]) {
			best = i
		}
	}
	return best
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
