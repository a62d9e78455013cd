package pdfsource

import (
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func text(x, w float64, s string) pdf.Text {
	return pdf.Text{X: x, W: w, S: s}
}

func TestSplitSpans_CellAndWordGaps(t *testing.T) {
	row := pdf.TextHorizontal{
		text(10, 5, "SAINT"),
		text(18, 5, "MALO"), // word gap: joined with a space
		text(120, 5, "AB"),  // cell gap: new span
		text(128, 5, "123"),
	}

	spans := splitSpans(row)

	require.Len(t, spans, 2)
	assert.Equal(t, "SAINT MALO", spans[0].text)
	assert.InDelta(t, 10, spans[0].x, 0.001)
	assert.Equal(t, "AB 123", spans[1].text)
	assert.InDelta(t, 120, spans[1].x, 0.001)
}

func TestSplitSpans_TightGlyphsConcatenate(t *testing.T) {
	row := pdf.TextHorizontal{
		text(10, 3, "1"),
		text(13.5, 3, "7"),
	}

	spans := splitSpans(row)

	require.Len(t, spans, 1)
	assert.Equal(t, "17", spans[0].text)
}

func TestSplitSpans_Empty(t *testing.T) {
	assert.Empty(t, splitSpans(nil))
	assert.Empty(t, splitSpans(pdf.TextHorizontal{text(10, 5, "   ")}))
}

func TestBuildGrid_AssignsColumns(t *testing.T) {
	lines := [][]span{
		{{x: 10, text: "Code"}, {x: 100, text: "Commune"}, {x: 200, text: "Lot"}},
		{{x: 11, text: "123"}, {x: 101, text: "SAINT MALO"}, {x: 199, text: "9"}},
	}

	grid := buildGrid(lines)

	require.Len(t, grid, 2)
	assert.Equal(t, []string{"Code", "Commune", "Lot"}, grid[0])
	assert.Equal(t, []string{"123", "SAINT MALO", "9"}, grid[1])
}

func TestBuildGrid_ContinuationRowFoldsIntoPrevious(t *testing.T) {
	lines := [][]span{
		{{x: 10, text: "123"}, {x: 100, text: "SAINT MALO"}, {x: 200, text: "9"}},
		{{x: 200, text: "17"}}, // no first column: continuation
	}

	grid := buildGrid(lines)

	require.Len(t, grid, 1)
	assert.Equal(t, "9\n17", grid[0][2])
}

func TestBuildGrid_SparseRowsKeepColumnCount(t *testing.T) {
	lines := [][]span{
		{{x: 10, text: "a"}, {x: 100, text: "b"}, {x: 200, text: "c"}},
		{{x: 10, text: "d"}, {x: 200, text: "e"}},
	}

	grid := buildGrid(lines)

	require.Len(t, grid, 2)
	assert.Equal(t, []string{"d", "", "e"}, grid[1])
}

func TestBuildGrid_Empty(t *testing.T) {
	assert.Nil(t, buildGrid(nil))
}

func TestInferColumns_ClustersNearbyStarts(t *testing.T) {
	lines := [][]span{
		{{x: 10}, {x: 100}},
		{{x: 12}, {x: 103}, {x: 205}},
	}

	cols := inferColumns(lines)

	require.Len(t, cols, 3)
	assert.InDelta(t, 10, cols[0], 0.001)
	assert.InDelta(t, 100, cols[1], 0.001)
	assert.InDelta(t, 205, cols[2], 0.001)
}
