package pipeline

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sells-group/ehf-cli/internal/model"
)

// Header keywords of the final-page property table, matched on folded text
// so accent encoding in the PDF does not matter.
var headerKeywords = []string{"code", "commune", "designation"}

// volumeRangeRe matches a "A à B" range inside a volume cell.
var volumeRangeRe = regexp.MustCompile(`^(\d+)\s+à\s+(\d+)$`)

// ExtractReferenceRows maps the final page's table grid to property rows.
// The header row is located by keyword; following non-empty rows map
// positionally to code/commune/designation/volume/lot. A cell with embedded
// line breaks becomes a value list, and volume ranges expand to the
// enumerated sequence. Rows missing both code and commune are dropped.
func ExtractReferenceRows(rows [][]string, pageNum int) []model.ReferenceProperty {
	header := -1
	for i, row := range rows {
		folded := foldText(strings.Join(row, " "))
		for _, kw := range headerKeywords {
			if strings.Contains(folded, kw) {
				header = i
				break
			}
		}
		if header >= 0 {
			break
		}
	}
	if header < 0 {
		return nil
	}

	var out []model.ReferenceProperty
	for _, row := range rows[header+1:] {
		if rowEmpty(row) {
			continue
		}
		rp := model.ReferenceProperty{
			Code:                  cellAt(row, 0),
			Commune:               cellAt(row, 1),
			DesignationCadastrale: cellAt(row, 2),
			Volume:                splitVolumes(cellAt(row, 3)),
			Lot:                   splitCell(cellAt(row, 4)),
			Page:                  pageNum,
		}
		if rp.Code == "" && rp.Commune == "" {
			continue
		}
		out = append(out, rp)
	}
	return out
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func cellAt(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// splitCell breaks a multi-line cell into its values.
func splitCell(cell string) model.MultiValue {
	if cell == "" {
		return nil
	}
	var values model.MultiValue
	for _, part := range strings.Split(cell, "\n") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

// splitVolumes splits a volume cell and expands "A à B" ranges into the
// enumerated integer sequence. A range that fails to parse stays verbatim.
func splitVolumes(cell string) model.MultiValue {
	var values model.MultiValue
	for _, part := range splitCell(cell) {
		m := volumeRangeRe.FindStringSubmatch(part)
		if m == nil {
			values = append(values, part)
			continue
		}
		start, err1 := strconv.Atoi(m[1])
		end, err2 := strconv.Atoi(m[2])
		if err1 != nil || err2 != nil || end < start {
			values = append(values, part)
			continue
		}
		for n := start; n <= end; n++ {
			values = append(values, strconv.Itoa(n))
		}
	}
	return values
}
