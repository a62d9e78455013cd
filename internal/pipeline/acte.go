package pipeline

import (
	"regexp"
	"sort"
	"strings"

	"github.com/sells-group/ehf-cli/internal/model"
)

// The act type precedes "de la formalité" when the drafter appended the
// formality reference; the marker appears with and without accents.
var formaliteMarkerRe = regexp.MustCompile(`(?i)\s+de\s+la\s+formalit[eé]`)

// ClassifyActe reduces a free-text act description to its canonical type
// label: everything before the formality marker, or the trimmed input when
// the marker is absent.
func ClassifyActe(nature string) string {
	trimmed := strings.TrimSpace(nature)
	if loc := formaliteMarkerRe.FindStringIndex(trimmed); loc != nil {
		if label := strings.TrimSpace(trimmed[:loc[0]]); label != "" {
			return label
		}
	}
	return trimmed
}

// CountActeTypes aggregates canonical act types over all formalities.
// Empty and not-found natures are skipped. The result is ordered by
// descending count; ties keep first-seen order.
func CountActeTypes(formalities []model.Formality) model.ActTypeCount {
	counts := make(map[string]int)
	var order []string

	for _, f := range formalities {
		nature := strings.TrimSpace(f.NatureActeRedacteur)
		if nature == "" || strings.EqualFold(nature, model.DateNotFound) {
			continue
		}
		label := ClassifyActe(nature)
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
	}

	out := make(model.ActTypeCount, 0, len(order))
	for _, label := range order {
		out = append(out, model.TypeCount{Label: label, Count: counts[label]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
