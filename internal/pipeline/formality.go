package pipeline

import (
	"regexp"
	"strings"

	"github.com/sells-group/ehf-cli/internal/model"
)

// Deposit-date anchor that opens every formality. Accent variants appear
// across registries ("dépôt", "dépot", "depot").
var depotAnchorRe = regexp.MustCompile(`(?i)date\s+de\s+d[eé]p[oô]t\s*:`)

var (
	anyDateRe      = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)
	dateActeRe     = regexp.MustCompile(`(?i)date de l'acte\s*:\s*(\d{2}/\d{2}/\d{4})`)
	natureActeRe   = regexp.MustCompile(`(?is)nature de l'acte\s*:\s*(.+?)(?:\n|rédacteur)`)
	refEnliasseRe  = regexp.MustCompile(`(?i)r[eé]f[eé]rence d'enliassement\s*:\s*([^\n]+)`)
	refTrailDateRe = regexp.MustCompile(`(?i)\s+date de l'acte\s*:\s*\d{2}/\d{2}/\d{4}`)
)

// ParseFormalities splits the raw document text on the deposit-date anchor.
// The text before the first anchor is preamble and never a formality; every
// segment after an anchor becomes exactly one record, numbered from 1 in
// source order. Field misses degrade to sentinels, never drop the segment.
func ParseFormalities(text string) []model.Formality {
	text = normalizeSpaces(text)

	locs := depotAnchorRe.FindAllStringIndex(text, -1)
	formalities := make([]model.Formality, 0, len(locs))

	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		segment := strings.TrimSpace(text[loc[1]:end])

		f := model.Formality{
			NumeroOrdre:         i + 1,
			DateDepot:           model.DateNotFound,
			DateActe:            model.DateNotFound,
			NatureActeRedacteur: model.DateNotFound,
			// Re-prepend the anchor the split consumed, so raw content
			// reads uniformly.
			Contenu: "Date de depot: " + segment,
		}

		if m := anyDateRe.FindString(segment); m != "" {
			f.DateDepot = m
		}
		if m := dateActeRe.FindStringSubmatch(segment); m != nil {
			f.DateActe = m[1]
		}
		// Captured act nature keeps its original case.
		if m := natureActeRe.FindStringSubmatch(segment); m != nil {
			f.NatureActeRedacteur = strings.TrimSpace(m[1])
		}
		if m := refEnliasseRe.FindStringSubmatch(segment); m != nil {
			ref := refTrailDateRe.ReplaceAllString(strings.TrimSpace(m[1]), "")
			f.ReferenceEnliassement = strings.TrimSpace(ref)
		}

		formalities = append(formalities, f)
	}

	return formalities
}
