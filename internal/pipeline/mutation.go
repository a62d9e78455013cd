package pipeline

import (
	"regexp"
	"strings"

	"github.com/sells-group/ehf-cli/internal/model"
)

// partyRowRe matches one row of a party table: local number, upper-case
// name (apostrophes allowed), then a birthdate or a grouped-digit
// registration identifier.
var partyRowRe = regexp.MustCompile(`(\d+)\s+([A-Z'][A-Z\s']+?)\s+(\d{2}/\d{2}/\d{4}|\d{3}\s+\d{3}\s+\d{3})`)

// roleSpec drives party-table extraction for one role: header variants
// tried in order, the stop markers ending the block, and a loose direct-row
// pattern used when no header block matches.
type roleSpec struct {
	headers []*regexp.Regexp
	stops   []*regexp.Regexp
	direct  *regexp.Regexp
}

var disposantSpec = roleSpec{
	headers: []*regexp.Regexp{
		regexp.MustCompile(`(?is)disposant[,\s]*donateur\s*.*?numéro\s+désignation des personnes\s+date de naissance.*?\n`),
		regexp.MustCompile(`(?is)disposant\s*.*?numéro\s+désignation des personnes\s+date de naissance.*?\n`),
		regexp.MustCompile(`(?is)donateur\s*.*?numéro\s+désignation des personnes\s+date de naissance.*?\n`),
	},
	stops: []*regexp.Regexp{
		regexp.MustCompile(`(?i)\n\s*bénéficiaire`),
		regexp.MustCompile(`(?i)\n\s*immeubles`),
	},
	direct: regexp.MustCompile(`(?is)disposant.*?\n.*?(\d+)\s+([A-Z'][A-Z\s']+?)\s+(\d{2}/\d{2}/\d{4}|\d{3}\s+\d{3}\s+\d{3})`),
}

var beneficiaireSpec = roleSpec{
	headers: []*regexp.Regexp{
		regexp.MustCompile(`(?is)bénéficiaire[,\s]*donataire\s*.*?numéro\s+désignation des personnes\s+date de naissance.*?\n`),
		regexp.MustCompile(`(?is)bénéficiaire\s*.*?numéro\s+désignation des personnes\s+date de naissance.*?\n`),
		regexp.MustCompile(`(?is)donataire\s*.*?numéro\s+désignation des personnes\s+date de naissance.*?\n`),
	},
	stops: []*regexp.Regexp{
		regexp.MustCompile(`(?i)\n\s*immeubles`),
	},
	direct: regexp.MustCompile(`(?is)bénéficiaire.*?\n.*?(\d+)\s+([A-Z'][A-Z\s']+?)\s+(\d{2}/\d{2}/\d{4}|\d{3}\s+\d{3}\s+\d{3})`),
}

// Property-table header variants with their terminal markers.
var immeublesHeaders = []struct {
	header *regexp.Regexp
	stops  []*regexp.Regexp
}{
	{
		header: regexp.MustCompile(`(?is)immeubles\s*.*?bénéficiaires\s+droits\s+commune\s+désignation cadastrale\s+volume\s+lot\s*\n`),
		stops:  []*regexp.Regexp{regexp.MustCompile(`\n\s*US\s*:`)},
	},
	{
		header: regexp.MustCompile(`(?is)immeubles\s*\n\s*bénéficiaires\s+droits\s+commune\s+désignation cadastrale\s+volume\s+lot\s*\n`),
		stops:  []*regexp.Regexp{regexp.MustCompile(`\n\s*[A-Z]{2,}\s*:`)},
	},
}

// Property-table row shapes: beneficiary number (possibly a range), rights
// code, commune, cadastral designation, then a run of lot-number lines.
var immeublesRowRes = []*regexp.Regexp{
	regexp.MustCompile(`(\d+(?:\s+à\s+\d+)?)\s+([A-Z/]{1,3})\s+([A-Z\s\d]+?)\s+([A-Z]{1,3}\s*\d+)\s*\n((?:\s*\d+\s*\n?)*)`),
	regexp.MustCompile(`(\d+(?:\s+à\s+\d+)?)\s+([A-Z]{2,})\s+([A-Z\s\d]+?)\s+([A-Z]{1,3}\s*\d+)\s*\n((?:\s*\d+\s*\n?)*)`),
}

var montantRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)prix/évaluation\s*:\s*([0-9\s,.]+\s*EUR)`),
	regexp.MustCompile(`(?i)prix\s*:\s*([0-9\s,.]+\s*EUR)`),
	regexp.MustCompile(`(?i)évaluation\s*:\s*([0-9\s,.]+\s*EUR)`),
	regexp.MustCompile(`(?i)montant\s*:\s*([0-9\s,.]+\s*EUR)`),
}

// IsMutationCandidate reports whether the formality's act text carries
// neither the mortgage nor the radiation marker.
func IsMutationCandidate(f model.Formality) bool {
	upper := strings.ToUpper(f.NatureActeRedacteur)
	return !strings.Contains(upper, hypothequeMarker) && !strings.Contains(upper, radiationMarker)
}

// AnalyzeMutations extracts mutation detail from every candidate formality
// and keeps those where at least one of the party or property tables
// is non-empty.
func AnalyzeMutations(formalities []model.Formality) []model.MutationRecord {
	mutations := make([]model.MutationRecord, 0)
	for _, f := range formalities {
		if !IsMutationCandidate(f) {
			continue
		}
		detail := ExtractMutationDetail(f.Contenu)
		if len(detail.DisposantDonateur) == 0 && len(detail.BeneficiaireDonataire) == 0 && detail.Immeubles == nil {
			continue
		}
		mutations = append(mutations, model.MutationRecord{
			NumeroOrdre:           f.NumeroOrdre,
			DateDepot:             f.DateDepot,
			DateActe:              f.DateActe,
			NatureActe:            f.NatureActeRedacteur,
			ReferenceEnliassement: f.ReferenceEnliassement,
			Mutations:             detail,
		})
	}
	return mutations
}

// ExtractMutationDetail pulls the disponent and beneficiary party tables,
// the property table, and the optional amount out of a formality's raw
// content.
func ExtractMutationDetail(contenu string) model.MutationDetail {
	detail := model.MutationDetail{
		DisposantDonateur:     []model.Party{},
		BeneficiaireDonataire: []model.Party{},
	}
	if contenu == "" {
		return detail
	}

	detail.DisposantDonateur = extractParties(contenu, disposantSpec)
	detail.BeneficiaireDonataire = extractParties(contenu, beneficiaireSpec)
	detail.Immeubles = extractPropertyTable(contenu)

	if m := tryPatterns(contenu, montantRes); m != nil {
		detail.Montant = strings.TrimSpace(m[1])
	}

	return detail
}

// extractParties locates a role's table block and matches its rows; when no
// header block matches, it falls back to a single direct row anywhere after
// the role label.
func extractParties(contenu string, spec roleSpec) []model.Party {
	parties := []model.Party{}

	for _, header := range spec.headers {
		block, ok := blockAfter(contenu, header, spec.stops)
		if !ok {
			continue
		}
		for _, m := range partyRowRe.FindAllStringSubmatch(block, -1) {
			parties = append(parties, model.Party{
				Numero:        strings.TrimSpace(m[1]),
				Designation:   strings.TrimSpace(m[2]),
				DateNaissance: strings.TrimSpace(m[3]),
			})
		}
		break
	}

	if len(parties) == 0 {
		if m := spec.direct.FindStringSubmatch(contenu); m != nil {
			parties = append(parties, model.Party{
				Numero:        strings.TrimSpace(m[1]),
				Designation:   strings.TrimSpace(m[2]),
				DateNaissance: strings.TrimSpace(m[3]),
			})
		}
	}

	return parties
}

// extractPropertyTable locates the "Immeubles" block and matches its rows.
// The returned table keeps full per-row detail plus a deduplicated union of
// all lots for downstream lot matching. Returns nil when nothing matched.
func extractPropertyTable(contenu string) *model.PropertyTable {
	var block string
	for _, variant := range immeublesHeaders {
		if b, ok := blockAfter(contenu, variant.header, variant.stops); ok {
			block = strings.TrimSpace(b)
			break
		}
	}
	if block == "" {
		return nil
	}

	var lines []model.PropertyLine
	for _, rowRe := range immeublesRowRes {
		for _, m := range rowRe.FindAllStringSubmatch(block, -1) {
			lots := digitTokens(m[5])
			if lots == nil {
				lots = []string{}
			}
			lines = append(lines, model.PropertyLine{
				BeneficiaireNumero:    strings.TrimSpace(m[1]),
				Droits:                strings.TrimSpace(m[2]),
				Commune:               strings.TrimSpace(m[3]),
				DesignationCadastrale: strings.TrimSpace(m[4]),
				Lots:                  lots,
			})
		}
		if len(lines) > 0 {
			break
		}
	}
	if len(lines) == 0 {
		return nil
	}

	var allLots []string
	for _, line := range lines {
		allLots = append(allLots, line.Lots...)
	}

	first := lines[0]
	return &model.PropertyTable{
		BeneficiaireNumero:    first.BeneficiaireNumero,
		Droits:                first.Droits,
		Commune:               first.Commune,
		DesignationCadastrale: first.DesignationCadastrale,
		Lots:                  dedupeNumeric(allLots),
		LignesDetaillees:      lines,
	}
}
