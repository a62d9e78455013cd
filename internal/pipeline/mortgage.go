package pipeline

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/ehf-cli/internal/model"
)

// Classification markers, checked on upper-cased text.
const (
	radiationMarker     = "RADIATION"
	totaliteMarker      = "TOTALE"
	hypothequeMarker    = "HYPOTHEQUE"
	creanciersMarker    = "CRÉANCIERS"
	debiteurMarker      = "DÉBITEUR"
	proprietairesMarker = "PROPRIÉTAIRES IMMEUBLE"
)

// IsCancellation reports whether the formality's act text records a
// radiation totale.
func IsCancellation(f model.Formality) bool {
	upper := strings.ToUpper(f.NatureActeRedacteur)
	return strings.Contains(upper, radiationMarker) && strings.Contains(upper, totaliteMarker)
}

// IsMortgage reports whether the formality registers a mortgage: the
// explicit marker in the act text, or the implicit creditors-plus-debtor
// signature in the raw content. Cancellations are never mortgages.
func IsMortgage(f model.Formality) bool {
	if IsCancellation(f) {
		return false
	}
	if strings.Contains(strings.ToUpper(f.NatureActeRedacteur), hypothequeMarker) {
		return true
	}
	upper := strings.ToUpper(f.Contenu)
	return strings.Contains(upper, creanciersMarker) &&
		(strings.Contains(upper, debiteurMarker) || strings.Contains(upper, proprietairesMarker))
}

// ActiveMortgages classifies the formalities and returns the mortgages
// that no cancellation extinguished, with their property and financial
// detail extracted.
func ActiveMortgages(formalities []model.Formality) []model.MortgageRecord {
	var mortgages, cancellations []model.Formality
	for _, f := range formalities {
		switch {
		case IsCancellation(f):
			cancellations = append(cancellations, f)
		case IsMortgage(f):
			mortgages = append(mortgages, f)
		}
	}

	records := make([]model.MortgageRecord, 0, len(mortgages))
	for _, m := range mortgages {
		if isCancelled(m, cancellations) {
			continue
		}
		records = append(records, model.MortgageRecord{
			NumeroOrdre:           m.NumeroOrdre,
			DateDepot:             m.DateDepot,
			DateActe:              m.DateActe,
			NatureActe:            m.NatureActeRedacteur,
			ReferenceEnliassement: m.ReferenceEnliassement,
			Contenu:               m.Contenu,
			LotsVolumes:           ExtractLotsVolumes(m.Contenu),
			Statut:                model.MortgageStatusActive,
		})
	}
	return records
}

// isCancelled matches a mortgage to a cancellation when the cancellation's
// act text quotes the mortgage's deposit date. This is same-date string
// containment, not a structured cross-reference: an unrelated cancellation
// quoting the same date would false-match. Kept as-is pending clearer
// linkage semantics in the source documents.
func isCancelled(m model.Formality, cancellations []model.Formality) bool {
	if m.DateDepot == "" || m.DateDepot == model.DateNotFound {
		return false
	}
	for _, c := range cancellations {
		if strings.Contains(c.NatureActeRedacteur, m.DateDepot) {
			return true
		}
	}
	return false
}

var (
	immeublesStartRe = regexp.MustCompile(`(?i)immeubles`)
	montantStopRe    = regexp.MustCompile(`(?i)\n\s*montant`)

	// Primary pattern: commune and cadastral designation on one line,
	// followed by a run of lot-number lines.
	communeDesignationRe = regexp.MustCompile(`([A-Z][A-Z\s\d]+?)\s+([A-Z]{1,3}\s*\d+)\s*\n((?:\s*\d+\s*\n?)+)`)

	communeFallbackRes = []*regexp.Regexp{
		regexp.MustCompile(`([A-Z][A-Z\s\d]+?)\s+[A-Z]{1,3}\s+\d+`),
		regexp.MustCompile(`(?i)commune[:\s]*([A-Z][A-Z\s\d]+)`),
	}
	designationFallbackRes = []*regexp.Regexp{
		regexp.MustCompile(`([A-Z]{1,3}\s*\d+)(?:\s*\n|\s*$)`),
		regexp.MustCompile(`(?i)cadastrale[:\s]*([A-Z]{1,3}\s*\d+)`),
	}
	standaloneNumberRe = regexp.MustCompile(`(?m)^\s*(\d+)\s*$`)
	volumeRe           = regexp.MustCompile(`(?i)volume[:\s]*(\d+|[A-Z]\d+)`)

	montantPrincipalRe = regexp.MustCompile(`(?i)montant principal\s*:\s*([\d\s,.]+\s*EUR)`)
	accessoiresRe      = regexp.MustCompile(`(?i)accessoires\s*:\s*([\d\s,.]+\s*EUR)`)
	tauxInteretRe      = regexp.MustCompile(`(?i)taux d'intérêt\s*:\s*([\d,.]+\s*%)`)
	exigibiliteRe      = regexp.MustCompile(`(?i)date d'extrême exigibilité\s*:\s*(\d{2}/\d{2}/\d{4})`)
	extremeEffetRe     = regexp.MustCompile(`(?i)date d'extrême effet\s*:\s*(\d{2}/\d{2}/\d{4})`)

	complementStartRe = regexp.MustCompile(`(?i)complément\s*:\s*`)
	complementStopRes = []*regexp.Regexp{
		regexp.MustCompile(`\n\s*Disposition`),
		// Page footer of the form "3 / 12 Demande ...".
		regexp.MustCompile(`\n\s*\d+\s*/\s*\d+\s*Demande`),
	}
	newlineRun = regexp.MustCompile(`\n+`)
)

// ExtractLotsVolumes reads the "Immeubles" section of a mortgage's raw
// content up to the "Montant" boundary: the primary one-line pattern first,
// then separate commune/designation fallbacks collecting standalone lot
// lines. Financial fields are extracted from the whole segment.
func ExtractLotsVolumes(contenu string) model.LotsVolumes {
	lv := model.LotsVolumes{Lots: []string{}}
	if contenu == "" {
		return lv
	}

	if section := immeublesSection(contenu); section != "" {
		if m := communeDesignationRe.FindStringSubmatch(section); m != nil {
			lv.Commune = strings.TrimSpace(m[1])
			lv.DesignationCadastrale = strings.TrimSpace(m[2])
			lv.Lots = digitTokens(m[3])
		} else {
			if m := tryPatterns(section, communeFallbackRes); m != nil {
				lv.Commune = strings.TrimSpace(m[1])
			}
			if m := tryPatterns(section, designationFallbackRes); m != nil {
				lv.DesignationCadastrale = strings.TrimSpace(m[1])
			}
			if lv.DesignationCadastrale != "" {
				if _, after, found := strings.Cut(section, lv.DesignationCadastrale); found {
					for _, m := range standaloneNumberRe.FindAllStringSubmatch(after, -1) {
						lv.Lots = append(lv.Lots, m[1])
					}
				}
			}
		}

		if m := volumeRe.FindStringSubmatch(section); m != nil {
			lv.Volume = strings.TrimSpace(m[1])
		}
	}

	lv.Lots = dedupeNumeric(lv.Lots)
	if len(lv.Lots) == 0 && immeublesStartRe.MatchString(contenu) {
		zap.L().Debug("mortgage: immeubles section present but no lots extracted",
			zap.String("commune", lv.Commune),
			zap.String("designation", lv.DesignationCadastrale),
		)
	}

	if m := montantPrincipalRe.FindStringSubmatch(contenu); m != nil {
		lv.MontantPrincipal = strings.TrimSpace(m[1])
	}
	if m := accessoiresRe.FindStringSubmatch(contenu); m != nil {
		lv.Accessoires = strings.TrimSpace(m[1])
	}
	if m := tauxInteretRe.FindStringSubmatch(contenu); m != nil {
		lv.TauxInteret = strings.TrimSpace(m[1])
	}
	if m := exigibiliteRe.FindStringSubmatch(contenu); m != nil {
		lv.DateExtremeExigibilite = strings.TrimSpace(m[1])
	}
	if m := extremeEffetRe.FindStringSubmatch(contenu); m != nil {
		lv.DateExtremeEffet = strings.TrimSpace(m[1])
	}
	if block, ok := blockAfter(contenu, complementStartRe, complementStopRes); ok {
		lv.Complement = strings.TrimSpace(newlineRun.ReplaceAllString(block, " "))
	}

	return lv
}

// immeublesSection returns the content from the "Immeubles" heading up to
// the "Montant" label, or "" when the heading is absent.
func immeublesSection(contenu string) string {
	loc := immeublesStartRe.FindStringIndex(contenu)
	if loc == nil {
		return ""
	}
	section := contenu[loc[0]:]
	if sl := montantStopRe.FindStringIndex(section); sl != nil {
		section = section[:sl[0]]
	}
	return section
}
