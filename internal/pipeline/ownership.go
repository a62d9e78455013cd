package pipeline

import (
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/ehf-cli/internal/model"
)

// ReconstructOwnership replays the mutation history in reverse
// chronological order against the reference property's lots and returns
// one record per distinct current owner. Each lot is owned by the first
// mutation processed that touches it (most recent wins); iteration stops
// as soon as every reference lot is covered.
func ReconstructOwnership(mutations []model.MutationRecord, refs []model.ReferenceProperty) []model.OwnershipRecord {
	if len(mutations) == 0 || len(refs) == 0 {
		return nil
	}
	ref := refs[0]

	refLots := referenceLots(ref, mutations)
	zap.L().Debug("ownership: reference lots resolved",
		zap.String("commune", ref.Commune),
		zap.String("designation", ref.DesignationCadastrale),
		zap.Int("lots", len(refLots)),
	)

	assignments := assignLots(sortMutationsMostRecentFirst(mutations), ref, refLots)
	return buildOwnershipRecords(ref, refLots, assignments)
}

// referenceLots determines which lots reconstruction targets. The
// reference property's own lots come first; an empty set is backfilled
// from mutations matching commune and cadastral designation, then commune
// only. An empty result means whole-property mode.
func referenceLots(ref model.ReferenceProperty, mutations []model.MutationRecord) []model.Lot {
	var lots []model.Lot
	seen := make(map[model.Lot]bool)
	add := func(num string) {
		num = strings.TrimSpace(num)
		if num == "" {
			return
		}
		lot := model.NumberedLot(num)
		if !seen[lot] {
			seen[lot] = true
			lots = append(lots, lot)
		}
	}

	for _, num := range ref.Lot {
		add(num)
	}
	if len(lots) > 0 {
		return lots
	}

	// Two backfill passes: commune plus exact designation first, commune
	// only second.
	passes := []func(table *model.PropertyTable) bool{
		func(t *model.PropertyTable) bool {
			return communeMatches(ref.Commune, t.Commune) && t.DesignationCadastrale == ref.DesignationCadastrale
		},
		func(t *model.PropertyTable) bool {
			return communeMatches(ref.Commune, t.Commune)
		},
	}
	for _, match := range passes {
		for _, mut := range mutations {
			if mut.Mutations.Immeubles == nil || !match(mut.Mutations.Immeubles) {
				continue
			}
			for _, num := range mut.Mutations.Immeubles.Lots {
				add(num)
			}
		}
		if len(lots) > 0 {
			return lots
		}
	}

	return nil
}

// communeMatches reports whether a mutation's commune names the reference
// commune: case-insensitive substring containment.
func communeMatches(refCommune, mutCommune string) bool {
	return strings.Contains(strings.ToUpper(refCommune), strings.ToUpper(mutCommune))
}

// dateSortKey converts DD/MM/YYYY into a comparable ISO key. Unparseable
// dates yield "", which sorts last in descending order.
func dateSortKey(date string) string {
	t, err := time.Parse("02/01/2006", strings.TrimSpace(date))
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func sortMutationsMostRecentFirst(mutations []model.MutationRecord) []model.MutationRecord {
	sorted := make([]model.MutationRecord, len(mutations))
	copy(sorted, mutations)
	sort.SliceStable(sorted, func(i, j int) bool {
		return dateSortKey(sorted[i].DateDepot) > dateSortKey(sorted[j].DateDepot)
	})
	return sorted
}

// assignLots folds the sorted mutations into per-lot assignments,
// first-writer-wins, with an early exit once every reference lot (or the
// whole property, when there are none) is assigned.
func assignLots(sorted []model.MutationRecord, ref model.ReferenceProperty, refLots []model.Lot) []model.OwnershipAssignment {
	assigned := make(map[model.Lot]bool)
	var out []model.OwnershipAssignment

	record := func(lot model.Lot, owner model.Owner, droits string, mut model.MutationRecord) {
		if assigned[lot] {
			return
		}
		assigned[lot] = true
		out = append(out, model.OwnershipAssignment{
			Lot:                 lot,
			Owner:               owner,
			Droits:              droits,
			DateAcquisition:     mut.DateDepot,
			NatureActe:          mut.NatureActe,
			NumeroOrdreMutation: mut.NumeroOrdre,
		})
	}

	for _, mut := range sorted {
		if !concernsReference(mut, ref) {
			continue
		}

		lotsConcerned := concernedLots(refLots, mut)
		if len(lotsConcerned) == 0 {
			continue
		}

		detail := mut.Mutations
		table := detail.Immeubles

		switch {
		case len(detail.BeneficiaireDonataire) > 0 && table != nil && len(table.LignesDetaillees) > 0:
			for _, line := range table.LignesDetaillees {
				lineLots := lotsConcernedByLine(lotsConcerned, line)
				if len(lineLots) == 0 {
					continue
				}
				owner, ok := resolveParty(line.BeneficiaireNumero, detail)
				if !ok {
					continue
				}
				for _, lot := range lineLots {
					record(lot, owner, line.Droits, mut)
				}
			}

		case len(detail.BeneficiaireDonataire) > 0:
			// No detailed lines: the first beneficiary takes every
			// concerned lot with the table's top-level rights.
			b := detail.BeneficiaireDonataire[0]
			owner := model.Owner{Numero: b.Numero, Designation: b.Designation, DateNaissance: b.DateNaissance}
			var droits string
			if table != nil {
				droits = table.Droits
			}
			for _, lot := range lotsConcerned {
				record(lot, owner, droits, mut)
			}
		}

		if reconstructionComplete(refLots, assigned) {
			break
		}
	}

	return out
}

// concernsReference reports whether a mutation touches the reference
// property. A mutation without a property descriptor is implicitly about
// the reference.
func concernsReference(mut model.MutationRecord, ref model.ReferenceProperty) bool {
	table := mut.Mutations.Immeubles
	if table == nil || table.Commune == "" || table.DesignationCadastrale == "" {
		return true
	}
	return communeMatches(ref.Commune, table.Commune) && table.DesignationCadastrale == ref.DesignationCadastrale
}

// concernedLots intersects the reference lots with the mutation's lot
// union, in reference order. When both sides are empty the mutation covers
// the whole property.
func concernedLots(refLots []model.Lot, mut model.MutationRecord) []model.Lot {
	mutLots := make(map[model.Lot]bool)
	if mut.Mutations.Immeubles != nil {
		for _, num := range mut.Mutations.Immeubles.Lots {
			mutLots[model.NumberedLot(num)] = true
		}
	}

	if len(refLots) == 0 && len(mutLots) == 0 {
		return []model.Lot{model.WholeProperty()}
	}

	var out []model.Lot
	for _, lot := range refLots {
		if mutLots[lot] {
			out = append(out, lot)
		}
	}
	return out
}

// lotsConcernedByLine narrows the concerned lots to one detail line. A
// whole-property concern passes through unchanged.
func lotsConcernedByLine(lotsConcerned []model.Lot, line model.PropertyLine) []model.Lot {
	if len(lotsConcerned) == 1 && lotsConcerned[0].IsWhole() {
		return lotsConcerned
	}
	lineLots := make(map[model.Lot]bool, len(line.Lots))
	for _, num := range line.Lots {
		lineLots[model.NumberedLot(num)] = true
	}
	var out []model.Lot
	for _, lot := range lotsConcerned {
		if lineLots[lot] {
			out = append(out, lot)
		}
	}
	return out
}

// resolveParty finds the party a detail line's beneficiary number refers
// to, checking beneficiaries first, then disponents.
func resolveParty(numero string, detail model.MutationDetail) (model.Owner, bool) {
	for _, p := range detail.BeneficiaireDonataire {
		if p.Numero == numero {
			return model.Owner{Numero: p.Numero, Designation: p.Designation, DateNaissance: p.DateNaissance}, true
		}
	}
	for _, p := range detail.DisposantDonateur {
		if p.Numero == numero {
			return model.Owner{Numero: p.Numero, Designation: p.Designation, DateNaissance: p.DateNaissance}, true
		}
	}
	return model.Owner{}, false
}

// reconstructionComplete is the early-exit predicate: every reference lot
// assigned, or the whole property assigned when the reference had no lots.
func reconstructionComplete(refLots []model.Lot, assigned map[model.Lot]bool) bool {
	if len(refLots) == 0 {
		return assigned[model.WholeProperty()]
	}
	for _, lot := range refLots {
		if !assigned[lot] {
			return false
		}
	}
	return true
}

// buildOwnershipRecords groups assignments by owner identity. Each group
// gets the union of its lots, the rights of its most recent assignment and
// its latest acquisition date. Reference lots never assigned surface as a
// single unknown-owner record.
func buildOwnershipRecords(ref model.ReferenceProperty, refLots []model.Lot, assignments []model.OwnershipAssignment) []model.OwnershipRecord {
	property := model.PropertyRef{
		Commune:               ref.Commune,
		DesignationCadastrale: ref.DesignationCadastrale,
		Code:                  ref.Code,
	}

	type group struct {
		owner    model.Owner
		lots     []model.Lot
		droits   string
		bestKey  string
		bestDate string
	}
	var groups []*group
	index := make(map[string]*group)

	for _, a := range assignments {
		key := a.Owner.Designation + "\x00" + a.Owner.DateNaissance
		g, ok := index[key]
		if !ok {
			g = &group{owner: a.Owner, droits: a.Droits, bestKey: dateSortKey(a.DateAcquisition), bestDate: a.DateAcquisition}
			index[key] = g
			groups = append(groups, g)
		}
		g.lots = append(g.lots, a.Lot)
		if k := dateSortKey(a.DateAcquisition); k > g.bestKey {
			g.bestKey = k
			g.bestDate = a.DateAcquisition
			g.droits = a.Droits
		}
	}

	records := make([]model.OwnershipRecord, 0, len(groups)+1)
	for _, g := range groups {
		records = append(records, model.OwnershipRecord{
			Immeuble:        property,
			Proprietaire:    g.owner,
			Lots:            renderLots(g.lots),
			Droits:          g.droits,
			DateAcquisition: g.bestDate,
		})
	}

	assigned := make(map[model.Lot]bool, len(assignments))
	for _, a := range assignments {
		assigned[a.Lot] = true
	}
	var missing []string
	for _, lot := range refLots {
		if !assigned[lot] {
			missing = append(missing, lot.Number())
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		records = append(records, model.OwnershipRecord{
			Immeuble:     property,
			Proprietaire: model.UnknownOwner(),
			Lots:         missing,
			Droits:       model.UnknownRights,
		})
	}

	return records
}

// renderLots renders a group's lots for output: the whole-property variant
// collapses to its label, numbered lots sort ascending.
func renderLots(lots []model.Lot) []string {
	var nums []string
	for _, lot := range lots {
		if lot.IsWhole() {
			return []string{model.WholePropertyLabel}
		}
		nums = append(nums, lot.Number())
	}
	sort.Strings(nums)
	return nums
}
