package model

// Party is one row of a disponent or beneficiary table. Numero is a local
// identifier, unique only within one formality's tables. DateNaissance
// carries either a DD/MM/YYYY birthdate or a grouped-digit registration
// identifier, exactly as printed.
type Party struct {
	Numero        string `json:"numero"`
	Designation   string `json:"designation"`
	DateNaissance string `json:"date_naissance"`
}

// PropertyLine is one row of a mutation's property table. BeneficiaireNumero
// references a Party.Numero within the same mutation.
type PropertyLine struct {
	BeneficiaireNumero    string   `json:"beneficiaire_numero"`
	Droits                string   `json:"droits"`
	Commune               string   `json:"commune"`
	DesignationCadastrale string   `json:"designation_cadastrale"`
	Volume                string   `json:"volume"`
	Lots                  []string `json:"lots"`
}

// PropertyTable is a mutation's full "Immeubles" block: the first matched
// row's fields at the top level, the deduplicated union of lots across all
// rows (used for lot matching), and the complete per-row detail.
type PropertyTable struct {
	BeneficiaireNumero    string         `json:"beneficiaire_numero"`
	Droits                string         `json:"droits"`
	Commune               string         `json:"commune"`
	DesignationCadastrale string         `json:"designation_cadastrale"`
	Volume                string         `json:"volume"`
	Lots                  []string       `json:"lots"`
	LignesDetaillees      []PropertyLine `json:"lignes_detaillees"`
}

// MutationDetail holds the party and property tables extracted from a
// mutation formality. Immeubles is nil when no property table matched.
type MutationDetail struct {
	DisposantDonateur     []Party        `json:"disposant_donateur"`
	BeneficiaireDonataire []Party        `json:"beneficiaire_donataire"`
	Immeubles             *PropertyTable `json:"immeubles"`
	Montant               string         `json:"montant"`
}

// MutationRecord is a formality recording a transfer of property rights.
type MutationRecord struct {
	NumeroOrdre           int            `json:"numero_ordre"`
	DateDepot             string         `json:"date_depot"`
	DateActe              string         `json:"date_acte"`
	NatureActe            string         `json:"nature_acte"`
	ReferenceEnliassement string         `json:"reference_enliassement"`
	Mutations             MutationDetail `json:"mutations"`
}
