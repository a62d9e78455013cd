package model

// MortgageStatusActive is the only status a materialized mortgage record
// carries: cancelled mortgages are excluded, never emitted in an inactive
// state.
const MortgageStatusActive = "ACTIVE"

// LotsVolumes holds the property and financial detail extracted from a
// mortgage formality's "Immeubles" section.
type LotsVolumes struct {
	Lots                   []string `json:"lots"`
	Volume                 string   `json:"volume"`
	Commune                string   `json:"commune"`
	DesignationCadastrale  string   `json:"designation_cadastrale"`
	MontantPrincipal       string   `json:"montant_principal"`
	Accessoires            string   `json:"accessoires"`
	TauxInteret            string   `json:"taux_interet"`
	DateExtremeExigibilite string   `json:"date_extreme_exigibilite"`
	DateExtremeEffet       string   `json:"date_extreme_effet"`
	Complement             string   `json:"complement"`
}

// MortgageRecord is a formality classified as a mortgage that survived
// cancellation matching.
type MortgageRecord struct {
	NumeroOrdre           int         `json:"numero_ordre"`
	DateDepot             string      `json:"date_depot"`
	DateActe              string      `json:"date_acte"`
	NatureActe            string      `json:"nature_acte"`
	ReferenceEnliassement string      `json:"reference_enliassement"`
	Contenu               string      `json:"contenu"`
	LotsVolumes           LotsVolumes `json:"lots_volumes"`
	Statut                string      `json:"statut"`
}
