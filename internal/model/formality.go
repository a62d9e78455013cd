package model

// DateNotFound is the sentinel recorded when a date field could not be
// located in a formality segment. The literal matches the language of the
// source documents so consumers can surface it verbatim.
const DateNotFound = "Non trouvé"

// Formality is one registered legal event (deed, mortgage, cancellation)
// in a registry extract, identified by its deposit-date marker. Missing
// fields degrade to sentinels rather than dropping the record; a Formality
// is immutable once produced.
type Formality struct {
	NumeroOrdre           int    `json:"numero_ordre"`
	DateDepot             string `json:"date_depot"`
	DateActe              string `json:"date_acte"`
	Contenu               string `json:"contenu"`
	NatureActeRedacteur   string `json:"nature_acte_redacteur"`
	ReferenceEnliassement string `json:"reference_enliassement"`
}
