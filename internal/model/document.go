package model

// Statistics summarizes one extraction run.
type Statistics struct {
	NombreTotalFormalites    int          `json:"nombre_total_formalites"`
	NombreHypothequesActives int          `json:"nombre_hypotheques_actives"`
	NombreMutations          int          `json:"nombre_mutations"`
	ComptageParType          ActTypeCount `json:"comptage_par_type"`
	DateExtraction           string       `json:"date_extraction"`
	FichierSource            string       `json:"fichier_source"`
	ProprieteReconstituee    bool         `json:"propriete_reconstituee"`
}

// FormalitiesDocument is the primary JSON output: every formality in
// source order, the surviving mortgages, the mutation records, run
// statistics and the reconstructed current ownership.
type FormalitiesDocument struct {
	Formalites         []Formality       `json:"formalites"`
	HypothequesActives []MortgageRecord  `json:"hypotheques_actives"`
	Mutations          []MutationRecord  `json:"mutations"`
	Statistiques       Statistics        `json:"statistiques"`
	ProprieteActuelle  []OwnershipRecord `json:"propriete_actuelle"`
}
