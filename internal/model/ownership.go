package model

// UnknownOwnerDesignation marks reference lots whose owner could not be
// established from the mutation history.
const UnknownOwnerDesignation = "PROPRIETAIRE INCONNU"

// UnknownRights is the rights marker paired with an unknown owner.
const UnknownRights = "INCONNU"

// Owner identifies a property owner. Identity for grouping purposes is
// Designation plus DateNaissance.
type Owner struct {
	Designation   string `json:"designation"`
	DateNaissance string `json:"date_naissance"`
	Numero        string `json:"numero"`
}

// UnknownOwner returns the sentinel owner for unassigned lots.
func UnknownOwner() Owner {
	return Owner{Designation: UnknownOwnerDesignation}
}

// OwnershipAssignment is working state inside the reconstruction: one lot
// (or the whole-property variant) bound to the owner established by the
// most recent mutation touching it.
type OwnershipAssignment struct {
	Lot                 Lot
	Owner               Owner
	Droits              string
	DateAcquisition     string
	NatureActe          string
	NumeroOrdreMutation int
}

// PropertyRef is the property descriptor attached to ownership output.
type PropertyRef struct {
	Commune               string `json:"commune"`
	DesignationCadastrale string `json:"designation_cadastrale"`
	Code                  string `json:"code"`
}

// OwnershipRecord is one line of the reconstructed current ownership: a
// distinct owner with the union of their lots, the rights of the most
// recent contributing assignment and the latest acquisition date.
type OwnershipRecord struct {
	Immeuble        PropertyRef `json:"immeuble"`
	Proprietaire    Owner       `json:"proprietaire"`
	Lots            []string    `json:"lots"`
	Droits          string      `json:"droits"`
	DateAcquisition string      `json:"date_acquisition"`
}
