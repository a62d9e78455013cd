package model

// WholePropertyLabel is how the whole-property variant is rendered in
// output documents.
const WholePropertyLabel = "Immeuble entier"

// Lot identifies a cadastral lot during ownership reconstruction. It is a
// closed variant: either a numbered lot or the whole-property marker used
// when a property carries no lot subdivision. Lot is comparable and safe
// to use as a map key.
type Lot struct {
	num   string
	whole bool
}

// NumberedLot wraps a lot number token.
func NumberedLot(num string) Lot { return Lot{num: num} }

// WholeProperty returns the whole-property variant.
func WholeProperty() Lot { return Lot{whole: true} }

// IsWhole reports whether the lot is the whole-property variant.
func (l Lot) IsWhole() bool { return l.whole }

// Number returns the lot number, or "" for the whole-property variant.
func (l Lot) Number() string { return l.num }

// Label renders the lot for output documents.
func (l Lot) Label() string {
	if l.whole {
		return WholePropertyLabel
	}
	return l.num
}
