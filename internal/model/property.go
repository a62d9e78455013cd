package model

import "encoding/json"

// MultiValue is a table cell that may carry zero, one, or several values.
// It marshals as "" for empty, a bare string for a single value, and an
// array otherwise, matching the mixed-type cells of the source documents.
type MultiValue []string

// MarshalJSON implements json.Marshaler.
func (m MultiValue) MarshalJSON() ([]byte, error) {
	switch len(m) {
	case 0:
		return json.Marshal("")
	case 1:
		return json.Marshal(m[0])
	default:
		return json.Marshal([]string(m))
	}
}

// UnmarshalJSON implements json.Unmarshaler, accepting either form.
func (m *MultiValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*m = nil
		} else {
			*m = MultiValue{s}
		}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*m = list
	return nil
}

// ReferenceProperty is one row of the final page's property table. The
// first qualifying row serves as the ownership-reconstruction target.
type ReferenceProperty struct {
	Code                  string     `json:"code"`
	Commune               string     `json:"commune"`
	DesignationCadastrale string     `json:"designation_cadastrale"`
	Volume                MultiValue `json:"volume"`
	Lot                   MultiValue `json:"lot"`
	Page                  int        `json:"_page"`
}
