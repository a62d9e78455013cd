package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// TypeCount is one canonical act-type label with its occurrence count.
type TypeCount struct {
	Label string
	Count int
}

// ActTypeCount maps canonical act-type labels to occurrence counts, ordered
// descending by count with first-seen order as tiebreak. It marshals as a
// JSON object whose keys keep that order.
type ActTypeCount []TypeCount

// Get returns the count for a label.
func (a ActTypeCount) Get(label string) (int, bool) {
	for _, tc := range a {
		if tc.Label == label {
			return tc.Count, true
		}
	}
	return 0, false
}

// MarshalJSON implements json.Marshaler, preserving entry order.
func (a ActTypeCount) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, tc := range a {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(tc.Label)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(tc.Count))
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler, keeping the object's key order.
func (a *ActTypeCount) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil { // opening brace
		return err
	}
	var out ActTypeCount
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		var count int
		if err := dec.Decode(&count); err != nil {
			return err
		}
		out = append(out, TypeCount{Label: keyTok.(string), Count: count})
	}
	*a = out
	return nil
}
