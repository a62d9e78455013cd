package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiValue_MarshalShapes(t *testing.T) {
	empty, err := json.Marshal(MultiValue(nil))
	require.NoError(t, err)
	assert.Equal(t, `""`, string(empty))

	single, err := json.Marshal(MultiValue{"9"})
	require.NoError(t, err)
	assert.Equal(t, `"9"`, string(single))

	several, err := json.Marshal(MultiValue{"9", "17"})
	require.NoError(t, err)
	assert.Equal(t, `["9","17"]`, string(several))
}

func TestMultiValue_UnmarshalShapes(t *testing.T) {
	var m MultiValue
	require.NoError(t, json.Unmarshal([]byte(`""`), &m))
	assert.Nil(t, m)

	require.NoError(t, json.Unmarshal([]byte(`"9"`), &m))
	assert.Equal(t, MultiValue{"9"}, m)

	require.NoError(t, json.Unmarshal([]byte(`["9","17"]`), &m))
	assert.Equal(t, MultiValue{"9", "17"}, m)

	assert.Error(t, json.Unmarshal([]byte(`42`), &m))
}

func TestReferenceProperty_JSONFieldNames(t *testing.T) {
	raw, err := json.Marshal(ReferenceProperty{
		Code:    "123",
		Commune: "SAINT MALO",
		Page:    12,
	})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "123", got["code"])
	assert.Equal(t, "SAINT MALO", got["commune"])
	assert.Equal(t, float64(12), got["_page"])
	// Empty multi-value cells surface as empty strings, not null.
	assert.Equal(t, "", got["lot"])
	assert.Equal(t, "", got["volume"])
}
