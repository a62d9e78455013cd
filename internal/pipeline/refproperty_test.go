package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/ehf-cli/internal/model"
)

func TestExtractReferenceRows_MapsColumnsPositionally(t *testing.T) {
	rows := [][]string{
		{"Demande de renseignements", ""},
		{"Code", "Commune", "Désignation cadastrale", "Volume", "Lot"},
		{"123", "SAINT MALO", "AB 123", "2", "9\n17"},
	}

	props := ExtractReferenceRows(rows, 12)

	require.Len(t, props, 1)
	p := props[0]
	assert.Equal(t, "123", p.Code)
	assert.Equal(t, "SAINT MALO", p.Commune)
	assert.Equal(t, "AB 123", p.DesignationCadastrale)
	assert.Equal(t, model.MultiValue{"2"}, p.Volume)
	assert.Equal(t, model.MultiValue{"9", "17"}, p.Lot)
	assert.Equal(t, 12, p.Page)
}

func TestExtractReferenceRows_HeaderMatchIgnoresAccents(t *testing.T) {
	rows := [][]string{
		{"CODE", "COMMUNE", "DÉSIGNATION CADASTRALE"},
		{"77", "RENNES", "ZA 8"},
	}

	props := ExtractReferenceRows(rows, 3)

	require.Len(t, props, 1)
	assert.Equal(t, "77", props[0].Code)
}

func TestExtractReferenceRows_ExpandsVolumeRange(t *testing.T) {
	rows := [][]string{
		{"Code", "Commune", "Désignation", "Volume", "Lot"},
		{"1", "RENNES", "ZA 8", "2 à 5", ""},
	}

	props := ExtractReferenceRows(rows, 1)

	require.Len(t, props, 1)
	assert.Equal(t, model.MultiValue{"2", "3", "4", "5"}, props[0].Volume)
	assert.Nil(t, props[0].Lot)
}

func TestExtractReferenceRows_UnparseableRangeStaysVerbatim(t *testing.T) {
	rows := [][]string{
		{"Code", "Commune", "Désignation", "Volume", "Lot"},
		{"1", "RENNES", "ZA 8", "9 à 4", ""},
	}

	props := ExtractReferenceRows(rows, 1)

	require.Len(t, props, 1)
	assert.Equal(t, model.MultiValue{"9 à 4"}, props[0].Volume)
}

func TestExtractReferenceRows_DropsRowsWithoutCodeAndCommune(t *testing.T) {
	rows := [][]string{
		{"Code", "Commune", "Désignation", "Volume", "Lot"},
		{"", "", "ZA 8", "", ""},
		{"", "", "", "", ""},
		{"2", "DINARD", "AC 44", "", "3"},
	}

	props := ExtractReferenceRows(rows, 7)

	require.Len(t, props, 1)
	assert.Equal(t, "DINARD", props[0].Commune)
	assert.Equal(t, model.MultiValue{"3"}, props[0].Lot)
}

func TestExtractReferenceRows_NoHeader(t *testing.T) {
	rows := [][]string{
		{"page de garde"},
		{"1", "RENNES", "ZA 8"},
	}

	assert.Nil(t, ExtractReferenceRows(rows, 1))
	assert.Nil(t, ExtractReferenceRows(nil, 1))
}

func TestExtractReferenceRows_ShortRows(t *testing.T) {
	rows := [][]string{
		{"Code", "Commune"},
		{"5", "CANCALE"},
	}

	props := ExtractReferenceRows(rows, 2)

	require.Len(t, props, 1)
	assert.Equal(t, "5", props[0].Code)
	assert.Equal(t, "CANCALE", props[0].Commune)
	assert.Empty(t, props[0].DesignationCadastrale)
	assert.Nil(t, props[0].Volume)
}
