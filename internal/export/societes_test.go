package export

import (
	"bytes"
	"testing"

	"go-societe-admin/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSocietesWorkbook(t *testing.T) {
	ville := "Sfax"
	rows := []SocieteRow{
		{
			Societe: model.Societe{
				Nom:      "Acme",
				Email:    "contact@acme.tn",
				Ville:    &ville,
				Pays:     model.DefaultPays,
				IsActive: true,
				Admin:    &model.User{Name: "Sami", Email: "sami@acme.tn"},
			},
			Commerciaux: 3,
		},
		{Societe: model.Societe{Nom: "Beta", Email: "beta@beta.tn", Pays: "France"}},
	}

	data, err := Societes(rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(societeSheet)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, societeHeader, got[0])
	assert.Equal(t, "Acme", got[1][0])
	assert.Equal(t, "Sfax", got[1][5])
	assert.Equal(t, "Oui", got[1][8])
	assert.Equal(t, "Sami", got[1][9])
	assert.Equal(t, "3", got[1][11])
	assert.Equal(t, "Non", got[2][8])
	assert.Equal(t, "", got[2][9])
}

func TestSocietesEmpty(t *testing.T) {
	data, err := Societes(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{societeSheet}, f.GetSheetList())
}
