package registry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadImportRows(t *testing.T) {
	csv := `code,name,type,parentcode,description,balance
1000,Assets,Assets,,Top level,
1100,Current Assets,Assets,1000,,250.00
`
	rows, err := ReadImportRows(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, ImportRow{Code: "1000", Name: "Assets", Type: "Assets", Description: "Top level"}, rows[0])
	assert.Equal(t, ImportRow{Code: "1100", Name: "Current Assets", Type: "Assets", ParentCode: "1000", Balance: "250.00"}, rows[1])
}

func TestReadImportRows_ColumnOrderIrrelevant(t *testing.T) {
	csv := `Name,Balance,CODE,type
Cash,9.99,1110,asset
`
	rows, err := ReadImportRows(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1110", rows[0].Code)
	assert.Equal(t, "Cash", rows[0].Name)
	assert.Equal(t, "asset", rows[0].Type)
	assert.Equal(t, "9.99", rows[0].Balance)
}

func TestReadImportRows_MissingColumns(t *testing.T) {
	csv := `code,description
1000,No name or type
`
	_, err := ReadImportRows(strings.NewReader(csv))
	require.ErrorIs(t, err, ErrMissingColumns)
	assert.Contains(t, err.Error(), "name")
	assert.Contains(t, err.Error(), "type")
}

func TestReadImportRows_Empty(t *testing.T) {
	_, err := ReadImportRows(strings.NewReader(""))
	require.ErrorIs(t, err, ErrMissingColumns)
}
