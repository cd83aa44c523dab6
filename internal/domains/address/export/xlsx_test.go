package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"address-console/internal/domains/address/model"
)

func TestWriteXLSX(t *testing.T) {
	records := []model.AddressRecord{
		{
			ID:          "a1",
			Name:        "221B Baker Street",
			Tags:        []string{"fiction", "era:victorian"},
			Description: "Consulting detective",
			Address:     model.PostalAddress{Line1: "221B Baker St", City: "London", PostalCode: "NW1 6XE", Country: "UK"},
			CreatedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC).UnixMilli(),
		},
		{ID: "a2", Name: "Green Gables", Tags: []string{}, Address: model.PostalAddress{Line1: "Lane", City: "Avonlea", Country: "CA"}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, records))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "Updated At", rows[0][12])
	assert.Equal(t, []string{"a1", "221B Baker Street", "", "221B Baker St", "", "London", "", "NW1 6XE", "UK",
		"fiction, era:victorian", "Consulting detective", "2026-01-02T03:04:05Z"}, rows[1])
	assert.Equal(t, "Green Gables", rows[2][1])
}

func TestWriteXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestFileName(t *testing.T) {
	at := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "addresses-ja-20261017-093000.xlsx", FileName("ja", at))
}
