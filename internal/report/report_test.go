// Unit tests for period filtering and the export formats.
package report

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pryzera/palletline/pkg/types"
)

var testNow = time.Date(2026, 5, 15, 12, 0, 0, 0, time.UTC)

func testPallets() []types.Pallet {
	return []types.Pallet{
		{PalletID: "PAL1", MaterialCode: "A", CreatedAt: "2026-05-15 08:00:00", Count: 40},
		{PalletID: "PAL2", MaterialCode: "B", CreatedAt: "2026-05-01 08:00:00", Count: 24},
		{PalletID: "PAL3", MaterialCode: "A", CreatedAt: "2026-01-02 08:00:00", Count: 40},
		{PalletID: "PAL4", MaterialCode: "A", CreatedAt: "2025-12-31 08:00:00", Count: 40},
	}
}

func TestFilterRanges(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all", Filter{Range: RangeAll}, []string{"PAL1", "PAL2", "PAL3", "PAL4"}},
		{"empty range means all", Filter{}, []string{"PAL1", "PAL2", "PAL3", "PAL4"}},
		{"today", Filter{Range: RangeToday}, []string{"PAL1"}},
		{"month", Filter{Range: RangeMonth}, []string{"PAL1", "PAL2"}},
		{"year", Filter{Range: RangeYear}, []string{"PAL1", "PAL2", "PAL3"}},
		{"interval", Filter{Range: RangeInterval, From: "2026-01-01", To: "2026-05-01"}, []string{"PAL2", "PAL3"}},
		{"material", Filter{Range: RangeAll, MaterialCode: "A"}, []string{"PAL1", "PAL3", "PAL4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.filter.Pallets(testPallets(), testNow)
			require.NoError(t, err)
			ids := make([]string, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.PalletID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestFilterValidation(t *testing.T) {
	_, err := Filter{Range: RangeInterval}.Pallets(testPallets(), testNow)
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = Filter{Range: "fortnight"}.Pallets(testPallets(), testNow)
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestFilterDrums(t *testing.T) {
	drums := []types.Drum{
		{DrumNumber: "1", MaterialCode: "A", Timestamp: "2026-05-15 08:00:00"},
		{DrumNumber: "2", MaterialCode: "B", Timestamp: "2026-05-14 08:00:00"},
	}

	got, err := Filter{Range: RangeToday}.Drums(drums, testNow)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].DrumNumber)
}

func TestBuildZip(t *testing.T) {
	pallets := testPallets()[:1]
	drums := []types.Drum{
		{Timestamp: "2026-05-15 08:00:00", MaterialCode: "A", DrumNumber: "15518289",
			StandardQty: "1500", PalletID: "PAL1", Status: types.StatusCompleted},
	}

	content, err := BuildZip(pallets, drums)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)

	rows := readCSVEntry(t, zr, "pallets.csv")
	require.Len(t, rows, 2)
	assert.Equal(t, types.PalletsSchema.Headers, rows[0])
	assert.Equal(t, "PAL1", rows[1][0])
	assert.Equal(t, "40", rows[1][4])

	rows = readCSVEntry(t, zr, "drums.csv")
	require.Len(t, rows, 2)
	assert.Equal(t, types.DrumsSchema.Headers, rows[0])
	assert.Equal(t, "15518289", rows[1][2])
}

func readCSVEntry(t *testing.T, zr *zip.Reader, name string) [][]string {
	t.Helper()
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
		require.NoError(t, err)
		return rows
	}
	t.Fatalf("entry %s not in archive", name)
	return nil
}

func TestBuildWorkbook(t *testing.T) {
	pallets := testPallets()[:2]
	drums := []types.Drum{
		{Timestamp: "2026-05-15 08:00:00", MaterialCode: "A", DrumNumber: "15518289"},
	}

	content, err := BuildWorkbook(pallets, drums)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Pallets")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "pallet_id", rows[0][0])
	assert.Equal(t, "PAL1", rows[1][0])
	assert.Equal(t, "PAL2", rows[2][0])

	rows, err = f.GetRows("Drums")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "15518289", rows[1][2])

	// The excelize default sheet is dropped.
	assert.Equal(t, -1, mustSheetIndex(f, "Sheet1"))
}

func mustSheetIndex(f *excelize.File, name string) int {
	idx, _ := f.GetSheetIndex(name)
	return idx
}
