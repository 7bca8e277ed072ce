// Unit tests for the workbook backend: header management, positional
// keys, and persistence through save/reopen.
package sheetstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pryzera/palletline/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "pallets.xlsx"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.xlsx")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.FileExists(t, path)
}

func TestCollectionWritesHeader(t *testing.T) {
	s := openTestStore(t)
	coll, err := s.Collection(types.SettingsSchema)
	require.NoError(t, err)

	records, err := coll.ListAll()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAppendAndListAll(t *testing.T) {
	s := openTestStore(t)
	coll, err := s.Collection(types.SettingsSchema)
	require.NoError(t, err)

	require.NoError(t, coll.Append(map[string]any{"key": "report_email", "value": "line@example.test"}))
	require.NoError(t, coll.Append(map[string]any{"key": "global_pallet_counter", "value": "7"}))

	records, err := coll.ListAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Keys are 1-based row positions; data starts at row 2.
	assert.Equal(t, types.Key("2"), records[0].Key)
	assert.Equal(t, types.Key("3"), records[1].Key)
	assert.Equal(t, "report_email", types.Stringify(records[0].Fields["key"]))
	assert.Equal(t, "7", types.Stringify(records[1].Fields["value"]))
}

func TestListAllPadsTrailingCells(t *testing.T) {
	s := openTestStore(t)
	coll, err := s.Collection(types.DrumsSchema)
	require.NoError(t, err)

	// Only the leading fields set: trailing columns come back empty, not
	// missing.
	require.NoError(t, coll.Append(map[string]any{
		"timestamp": "2026-05-01 08:00:00", "material_code": "10056885",
	}))

	records, err := coll.ListAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	op, ok := records[0].Fields["operator"]
	require.True(t, ok)
	assert.Equal(t, "", types.Stringify(op))
}

func TestUpdateWritesCells(t *testing.T) {
	s := openTestStore(t)
	coll, err := s.Collection(types.DrumsSchema)
	require.NoError(t, err)

	require.NoError(t, coll.Append(map[string]any{
		"drum_number": "15518289", "status": "ACTIVE",
	}))
	require.NoError(t, coll.Update("2", map[string]any{
		"status": "COMPLETED", "pallet_id": "PAL100",
	}))

	records, err := coll.ListAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "COMPLETED", types.Stringify(records[0].Fields["status"]))
	assert.Equal(t, "PAL100", types.Stringify(records[0].Fields["pallet_id"]))
	assert.Equal(t, "15518289", types.Stringify(records[0].Fields["drum_number"]))
}

func TestUpdateRejectsHeaderRow(t *testing.T) {
	s := openTestStore(t)
	coll, err := s.Collection(types.DrumsSchema)
	require.NoError(t, err)

	assert.ErrorIs(t, coll.Update("1", map[string]any{"status": "X"}), types.ErrNotFound)
	assert.ErrorIs(t, coll.Update("abc", map[string]any{"status": "X"}), types.ErrNotFound)
}

func TestDeleteShiftsRows(t *testing.T) {
	s := openTestStore(t)
	coll, err := s.Collection(types.DrumsSchema)
	require.NoError(t, err)

	require.NoError(t, coll.Append(map[string]any{"drum_number": "1"}))
	require.NoError(t, coll.Append(map[string]any{"drum_number": "2"}))
	require.NoError(t, coll.Append(map[string]any{"drum_number": "3"}))

	// Deleting row 3 shifts the last row up; keys are positional so the
	// caller must re-read after a delete.
	require.NoError(t, coll.Delete("3"))

	records, err := coll.ListAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "1", types.Stringify(records[0].Fields["drum_number"]))
	assert.Equal(t, "3", types.Stringify(records[1].Fields["drum_number"]))
	assert.Equal(t, types.Key("3"), records[1].Key)
}

func TestQueryEquality(t *testing.T) {
	s := openTestStore(t)
	coll, err := s.Collection(types.DrumsSchema)
	require.NoError(t, err)

	require.NoError(t, coll.Append(map[string]any{"drum_number": "1", "status": "ACTIVE"}))
	require.NoError(t, coll.Append(map[string]any{"drum_number": "2", "status": "COMPLETED"}))

	records, err := coll.Query([]types.Predicate{
		{Field: "status", Op: types.OpEq, Value: "ACTIVE"},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "1", types.Stringify(records[0].Fields["drum_number"]))

	_, err = coll.Query([]types.Predicate{{Field: "status", Op: "!=", Value: "A"}})
	assert.ErrorIs(t, err, types.ErrUnsupportedOperator)
}

func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pallets.xlsx")

	s, err := Open(path)
	require.NoError(t, err)
	coll, err := s.Collection(types.PalletsSchema)
	require.NoError(t, err)
	require.NoError(t, coll.Append(map[string]any{
		"pallet_id": "PAL100", "material_code": "10056885", "count": 40,
	}))
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()
	coll2, err := s2.Collection(types.PalletsSchema)
	require.NoError(t, err)

	records, err := coll2.ListAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "PAL100", types.Stringify(records[0].Fields["pallet_id"]))
	assert.Equal(t, 40, types.ToInt(records[0].Fields["count"]))
}

func TestClosedStoreErrors(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "pallets.xlsx"))
	require.NoError(t, err)
	coll, err := s.Collection(types.DrumsSchema)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = coll.ListAll()
	assert.ErrorIs(t, err, types.ErrStoreClosed)
	assert.ErrorIs(t, coll.Append(map[string]any{}), types.ErrStoreClosed)
}
