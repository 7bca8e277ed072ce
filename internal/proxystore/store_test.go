// Unit tests for the remote proxy backend against a fake script
// endpoint.
package proxystore

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pryzera/palletline/pkg/types"
)

// fakeEndpoint emulates the remote script: named sheets of string grids
// driven by the action verbs.
type fakeEndpoint struct {
	mu     sync.Mutex
	sheets map[string][][]string
	apiKey string
	calls  []string
}

func newFakeEndpoint(apiKey string) *fakeEndpoint {
	return &fakeEndpoint{sheets: map[string][][]string{}, apiKey: apiKey}
}

func (f *fakeEndpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var req map[string]any
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	action := types.Stringify(req["action"])
	sheet := types.Stringify(req["sheet"])
	f.calls = append(f.calls, action)

	if f.apiKey != "" && types.Stringify(req["apiKey"]) != f.apiKey {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	resp := map[string]any{"ok": true}
	switch action {
	case "ensure":
		if _, exists := f.sheets[sheet]; !exists {
			var header []string
			if hs, ok := req["headers"].([]any); ok {
				for _, h := range hs {
					header = append(header, types.Stringify(h))
				}
			}
			f.sheets[sheet] = [][]string{header}
		}
	case "get":
		resp["values"] = f.sheets[sheet]
	case "row":
		row := types.ToInt(req["row"])
		grid := f.sheets[sheet]
		if row >= 1 && row <= len(grid) {
			resp["values"] = grid[row-1]
		}
	case "append":
		var cells []string
		if vs, ok := req["values"].([]any); ok {
			for _, v := range vs {
				cells = append(cells, types.Stringify(v))
			}
		}
		f.sheets[sheet] = append(f.sheets[sheet], cells)
	case "update":
		row, col := types.ToInt(req["row"]), types.ToInt(req["col"])
		grid := f.sheets[sheet]
		if row >= 1 && row <= len(grid) && col >= 1 {
			for len(grid[row-1]) < col {
				grid[row-1] = append(grid[row-1], "")
			}
			grid[row-1][col-1] = types.Stringify(req["value"])
		}
	case "delete":
		row := types.ToInt(req["row"])
		grid := f.sheets[sheet]
		if row >= 1 && row <= len(grid) {
			f.sheets[sheet] = append(grid[:row-1], grid[row:]...)
		}
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}
	json.NewEncoder(w).Encode(resp)
}

func newTestStore(t *testing.T, apiKey string) (*Store, *fakeEndpoint) {
	t.Helper()
	fake := newFakeEndpoint(apiKey)
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return New(srv.URL, "sheet-1", apiKey), fake
}

func TestCollectionEnsuresSheet(t *testing.T) {
	store, fake := newTestStore(t, "")
	coll, err := store.Collection(types.DrumsSchema)
	require.NoError(t, err)

	assert.Contains(t, fake.calls, "ensure")

	records, err := coll.ListAll()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAppendAndListAll(t *testing.T) {
	store, _ := newTestStore(t, "")
	coll, err := store.Collection(types.SettingsSchema)
	require.NoError(t, err)

	require.NoError(t, coll.Append(map[string]any{"key": "report_email", "value": "line@example.test"}))

	records, err := coll.ListAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, types.Key("2"), records[0].Key)
	assert.Equal(t, "report_email", types.Stringify(records[0].Fields["key"]))
	assert.Equal(t, "line@example.test", types.Stringify(records[0].Fields["value"]))
}

func TestUpdateSendsOneCallPerField(t *testing.T) {
	store, fake := newTestStore(t, "")
	coll, err := store.Collection(types.DrumsSchema)
	require.NoError(t, err)

	require.NoError(t, coll.Append(map[string]any{"drum_number": "15518289", "status": "ACTIVE"}))

	before := len(fake.calls)
	require.NoError(t, coll.Update("2", map[string]any{
		"status": "COMPLETED", "pallet_id": "PAL100",
	}))

	updates := 0
	for _, call := range fake.calls[before:] {
		if call == "update" {
			updates++
		}
	}
	assert.Equal(t, 2, updates)

	records, err := coll.ListAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "COMPLETED", types.Stringify(records[0].Fields["status"]))
	assert.Equal(t, "PAL100", types.Stringify(records[0].Fields["pallet_id"]))
}

func TestUpdateRejectsHeaderRow(t *testing.T) {
	store, _ := newTestStore(t, "")
	coll, err := store.Collection(types.DrumsSchema)
	require.NoError(t, err)

	assert.ErrorIs(t, coll.Update("1", map[string]any{"status": "X"}), types.ErrNotFound)
	assert.ErrorIs(t, coll.Delete("0"), types.ErrNotFound)
}

func TestDelete(t *testing.T) {
	store, _ := newTestStore(t, "")
	coll, err := store.Collection(types.DrumsSchema)
	require.NoError(t, err)

	require.NoError(t, coll.Append(map[string]any{"drum_number": "1"}))
	require.NoError(t, coll.Append(map[string]any{"drum_number": "2"}))
	require.NoError(t, coll.Delete("2"))

	records, err := coll.ListAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2", types.Stringify(records[0].Fields["drum_number"]))
}

func TestQueryEquality(t *testing.T) {
	store, _ := newTestStore(t, "")
	coll, err := store.Collection(types.DrumsSchema)
	require.NoError(t, err)

	require.NoError(t, coll.Append(map[string]any{"drum_number": "1", "status": "ACTIVE"}))
	require.NoError(t, coll.Append(map[string]any{"drum_number": "2", "status": "COMPLETED"}))

	records, err := coll.Query([]types.Predicate{
		{Field: "status", Op: types.OpEq, Value: "ACTIVE"},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "1", types.Stringify(records[0].Fields["drum_number"]))
}

func TestAuthFailureReportsBackendUnavailable(t *testing.T) {
	fake := newFakeEndpoint("secret")
	srv := httptest.NewServer(fake)
	defer srv.Close()

	store := New(srv.URL, "sheet-1", "wrong")
	_, err := store.Collection(types.DrumsSchema)
	assert.ErrorIs(t, err, types.ErrBackendUnavailable)
}

func TestUnreachableEndpointReportsBackendUnavailable(t *testing.T) {
	store := New("http://127.0.0.1:1/exec", "", "")
	_, err := store.Collection(types.DrumsSchema)
	assert.ErrorIs(t, err, types.ErrBackendUnavailable)
}
