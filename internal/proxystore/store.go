// Package proxystore implements the record backend that proxies every
// operation through a single remote script endpoint. Each of the five
// collection operations maps to one JSON action verb POSTed to the
// endpoint: get, row, append, update, delete, plus ensure at collection
// setup. The remote store is tabular, so keys are 1-based row positions
// exactly as in the local sheet backend.
package proxystore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pryzera/palletline/pkg/types"
)

// callTimeout bounds every proxy round trip. This is the only adapter
// with an explicit timeout; the others rely on their client libraries.
const callTimeout = 20 * time.Second

// Store implements types.Store against a remote script endpoint.
type Store struct {
	url     string
	sheetID string
	apiKey  string
	client  *http.Client
}

// New returns a Store talking to the script endpoint at url. sheetID and
// apiKey are passed through on every call and may be empty if the remote
// end does not require them.
func New(url, sheetID, apiKey string) *Store {
	return &Store{
		url:     url,
		sheetID: sheetID,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: callTimeout},
	}
}

// Collection asks the remote end to ensure the sheet and header row exist.
func (s *Store) Collection(schema types.Schema) (types.Collection, error) {
	sheet := &remoteSheet{store: s, name: schema.Name}
	if _, err := sheet.call("ensure", map[string]any{"headers": schema.Headers}); err != nil {
		return nil, err
	}
	return sheet, nil
}

// Close is a no-op; the proxy holds no local resources.
func (s *Store) Close() error { return nil }

// remoteSheet implements types.Collection for one named remote sheet.
type remoteSheet struct {
	store *Store
	name  string
}

// call POSTs one action to the endpoint and decodes the JSON response.
// Any transport failure, non-2xx status, or malformed body reports
// ErrBackendUnavailable.
func (r *remoteSheet) call(action string, extra map[string]any) (map[string]any, error) {
	payload := map[string]any{
		"action":  action,
		"sheet":   r.name,
		"sheetId": r.store.sheetID,
	}
	if r.store.apiKey != "" {
		payload["apiKey"] = r.store.apiKey
	}
	for k, v := range extra {
		payload[k] = v
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", action, err)
	}

	resp, err := r.store.client.Post(r.store.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrBackendUnavailable, action, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s response: %v", types.ErrBackendUnavailable, action, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned status %d", types.ErrBackendUnavailable, action, resp.StatusCode)
	}

	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: invalid %s response", types.ErrBackendUnavailable, action)
	}
	return out, nil
}

// values extracts the "values" grid from a get/row response.
func responseValues(resp map[string]any) [][]any {
	raw, ok := resp["values"].([]any)
	if !ok {
		return nil
	}
	grid := make([][]any, 0, len(raw))
	for _, row := range raw {
		cells, ok := row.([]any)
		if !ok {
			continue
		}
		grid = append(grid, cells)
	}
	return grid
}

func (r *remoteSheet) ListAll() ([]types.Record, error) {
	resp, err := r.call("get", nil)
	if err != nil {
		return nil, err
	}

	grid := responseValues(resp)
	if len(grid) < 2 {
		return []types.Record{}, nil
	}

	header := make([]string, len(grid[0]))
	for i, cell := range grid[0] {
		header[i] = types.Stringify(cell)
	}

	records := make([]types.Record, 0, len(grid)-1)
	for i, row := range grid[1:] {
		fields := make(map[string]any, len(header))
		for c, h := range header {
			if c < len(row) {
				fields[h] = row[c]
			} else {
				fields[h] = ""
			}
		}
		records = append(records, types.Record{
			Key:    types.Key(strconv.Itoa(i + 2)),
			Fields: fields,
		})
	}
	return records, nil
}

// headerRow fetches row 1 for column mapping.
func (r *remoteSheet) headerRow() ([]string, error) {
	resp, err := r.call("row", map[string]any{"row": 1})
	if err != nil {
		return nil, err
	}
	raw, ok := resp["values"].([]any)
	if !ok {
		return nil, nil
	}
	header := make([]string, len(raw))
	for i, cell := range raw {
		header[i] = types.Stringify(cell)
	}
	return header, nil
}

func (r *remoteSheet) Append(fields map[string]any) error {
	header, err := r.headerRow()
	if err != nil {
		return err
	}
	values := make([]any, len(header))
	for c, h := range header {
		values[c] = types.Stringify(fields[h])
	}
	_, err = r.call("append", map[string]any{"values": values})
	return err
}

func (r *remoteSheet) Update(key types.Key, updates map[string]any) error {
	row, err := strconv.Atoi(string(key))
	if err != nil || row < 2 {
		return fmt.Errorf("%w: bad row key %q", types.ErrNotFound, key)
	}

	header, err := r.headerRow()
	if err != nil {
		return err
	}
	cols := make(map[string]int, len(header))
	for c, h := range header {
		cols[h] = c + 1
	}

	for field, val := range updates {
		col, ok := cols[field]
		if !ok {
			continue
		}
		_, err := r.call("update", map[string]any{
			"row":   row,
			"col":   col,
			"value": types.Stringify(val),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *remoteSheet) Delete(key types.Key) error {
	row, err := strconv.Atoi(string(key))
	if err != nil || row < 2 {
		return fmt.Errorf("%w: bad row key %q", types.ErrNotFound, key)
	}
	_, err = r.call("delete", map[string]any{"row": row})
	return err
}

func (r *remoteSheet) Query(preds []types.Predicate) ([]types.Record, error) {
	for _, p := range preds {
		if p.Op != types.OpEq {
			return nil, fmt.Errorf("%w: %q", types.ErrUnsupportedOperator, p.Op)
		}
	}

	records, err := r.ListAll()
	if err != nil {
		return nil, err
	}

	out := []types.Record{}
	for _, rec := range records {
		match := true
		for _, p := range preds {
			if types.Stringify(rec.Fields[p.Field]) != types.Stringify(p.Value) {
				match = false
				break
			}
		}
		if match {
			out = append(out, rec)
		}
	}
	return out, nil
}
