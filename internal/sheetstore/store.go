// Package sheetstore implements the tabular record backend over an xlsx
// workbook file. Each collection is one worksheet: row 1 is the header row,
// data rows are positionally keyed from row 2. The workbook is held in
// memory and saved back to disk after every mutation.
package sheetstore

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/pryzera/palletline/pkg/types"
)

// Store implements types.Store over a single workbook file.
type Store struct {
	mu     sync.Mutex
	path   string
	file   *excelize.File
	closed bool
}

// Open loads the workbook at path, creating a new one if the file does not
// exist. The caller must Close the store to release the file handle.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		f := excelize.NewFile()
		if err := f.SaveAs(path); err != nil {
			return nil, fmt.Errorf("create workbook: %w", err)
		}
		return &Store{path: path, file: f}, nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return &Store{path: path, file: f}, nil
}

// Collection ensures the worksheet for schema exists and carries a header
// row. An empty sheet gets the schema header written; a present but
// different header is preserved as-is (no destructive migration).
func (s *Store) Collection(schema types.Schema) (types.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, types.ErrStoreClosed
	}

	idx, err := s.file.GetSheetIndex(schema.Name)
	if err != nil {
		return nil, fmt.Errorf("lookup sheet %s: %w", schema.Name, err)
	}
	if idx < 0 {
		if _, err := s.file.NewSheet(schema.Name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", schema.Name, err)
		}
	}

	rows, err := s.file.GetRows(schema.Name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", schema.Name, err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		header := make([]any, len(schema.Headers))
		for i, h := range schema.Headers {
			header[i] = h
		}
		if err := s.file.SetSheetRow(schema.Name, "A1", &header); err != nil {
			return nil, fmt.Errorf("write header %s: %w", schema.Name, err)
		}
	}

	if err := s.save(); err != nil {
		return nil, err
	}
	return &worksheet{store: s, name: schema.Name}, nil
}

// Close saves and releases the workbook. Idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.file.Close()
}

// save writes the workbook back to disk. The caller must hold s.mu.
func (s *Store) save() error {
	if err := s.file.SaveAs(s.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// worksheet implements types.Collection over one sheet of the workbook.
type worksheet struct {
	store *Store
	name  string
}

// header returns the first row of the sheet. The caller must hold the
// store mutex.
func (w *worksheet) header() ([]string, error) {
	rows, err := w.store.file.GetRows(w.name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", w.name, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (w *worksheet) ListAll() ([]types.Record, error) {
	w.store.mu.Lock()
	defer w.store.mu.Unlock()

	if w.store.closed {
		return nil, types.ErrStoreClosed
	}

	rows, err := w.store.file.GetRows(w.name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", w.name, err)
	}
	if len(rows) < 2 {
		return []types.Record{}, nil
	}

	header := rows[0]
	records := make([]types.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		fields := make(map[string]any, len(header))
		for c, h := range header {
			if c < len(row) {
				fields[h] = row[c]
			} else {
				// GetRows trims trailing empty cells.
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

func (w *worksheet) Append(fields map[string]any) error {
	w.store.mu.Lock()
	defer w.store.mu.Unlock()

	if w.store.closed {
		return types.ErrStoreClosed
	}

	header, err := w.header()
	if err != nil {
		return err
	}
	rows, err := w.store.file.GetRows(w.name)
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", w.name, err)
	}

	values := make([]any, len(header))
	for c, h := range header {
		values[c] = types.Stringify(fields[h])
	}
	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return fmt.Errorf("row coordinates: %w", err)
	}
	if err := w.store.file.SetSheetRow(w.name, cell, &values); err != nil {
		return fmt.Errorf("append row %s: %w", w.name, err)
	}
	return w.store.save()
}

func (w *worksheet) Update(key types.Key, updates map[string]any) error {
	w.store.mu.Lock()
	defer w.store.mu.Unlock()

	if w.store.closed {
		return types.ErrStoreClosed
	}

	row, err := rowIndex(key)
	if err != nil {
		return err
	}
	header, err := w.header()
	if err != nil {
		return err
	}

	cols := make(map[string]int, len(header))
	for c, h := range header {
		cols[h] = c + 1
	}

	// One cell write per updated field, matching the remote-proxy wire
	// contract cell for cell.
	for field, val := range updates {
		col, ok := cols[field]
		if !ok {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return fmt.Errorf("cell coordinates: %w", err)
		}
		if err := w.store.file.SetCellValue(w.name, cell, types.Stringify(val)); err != nil {
			return fmt.Errorf("update cell %s!%s: %w", w.name, cell, err)
		}
	}
	return w.store.save()
}

func (w *worksheet) Delete(key types.Key) error {
	w.store.mu.Lock()
	defer w.store.mu.Unlock()

	if w.store.closed {
		return types.ErrStoreClosed
	}

	row, err := rowIndex(key)
	if err != nil {
		return err
	}
	if err := w.store.file.RemoveRow(w.name, row); err != nil {
		return fmt.Errorf("delete row %s!%d: %w", w.name, row, err)
	}
	return w.store.save()
}

func (w *worksheet) Query(preds []types.Predicate) ([]types.Record, error) {
	records, err := w.ListAll()
	if err != nil {
		return nil, err
	}
	return filterRecords(records, preds)
}

// rowIndex parses a tabular key into its 1-based sheet row. Data rows
// start at 2; row 1 is the header and may not be addressed.
func rowIndex(key types.Key) (int, error) {
	row, err := strconv.Atoi(string(key))
	if err != nil || row < 2 {
		return 0, fmt.Errorf("%w: bad row key %q", types.ErrNotFound, key)
	}
	return row, nil
}

// filterRecords applies equality predicates client-side; the whole sheet
// is already in memory after one read.
func filterRecords(records []types.Record, preds []types.Predicate) ([]types.Record, error) {
	for _, p := range preds {
		if p.Op != types.OpEq {
			return nil, fmt.Errorf("%w: %q", types.ErrUnsupportedOperator, p.Op)
		}
	}
	out := make([]types.Record, 0, len(records))
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
