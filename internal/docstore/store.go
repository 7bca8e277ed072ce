// Package docstore implements the document-oriented record backend over
// SQLite. Each collection is one table of (doc_id, body) pairs where body
// is the JSON-encoded field map and doc_id is the domain key declared by
// the collection schema. Insertion order is preserved via rowid.
package docstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/pryzera/palletline/pkg/types"
)

// dbFileName is the SQLite file created inside the data directory.
const dbFileName = "ledger.db"

// Store implements types.Store and types.CounterStore over one SQLite
// database file.
type Store struct {
	mu     sync.Mutex
	db     *sql.DB
	closed bool
}

// Open creates the data directory if needed and opens the database.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, dbFileName))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &Store{db: db}, nil
}

// Collection creates the backing table on first use and returns the
// document collection for schema.
func (s *Store) Collection(schema types.Schema) (types.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, types.ErrStoreClosed
	}

	ddl := fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %q (doc_id TEXT PRIMARY KEY, body TEXT NOT NULL)`,
		schema.Name)
	if _, err := s.db.Exec(ddl); err != nil {
		return nil, fmt.Errorf("ensure collection %s: %w", schema.Name, err)
	}
	return &collection{store: s, schema: schema}, nil
}

// Close releases the database handle. Idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// IncrementCounter atomically increments the numeric value of a setting
// document, creating it at 1 when absent, and returns the new value. The
// single-statement upsert is serialized by SQLite itself, which is what
// makes this safe across processes sharing the database file.
func (s *Store) IncrementCounter(schema types.Schema, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, types.ErrStoreClosed
	}

	body := fmt.Sprintf(`{%q: %q, "value": "1"}`, schema.Key, key)
	stmt := fmt.Sprintf(`
		INSERT INTO %q (doc_id, body) VALUES (?, ?)
		ON CONFLICT(doc_id) DO UPDATE SET
			body = json_set(body, '$.value',
				CAST(CAST(json_extract(body, '$.value') AS INTEGER) + 1 AS TEXT))
		RETURNING CAST(json_extract(body, '$.value') AS INTEGER)`,
		schema.Name)

	var n int64
	if err := s.db.QueryRow(stmt, key, body).Scan(&n); err != nil {
		return 0, fmt.Errorf("increment %s.%s: %w", schema.Name, key, err)
	}
	return n, nil
}

// newDocID generates a UUID v7 document id, falling back to v4.
func newDocID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// collection implements types.Collection for one document table.
type collection struct {
	store  *Store
	schema types.Schema
}

func (c *collection) ListAll() ([]types.Record, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	if c.store.closed {
		return nil, types.ErrStoreClosed
	}

	query := fmt.Sprintf(`SELECT doc_id, body FROM %q ORDER BY rowid`, c.schema.Name)
	rows, err := c.store.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.schema.Name, err)
	}
	defer rows.Close()

	records := []types.Record{}
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("scan %s: %w", c.schema.Name, err)
		}
		fields := map[string]any{}
		if err := json.Unmarshal([]byte(body), &fields); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", c.schema.Name, id, err)
		}
		records = append(records, types.Record{Key: types.Key(id), Fields: fields})
	}
	return records, rows.Err()
}

func (c *collection) Append(fields map[string]any) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	if c.store.closed {
		return types.ErrStoreClosed
	}

	id := types.Stringify(fields[c.schema.Key])
	if id == "" {
		id = newDocID()
	}

	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.schema.Name, err)
	}

	stmt := fmt.Sprintf(`
		INSERT INTO %q (doc_id, body) VALUES (?, ?)
		ON CONFLICT(doc_id) DO UPDATE SET body = excluded.body`,
		c.schema.Name)
	if _, err := c.store.db.Exec(stmt, id, string(body)); err != nil {
		return fmt.Errorf("append %s/%s: %w", c.schema.Name, id, err)
	}
	return nil
}

func (c *collection) Update(key types.Key, updates map[string]any) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	if c.store.closed {
		return types.ErrStoreClosed
	}

	query := fmt.Sprintf(`SELECT body FROM %q WHERE doc_id = ?`, c.schema.Name)
	var body string
	err := c.store.db.QueryRow(query, string(key)).Scan(&body)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %s/%s", types.ErrNotFound, c.schema.Name, key)
	}
	if err != nil {
		return fmt.Errorf("read %s/%s: %w", c.schema.Name, key, err)
	}

	fields := map[string]any{}
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return fmt.Errorf("decode %s/%s: %w", c.schema.Name, key, err)
	}
	// Merge semantics: untouched fields survive a partial update.
	for k, v := range updates {
		fields[k] = v
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", c.schema.Name, key, err)
	}
	stmt := fmt.Sprintf(`UPDATE %q SET body = ? WHERE doc_id = ?`, c.schema.Name)
	if _, err := c.store.db.Exec(stmt, string(merged), string(key)); err != nil {
		return fmt.Errorf("update %s/%s: %w", c.schema.Name, key, err)
	}
	return nil
}

func (c *collection) Delete(key types.Key) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	if c.store.closed {
		return types.ErrStoreClosed
	}

	stmt := fmt.Sprintf(`DELETE FROM %q WHERE doc_id = ?`, c.schema.Name)
	res, err := c.store.db.Exec(stmt, string(key))
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", c.schema.Name, key, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s/%s", types.ErrNotFound, c.schema.Name, key)
	}
	return nil
}

func (c *collection) Query(preds []types.Predicate) ([]types.Record, error) {
	for _, p := range preds {
		if p.Op != types.OpEq {
			return nil, fmt.Errorf("%w: %q", types.ErrUnsupportedOperator, p.Op)
		}
	}

	records, err := c.ListAll()
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
