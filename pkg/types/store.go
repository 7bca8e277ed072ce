package types

// Key identifies a single row within a collection for update and delete.
// Tabular backends use the decimal 1-based sheet row index (the header row
// is row 1, data rows start at 2). Document backends use the document id.
type Key string

// Record is one row of a collection together with its backend key.
// Field values are backend-typed: tabular backends yield strings, document
// backends yield whatever JSON type was stored. The ledger decodes them.
type Record struct {
	Key    Key
	Fields map[string]any
}

// Predicate is one field comparison for Collection.Query.
// All backends support the equality operator "=="; no other operator is
// currently accepted.
type Predicate struct {
	Field string
	Op    string
	Value any
}

// OpEq is the equality operator for Query predicates.
const OpEq = "=="

// Collection provides the five uniform record operations over one named
// collection. All implementations behave identically from the caller's
// point of view; only Key semantics differ per backend family.
type Collection interface {
	// ListAll returns every record in storage order.
	ListAll() ([]Record, error)

	// Append adds a new record. Document backends derive the document id
	// from the schema key field, generating one when it is absent.
	Append(fields map[string]any) error

	// Update merges the given fields into the record with the given key.
	// Returns ErrNotFound if no such record exists.
	Update(key Key, updates map[string]any) error

	// Delete removes the record with the given key.
	Delete(key Key) error

	// Query returns records matching every predicate. Equality only.
	Query(preds []Predicate) ([]Record, error)
}

// Store is the capability interface over a record backend. Callers obtain
// collections once and hold only interface types afterwards; the single
// permitted concrete-type check is the CounterStore assertion used to pick
// the pallet-counter strategy.
type Store interface {
	// Collection returns the collection described by schema, creating it
	// on first use. A tabular sheet gets the schema header row written if
	// the sheet is empty; an existing different header is left untouched.
	Collection(schema Schema) (Collection, error)

	// Close releases backend resources. Idempotent.
	Close() error
}

// CounterStore is an optional Store capability: an atomic increment of a
// numeric setting value, serialized by the backend. Backends without native
// atomicity simply do not implement it and callers fall back to the
// read-increment-write sequence.
type CounterStore interface {
	IncrementCounter(schema Schema, key string) (int64, error)
}

// Schema declares a collection's name, tabular header order, and the field
// whose value serves as the document id in document backends.
type Schema struct {
	Name    string
	Headers []string
	Key     string
}

// Collection names.
const (
	MaterialsCollection = "materials"
	SettingsCollection  = "settings"
	DrumsCollection     = "drums"
	PalletsCollection   = "pallets"
)

// Schemas for the four ledger collections. Header order is the persisted
// column order for tabular backends and must not be reordered.
var (
	MaterialsSchema = Schema{
		Name: MaterialsCollection,
		Headers: []string{
			"material_code", "description", "max_qty",
			"prefix", "allow_incomplete", "active",
		},
		Key: "material_code",
	}

	SettingsSchema = Schema{
		Name:    SettingsCollection,
		Headers: []string{"key", "value"},
		Key:     "key",
	}

	DrumsSchema = Schema{
		Name: DrumsCollection,
		Headers: []string{
			"timestamp", "material_code", "drum_number", "drum_type",
			"standard_qty", "pallet_id", "status", "device_id", "operator",
		},
		Key: "drum_number",
	}

	PalletsSchema = Schema{
		Name: PalletsCollection,
		Headers: []string{
			"pallet_id", "material_code", "description", "created_at",
			"count", "complete_type", "email_subject", "email_body",
		},
		Key: "pallet_id",
	}
)

// AllSchemas lists every ledger collection schema in creation order.
var AllSchemas = []Schema{MaterialsSchema, SettingsSchema, DrumsSchema, PalletsSchema}
