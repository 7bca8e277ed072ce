// Package ledger implements the typed repository over the four record
// collections (materials, settings, drums, pallets). The repository is the
// sole owner and mutator of these collections; every value crossing the
// boundary is coerced through one decoding layer, and every mutation
// invalidates the aggregate count cache.
package ledger

import (
	"fmt"
	"time"

	"github.com/pryzera/palletline/pkg/types"
)

// Repository provides typed accessors over a record store.
type Repository struct {
	store     types.Store
	materials types.Collection
	settings  types.Collection
	drums     types.Collection
	pallets   types.Collection
	cache     *countCache
}

// CounterSetting is the settings key holding the global pallet counter,
// the sole source of pallet-id uniqueness.
const CounterSetting = "global_pallet_counter"

// ReportEmailSetting is the optional report destination address.
const ReportEmailSetting = "report_email"

// New opens the four ledger collections on the given store, creating them
// on first use.
func New(store types.Store) (*Repository, error) {
	r := &Repository{store: store, cache: newCountCache(DefaultCacheTTL)}

	var err error
	if r.materials, err = store.Collection(types.MaterialsSchema); err != nil {
		return nil, fmt.Errorf("open materials: %w", err)
	}
	if r.settings, err = store.Collection(types.SettingsSchema); err != nil {
		return nil, fmt.Errorf("open settings: %w", err)
	}
	if r.drums, err = store.Collection(types.DrumsSchema); err != nil {
		return nil, fmt.Errorf("open drums: %w", err)
	}
	if r.pallets, err = store.Collection(types.PalletsSchema); err != nil {
		return nil, fmt.Errorf("open pallets: %w", err)
	}
	return r, nil
}

// Store exposes the underlying record store for capability checks (the
// pallet-counter strategy) only. Callers must not mutate collections
// through it.
func (r *Repository) Store() types.Store { return r.store }

// SetCacheTTL overrides the aggregate cache TTL. Intended for tests and
// deployments with unusual staleness tolerances.
func (r *Repository) SetCacheTTL(ttl time.Duration) {
	r.cache = newCountCache(ttl)
}

// Materials returns all materials, active or not, with boolean fields
// decoded from whatever truthy encoding the backend holds.
func (r *Repository) Materials() ([]types.Material, error) {
	records, err := r.materials.ListAll()
	if err != nil {
		return nil, err
	}
	out := make([]types.Material, 0, len(records))
	for _, rec := range records {
		out = append(out, decodeMaterial(rec))
	}
	return out, nil
}

// FindMaterial returns the material with the given code.
func (r *Repository) FindMaterial(code string) (types.Material, error) {
	records, err := r.materials.Query([]types.Predicate{
		{Field: "material_code", Op: types.OpEq, Value: code},
	})
	if err != nil {
		return types.Material{}, err
	}
	if len(records) == 0 {
		return types.Material{}, fmt.Errorf("%w: material %s", types.ErrNotFound, code)
	}
	return decodeMaterial(records[0]), nil
}

// SaveMaterial creates or updates a material keyed by its code. Materials
// are never deleted; deactivate instead.
func (r *Repository) SaveMaterial(m types.Material) error {
	if m.Code == "" {
		return fmt.Errorf("%w: material_code is required", types.ErrValidation)
	}
	existing, err := r.materials.Query([]types.Predicate{
		{Field: "material_code", Op: types.OpEq, Value: m.Code},
	})
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		return r.materials.Append(encodeMaterial(m))
	}
	return r.materials.Update(existing[0].Key, encodeMaterial(m))
}

// ActiveDrums returns the drums currently accumulating on the material's
// open pallet.
func (r *Repository) ActiveDrums(materialCode string) ([]types.Drum, error) {
	records, err := r.activeDrumRecords(materialCode)
	if err != nil {
		return nil, err
	}
	out := make([]types.Drum, 0, len(records))
	for _, rec := range records {
		out = append(out, decodeDrum(rec))
	}
	return out, nil
}

func (r *Repository) activeDrumRecords(materialCode string) ([]types.Record, error) {
	return r.drums.Query([]types.Predicate{
		{Field: "material_code", Op: types.OpEq, Value: materialCode},
		{Field: "status", Op: types.OpEq, Value: types.StatusActive},
	})
}

// FindDrum searches the entire drum collection, any status, for the given
// number. This lookup is what enforces global drum-number uniqueness.
// Returns ErrNotFound when the number has never been recorded.
func (r *Repository) FindDrum(drumNumber string) (types.Drum, error) {
	records, err := r.drums.Query([]types.Predicate{
		{Field: "drum_number", Op: types.OpEq, Value: drumNumber},
	})
	if err != nil {
		return types.Drum{}, err
	}
	if len(records) == 0 {
		return types.Drum{}, fmt.Errorf("%w: drum %s", types.ErrNotFound, drumNumber)
	}
	return decodeDrum(records[0]), nil
}

// PalletCreationDate returns the created_at of the given pallet. Used only
// to enrich the historical-duplicate message, so absence is not an error
// worth propagating: the caller substitutes a placeholder.
func (r *Repository) PalletCreationDate(palletID string) (string, error) {
	if palletID == "" {
		return "", fmt.Errorf("%w: empty pallet id", types.ErrNotFound)
	}
	records, err := r.pallets.Query([]types.Predicate{
		{Field: "pallet_id", Op: types.OpEq, Value: palletID},
	})
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", fmt.Errorf("%w: pallet %s", types.ErrNotFound, palletID)
	}
	return decodePallet(records[0]).CreatedAt, nil
}

// AddDrum persists a newly scanned drum and invalidates the count cache.
func (r *Repository) AddDrum(d types.Drum) error {
	if d.DrumNumber == "" {
		return fmt.Errorf("%w: drum_number is required", types.ErrValidation)
	}
	if err := r.drums.Append(encodeDrum(d)); err != nil {
		return err
	}
	r.cache.invalidate()
	return nil
}

// DeleteLatestActive removes the most recently added active drum for the
// material and returns it. Ordering is by timestamp with storage position
// breaking ties, which makes the tabular and document backends agree.
func (r *Repository) DeleteLatestActive(materialCode string) (types.Drum, error) {
	records, err := r.activeDrumRecords(materialCode)
	if err != nil {
		return types.Drum{}, err
	}
	if len(records) == 0 {
		return types.Drum{}, fmt.Errorf("%w: no active drums for %s", types.ErrNotFound, materialCode)
	}

	latest := records[0]
	for _, rec := range records[1:] {
		if types.Stringify(rec.Fields["timestamp"]) >= types.Stringify(latest.Fields["timestamp"]) {
			latest = rec
		}
	}
	if err := r.drums.Delete(latest.Key); err != nil {
		return types.Drum{}, err
	}
	r.cache.invalidate()
	return decodeDrum(latest), nil
}

// CompleteDrums re-reads the material's active drums and stamps each one
// with the pallet id and completed status, one update per drum. A failure
// mid-loop returns the drums already completed alongside the error; no
// rollback is attempted.
func (r *Repository) CompleteDrums(materialCode, palletID string) ([]types.Drum, error) {
	records, err := r.activeDrumRecords(materialCode)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"pallet_id": palletID,
		"status":    types.StatusCompleted,
	}

	completed := make([]types.Drum, 0, len(records))
	for _, rec := range records {
		if err := r.drums.Update(rec.Key, updates); err != nil {
			r.cache.invalidate()
			return completed, fmt.Errorf("completed %d of %d drums for pallet %s: %w",
				len(completed), len(records), palletID, err)
		}
		d := decodeDrum(rec)
		d.PalletID = palletID
		d.Status = types.StatusCompleted
		completed = append(completed, d)
	}

	r.cache.invalidate()
	return completed, nil
}

// AddPallet persists a finalized pallet record. Pallets are immutable
// once written.
func (r *Repository) AddPallet(p types.Pallet) error {
	if p.PalletID == "" {
		return fmt.Errorf("%w: pallet_id is required", types.ErrValidation)
	}
	return r.pallets.Append(encodePallet(p))
}

// Drums returns the full scan history.
func (r *Repository) Drums() ([]types.Drum, error) {
	records, err := r.drums.ListAll()
	if err != nil {
		return nil, err
	}
	out := make([]types.Drum, 0, len(records))
	for _, rec := range records {
		out = append(out, decodeDrum(rec))
	}
	return out, nil
}

// Pallets returns every finalized pallet.
func (r *Repository) Pallets() ([]types.Pallet, error) {
	records, err := r.pallets.ListAll()
	if err != nil {
		return nil, err
	}
	out := make([]types.Pallet, 0, len(records))
	for _, rec := range records {
		out = append(out, decodePallet(rec))
	}
	return out, nil
}

// Settings returns the key/value settings mapping.
func (r *Repository) Settings() (map[string]string, error) {
	records, err := r.settings.ListAll()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(records))
	for _, rec := range records {
		out[types.Stringify(rec.Fields["key"])] = types.Stringify(rec.Fields["value"])
	}
	return out, nil
}

// SetSetting writes one settings key, creating the row on first use.
func (r *Repository) SetSetting(key, value string) error {
	if key == "" {
		return fmt.Errorf("%w: setting key is required", types.ErrValidation)
	}
	existing, err := r.settings.Query([]types.Predicate{
		{Field: "key", Op: types.OpEq, Value: key},
	})
	if err != nil {
		return err
	}
	fields := map[string]any{"key": key, "value": value}
	if len(existing) == 0 {
		return r.settings.Append(fields)
	}
	return r.settings.Update(existing[0].Key, map[string]any{"value": value})
}

// PalletCounter reads the global pallet counter, defaulting to zero when
// the setting has never been written.
func (r *Repository) PalletCounter() (int, error) {
	settings, err := r.Settings()
	if err != nil {
		return 0, err
	}
	return types.ToInt(settings[CounterSetting]), nil
}

// ActiveCounts returns the per-material active drum counts, served from
// the aggregate cache when fresh. One status query repopulates the cache.
func (r *Repository) ActiveCounts() (map[string]int, error) {
	if counts := r.cache.get(); counts != nil {
		return counts, nil
	}

	records, err := r.drums.Query([]types.Predicate{
		{Field: "status", Op: types.OpEq, Value: types.StatusActive},
	})
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	for _, rec := range records {
		code := types.Stringify(rec.Fields["material_code"])
		if code != "" {
			counts[code]++
		}
	}
	r.cache.set(counts)

	out := make(map[string]int, len(counts))
	for k, v := range counts {
		out[k] = v
	}
	return out, nil
}

// InvalidateCache drops the aggregate cache. Finalization calls this
// after its pallet write so the board reflects the closed pallet at once.
func (r *Repository) InvalidateCache() {
	r.cache.invalidate()
}
