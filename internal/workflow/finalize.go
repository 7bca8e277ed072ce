package workflow

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/pryzera/palletline/internal/ledger"
	"github.com/pryzera/palletline/pkg/types"
)

// ErrFinalizeUnavailable is returned when a finalization request does
// not meet its trigger condition (full pallet below capacity, incomplete
// pallet empty or not allowed for the material).
var ErrFinalizeUnavailable = errors.New("finalize unavailable")

// Confirmation is an approved finalization request, held between the
// two-phase request and confirm steps. Nothing has been written yet.
type Confirmation struct {
	Material     types.Material
	CompleteType string
	Count        int
}

// Finalizer closes pallets. Confirm serializes in-process so two
// operators on the same instance cannot interleave counter reads; the
// document backend additionally makes the counter increment atomic
// across processes.
type Finalizer struct {
	mu   sync.Mutex
	repo *ledger.Repository
	now  func() time.Time
}

// NewFinalizer builds a finalizer over the repository.
func NewFinalizer(repo *ledger.Repository) *Finalizer {
	return &Finalizer{repo: repo, now: time.Now}
}

// Request checks whether the material's open pallet has reached capacity
// and returns a confirmation for a full close. Materials with no
// configured capacity never trigger a full close.
func (f *Finalizer) Request(material types.Material) (*Confirmation, error) {
	count, err := f.activeCount(material.Code)
	if err != nil {
		return nil, err
	}
	if material.MaxQty <= 0 || count < material.MaxQty {
		return nil, fmt.Errorf("%w: %s has %d of %d drums",
			ErrFinalizeUnavailable, material.Code, count, material.MaxQty)
	}
	return &Confirmation{Material: material, CompleteType: types.CompleteFull, Count: count}, nil
}

// RequestIncomplete returns a confirmation for closing a partial pallet.
// Only materials flagged for incomplete closes qualify, and there must
// be at least one drum but fewer than capacity.
func (f *Finalizer) RequestIncomplete(material types.Material) (*Confirmation, error) {
	if !material.AllowIncomplete {
		return nil, fmt.Errorf("%w: %s does not allow incomplete pallets",
			ErrFinalizeUnavailable, material.Code)
	}
	count, err := f.activeCount(material.Code)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: no active drums for %s", ErrFinalizeUnavailable, material.Code)
	}
	if material.MaxQty > 0 && count >= material.MaxQty {
		return nil, fmt.Errorf("%w: %s pallet is full, close it as complete",
			ErrFinalizeUnavailable, material.Code)
	}
	return &Confirmation{Material: material, CompleteType: types.CompleteIncomplete, Count: count}, nil
}

func (f *Finalizer) activeCount(materialCode string) (int, error) {
	drums, err := f.repo.ActiveDrums(materialCode)
	if err != nil {
		return 0, err
	}
	return len(drums), nil
}

// Confirm executes the close: assign the next pallet id, stamp every
// active drum, write the pallet record with its notification text, and
// advance the counter. The drum updates are not transactional; a failure
// mid-stamp leaves drums already moved to the new pallet, the returned
// error says how far it got, and re-running closes the remainder under a
// fresh id.
func (f *Finalizer) Confirm(c *Confirmation) (types.Pallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	counter, atomic, err := f.nextCounter()
	if err != nil {
		return types.Pallet{}, err
	}
	palletID := c.Material.Prefix + strconv.Itoa(counter)

	drums, err := f.repo.CompleteDrums(c.Material.Code, palletID)
	if err != nil {
		return types.Pallet{}, err
	}
	if len(drums) == 0 {
		return types.Pallet{}, fmt.Errorf("%w: no active drums for %s",
			ErrFinalizeUnavailable, c.Material.Code)
	}

	createdAt := f.now().UTC().Format(types.TimestampLayout)
	date := createdAt[:len(types.DateLayout)]
	pallet := types.Pallet{
		PalletID:     palletID,
		MaterialCode: c.Material.Code,
		Description:  c.Material.Description,
		CreatedAt:    createdAt,
		Count:        len(drums),
		CompleteType: c.CompleteType,
		EmailSubject: EmailSubject(date, c.Material.Code, palletID),
		EmailBody:    EmailBody(c.Material, palletID, drums),
	}
	if err := f.repo.AddPallet(pallet); err != nil {
		return types.Pallet{}, fmt.Errorf("pallet %s: drums stamped but pallet record failed: %w",
			palletID, err)
	}

	if !atomic {
		if err := f.repo.SetSetting(ledger.CounterSetting, strconv.Itoa(counter+1)); err != nil {
			return pallet, fmt.Errorf("pallet %s closed but counter not advanced: %w", palletID, err)
		}
	}
	f.repo.InvalidateCache()
	return pallet, nil
}

// nextCounter reserves the counter value for this close. Stores with an
// atomic counter reserve-and-advance in one step; others read the
// current value here and advance it after the pallet is written.
func (f *Finalizer) nextCounter() (counter int, atomic bool, err error) {
	if cs, ok := f.repo.Store().(types.CounterStore); ok {
		next, err := cs.IncrementCounter(types.SettingsSchema, ledger.CounterSetting)
		if err != nil {
			return 0, false, err
		}
		return int(next) - 1, true, nil
	}
	counter, err = f.repo.PalletCounter()
	return counter, false, err
}
