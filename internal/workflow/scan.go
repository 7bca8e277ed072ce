// Package workflow implements the scan confirmation cycle and the pallet
// finalization protocol on top of the ledger repository. The ordering of
// the rejection checks in Commit is load bearing: each check assumes the
// earlier ones passed, and operators are trained on the resulting
// message order.
package workflow

import (
	"errors"
	"fmt"
	"time"

	"github.com/pryzera/palletline/internal/ledger"
	"github.com/pryzera/palletline/pkg/types"
)

// Hints are advisory field values recovered from a label photo. They
// fill empty confirmation fields only; anything the operator typed wins.
type Hints struct {
	MaterialCode string
	StandardQty  string
}

// CommitInput is the operator's confirmation of a pending scan.
type CommitInput struct {
	MaterialCode string
	StandardQty  string
	Hints        Hints
}

// Workflow validates and persists scans against one repository.
type Workflow struct {
	repo *ledger.Repository
	now  func() time.Time
}

// New builds a workflow over the repository.
func New(repo *ledger.Repository) *Workflow {
	return &Workflow{repo: repo, now: time.Now}
}

// Commit validates the session's pending scan against the input and, if
// every check passes, records it as an active drum. Checks run in a
// fixed order and the first failure wins:
//
//  1. the scan parsed to a drum number
//  2. a material code is present (typed or hinted)
//  3. the material matches the session's open pallet
//  4. the number is not already on the open pallet
//  5. the number was never recorded historically
//
// A parse failure clears the pending scan since rescanning is the only
// remedy. The other rejections keep it pending so the operator can fix
// the fields and confirm again.
func (w *Workflow) Commit(sess *Session, input CommitInput) (types.Drum, error) {
	pending := sess.Pending()
	if pending == nil || pending.DrumNumber == "" {
		sess.Reset()
		return types.Drum{}, fmt.Errorf("%w: no drum number in scan", types.ErrParse)
	}

	material := input.MaterialCode
	if material == "" {
		material = input.Hints.MaterialCode
	}
	qty := input.StandardQty
	if qty == "" {
		qty = input.Hints.StandardQty
	}

	if material == "" {
		return types.Drum{}, types.ErrMissingMaterial
	}
	if material != sess.Material.Code {
		return types.Drum{}, &types.MaterialMismatchError{
			Open:      sess.Material.Code,
			Submitted: material,
		}
	}

	active, err := w.repo.ActiveDrums(sess.Material.Code)
	if err != nil {
		return types.Drum{}, err
	}
	for _, d := range active {
		if d.DrumNumber == pending.DrumNumber {
			return types.Drum{}, fmt.Errorf("%w: drum %s", types.ErrDuplicateInSession, pending.DrumNumber)
		}
	}

	if prior, err := w.repo.FindDrum(pending.DrumNumber); err == nil {
		return types.Drum{}, w.historicalDuplicate(pending.DrumNumber, prior)
	} else if !errors.Is(err, types.ErrNotFound) {
		return types.Drum{}, err
	}

	drum := types.Drum{
		Timestamp:    w.now().UTC().Format(types.TimestampLayout),
		MaterialCode: sess.Material.Code,
		DrumNumber:   pending.DrumNumber,
		DrumType:     pending.DrumType,
		StandardQty:  qty,
		Status:       types.StatusActive,
		DeviceID:     sess.DeviceID,
		Operator:     sess.Operator,
	}
	if err := w.repo.AddDrum(drum); err != nil {
		return types.Drum{}, err
	}
	sess.Reset()
	return drum, nil
}

// historicalDuplicate enriches the rejection with where and when the
// number was seen before. Enrichment lookups are best effort; failures
// fall back to placeholders rather than masking the duplicate.
func (w *Workflow) historicalDuplicate(drumNumber string, prior types.Drum) error {
	dup := &types.DuplicateHistoricalError{
		DrumNumber: drumNumber,
		PalletID:   types.UnknownPallet,
		Date:       types.UnknownDate,
	}
	if prior.PalletID != "" {
		dup.PalletID = prior.PalletID
		if date, err := w.repo.PalletCreationDate(prior.PalletID); err == nil && date != "" {
			dup.Date = date
		}
	}
	return dup
}

// Undo removes the most recent active drum on the session's material and
// returns it for display. Completed drums are never touched.
func (w *Workflow) Undo(sess *Session) (types.Drum, error) {
	return w.repo.DeleteLatestActive(sess.Material.Code)
}
