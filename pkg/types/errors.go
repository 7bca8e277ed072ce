package types

import (
	"errors"
	"fmt"
)

// Scan workflow and validation errors.
var (
	// ErrParse reports scan input with no run of five or more digits.
	ErrParse = errors.New("no drum number found in scan input")

	// ErrMissingMaterial reports a commit with no material code submitted.
	ErrMissingMaterial = errors.New("material code missing")

	// ErrMaterialMismatch is the sentinel matched by MaterialMismatchError.
	ErrMaterialMismatch = errors.New("material does not match open pallet")

	// ErrDuplicateInSession reports a drum number already on the open pallet.
	ErrDuplicateInSession = errors.New("drum already scanned on this pallet")

	// ErrDuplicateHistorical is the sentinel matched by DuplicateHistoricalError.
	ErrDuplicateHistorical = errors.New("drum number already recorded")

	// ErrValidation reports a write missing a required field.
	ErrValidation = errors.New("validation failed")
)

// Storage and startup errors.
var (
	ErrNotFound            = errors.New("record not found")
	ErrCollectionNotFound  = errors.New("collection not found")
	ErrUnsupportedOperator = errors.New("unsupported query operator")
	ErrStoreClosed         = errors.New("store is closed")

	// ErrBackendUnavailable reports a network or auth failure talking to a
	// remote record store.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrConfiguration reports unresolvable backend credentials at startup.
	// Fatal: the process must not proceed.
	ErrConfiguration = errors.New("configuration error")
)

// MaterialMismatchError reports a scan whose material label does not match
// the material context currently open. The message names the open material.
type MaterialMismatchError struct {
	Open      string
	Submitted string
}

func (e *MaterialMismatchError) Error() string {
	return fmt.Sprintf("wrong material label %q: cannot add to a pallet with material code %q",
		e.Submitted, e.Open)
}

func (e *MaterialMismatchError) Is(target error) bool {
	return target == ErrMaterialMismatch
}

// DuplicateHistoricalError reports a drum number found anywhere in history,
// in any status. PalletID and Date carry the owning pallet and its creation
// date when resolvable, otherwise the placeholders below.
type DuplicateHistoricalError struct {
	DrumNumber string
	PalletID   string
	Date       string
}

// Placeholders used when the prior pallet or its date cannot be resolved.
const (
	UnknownPallet = "(unknown)"
	UnknownDate   = "N/A"
)

func (e *DuplicateHistoricalError) Error() string {
	return fmt.Sprintf("drum %s already scanned on pallet %s from %s",
		e.DrumNumber, e.PalletID, e.Date)
}

func (e *DuplicateHistoricalError) Is(target error) bool {
	return target == ErrDuplicateHistorical
}
