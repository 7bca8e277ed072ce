// Unit tests for the error taxonomy and sentinel matching.
package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaterialMismatchError(t *testing.T) {
	err := &MaterialMismatchError{Open: "10056885", Submitted: "10056999"}

	assert.ErrorIs(t, err, ErrMaterialMismatch)
	assert.Contains(t, err.Error(), "10056885")
	assert.Contains(t, err.Error(), "10056999")

	wrapped := fmt.Errorf("commit: %w", err)
	var got *MaterialMismatchError
	assert.True(t, errors.As(wrapped, &got))
	assert.Equal(t, "10056885", got.Open)
}

func TestDuplicateHistoricalError(t *testing.T) {
	t.Run("resolved pallet", func(t *testing.T) {
		err := &DuplicateHistoricalError{DrumNumber: "15518289", PalletID: "PAL100", Date: "2026-05-01"}
		assert.ErrorIs(t, err, ErrDuplicateHistorical)
		assert.Contains(t, err.Error(), "PAL100")
		assert.Contains(t, err.Error(), "2026-05-01")
	})

	t.Run("placeholders", func(t *testing.T) {
		err := &DuplicateHistoricalError{DrumNumber: "15518289", PalletID: UnknownPallet, Date: UnknownDate}
		assert.Contains(t, err.Error(), UnknownPallet)
		assert.Contains(t, err.Error(), UnknownDate)
	})
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrParse, ErrMissingMaterial, ErrMaterialMismatch, ErrDuplicateInSession,
		ErrDuplicateHistorical, ErrValidation, ErrNotFound, ErrCollectionNotFound,
		ErrUnsupportedOperator, ErrStoreClosed, ErrBackendUnavailable, ErrConfiguration,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
		}
	}
}
