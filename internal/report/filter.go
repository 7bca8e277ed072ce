// Package report builds pallet and drum history exports: CSV bundles
// for mailing and spreadsheets for the office.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/pryzera/palletline/pkg/types"
)

// Range selects the reporting period.
type Range string

const (
	RangeAll      Range = "all"
	RangeToday    Range = "today"
	RangeMonth    Range = "month"
	RangeYear     Range = "year"
	RangeInterval Range = "interval"
)

// Filter narrows an export by period and material. From/To are
// inclusive dates and apply only to RangeInterval.
type Filter struct {
	Range        Range
	From         string
	To           string
	MaterialCode string
}

// window resolves the filter to an inclusive [from, to] date pair.
// Empty strings mean unbounded on that side.
func (f Filter) window(now time.Time) (string, string, error) {
	today := now.UTC().Format(types.DateLayout)
	switch f.Range {
	case RangeAll, "":
		return "", "", nil
	case RangeToday:
		return today, today, nil
	case RangeMonth:
		return today[:8] + "01", today, nil
	case RangeYear:
		return today[:5] + "01-01", today, nil
	case RangeInterval:
		if f.From == "" || f.To == "" {
			return "", "", fmt.Errorf("%w: interval range needs --from and --to", types.ErrValidation)
		}
		return f.From, f.To, nil
	}
	return "", "", fmt.Errorf("%w: unknown range %q", types.ErrValidation, f.Range)
}

// inWindow matches a stored timestamp against an inclusive date pair.
// The date portion of a timestamp compares lexicographically.
func inWindow(timestamp, from, to string) bool {
	date := timestamp
	if len(date) > len(types.DateLayout) {
		date = date[:len(types.DateLayout)]
	}
	if from != "" && date < from {
		return false
	}
	if to != "" && date > to {
		return false
	}
	return true
}

// Pallets applies the filter to pallet records by creation date.
func (f Filter) Pallets(pallets []types.Pallet, now time.Time) ([]types.Pallet, error) {
	from, to, err := f.window(now)
	if err != nil {
		return nil, err
	}
	out := make([]types.Pallet, 0, len(pallets))
	for _, p := range pallets {
		if !inWindow(p.CreatedAt, from, to) {
			continue
		}
		if f.MaterialCode != "" && !strings.EqualFold(p.MaterialCode, f.MaterialCode) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Drums applies the filter to drum records by scan timestamp.
func (f Filter) Drums(drums []types.Drum, now time.Time) ([]types.Drum, error) {
	from, to, err := f.window(now)
	if err != nil {
		return nil, err
	}
	out := make([]types.Drum, 0, len(drums))
	for _, d := range drums {
		if !inWindow(d.Timestamp, from, to) {
			continue
		}
		if f.MaterialCode != "" && !strings.EqualFold(d.MaterialCode, f.MaterialCode) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}
