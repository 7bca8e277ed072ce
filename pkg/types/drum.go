package types

// Drum lifecycle states.
const (
	StatusActive    = "ACTIVE"    // scanned, not yet palletized
	StatusCompleted = "COMPLETED" // permanently assigned to a finalized pallet
)

// Drum is one physical unit identified by a serial number that is unique
// across all time, not just the current pallet. A drum is created on a
// successful scan commit and mutated exactly once per lifecycle: PalletID
// and Status are set together when its pallet is finalized.
type Drum struct {
	Timestamp    string // UTC, "2006-01-02 15:04:05"
	MaterialCode string
	DrumNumber   string // globally unique key
	DrumType     string // full trimmed scan input, free text
	StandardQty  string // free text or numeric
	PalletID     string // empty while active
	Status       string // StatusActive or StatusCompleted
	DeviceID     string
	Operator     string
}
