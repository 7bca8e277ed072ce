package types

// Pallet completion types.
const (
	CompleteFull       = "FULL"
	CompleteIncomplete = "INCOMPLETE"
)

// Pallet is a closed batch of drums of one material. Created exactly once
// at finalization and immutable thereafter. Description is copied from the
// material at finalize time; the email fields are pre-rendered so reports
// can be resent without recomputing them.
type Pallet struct {
	PalletID     string // generated: material prefix + global counter
	MaterialCode string
	Description  string
	CreatedAt    string // UTC, "2006-01-02 15:04:05"
	Count        int
	CompleteType string // CompleteFull or CompleteIncomplete
	EmailSubject string
	EmailBody    string
}
