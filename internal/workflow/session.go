package workflow

import "github.com/pryzera/palletline/pkg/types"

// Session states.
const (
	StateIdle    = "idle"
	StatePending = "pending_confirmation"
)

// Session carries one operator's context: the material whose pallet is
// open, identity fields stamped onto committed drums, and the scan
// awaiting confirmation. One Session lives for one operator login and is
// discarded on logout; nothing in it is shared between operators.
type Session struct {
	Material types.Material
	Operator string
	DeviceID string

	pending *ParsedScan
}

// State reports where the session is in the scan cycle.
func (s *Session) State() string {
	if s.pending != nil {
		return StatePending
	}
	return StateIdle
}

// Begin parses raw input and holds it for confirmation, replacing any
// earlier pending scan.
func (s *Session) Begin(raw string) ParsedScan {
	parsed := ParseScan(raw)
	s.pending = &parsed
	return parsed
}

// Pending returns the scan awaiting confirmation, if any.
func (s *Session) Pending() *ParsedScan {
	return s.pending
}

// Reset drops the pending scan, returning the session to idle.
func (s *Session) Reset() {
	s.pending = nil
}
