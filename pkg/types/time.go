package types

// Persisted time layouts. All timestamps are UTC.
const (
	TimestampLayout = "2006-01-02 15:04:05"
	DateLayout      = "2006-01-02"
)
