package types

import "strings"

// TruthyBool decodes the heterogeneous truthy encodings found across
// backends into one boolean domain. The accepted vocabulary is: Go bools,
// nonzero numbers, and the case-insensitive strings TRUE, 1, YES, Y.
// Everything else, including nil, is false.
func TruthyBool(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	default:
		s := strings.ToUpper(strings.TrimSpace(Stringify(v)))
		return s == "TRUE" || s == "1" || s == "YES" || s == "Y"
	}
}
