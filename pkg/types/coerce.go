package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Stringify renders a backend field value as a string. JSON numbers that
// are whole render without a decimal point so that tabular and document
// backends produce identical text.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case float64:
		if x == float64(int64(x)) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprint(v)
	}
}

// ToInt coerces a backend field value to an int. Unparseable or empty
// values yield zero, matching the original system's lenient numeric
// handling at the repository boundary.
func ToInt(v any) int {
	switch x := v.(type) {
	case int:
		return x
	case int64:
		return int(x)
	case float64:
		return int(x)
	case bool:
		if x {
			return 1
		}
		return 0
	default:
		n, err := strconv.Atoi(strings.TrimSpace(Stringify(v)))
		if err != nil {
			return 0
		}
		return n
	}
}
