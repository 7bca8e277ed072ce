// Unit tests for field value coercion across backend encodings.
package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruthyBool(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want bool
	}{
		{"nil is false", nil, false},
		{"true bool", true, true},
		{"false bool", false, false},
		{"nonzero int", 3, true},
		{"zero int", 0, false},
		{"nonzero float", float64(1), true},
		{"zero float", float64(0), false},
		{"TRUE string", "TRUE", true},
		{"lowercase true", "true", true},
		{"numeric one string", "1", true},
		{"YES string", "YES", true},
		{"y lowercase", "y", true},
		{"padded yes", "  yes  ", true},
		{"FALSE string", "FALSE", false},
		{"NO string", "NO", false},
		{"empty string", "", false},
		{"arbitrary text", "maybe", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruthyBool(tt.in))
		})
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string passthrough", "abc", "abc"},
		{"true", true, "TRUE"},
		{"false", false, "FALSE"},
		{"whole float drops decimal", float64(40), "40"},
		{"fractional float", 2.5, "2.5"},
		{"int", 7, "7"},
		{"int64", int64(12), "12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Stringify(tt.in))
		})
	}
}

func TestToInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{"int passthrough", 5, 5},
		{"float", float64(40), 40},
		{"numeric string", "40", 40},
		{"padded string", " 8 ", 8},
		{"empty string", "", 0},
		{"garbage", "n/a", 0},
		{"nil", nil, 0},
		{"true", true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToInt(tt.in))
		})
	}
}
