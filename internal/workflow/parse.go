package workflow

import (
	"regexp"
	"strings"
)

// drumNumberPattern matches the first run of five or more consecutive
// digits in a scan, e.g. "DWP1500_LV 15518289" yields "15518289".
var drumNumberPattern = regexp.MustCompile(`\d{5,}`)

// ParsedScan is the result of parsing one raw scanner or manual input.
type ParsedScan struct {
	Raw        string // trimmed input, verbatim
	DrumType   string // same as Raw; the label's free-text type field
	DrumNumber string // extracted serial, empty if no digit run found
}

// ParseScan extracts the drum number from a raw input string. The full
// trimmed input is retained as the drum type. An empty DrumNumber marks
// the scan unusable; committing it fails with ErrParse.
func ParseScan(raw string) ParsedScan {
	trimmed := strings.TrimSpace(raw)
	return ParsedScan{
		Raw:        trimmed,
		DrumType:   trimmed,
		DrumNumber: drumNumberPattern.FindString(trimmed),
	}
}
