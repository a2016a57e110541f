package extract

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dgrzelak/udscope/api/schemas"
	"github.com/dgrzelak/udscope/internal/analysis/patterns"
)

// Vehicle scans for the vehicle identification number. The first
// structurally valid match wins; later candidates are ignored.
func Vehicle(entries []schemas.LogEntry) schemas.VehicleInfo {
	info := schemas.VehicleInfo{Confidence: schemas.ConfidenceUnknown}

	for i, e := range entries {
		text := e.Display()
		_, candidate, ok := patterns.FirstMatch(patterns.VIN, text)
		if !ok {
			continue
		}
		candidate = strings.ToUpper(candidate)
		if !ValidVIN(candidate) {
			continue
		}
		info.VIN = candidate
		info.Source = fmt.Sprintf("line %d: %s", lineNo(i, e), truncate(text, 80))
		info.Confidence = schemas.ConfidenceHigh
		return info
	}
	return info
}

// ValidVIN applies the structural (checksum-free) VIN rules: exactly 17
// characters, no I/O/Q, and at least one letter and one digit.
func ValidVIN(vin string) bool {
	if len(vin) != 17 {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range vin {
		switch {
		case r == 'I' || r == 'O' || r == 'Q':
			return false
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
