// Package timeline reduces the entry-by-entry firehose to a chronological
// narrative of interesting moments, so sequence-sensitive failures ("the
// flash was skipped right after the software-level check") are visible.
package timeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dgrzelak/udscope/api/schemas"
	"github.com/dgrzelak/udscope/internal/analysis/patterns"
)

// detector tags one category of significant event. Detectors run in
// declared order and at most one fires per entry.
type detector struct {
	eventType string
	match     func(text, lower string) (desc string, sig schemas.Significance, ok bool)
}

var detectors = []detector{
	{"session_state", detectSessionState},
	{"nrc_31", detectNrc31},
	{"flash_validation", detectFlashValidation},
	{"dtc", detectDtc},
	{"software_mismatch", detectMismatch},
	{"programming", detectProgramming},
	{"voltage", detectVoltage},
}

// Build walks the entries once, emitting at most one event per entry. The
// first matching detector wins; an entry is never tagged as two event types.
// Duplicate adjacent events are expected and left unmerged; the report layer
// caps how many are shown.
func Build(entries []schemas.LogEntry) []schemas.TimelineEvent {
	var events []schemas.TimelineEvent
	for i, e := range entries {
		text := e.Display()
		lower := strings.ToLower(text)
		for _, d := range detectors {
			desc, sig, ok := d.match(text, lower)
			if !ok {
				continue
			}
			events = append(events, schemas.TimelineEvent{
				Line:         lineFor(i, e),
				EventType:    d.eventType,
				Significance: sig,
				Description:  desc,
				Timestamp:    stamp(i, e, text),
			})
			break
		}
	}
	return events
}

func lineFor(i int, e schemas.LogEntry) int {
	if e.Line > 0 {
		return e.Line
	}
	return i + 1
}

// stamp extracts a best-effort HH:MM:SS timestamp, falling back to the line
// number as an ordering key.
func stamp(i int, e schemas.LogEntry, text string) string {
	if e.Timestamp != "" {
		return e.Timestamp
	}
	if m := patterns.Timestamp.FindStringSubmatch(text); len(m) > 1 {
		return m[1]
	}
	return "line " + strconv.Itoa(lineFor(i, e))
}

func detectSessionState(text, lower string) (string, schemas.Significance, bool) {
	m := patterns.SessionState.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	sig := schemas.SignificanceMedium
	if strings.Contains(lower, "skip") || strings.Contains(lower, "fail") {
		sig = schemas.SignificanceHigh
	}
	if len(m) > 1 && m[1] != "" {
		return "Session state changed to " + m[1], sig, true
	}
	return "Session state transition", sig, true
}

func detectNrc31(text, lower string) (string, schemas.Significance, bool) {
	if !patterns.Nrc31Line.MatchString(text) {
		return "", "", false
	}
	if _, did, ok := patterns.FirstMatch(patterns.Did, text); ok {
		return "Request out of range (NRC 31) for DID " + strings.ToUpper(did), schemas.SignificanceMedium, true
	}
	return "Request out of range (NRC 31)", schemas.SignificanceLow, true
}

func detectFlashValidation(text, lower string) (string, schemas.Significance, bool) {
	if patterns.FlashValidationFail.MatchString(text) {
		return "Flash validation FAILED", schemas.SignificanceHigh, true
	}
	if strings.Contains(lower, "flash validation") || strings.Contains(lower, "validation pass") {
		return "Flash validation passed", schemas.SignificanceHigh, true
	}
	return "", "", false
}

func detectDtc(text, lower string) (string, schemas.Significance, bool) {
	m := patterns.Dtc.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	code := strings.ToUpper(m[1])
	if strings.Contains(lower, "clear") {
		return "DTC " + code + " cleared", schemas.SignificanceMedium, true
	}
	return "DTC " + code + " detected", schemas.SignificanceHigh, true
}

func detectMismatch(text, lower string) (string, schemas.Significance, bool) {
	m := patterns.SoftwareMismatch.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	return fmt.Sprintf("Software mismatch on DID %s: %s should be %s", strings.ToUpper(m[1]), m[2], m[3]), schemas.SignificanceHigh, true
}

func detectProgramming(text, lower string) (string, schemas.Significance, bool) {
	if !strings.Contains(lower, "flash") && !strings.Contains(lower, "programming") && !strings.Contains(lower, "download") {
		return "", "", false
	}
	switch {
	case strings.Contains(lower, "start") || strings.Contains(lower, "begin"):
		return "Programming/flash started", schemas.SignificanceHigh, true
	case strings.Contains(lower, "complete") || strings.Contains(lower, "finish"):
		return "Programming/flash completed", schemas.SignificanceHigh, true
	}
	return "", "", false
}

func detectVoltage(text, lower string) (string, schemas.Significance, bool) {
	if !strings.Contains(lower, "voltage") && !strings.Contains(lower, "battery") {
		return "", "", false
	}
	if _, v, ok := patterns.FirstMatch(patterns.Voltage, text); ok {
		sig := schemas.SignificanceLow
		if strings.Contains(lower, "low") || strings.Contains(lower, "critical") {
			sig = schemas.SignificanceHigh
		}
		return "Battery voltage reading " + v + "V", sig, true
	}
	return "Battery/voltage event", schemas.SignificanceLow, true
}
