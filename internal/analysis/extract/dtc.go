package extract

import (
	"strings"

	"github.com/dgrzelak/udscope/api/schemas"
	"github.com/dgrzelak/udscope/internal/analysis/patterns"
)

// dtcDomains maps the code's first letter to its fault domain.
var dtcDomains = map[byte]string{
	'P': "Powertrain",
	'B': "Body",
	'C': "Chassis",
	'U': "Network/Communication",
}

// Dtc scans for diagnostic trouble codes and classifies each occurrence by
// the surrounding text. Status and severity are computed at extraction time,
// not stored state.
func Dtc(entries []schemas.LogEntry) schemas.DtcAnalysis {
	var analysis schemas.DtcAnalysis

	for i, e := range entries {
		text := e.Display()
		matches := patterns.Dtc.FindAllStringSubmatch(text, -1)
		if matches == nil {
			continue
		}
		lower := strings.ToLower(text)
		status := schemas.DtcActive
		if strings.Contains(lower, "clear") {
			status = schemas.DtcCleared
		} else if strings.Contains(lower, "pending") {
			status = schemas.DtcPending
		}

		for _, m := range matches {
			code := strings.ToUpper(m[1])
			entry := schemas.DtcEntry{
				Code:        code,
				Line:        lineNo(i, e),
				Status:      status,
				Description: describeDtc(code),
				Severity:    dtcSeverity(code),
			}
			switch status {
			case schemas.DtcCleared:
				analysis.ClearedDtcs = append(analysis.ClearedDtcs, entry)
			case schemas.DtcPending:
				analysis.PendingDtcs = append(analysis.PendingDtcs, entry)
			default:
				analysis.ActiveDtcs = append(analysis.ActiveDtcs, entry)
			}
		}
	}
	return analysis
}

func describeDtc(code string) string {
	if domain, ok := dtcDomains[code[0]]; ok {
		return domain + " fault"
	}
	return "Unknown fault domain"
}

// dtcSeverity is critical for the known-critical prefixes (misfires, catalyst
// efficiency, every network code), warning otherwise.
func dtcSeverity(code string) schemas.Severity {
	for _, prefix := range patterns.CriticalDtc {
		if strings.HasPrefix(code, prefix) {
			return schemas.SeverityCritical
		}
	}
	return schemas.SeverityWarning
}
