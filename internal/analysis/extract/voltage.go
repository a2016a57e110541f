package extract

import (
	"fmt"
	"strconv"

	"github.com/dgrzelak/udscope/api/schemas"
	"github.com/dgrzelak/udscope/internal/analysis/patterns"
)

// Voltage collects every plausible battery voltage reading and derives
// session-level stats. Readings outside the plausible range are discarded as
// garbage matches from unrelated hex.
func Voltage(entries []schemas.LogEntry) schemas.VoltageStatus {
	status := schemas.VoltageStatus{}

	for i, e := range entries {
		text := e.Display()
		name, capture, ok := patterns.FirstMatch(patterns.Voltage, text)
		if !ok {
			continue
		}

		var value float64
		if name == patterns.VoltageDe02Name {
			// DE02 reports one byte of tenths of a volt.
			raw, err := strconv.ParseInt(capture, 16, 32)
			if err != nil {
				continue
			}
			value = float64(raw) / 10.0
		} else {
			var err error
			value, err = strconv.ParseFloat(capture, 64)
			if err != nil {
				continue
			}
		}

		if value < patterns.VoltagePlausibleMin || value > patterns.VoltagePlausibleMax {
			continue
		}
		status.Readings = append(status.Readings, schemas.VoltageReading{
			Value:   value,
			Line:    lineNo(i, e),
			Context: truncate(text, 80),
		})
	}

	if len(status.Readings) == 0 {
		status.Status = schemas.VoltageGood
		status.Message = "No battery voltage readings found"
		return status
	}

	sum := 0.0
	status.Min = status.Readings[0].Value
	status.Max = status.Readings[0].Value
	for _, r := range status.Readings {
		sum += r.Value
		if r.Value < status.Min {
			status.Min = r.Value
		}
		if r.Value > status.Max {
			status.Max = r.Value
		}
		if r.Value < patterns.VoltageCriticalBelow || r.Value > patterns.VoltageWarnAbove {
			status.CriticalEvents = append(status.CriticalEvents, r)
		}
	}
	status.Average = sum / float64(len(status.Readings))

	switch {
	case status.Average < patterns.VoltageCriticalBelow:
		status.Status = schemas.VoltageCritical
		status.Message = fmt.Sprintf("CRITICAL: average battery voltage %.2fV is below %.1fV - module programming is unsafe", status.Average, patterns.VoltageCriticalBelow)
	case status.Average < patterns.VoltageWarnBelow || status.Average > patterns.VoltageWarnAbove:
		status.Status = schemas.VoltageWarning
		status.Message = fmt.Sprintf("WARNING: average battery voltage %.2fV is outside the nominal %.1f-%.1fV band", status.Average, patterns.VoltageWarnBelow, patterns.VoltageWarnAbove)
	default:
		status.Status = schemas.VoltageGood
		status.Message = fmt.Sprintf("Battery voltage nominal (average %.2fV over %d readings)", status.Average, len(status.Readings))
	}
	return status
}
