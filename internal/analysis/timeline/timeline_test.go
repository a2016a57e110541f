package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgrzelak/udscope/api/schemas"
)

func build(lines ...string) []schemas.TimelineEvent {
	entries := make([]schemas.LogEntry, len(lines))
	for i, l := range lines {
		entries[i] = schemas.LogEntry{Line: i + 1, Text: l}
	}
	return Build(entries)
}

func TestBuild_AtMostOneEventPerEntry(t *testing.T) {
	t.Parallel()

	// The line matches both the DTC and voltage detectors; only the earlier
	// detector in declared order may claim it.
	events := build("DTC P0301 stored, battery voltage 10.5V")
	require.Len(t, events, 1)
	assert.Equal(t, "dtc", events[0].EventType)
}

func TestBuild_DetectorCatalog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		line      string
		eventType string
		sig       schemas.Significance
	}{
		{"session state", "session state -> programming", "session_state", schemas.SignificanceMedium},
		{"session skip is high", "session state -> skipped", "session_state", schemas.SignificanceHigh},
		{"nrc 31 with did", "NRC 31 for DID: DE02", "nrc_31", schemas.SignificanceMedium},
		{"nrc 31 bare", "request out of range", "nrc_31", schemas.SignificanceLow},
		{"flash validation failure", "FlashValidationFailure thrown", "flash_validation", schemas.SignificanceHigh},
		{"dtc detected", "stored DTC P0420", "dtc", schemas.SignificanceHigh},
		{"dtc cleared", "P0420 cleared by tool", "dtc", schemas.SignificanceMedium},
		{"mismatch", "FAIL - F188 = OLD-PART1-AA SHOULD = NEW-PART1-AB", "software_mismatch", schemas.SignificanceHigh},
		{"programming start", "flash download started", "programming", schemas.SignificanceHigh},
		{"programming complete", "programming complete", "programming", schemas.SignificanceHigh},
		{"voltage reading", "battery voltage: 12.6V", "voltage", schemas.SignificanceLow},
		{"low voltage is high", "battery voltage critical low 10.2V", "voltage", schemas.SignificanceHigh},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			events := build(tc.line)
			require.Len(t, events, 1, "line %q", tc.line)
			assert.Equal(t, tc.eventType, events[0].EventType)
			assert.Equal(t, tc.sig, events[0].Significance)
		})
	}
}

func TestBuild_QuietLinesProduceNothing(t *testing.T) {
	t.Parallel()

	events := build("reading DID F190", "idle", "tester present sent")
	assert.Empty(t, events)
}

func TestBuild_TimestampPreference(t *testing.T) {
	t.Parallel()

	entries := []schemas.LogEntry{
		{Line: 1, Text: "10:15:04 DTC P0301 stored"},
		{Line: 2, Text: "DTC P0302 stored"},
		{Line: 3, Text: "DTC P0303 stored", Timestamp: "10:15:06"},
	}
	events := Build(entries)
	require.Len(t, events, 3)
	assert.Equal(t, "10:15:04", events[0].Timestamp)
	assert.Equal(t, "line 2", events[1].Timestamp)
	assert.Equal(t, "10:15:06", events[2].Timestamp)
}

func TestBuild_PreservesEntryOrder(t *testing.T) {
	t.Parallel()

	events := build(
		"flash download started",
		"DTC P0301 stored",
		"programming complete",
	)
	require.Len(t, events, 3)
	assert.Equal(t, "programming", events[0].EventType)
	assert.Equal(t, "dtc", events[1].EventType)
	assert.Equal(t, "programming", events[2].EventType)
	assert.Less(t, events[0].Line, events[1].Line)
}
