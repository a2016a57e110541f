package rootcause

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgrzelak/udscope/api/schemas"
	"github.com/dgrzelak/udscope/internal/analysis/buckets"
)

func TestCollectMetadata(t *testing.T) {
	t.Parallel()

	entries := []schemas.LogEntry{
		{Text: "communication error on request"},
		{Text: "no response from module"},
		{Text: "low voltage condition flagged"},
		{Text: "flash fail during block transfer"},
		{Text: "DTC P0301 and U0100 stored"},
	}
	meta := CollectMetadata(entries)
	assert.Equal(t, 2, meta.CommunicationIssues)
	assert.Equal(t, 1, meta.VoltageIssues)
	assert.Equal(t, 1, meta.ProgrammingIssues)
	assert.Equal(t, 2, meta.DtcCount)
}

func TestGenerate_RuleOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		meta Metadata
		want string
	}{
		{
			"communication outranks voltage",
			Metadata{CommunicationIssues: 3, VoltageIssues: 5},
			"Communication System Failure",
		},
		{
			"voltage outranks programming",
			Metadata{VoltageIssues: 2, ProgrammingIssues: 4},
			"Electrical System Issue",
		},
		{
			"programming outranks dtc",
			Metadata{ProgrammingIssues: 2, DtcCount: 9},
			"Software/Programming Issue",
		},
		{
			"dtc fires alone",
			Metadata{DtcCount: 2},
			"Multiple System Faults",
		},
		{
			"below every threshold",
			Metadata{CommunicationIssues: 2, VoltageIssues: 1, ProgrammingIssues: 1, DtcCount: 1},
			"Normal Operation with Minor Issues",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := Generate(tc.meta, nil, nil)
			assert.Equal(t, tc.want, c.PrimaryCause)
			assert.NotEmpty(t, c.Evidence)
			assert.NotEmpty(t, c.Recommendations)
		})
	}
}

func TestGenerate_EcuEvidenceAppended(t *testing.T) {
	t.Parallel()

	ecu := &schemas.EcuDidScan{PrimaryECU: "7E0"}
	c := Generate(Metadata{CommunicationIssues: 3}, nil, ecu)
	require.NotEmpty(t, c.Evidence)
	assert.Contains(t, c.Evidence[len(c.Evidence)-1], "7E0")
}

func TestGenerate_DefaultIsLowRisk(t *testing.T) {
	t.Parallel()

	c := Generate(Metadata{}, nil, nil)
	assert.Equal(t, schemas.ConfidenceLow, c.Confidence)
	assert.Equal(t, schemas.RiskLow, c.RiskLevel)
}

func TestTechnician_ValidationFailureOverridesEverything(t *testing.T) {
	t.Parallel()

	result := buckets.Analyze("thrown: FlashValidationFailure during verify")
	c := Technician(Metadata{CommunicationIssues: 10}, result, nil)
	assert.Equal(t, "FAILED - validation failed", c.PrimaryCause)
	assert.Equal(t, schemas.RiskCritical, c.RiskLevel)
}

func TestTechnician_SoftwareMismatchOverride(t *testing.T) {
	t.Parallel()

	result := buckets.Analyze("FAIL - F188 = HJ5T-14C204-CBD SHOULD = HJ5T-14C204-CBE")
	c := Technician(Metadata{}, result, nil)
	assert.Equal(t, "FAILED - software still out-of-date", c.PrimaryCause)
	assert.Equal(t, schemas.ConfidenceHigh, c.Confidence)
	assert.Contains(t, strings.Join(c.Evidence, "\n"), "F188")
}

func TestTechnician_UnsupportedDidFlood(t *testing.T) {
	t.Parallel()

	var lines []string
	for i := 0; i < 60; i++ {
		lines = append(lines, "response 7F 22 31 request out of range")
	}
	for i := 0; i < 15; i++ {
		lines = append(lines, "java.lang.NullPointerException: null template")
	}
	result := buckets.Analyze(strings.Join(lines, "\n"))

	c := Technician(Metadata{}, result, nil)
	assert.Equal(t, "Code flow after unsupported DID", c.PrimaryCause)
	assert.Equal(t, schemas.ConfidenceHigh, c.Confidence)
}

func TestTechnician_FloodBelowThresholdFallsThrough(t *testing.T) {
	t.Parallel()

	var lines []string
	for i := 0; i < 50; i++ {
		lines = append(lines, "response 7F 22 31")
	}
	result := buckets.Analyze(strings.Join(lines, "\n"))

	c := Technician(Metadata{}, result, nil)
	assert.Equal(t, "Normal Operation with Minor Issues", c.PrimaryCause)
}

func TestTechnician_NilBucketsUsesGenericTable(t *testing.T) {
	t.Parallel()

	c := Technician(Metadata{VoltageIssues: 2}, nil, nil)
	assert.Equal(t, "Electrical System Issue", c.PrimaryCause)
}
