package correlate

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgrzelak/udscope/api/schemas"
)

func scanLines(lines ...string) *schemas.EcuDidScan {
	return ScanText(strings.Join(lines, "\n"))
}

func TestAttributeError_DidOnErrorLineWins(t *testing.T) {
	t.Parallel()

	texts := []string{
		"request 22 F188",
		"error reading DID: DE02",
	}
	did := AttributeError(texts, 1, map[string]int{"F188": 5, "DE02": 1})
	assert.Equal(t, "DE02", did)
}

func TestAttributeError_PrefersRepeatedDidInWindow(t *testing.T) {
	t.Parallel()

	texts := []string{
		"request 22 F188",
		"request 22 DE02",
		"error: module did not answer",
	}
	// DE02 is nearer but a one-off; F188 has been seen repeatedly.
	did := AttributeError(texts, 2, map[string]int{"F188": 3, "DE02": 1})
	assert.Equal(t, "F188", did)
}

func TestAttributeError_NearestOneOffAsFallback(t *testing.T) {
	t.Parallel()

	texts := []string{
		"request 22 F188",
		"request 22 DE02",
		"error: module did not answer",
	}
	did := AttributeError(texts, 2, map[string]int{"F188": 1, "DE02": 1})
	assert.Equal(t, "DE02", did)
}

func TestAttributeError_WindowBoundary(t *testing.T) {
	t.Parallel()

	texts := make([]string, 15)
	for i := range texts {
		texts[i] = "idle"
	}
	texts[0] = "request 22 F190"
	texts[14] = "error: no answer"
	// 14 lines back is outside the 12-line window.
	assert.Equal(t, UnknownDid, AttributeError(texts, 14, map[string]int{"F190": 9}))

	texts[3] = "request 22 F190"
	assert.Equal(t, "F190", AttributeError(texts, 14, map[string]int{"F190": 9}))
}

func TestScan_EcuActivityWeighting(t *testing.T) {
	t.Parallel()

	scan := scanLines(
		"node=726 responding",
		"addr 7E0 frame",
		"addr 7E0 frame",
		"addr 7E0 frame",
	)
	// The declaration line scores the weighted 5 plus 1 for the bare token.
	assert.Equal(t, 6, scan.EcuActivity["726"])
	assert.Equal(t, 3, scan.EcuActivity["7E0"])
	assert.Equal(t, "726", scan.PrimaryECU)
}

func TestScan_PartNumbersAndToolVersion(t *testing.T) {
	t.Parallel()

	scan := scanLines(
		"calibration ML3T-14C088-BF loaded",
		"calibration ML3T-14C088-BF loaded again",
		"FDRS version: 39.6.4",
	)
	assert.Equal(t, []string{"ML3T-14C088-BF"}, scan.PartNumbers)
	assert.Equal(t, "39.6.4", scan.FdrsVersion)
}

func TestScan_ErrorsGroupedByDid(t *testing.T) {
	t.Parallel()

	lines := []string{
		"request 22 DE02",
		"error: response timeout",
		"request 22 DE02",
		"error: response timeout",
	}
	// Push the orphan error past the correlation window.
	for i := 0; i < 13; i++ {
		lines = append(lines, "idle")
	}
	lines = append(lines, "error from nowhere in particular")
	scan := scanLines(lines...)
	require.Contains(t, scan.DidErrors, "DE02")
	assert.Len(t, scan.DidErrors["DE02"], 2)
	assert.Len(t, scan.DidErrors[UnknownDid], 1)
}

func TestEntries_MirrorsScan(t *testing.T) {
	t.Parallel()

	entries := []schemas.LogEntry{
		{Line: 1, Text: "node=7E0 online"},
		{Line: 2, Text: "request 22 F190"},
		{Line: 3, Text: "error: no response"},
	}
	got := Entries(entries)
	want := schemas.Correlation{
		DidErrors:   map[string][]string{"F190": {"error: no response"}},
		EcuActivity: map[string]int{"7E0": 6},
		PrimaryECU:  "7E0",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("correlation mismatch (-want +got):\n%s", diff)
	}
}
