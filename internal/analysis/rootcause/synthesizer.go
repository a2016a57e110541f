// Package rootcause turns bucket counts and keyword tallies into exactly one
// ranked conclusion. The decision table is deliberately simple and
// hand-tuned rather than learned: a technician needs a traceable "why" for
// every conclusion, and a fixed rule table stays auditable.
package rootcause

import (
	"fmt"
	"strings"

	"github.com/dgrzelak/udscope/api/schemas"
	"github.com/dgrzelak/udscope/internal/analysis/patterns"
)

// Rule thresholds for the generic decision table.
const (
	commIssueThreshold    = 3
	voltageIssueThreshold = 2
	progIssueThreshold    = 2
	dtcCountThreshold     = 2
)

// Metadata carries the simple per-category tallies accumulated by scanning
// every entry once.
type Metadata struct {
	CommunicationIssues int
	VoltageIssues       int
	ProgrammingIssues   int
	DtcCount            int
}

// CollectMetadata scans the entries once and tallies each issue category.
func CollectMetadata(entries []schemas.LogEntry) Metadata {
	var meta Metadata
	for _, e := range entries {
		lower := strings.ToLower(e.Display())
		if containsAny(lower, patterns.CommIssueKeywords) {
			meta.CommunicationIssues++
		}
		if containsAny(lower, patterns.VoltageIssueKeywords) {
			meta.VoltageIssues++
		}
		if containsAny(lower, patterns.ProgIssueKeywords) {
			meta.ProgrammingIssues++
		}
		meta.DtcCount += len(patterns.Dtc.FindAllString(e.Display(), -1))
	}
	return meta
}

// Generate evaluates the ranked decision table. Rules are checked in order
// and the first satisfied rule wins; later rules are never evaluated once an
// earlier one fires.
func Generate(meta Metadata, bucketResult *schemas.ErrorBucketResult, ecu *schemas.EcuDidScan) schemas.RootCauseConclusion {
	switch {
	case meta.CommunicationIssues >= commIssueThreshold:
		return schemas.RootCauseConclusion{
			PrimaryCause: "Communication System Failure",
			Confidence:   schemas.ConfidenceHigh,
			RiskLevel:    schemas.RiskHigh,
			Evidence: withEcuEvidence(ecu, []string{
				fmt.Sprintf("%d communication issues detected across the session", meta.CommunicationIssues),
			}),
			Recommendations: []string{
				"Check CAN bus wiring, termination resistors and connector seating",
				"Verify the diagnostic interface cable and VCI firmware",
				"Retry the session with all other bus consumers disconnected",
			},
		}
	case meta.VoltageIssues >= voltageIssueThreshold:
		return schemas.RootCauseConclusion{
			PrimaryCause: "Electrical System Issue",
			Confidence:   schemas.ConfidenceHigh,
			RiskLevel:    schemas.RiskHigh,
			Evidence: withEcuEvidence(ecu, []string{
				fmt.Sprintf("%d voltage-related issues detected", meta.VoltageIssues),
			}),
			Recommendations: []string{
				"Connect a battery maintainer before any module programming",
				"Load-test the battery and inspect charging system output",
				"Repeat the failed operations once supply voltage is stable",
			},
		}
	case meta.ProgrammingIssues >= progIssueThreshold:
		return schemas.RootCauseConclusion{
			PrimaryCause: "Software/Programming Issue",
			Confidence:   schemas.ConfidenceMedium,
			RiskLevel:    schemas.RiskMedium,
			Evidence: append([]string{
				fmt.Sprintf("%d programming/flash issues detected", meta.ProgrammingIssues),
			}, bucketEvidence(bucketResult)...),
			Recommendations: []string{
				"Confirm the software package matches the module's hardware level",
				"Re-run the flash with a stable power supply and fresh session",
				"Check for a newer calibration release before retrying",
			},
		}
	case meta.DtcCount >= dtcCountThreshold:
		return schemas.RootCauseConclusion{
			PrimaryCause: "Multiple System Faults",
			Confidence:   schemas.ConfidenceMedium,
			RiskLevel:    schemas.RiskMedium,
			Evidence: []string{
				fmt.Sprintf("%d diagnostic trouble codes present", meta.DtcCount),
			},
			Recommendations: []string{
				"Read and record all DTCs before clearing",
				"Prioritize network (U) codes; they often cascade into other faults",
				"Re-scan after repair to confirm codes stay cleared",
			},
		}
	default:
		return schemas.RootCauseConclusion{
			PrimaryCause: "Normal Operation with Minor Issues",
			Confidence:   schemas.ConfidenceLow,
			RiskLevel:    schemas.RiskLow,
			Evidence: []string{
				"No issue category reached its decision threshold",
			},
			Recommendations: []string{
				"No immediate action required",
				"Archive this session log for future comparison",
			},
		}
	}
}

func bucketEvidence(result *schemas.ErrorBucketResult) []string {
	if result == nil {
		return nil
	}
	var ev []string
	for _, name := range schemas.BucketOrder {
		if b, ok := result.Buckets[name]; ok && b.Count > 0 {
			ev = append(ev, fmt.Sprintf("%s: %d occurrences", b.Description, b.Count))
		}
	}
	return ev
}

func withEcuEvidence(ecu *schemas.EcuDidScan, ev []string) []string {
	if ecu != nil && ecu.PrimaryECU != "" {
		name := ecu.PrimaryECU
		if module, ok := patterns.EcuModuleNames[name]; ok {
			name = name + " " + module
		}
		ev = append(ev, "Most active module: "+name)
	}
	return ev
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
