package rootcause

import (
	"fmt"

	"github.com/dgrzelak/udscope/api/schemas"
	"github.com/dgrzelak/udscope/internal/analysis/patterns"
)

// Technician is the second, more detailed synthesizer used by the
// technician-summary path. It looks at state-machine evidence first: a log
// that is quiet by raw error counts can still represent a failed procedure
// when the flash was skipped, the software is still out of date, or
// validation threw. Those signals override the generic decision table.
func Technician(meta Metadata, bucketResult *schemas.ErrorBucketResult, ecu *schemas.EcuDidScan) schemas.RootCauseConclusion {
	if bucketResult != nil {
		if bucketResult.CriticalException {
			return schemas.RootCauseConclusion{
				PrimaryCause: "FAILED - validation failed",
				Confidence:   schemas.ConfidenceHigh,
				RiskLevel:    schemas.RiskCritical,
				Evidence: append([]string{
					"Flash validation failure exception present in the log",
				}, bucketEvidence(bucketResult)...),
				Recommendations: []string{
					"Do not return the vehicle: the module software state is unverified",
					"Re-run the flash procedure from the beginning",
					"If validation fails again, recover the module with a forced reflash",
				},
			}
		}

		if len(bucketResult.SoftwareMismatches) > 0 {
			ev := []string{
				fmt.Sprintf("%d software part-number mismatch rows detected", len(bucketResult.SoftwareMismatches)),
			}
			for _, m := range bucketResult.SoftwareMismatches {
				ev = append(ev, fmt.Sprintf("DID %s: current %s, target %s", m.Did, m.Current, m.Target))
			}
			if bucketResult.FlashSkipped {
				ev = append(ev, "Flash step was skipped immediately after the software-level check")
			}
			return schemas.RootCauseConclusion{
				PrimaryCause:    "FAILED - software still out-of-date",
				Confidence:      schemas.ConfidenceHigh,
				RiskLevel:       schemas.RiskHigh,
				Evidence:        ev,
				Recommendations: []string{
					"Re-run the software update; the target level was not reached",
					"Verify the update package covers the module's current part number",
					"Check for an interrupted download before the flash step",
				},
			}
		}

		nrc31 := bucketCount(bucketResult, schemas.BucketNrc31)
		exceptions := bucketCount(bucketResult, schemas.BucketJavaException)
		if nrc31 > patterns.Nrc31FloodThreshold && exceptions > patterns.ExceptionFloodThreshold {
			return schemas.RootCauseConclusion{
				PrimaryCause: "Code flow after unsupported DID",
				Confidence:   schemas.ConfidenceHigh,
				RiskLevel:    schemas.RiskMedium,
				Evidence: []string{
					fmt.Sprintf("%d NRC-31 (request out of range) responses", nrc31),
					fmt.Sprintf("%d backend parser exceptions", exceptions),
					"The tool keeps querying identifiers the module rejects, then chokes on the empty template",
				},
				Recommendations: []string{
					"Update the diagnostic tool; newer releases skip unsupported identifiers",
					"Ignore the exception flood: it is a symptom, not the module's fault",
					"Confirm the intended operations completed despite the noise",
				},
			}
		}
	}

	return Generate(meta, bucketResult, ecu)
}

func bucketCount(result *schemas.ErrorBucketResult, name string) int {
	if b, ok := result.Buckets[name]; ok {
		return b.Count
	}
	return 0
}
