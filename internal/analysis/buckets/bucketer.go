// Package buckets collapses floods of near-identical error lines into a
// small number of named, counted buckets. A single code defect can emit the
// same stack trace hundreds of times; an unfiltered per-line list is useless
// to a reviewer, so each bucket keeps the true total plus a bounded sample.
package buckets

import (
	"strconv"
	"strings"

	"github.com/dgrzelak/udscope/api/schemas"
	"github.com/dgrzelak/udscope/internal/analysis/correlate"
	"github.com/dgrzelak/udscope/internal/analysis/patterns"
)

// Bucket descriptions, keyed by the canonical names in schemas.
var bucketDescriptions = map[string]string{
	schemas.BucketNrc31:         "NRC 31 negative responses (request out of range)",
	schemas.BucketJavaException: "Backend parser exceptions (null/zero-length template)",
	schemas.BucketXMLValidation: "XML validation failures in session data",
	schemas.BucketCdlWarning:    "Module not in calibration data list (expected during single-module work)",
	schemas.BucketOther:         "Other errors",
}

// Analyze classifies every error line of the raw log text into exactly one
// bucket (first match wins) and runs the independent specialized detectors.
func Analyze(raw string) *schemas.ErrorBucketResult {
	result := &schemas.ErrorBucketResult{Buckets: map[string]*schemas.ErrorBucket{}}
	for _, name := range schemas.BucketOrder {
		result.Bucket(name, bucketDescriptions[name])
	}

	lines := strings.Split(raw, "\n")

	// DID counts feed the per-DID frequency table of the NRC-31 bucket.
	didCounts := map[string]int{}
	for _, line := range lines {
		if _, did, ok := patterns.FirstMatch(patterns.Did, line); ok {
			didCounts[strings.ToUpper(did)]++
		}
	}

	softwareCheckAt := -1
	for i, line := range lines {
		lower := strings.ToLower(line)

		classify(result, lines, i, didCounts, lower)

		// Specialized detectors run on every line, independent of bucketing.
		if patterns.SoftwareCheck.MatchString(line) {
			softwareCheckAt = i
		}
		if patterns.SessionSkipped.MatchString(line) {
			// Only a skip shortly after a software-level check counts as a
			// deliberate "already up to date / bypassed" flash skip.
			if softwareCheckAt >= 0 && i-softwareCheckAt <= patterns.CorrelationWindow {
				result.FlashSkipped = true
			}
		}
		if m := patterns.SoftwareMismatch.FindStringSubmatch(line); len(m) == 4 {
			result.SoftwareMismatches = append(result.SoftwareMismatches, schemas.SoftwareMismatch{
				Did:     strings.ToUpper(m[1]),
				Current: m[2],
				Target:  m[3],
			})
		}
		if patterns.FlashValidationFail.MatchString(line) {
			result.CriticalException = true
		}
		if result.PlausibleVoltage == 0 {
			if m := patterns.PlausibleVoltage.FindStringSubmatch(line); len(m) > 1 {
				if v, err := strconv.ParseFloat(m[1], 64); err == nil &&
					v >= patterns.VoltagePlausibleMin && v <= patterns.VoltagePlausibleMax {
					result.PlausibleVoltage = v
				}
			}
		}
	}
	return result
}

// classify assigns line i to its bucket. Buckets are checked in declared
// order and exactly one claims the line; lines matching no signature and no
// generic error keyword contribute nothing.
func classify(result *schemas.ErrorBucketResult, lines []string, i int, didCounts map[string]int, lower string) {
	line := lines[i]
	switch {
	case patterns.Nrc31Line.MatchString(line):
		b := result.Buckets[schemas.BucketNrc31]
		record(b, line)
		if b.DidFrequency == nil {
			b.DidFrequency = map[string]int{}
		}
		b.DidFrequency[correlate.AttributeError(lines, i, didCounts)]++
	case patterns.JavaExceptionLine.MatchString(line):
		record(result.Buckets[schemas.BucketJavaException], line)
	case patterns.XMLValidationLine.MatchString(line):
		record(result.Buckets[schemas.BucketXMLValidation], line)
	case patterns.CdlWarningLine.MatchString(line):
		record(result.Buckets[schemas.BucketCdlWarning], line)
	case containsAny(lower, patterns.ErrorKeywords):
		record(result.Buckets[schemas.BucketOther], line)
	}
}

// record bumps the bucket count, retaining only the first few sample lines
// so display cost never scales with error volume.
func record(b *schemas.ErrorBucket, line string) {
	b.Count++
	if len(b.Samples) < patterns.BucketSampleCap {
		b.Samples = append(b.Samples, strings.TrimSpace(line))
	}
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
