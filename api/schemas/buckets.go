package schemas

// -- Error Bucketing & Root Cause Schemas --

// Canonical bucket keys. Checked in this order; the first matching bucket
// claims the line.
const (
	BucketNrc31         = "nrc_31_errors"
	BucketJavaException = "java_exceptions"
	BucketXMLValidation = "xml_validation_errors"
	BucketCdlWarning    = "cdl_warnings"
	BucketOther         = "other_errors"
)

// BucketOrder lists the exclusive buckets in evaluation order.
var BucketOrder = []string{
	BucketNrc31,
	BucketJavaException,
	BucketXMLValidation,
	BucketCdlWarning,
	BucketOther,
}

// ErrorBucket collapses repeated near-identical error lines into one counted
// entry. Only a small bounded sample is retained for display; the count is
// the true total.
type ErrorBucket struct {
	Name         string         `json:"name"`
	Count        int            `json:"count"`
	Description  string         `json:"description"`
	Samples      []string       `json:"samples"`
	DidFrequency map[string]int `json:"did_frequency,omitempty"`
}

// SoftwareMismatch is one parsed "FAIL - <DID> = <current> ... SHOULD =
// <target>" comparison row.
type SoftwareMismatch struct {
	Did     string `json:"did"`
	Current string `json:"current"`
	Target  string `json:"target"`
}

// ErrorBucketResult holds all exclusive buckets plus the independent
// specialized detector flags.
type ErrorBucketResult struct {
	Buckets map[string]*ErrorBucket `json:"buckets"`

	// FlashSkipped is set when the session state jumped straight to a
	// skipped state shortly after a software-level check.
	FlashSkipped bool `json:"flash_skipped"`
	// SoftwareMismatches lists current/target part-number comparison rows.
	SoftwareMismatches []SoftwareMismatch `json:"software_mismatches"`
	// CriticalException is set when a flash-validation-failure exception
	// appears anywhere in the log.
	CriticalException bool `json:"critical_exception"`
	// PlausibleVoltage is the first value in a sane battery range found
	// anywhere in the raw text, or zero when none was seen. It is a fallback
	// corroboration signal, independent of the voltage extractor.
	PlausibleVoltage float64 `json:"plausible_voltage,omitempty"`
}

// Bucket returns the named bucket, allocating it on first use so counts and
// samples can accumulate without nil checks at the call sites.
func (r *ErrorBucketResult) Bucket(name, description string) *ErrorBucket {
	if r.Buckets == nil {
		r.Buckets = make(map[string]*ErrorBucket)
	}
	b, ok := r.Buckets[name]
	if !ok {
		b = &ErrorBucket{Name: name, Description: description}
		r.Buckets[name] = b
	}
	return b
}

// RootCauseConclusion is the single ranked conclusion for a run. It is
// recomputed from scratch on every analysis and never persisted by the
// engine itself.
type RootCauseConclusion struct {
	PrimaryCause    string     `json:"primary_cause"`
	Confidence      Confidence `json:"confidence"`
	RiskLevel       RiskLevel  `json:"risk_level"`
	Evidence        []string   `json:"evidence"`
	Recommendations []string   `json:"recommendations"`
}

// EcuDidScan is the result of the wide ECU/DID sweep over a full log. Unlike
// the extractors it may be fed raw file text, because node declarations and
// part numbers hide in lines no error/success filter would keep.
type EcuDidScan struct {
	// EcuActivity maps ECU address to weighted mention count; explicit
	// "node =" declarations weigh more than bare hex tokens.
	EcuActivity map[string]int `json:"ecu_activity"`
	PrimaryECU  string         `json:"primary_ecu,omitempty"`
	// DidCounts maps each detected DID to its occurrence count.
	DidCounts map[string]int `json:"did_counts"`
	// DidErrors maps a DID to error lines attributed to it.
	DidErrors map[string][]string `json:"did_errors"`
	// PartNumbers lists detected part/calibration identifiers in first-seen order.
	PartNumbers []string `json:"part_numbers,omitempty"`
	// FdrsVersion is the diagnostic tool version string, when declared.
	FdrsVersion string `json:"fdrs_version,omitempty"`
}
