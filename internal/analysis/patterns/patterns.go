// Package patterns centralizes every regular expression, lookup table and
// heuristic constant the analysis engine matches against, so each matching
// rule is defined exactly once. Patterns within a category are tried in
// declared order and the first successful match wins; callers must not keep
// searching for a "better" match once one pattern fires.
package patterns

import "regexp"

// Pattern is one named, pre-compiled expression within an ordered category.
type Pattern struct {
	Name string
	Re   *regexp.Regexp
}

// Heuristic constants. These encode domain calibration from real session
// logs, not deployment configuration; do not make them tunable.
const (
	// CorrelationWindow is how many preceding lines are searched when
	// attributing a negative response to a request. Chosen empirically:
	// larger windows start blaming unrelated, coincidentally-nearby DIDs.
	CorrelationWindow = 12

	// DidRepeatThreshold is the minimum number of sightings before a DID is
	// trusted during window correlation. A DID seen once is as likely to be
	// a regex false positive as a real query.
	DidRepeatThreshold = 2

	// NodeDeclWeight is how much an explicit "node = XXX" declaration counts
	// relative to a bare 3-hex-digit token when ranking ECU activity.
	NodeDeclWeight = 5

	// Plausible battery voltage range; matches outside it are garbage from
	// unrelated hex.
	VoltagePlausibleMin = 8.0
	VoltagePlausibleMax = 16.0

	// Session-average thresholds.
	VoltageCriticalBelow = 11.0
	VoltageWarnBelow     = 12.0
	VoltageWarnAbove     = 14.5

	// BucketSampleCap bounds how many sample lines an error bucket retains.
	BucketSampleCap = 3

	// MinHexRun is the shortest hex run worth decoding to ASCII.
	MinHexRun = 8

	// MinAsciiAlnum is how many alphanumeric characters a decoded payload
	// needs before it is reported as an ASCII discovery.
	MinAsciiAlnum = 3

	// Technician-summary thresholds for the unsupported-DID code-flow
	// signature (mass NRC-31 responses plus repeated parser exceptions).
	Nrc31FloodThreshold     = 50
	ExceptionFloodThreshold = 10
)

// VIN patterns, narrow to broad. Automotive log dialects vary: the VIN may
// be labeled, carried in an F190 read, or appear as a bare token.
var VIN = []Pattern{
	{"labeled", regexp.MustCompile(`(?i)\bVIN\s*[:=]?\s*([A-HJ-NPR-Z0-9]{17})\b`)},
	{"did_f190", regexp.MustCompile(`(?i)\bF190\s*[:=]?\s*([A-HJ-NPR-Z0-9]{17})\b`)},
	{"bare", regexp.MustCompile(`\b([A-HJ-NPR-Z0-9]{17})\b`)},
}

// Voltage patterns. The de02 pattern is a domain decode rule: module DE02
// reports the battery voltage as one byte of tenths of a volt.
var Voltage = []Pattern{
	{"labeled", regexp.MustCompile(`(?i)(?:battery\s+)?voltage\s*[:=]?\s*(\d{1,2}(?:\.\d{1,2})?)\s*v\b`)},
	{"suffixed", regexp.MustCompile(`(?i)\b(\d{1,2}\.\d{1,2})\s*v(?:olts)?\b`)},
	{"de02", regexp.MustCompile(`(?i)\bDE02\s*[:=]?\s*([0-9A-F]{2})\b`)},
}

// VoltageDe02Name identifies the DID-based pattern above so the extractor
// can apply the tenths-of-a-volt decode instead of a float parse.
const VoltageDe02Name = "de02"

// Dtc matches standardized trouble codes: B/P/U/C prefix plus 4 hex digits.
var Dtc = regexp.MustCompile(`(?i)\b([BPUC][0-9A-F]{4})\b`)

// CriticalDtc lists code prefixes treated as critical regardless of context:
// misfires P0300-P0304, catalyst efficiency P0420, and every network (U) code.
var CriticalDtc = []string{"P0300", "P0301", "P0302", "P0303", "P0304", "P0420", "U"}

// Nrc extracts a two-hex-digit negative response code.
var Nrc = regexp.MustCompile(`(?i)NRC\s*[:=]?\s*([0-9A-F]{2})\b`)

// Did patterns, narrow to broad: an explicit DID label, a service 0x22/0x62
// frame, then bare tokens in the common Ford identifier ranges.
var Did = []Pattern{
	{"labeled", regexp.MustCompile(`(?i)\bDID\s*[:=]?\s*([0-9A-F]{4})\b`)},
	{"service_22", regexp.MustCompile(`(?i)\b(?:22|62)\s*([0-9A-F]{4})\b`)},
	{"ford_range", regexp.MustCompile(`(?i)\b((?:F1|DE|D0)[0-9A-F]{2})\b`)},
}

// Request matches a service-22 read request with its DID, used when walking
// the backward correlation window.
var Request = regexp.MustCompile(`(?i)\b22\s*([0-9A-F]{4})\b`)

// ECU address patterns with their activity weights. Explicit node
// declarations are far less likely to be false positives than bare hex
// tokens that could be timestamps or payload bytes.
var EcuNodeDecl = regexp.MustCompile(`(?i)\bnode\s*=\s*([0-9A-F]{3})\b`)
var EcuBareAddr = regexp.MustCompile(`(?i)\b([0-9A-F]{3})\b`)

// Hex run capture alternatives: space-separated byte dumps, packed runs,
// and labeled data fields.
var HexRun = []Pattern{
	{"spaced", regexp.MustCompile(`(?i)\b((?:[0-9A-F]{2}\s+){3,}[0-9A-F]{2})\b`)},
	{"packed", regexp.MustCompile(`(?i)\b([0-9A-F]{8,})\b`)},
	{"labeled_data", regexp.MustCompile(`(?i)\bdata\s*[:=]\s*([0-9A-F][0-9A-F\s]{6,})`)},
}

// Timestamp extracts a best-effort HH:MM:SS stamp from a line.
var Timestamp = regexp.MustCompile(`\b(\d{2}:\d{2}:\d{2})\b`)

// PartNumber matches Ford-style part and calibration identifiers.
var PartNumber = regexp.MustCompile(`\b([A-Z0-9]{4}-[A-Z0-9]{5}-[A-Z0-9]{2,3})\b`)

// FdrsVersion matches the diagnostic tool's version declaration.
var FdrsVersion = regexp.MustCompile(`(?i)\bFDRS\s*(?:version)?\s*[:=]?\s*(\d+(?:\.\d+)+)`)

// SoftwareMismatch matches comparison rows of the shape
// "FAIL - F188 = HJ5T-14C204-CBD ... SHOULD = HJ5T-14C204-CBE".
var SoftwareMismatch = regexp.MustCompile(`(?i)FAIL\s*[-–]\s*([0-9A-F]{4})\s*=\s*(\S+).*?SHOULD\s*=\s*(\S+)`)

// Bucket signatures, in bucket evaluation order.
var (
	// Nrc31Line catches request-out-of-range responses in any of the shapes
	// the tool logs them: NRC label, 7F 22 31 frame, or spelled out.
	Nrc31Line = regexp.MustCompile(`(?i)(NRC\s*[:=]?\s*31\b|7F\s*22\s*31\b|request\s+out\s+of\s+range)`)
	// JavaExceptionLine is the known parser failure signature: the tool's
	// backend throws on null or zero-length templates.
	JavaExceptionLine = regexp.MustCompile(`(?i)(java\.[\w.]*Exception|null(?:\s+or)?\s+(?:zero[- ]length\s+)?template|zero[- ]length\s+template)`)
	// XMLValidationLine catches schema/parse failures in session XML.
	XMLValidationLine = regexp.MustCompile(`(?i)(xml\s+validation\s+error|invalid\s+xml|failed\s+to\s+(?:parse|validate)\s+xml)`)
	// CdlWarningLine catches "module not in calibration data list" noise,
	// expected during single-module operations.
	CdlWarningLine = regexp.MustCompile(`(?i)(not\s+(?:found\s+)?in\s+(?:the\s+)?calibration\s+data\s+list|\bCDL\b.*\b(?:warning|missing)\b)`)
	// FlashValidationFail is the critical flash-validation-failure exception.
	FlashValidationFail = regexp.MustCompile(`(?i)(FlashValidationFailure|flash\s+validation\s+fail)`)
	// SessionSkipped marks a session-state transition straight to a skipped state.
	SessionSkipped = regexp.MustCompile(`(?i)session\s*state\b.*\bskip`)
	// SoftwareCheck marks a software-level check step preceding a flash decision.
	SoftwareCheck = regexp.MustCompile(`(?i)software\s+(?:level\s+)?check`)
	// SessionState marks any session-state transition line.
	SessionState = regexp.MustCompile(`(?i)session\s*state\b(?:.*?(?:->|to)\s*(\w+))?`)
	// PlausibleVoltage is the fallback voltage sniffer used by the bucketer.
	PlausibleVoltage = regexp.MustCompile(`(?i)\b(\d{1,2}\.\d{1,2})\s*v\b`)
)

// FirstMatch tries each pattern in order against s and returns the first
// submatch, honoring the first-match-wins contract.
func FirstMatch(category []Pattern, s string) (name, capture string, ok bool) {
	for _, p := range category {
		if m := p.Re.FindStringSubmatch(s); len(m) > 1 {
			return p.Name, m[1], true
		}
	}
	return "", "", false
}
