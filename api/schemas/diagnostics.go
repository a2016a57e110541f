package schemas

// -- Diagnostic Result Schemas --

// Severity ranks an individual finding. The values are lowercase to keep
// them stable across JSON exports and the history store.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

// Confidence expresses how certain the engine is about a conclusion.
type Confidence string

const (
	ConfidenceUnknown Confidence = "unknown"
	ConfidenceLow     Confidence = "low"
	ConfidenceMedium  Confidence = "medium"
	ConfidenceHigh    Confidence = "high"
)

// RiskLevel ranks the operational risk implied by a root-cause conclusion.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// VoltageLevel classifies the battery voltage picture for the whole session.
type VoltageLevel string

const (
	VoltageGood     VoltageLevel = "good"
	VoltageWarning  VoltageLevel = "warning"
	VoltageCritical VoltageLevel = "critical"
)

// DtcStatus reflects what the surrounding log text says about a trouble code.
type DtcStatus string

const (
	DtcActive  DtcStatus = "active"
	DtcPending DtcStatus = "pending"
	DtcCleared DtcStatus = "cleared"
)

// ErrorType sub-categorizes an error line after the generic keyword match.
type ErrorType string

const (
	ErrorCommunication ErrorType = "communication"
	ErrorProgramming   ErrorType = "programming"
	ErrorTimeout       ErrorType = "timeout"
	ErrorNRC           ErrorType = "nrc"
	ErrorSystem        ErrorType = "system"
)

// Significance ranks a timeline event for display purposes.
type Significance string

const (
	SignificanceLow    Significance = "low"
	SignificanceMedium Significance = "medium"
	SignificanceHigh   Significance = "high"
)

// LogEntry is one unit of engine input: a line of text or an XML-derived
// record. Entries are ordered; their position defines both the displayed
// line number and the backward context used for correlation. The engine
// only ever reads them.
type LogEntry struct {
	// Line is the 1-based position in the source. Zero means "derive from
	// the slice index".
	Line int `json:"line,omitempty"`
	// Text is the normalized display string for the entry.
	Text string `json:"text"`
	// Timestamp is an optional HH:MM:SS (or richer) stamp carried over from
	// the source record when one was present.
	Timestamp string `json:"timestamp,omitempty"`
}

// Display returns the stable string representation of the entry.
func (e LogEntry) Display() string { return e.Text }

// VehicleInfo holds the detected vehicle identity. The VIN is set at most
// once per run; the first structurally valid match wins.
type VehicleInfo struct {
	VIN        string     `json:"vin,omitempty"`
	Source     string     `json:"source,omitempty"`
	Confidence Confidence `json:"confidence"`
}

// VoltageReading is a single plausible battery voltage sample.
type VoltageReading struct {
	Value   float64 `json:"value"`
	Line    int     `json:"line"`
	Context string  `json:"context"`
}

// VoltageStatus aggregates every collected reading into session-level stats.
type VoltageStatus struct {
	Readings       []VoltageReading `json:"readings"`
	Average        float64          `json:"average"`
	Min            float64          `json:"min"`
	Max            float64          `json:"max"`
	Status         VoltageLevel     `json:"status"`
	CriticalEvents []VoltageReading `json:"critical_events"`
	Message        string           `json:"message"`
}

// DtcEntry is one detected diagnostic trouble code occurrence.
type DtcEntry struct {
	Code        string    `json:"code"`
	Line        int       `json:"line"`
	Status      DtcStatus `json:"status"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
}

// DtcAnalysis splits detected codes by their textual status.
type DtcAnalysis struct {
	ActiveDtcs  []DtcEntry `json:"active_dtcs"`
	PendingDtcs []DtcEntry `json:"pending_dtcs"`
	ClearedDtcs []DtcEntry `json:"cleared_dtcs"`
}

// ErrorEntry is one line that matched the generic error keyword set.
type ErrorEntry struct {
	Line           int       `json:"line"`
	Text           string    `json:"text"`
	Type           ErrorType `json:"type"`
	NrcCode        string    `json:"nrc_code,omitempty"`
	NrcDescription string    `json:"nrc_description,omitempty"`
}

// ErrorAnalysis carries all error lines plus per-type tallies.
type ErrorAnalysis struct {
	Errors     []ErrorEntry      `json:"errors"`
	TypeCounts map[ErrorType]int `json:"type_counts"`
}

// SuccessEntry is one line reporting a completed or passing operation.
type SuccessEntry struct {
	Line     int    `json:"line"`
	Text     string `json:"text"`
	Category string `json:"category"`
}

// SuccessAnalysis carries all success lines.
type SuccessAnalysis struct {
	Successes []SuccessEntry `json:"successes"`
}

// DidTransaction pairs a buffered DID request with the next response line.
// Pairing is strictly sequential; the source format carries no transaction ID.
type DidTransaction struct {
	RequestLine  int    `json:"request_line"`
	ResponseLine int    `json:"response_line"`
	RequestData  string `json:"request_data"`
	ResponseData string `json:"response_data"`
	DidCode      string `json:"did_code"`
	Explanation  string `json:"explanation"`
}

// DidResponses carries every paired request/response transaction.
type DidResponses struct {
	Transactions []DidTransaction `json:"did_transactions"`
}

// HexFrame is one decoded raw communication frame.
type HexFrame struct {
	Line        int    `json:"line"`
	Hex         string `json:"hex"`
	ASCII       string `json:"ascii,omitempty"`
	Explanation string `json:"explanation"`
}

// HexCommunications carries decoded frames plus the subset of decodes whose
// ASCII rendering looked like real text.
type HexCommunications struct {
	Frames           []HexFrame `json:"frames"`
	AsciiDiscoveries []string   `json:"ascii_discoveries"`
}

// Correlation attributes error lines back to the DIDs that likely caused
// them and summarizes per-ECU activity across the whole log.
type Correlation struct {
	// DidErrors maps a DID (or the "(UNKNOWN)" sentinel) to the error lines
	// attributed to it.
	DidErrors map[string][]string `json:"did_errors"`
	// EcuActivity maps an ECU address to its weighted mention count.
	EcuActivity map[string]int `json:"ecu_activity"`
	// PrimaryECU is the highest-weighted address in EcuActivity.
	PrimaryECU string `json:"primary_ecu,omitempty"`
}

// TimelineEvent is one significant moment in entry order.
type TimelineEvent struct {
	Line         int          `json:"line"`
	EventType    string       `json:"event_type"`
	Significance Significance `json:"significance"`
	Description  string       `json:"description"`
	Timestamp    string       `json:"timestamp"`
}

// CriticalDiagnostics is the full result of one extraction run. Every field
// is always present, even when its extractor found nothing, so an empty
// section can never be mistaken for "not yet analyzed".
type CriticalDiagnostics struct {
	VehicleInfo     VehicleInfo       `json:"vehicle_info"`
	VoltageStatus   VoltageStatus     `json:"voltage_status"`
	DtcAnalysis     DtcAnalysis       `json:"dtc_analysis"`
	ErrorAnalysis   ErrorAnalysis     `json:"error_analysis"`
	SuccessAnalysis SuccessAnalysis   `json:"success_analysis"`
	DidResponses    DidResponses      `json:"did_responses"`
	HexComms        HexCommunications `json:"hex_communications"`
	ProximateCause  Correlation       `json:"proximate_cause"`
	Timeline        []TimelineEvent   `json:"timeline"`
}
