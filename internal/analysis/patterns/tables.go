package patterns

// Static lookup tables. Best-effort vocabularies, not a complete ISO-14229
// decode; unknown codes fall back to a generic description at the call site.

// DidDescriptions maps common UDS data identifiers to their meaning.
var DidDescriptions = map[string]string{
	"F110": "Part Number (Diagnostic Specification)",
	"F111": "ECU Core Assembly Number",
	"F113": "ECU Delivery Assembly Number",
	"F124": "Calibration File Number",
	"F125": "Calibration Level",
	"F188": "ECU Software Number",
	"F18C": "ECU Serial Number",
	"F190": "Vehicle Identification Number",
	"F1D0": "Network Signal Data",
	"DE00": "Diagnostic Session Data",
	"DE01": "Module State",
	"DE02": "Battery Voltage",
	"D100": "Continuous Memory DTC Status",
}

// NrcDescriptions maps UDS negative response codes to their meaning.
var NrcDescriptions = map[string]string{
	"10": "General Reject",
	"11": "Service Not Supported",
	"12": "Sub-Function Not Supported",
	"13": "Incorrect Message Length Or Invalid Format",
	"14": "Response Too Long",
	"21": "Busy Repeat Request",
	"22": "Conditions Not Correct",
	"24": "Request Sequence Error",
	"31": "Request Out Of Range",
	"33": "Security Access Denied",
	"35": "Invalid Key",
	"36": "Exceeded Number Of Attempts",
	"37": "Required Time Delay Not Expired",
	"70": "Upload/Download Not Accepted",
	"71": "Transfer Data Suspended",
	"72": "General Programming Failure",
	"73": "Wrong Block Sequence Counter",
	"78": "Request Correctly Received, Response Pending",
	"7E": "Sub-Function Not Supported In Active Session",
	"7F": "Service Not Supported In Active Session",
}

// EcuModuleNames maps short hex node addresses to module names.
var EcuModuleNames = map[string]string{
	"716": "GWM (Gateway Module)",
	"720": "IPC (Instrument Panel Cluster)",
	"726": "BCM (Body Control Module)",
	"730": "PSCM (Power Steering Control Module)",
	"737": "RCM (Restraint Control Module)",
	"740": "DDM (Driver Door Module)",
	"760": "ABS (Anti-lock Brake System)",
	"764": "CCM (Cruise Control Module)",
	"7A0": "ACM (Audio Control Module)",
	"7D0": "APIM (Accessory Protocol Interface Module)",
	"7E0": "PCM (Powertrain Control Module)",
	"7E4": "BECM (Battery Energy Control Module)",
}

// UdsServiceNames maps request service IDs to their names, used when
// explaining recognized frame segments.
var UdsServiceNames = map[string]string{
	"10": "Diagnostic Session Control",
	"11": "ECU Reset",
	"14": "Clear Diagnostic Information",
	"19": "Read DTC Information",
	"22": "Read Data By Identifier",
	"27": "Security Access",
	"2E": "Write Data By Identifier",
	"31": "Routine Control",
	"34": "Request Download",
	"36": "Transfer Data",
	"37": "Request Transfer Exit",
	"3E": "Tester Present",
	"62": "Read Data By Identifier (positive response)",
	"7F": "Negative Response",
}

// Keyword sets. All matching is case-insensitive substring matching over the
// lowercased line; logs mix case inconsistently.

// ErrorKeywords qualifies a line as an error; at least one must be present.
var ErrorKeywords = []string{"error", "fail", "exception", "not successful"}

// SuccessKeywords qualifies a line as a success, provided no error keyword
// is simultaneously present ("update not successful" must not double-count).
var SuccessKeywords = []string{"success", "pass", "complete", "ok", "successful"}

// Error sub-typing keywords, scanned in fixed priority order.
var (
	CommunicationKeywords = []string{"communication", "no response", "bus off", "can bus", "connection", "link down"}
	ProgrammingKeywords   = []string{"programming", "flash", "download", "software update", "reprogram"}
)

// Root-cause tally keywords, applied once per entry by the metadata scan.
var (
	CommIssueKeywords    = []string{"communication error", "no communication", "no response", "bus off", "connection lost", "can bus error", "timeout"}
	VoltageIssueKeywords = []string{"low voltage", "voltage low", "voltage drop", "undervoltage", "overvoltage", "battery low", "voltage critical"}
	ProgIssueKeywords    = []string{"programming error", "flash fail", "download fail", "programming fail", "software update fail", "flash error"}
)
