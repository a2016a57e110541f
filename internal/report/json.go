package report

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/dgrzelak/udscope/api/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Envelope is the JSON export shape: the full diagnostics result plus the
// conclusions derived from it.
type Envelope struct {
	File              string                       `json:"file,omitempty"`
	Diagnostics       *schemas.CriticalDiagnostics `json:"diagnostics"`
	RootCause         *schemas.RootCauseConclusion `json:"root_cause,omitempty"`
	TechnicianSummary *schemas.RootCauseConclusion `json:"technician_summary,omitempty"`
	ErrorBuckets      *schemas.ErrorBucketResult   `json:"error_buckets,omitempty"`
	EcuScan           *schemas.EcuDidScan          `json:"ecu_scan,omitempty"`
}

// MarshalEnvelope serializes the envelope with stable, indented output.
func MarshalEnvelope(env *Envelope) ([]byte, error) {
	return json.MarshalIndent(env, "", "  ")
}
