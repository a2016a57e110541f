// Package extract implements the entity extractors: independent scanners
// that each walk the full ordered entry sequence and produce one category of
// structured finding. Extractors are pure functions of their input; a line
// that matches nothing simply contributes nothing.
package extract

import (
	"go.uber.org/zap"

	"github.com/dgrzelak/udscope/api/schemas"
	"github.com/dgrzelak/udscope/internal/analysis/correlate"
	"github.com/dgrzelak/udscope/internal/analysis/timeline"
)

// lineNo returns the 1-based display line for entry i, preferring an
// explicit Line carried by the source record.
func lineNo(i int, e schemas.LogEntry) int {
	if e.Line > 0 {
		return e.Line
	}
	return i + 1
}

// CriticalDiagnostics runs every extractor, the correlator and the timeline
// builder over the entry sequence and assembles the full result. Each
// extractor is fault-isolated: a panic inside one leaves its slot at the
// empty default and the remaining extractors still run.
func CriticalDiagnostics(entries []schemas.LogEntry, logger *zap.Logger) *schemas.CriticalDiagnostics {
	if logger == nil {
		logger = zap.NewNop()
	}
	result := &schemas.CriticalDiagnostics{
		VehicleInfo:   schemas.VehicleInfo{Confidence: schemas.ConfidenceUnknown},
		ErrorAnalysis: schemas.ErrorAnalysis{TypeCounts: map[schemas.ErrorType]int{}},
		ProximateCause: schemas.Correlation{
			DidErrors:   map[string][]string{},
			EcuActivity: map[string]int{},
		},
	}

	isolated(logger, "vehicle", func() { result.VehicleInfo = Vehicle(entries) })
	isolated(logger, "voltage", func() { result.VoltageStatus = Voltage(entries) })
	isolated(logger, "dtc", func() { result.DtcAnalysis = Dtc(entries) })
	isolated(logger, "errors", func() { result.ErrorAnalysis = Errors(entries) })
	isolated(logger, "success", func() { result.SuccessAnalysis = Success(entries) })
	isolated(logger, "did", func() { result.DidResponses = DidTransactions(entries) })
	isolated(logger, "hex", func() { result.HexComms = HexCommunications(entries) })
	isolated(logger, "correlate", func() { result.ProximateCause = correlate.Entries(entries) })
	isolated(logger, "timeline", func() { result.Timeline = timeline.Build(entries) })

	return result
}

// isolated runs one extractor, containing any panic so a single bad regex
// interaction cannot take down the whole analysis.
func isolated(logger *zap.Logger, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("extractor failed; keeping empty section",
				zap.String("extractor", name),
				zap.Any("panic", r))
		}
	}()
	fn()
}
