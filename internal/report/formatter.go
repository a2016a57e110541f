// Package report renders structured analysis results into a fixed-section
// plain-text report. The section order is the priority a technician should
// read things in. Every section renders even when empty: an explicit "no
// data" sentence can never be mistaken for "not yet analyzed", while a
// silently omitted section could be.
package report

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/dgrzelak/udscope/api/schemas"
	"github.com/dgrzelak/udscope/internal/analysis/patterns"
)

// Formatter renders analysis results. It is the last line of defense: a
// best-effort report with one degraded section beats a crashed tool
// mid-repair, so every section render is individually contained.
type Formatter struct {
	logger *zap.Logger
	// maxItems caps how many rows any one section lists.
	maxItems int
}

// DefaultMaxItems bounds per-section row counts in the text report.
const DefaultMaxItems = 10

// New creates a Formatter. A nil logger is replaced with a no-op one.
func New(logger *zap.Logger, maxItems int) *Formatter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &Formatter{logger: logger.Named("report"), maxItems: maxItems}
}

// CriticalDiagnostics renders the full critical diagnostics report. The
// input is validated before formatting: anything but a CriticalDiagnostics
// value yields an explicit error string, never a panic.
func (f *Formatter) CriticalDiagnostics(v any) string {
	var result *schemas.CriticalDiagnostics
	switch r := v.(type) {
	case *schemas.CriticalDiagnostics:
		result = r
	case schemas.CriticalDiagnostics:
		result = &r
	default:
		f.logger.Warn("report formatter received unexpected input type",
			zap.String("type", fmt.Sprintf("%T", v)))
		return fmt.Sprintf("ERROR: Invalid critical diagnostics data (got %T, expected CriticalDiagnostics)", v)
	}
	if result == nil {
		f.logger.Warn("report formatter received nil result")
		return "ERROR: Invalid critical diagnostics data (nil result)"
	}

	var b strings.Builder
	b.WriteString("==================================================\n")
	b.WriteString("          CRITICAL DIAGNOSTICS REPORT\n")
	b.WriteString("==================================================\n\n")

	f.section(&b, "VEHICLE IDENTIFICATION", func(b *strings.Builder) { f.vehicle(b, result.VehicleInfo) })
	f.section(&b, "BATTERY VOLTAGE", func(b *strings.Builder) { f.voltage(b, result.VoltageStatus) })
	f.section(&b, "DIAGNOSTIC TROUBLE CODES", func(b *strings.Builder) { f.dtcs(b, result.DtcAnalysis) })
	f.section(&b, "ERRORS", func(b *strings.Builder) { f.errors(b, result.ErrorAnalysis) })
	f.section(&b, "SUCCESSFUL OPERATIONS", func(b *strings.Builder) { f.successes(b, result.SuccessAnalysis) })
	f.section(&b, "DID TRANSACTIONS", func(b *strings.Builder) { f.didTransactions(b, result.DidResponses) })
	f.section(&b, "HEX/ASCII COMMUNICATIONS", func(b *strings.Builder) { f.hexComms(b, result.HexComms) })
	f.section(&b, "PROXIMATE CAUSE CORRELATION", func(b *strings.Builder) { f.correlation(b, result.ProximateCause) })
	f.section(&b, "TIMELINE", func(b *strings.Builder) { f.timeline(b, result.Timeline) })

	return b.String()
}

// RootCause renders a conclusion as its own report section, suitable for
// appending below the critical diagnostics report.
func (f *Formatter) RootCause(c schemas.RootCauseConclusion) string {
	var b strings.Builder
	f.section(&b, "ROOT CAUSE ANALYSIS", func(b *strings.Builder) {
		fmt.Fprintf(b, "  Primary cause: %s\n", c.PrimaryCause)
		fmt.Fprintf(b, "  Confidence: %s | Risk: %s\n", c.Confidence, c.RiskLevel)
		if len(c.Evidence) > 0 {
			b.WriteString("  Evidence:\n")
			for _, ev := range c.Evidence {
				fmt.Fprintf(b, "    - %s\n", ev)
			}
		}
		if len(c.Recommendations) > 0 {
			b.WriteString("  Recommended actions:\n")
			for i, rec := range c.Recommendations {
				fmt.Fprintf(b, "    %d. %s\n", i+1, rec)
			}
		}
	})
	return b.String()
}

// ErrorBuckets renders the deduplicated error buckets.
func (f *Formatter) ErrorBuckets(result *schemas.ErrorBucketResult) string {
	var b strings.Builder
	f.section(&b, "ERROR BUCKETS", func(b *strings.Builder) {
		if result == nil {
			b.WriteString("  No error bucket data available.\n")
			return
		}
		any := false
		for _, name := range schemas.BucketOrder {
			bucket, ok := result.Buckets[name]
			if !ok || bucket.Count == 0 {
				continue
			}
			any = true
			fmt.Fprintf(b, "  %s: %d\n", bucket.Description, bucket.Count)
			for _, s := range bucket.Samples {
				fmt.Fprintf(b, "    e.g. %s\n", truncate(s, 100))
			}
			if len(bucket.DidFrequency) > 0 {
				fmt.Fprintf(b, "    by DID: %s\n", formatFrequency(bucket.DidFrequency))
			}
		}
		if !any {
			b.WriteString("  No errors matched any bucket.\n")
		}
		if len(result.SoftwareMismatches) > 0 {
			b.WriteString("  Software mismatches:\n")
			for _, m := range result.SoftwareMismatches {
				fmt.Fprintf(b, "    DID %s: %s should be %s\n", m.Did, m.Current, m.Target)
			}
		}
		if result.FlashSkipped {
			b.WriteString("  Flash step was SKIPPED after the software-level check.\n")
		}
		if result.CriticalException {
			b.WriteString("  CRITICAL: flash validation failure exception present.\n")
		}
	})
	return b.String()
}

// section renders one titled section, containing any panic from the body so
// a malformed sub-result degrades to a visible note instead of crashing the
// whole report.
func (f *Formatter) section(b *strings.Builder, title string, body func(*strings.Builder)) {
	fmt.Fprintf(b, "--- %s ---\n", title)
	func() {
		defer func() {
			if r := recover(); r != nil {
				f.logger.Warn("report section failed to render",
					zap.String("section", title), zap.Any("panic", r))
				b.WriteString("  [section unavailable: malformed analysis data]\n")
			}
		}()
		body(b)
	}()
	b.WriteString("\n")
}

func (f *Formatter) vehicle(b *strings.Builder, info schemas.VehicleInfo) {
	if info.VIN == "" {
		b.WriteString("  No VIN detected in this log.\n")
		return
	}
	fmt.Fprintf(b, "  VIN: %s (confidence: %s)\n", info.VIN, info.Confidence)
	if info.Source != "" {
		fmt.Fprintf(b, "  Source: %s\n", info.Source)
	}
}

func (f *Formatter) voltage(b *strings.Builder, v schemas.VoltageStatus) {
	if len(v.Readings) == 0 {
		b.WriteString("  No battery voltage readings found.\n")
		return
	}
	fmt.Fprintf(b, "  %s\n", v.Message)
	fmt.Fprintf(b, "  Readings: %d | min %.2fV | avg %.2fV | max %.2fV\n",
		len(v.Readings), v.Min, v.Average, v.Max)
	for _, r := range capReadings(v.CriticalEvents, f.maxItems) {
		fmt.Fprintf(b, "  ! line %d: %.2fV (%s)\n", r.Line, r.Value, truncate(r.Context, 60))
	}
}

func (f *Formatter) dtcs(b *strings.Builder, a schemas.DtcAnalysis) {
	if len(a.ActiveDtcs)+len(a.PendingDtcs)+len(a.ClearedDtcs) == 0 {
		b.WriteString("  No diagnostic trouble codes found.\n")
		return
	}
	f.dtcGroup(b, "Active", a.ActiveDtcs)
	f.dtcGroup(b, "Pending", a.PendingDtcs)
	f.dtcGroup(b, "Cleared", a.ClearedDtcs)
}

func (f *Formatter) dtcGroup(b *strings.Builder, label string, dtcs []schemas.DtcEntry) {
	if len(dtcs) == 0 {
		return
	}
	fmt.Fprintf(b, "  %s (%d):\n", label, len(dtcs))
	for i, d := range dtcs {
		if i >= f.maxItems {
			fmt.Fprintf(b, "    ... and %d more\n", len(dtcs)-i)
			break
		}
		fmt.Fprintf(b, "    %s [%s] %s (line %d)\n", d.Code, d.Severity, d.Description, d.Line)
	}
}

func (f *Formatter) errors(b *strings.Builder, a schemas.ErrorAnalysis) {
	if len(a.Errors) == 0 {
		b.WriteString("  No errors found.\n")
		return
	}
	fmt.Fprintf(b, "  Total: %d\n", len(a.Errors))
	for _, t := range []schemas.ErrorType{schemas.ErrorCommunication, schemas.ErrorProgramming, schemas.ErrorTimeout, schemas.ErrorNRC, schemas.ErrorSystem} {
		if n := a.TypeCounts[t]; n > 0 {
			fmt.Fprintf(b, "    %s: %d\n", t, n)
		}
	}
	for i, e := range a.Errors {
		if i >= f.maxItems {
			fmt.Fprintf(b, "  ... and %d more\n", len(a.Errors)-i)
			break
		}
		line := fmt.Sprintf("  line %d [%s]: %s", e.Line, e.Type, truncate(e.Text, 90))
		if e.NrcCode != "" {
			line += fmt.Sprintf(" (NRC %s: %s)", e.NrcCode, e.NrcDescription)
		}
		b.WriteString(line + "\n")
	}
}

func (f *Formatter) successes(b *strings.Builder, a schemas.SuccessAnalysis) {
	if len(a.Successes) == 0 {
		b.WriteString("  No successful operations recorded.\n")
		return
	}
	fmt.Fprintf(b, "  Total: %d\n", len(a.Successes))
	for i, s := range a.Successes {
		if i >= f.maxItems {
			fmt.Fprintf(b, "  ... and %d more\n", len(a.Successes)-i)
			break
		}
		fmt.Fprintf(b, "  line %d [%s]: %s\n", s.Line, s.Category, truncate(s.Text, 90))
	}
}

func (f *Formatter) didTransactions(b *strings.Builder, d schemas.DidResponses) {
	if len(d.Transactions) == 0 {
		b.WriteString("  No DID request/response transactions found.\n")
		return
	}
	for i, t := range d.Transactions {
		if i >= f.maxItems {
			fmt.Fprintf(b, "  ... and %d more\n", len(d.Transactions)-i)
			break
		}
		fmt.Fprintf(b, "  DID %s (%s): request line %d -> response line %d\n",
			t.DidCode, t.Explanation, t.RequestLine, t.ResponseLine)
	}
}

func (f *Formatter) hexComms(b *strings.Builder, h schemas.HexCommunications) {
	if len(h.Frames) == 0 {
		b.WriteString("  No raw hex communications found.\n")
		return
	}
	for i, fr := range h.Frames {
		if i >= f.maxItems {
			fmt.Fprintf(b, "  ... and %d more frames\n", len(h.Frames)-i)
			break
		}
		fmt.Fprintf(b, "  line %d: %s - %s\n", fr.Line, truncate(fr.Hex, 32), fr.Explanation)
	}
	for _, d := range h.AsciiDiscoveries {
		fmt.Fprintf(b, "  ASCII: %s\n", d)
	}
}

func (f *Formatter) correlation(b *strings.Builder, c schemas.Correlation) {
	if len(c.DidErrors) == 0 && c.PrimaryECU == "" {
		b.WriteString("  No error-to-DID correlations established.\n")
		return
	}
	if c.PrimaryECU != "" {
		name := c.PrimaryECU
		if module, ok := patterns.EcuModuleNames[name]; ok {
			name += " " + module
		}
		fmt.Fprintf(b, "  Primary module: %s\n", name)
	}
	for _, did := range sortedKeys(c.DidErrors) {
		errs := c.DidErrors[did]
		label := did
		if desc, ok := patterns.DidDescriptions[did]; ok {
			label += " (" + desc + ")"
		}
		fmt.Fprintf(b, "  %s: %d attributed errors\n", label, len(errs))
	}
}

func (f *Formatter) timeline(b *strings.Builder, events []schemas.TimelineEvent) {
	if len(events) == 0 {
		b.WriteString("  No significant events detected.\n")
		return
	}
	shown := 0
	for _, e := range events {
		if shown >= f.maxItems*2 {
			fmt.Fprintf(b, "  ... and %d more events\n", len(events)-shown)
			break
		}
		marker := " "
		if e.Significance == schemas.SignificanceHigh {
			marker = "!"
		}
		fmt.Fprintf(b, "  %s [%s] %s - %s\n", marker, e.Timestamp, e.EventType, e.Description)
		shown++
	}
}

func capReadings(rs []schemas.VoltageReading, n int) []schemas.VoltageReading {
	if len(rs) > n {
		return rs[:n]
	}
	return rs
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatFrequency(freq map[string]int) string {
	keys := make([]string, 0, len(freq))
	for k := range freq {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s x%d", k, freq[k]))
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
