// Package correlate attributes negative-response and error lines back to
// the DID that most likely caused them, and ranks per-ECU activity across
// the whole log. Source logs interleave concurrent exchanges with no
// transaction IDs, so attribution works over a bounded backward window:
// precision is preferred over recall, and a distant pair is dropped rather
// than blamed on an unrelated nearby DID.
package correlate

import (
	"strings"

	"github.com/dgrzelak/udscope/api/schemas"
	"github.com/dgrzelak/udscope/internal/analysis/patterns"
)

// UnknownDid is the sentinel bucket for errors with no surviving candidate.
const UnknownDid = "(UNKNOWN)"

// Entries runs the correlation pass used by the critical-diagnostics result.
func Entries(entries []schemas.LogEntry) schemas.Correlation {
	scan := Scan(entries)
	return schemas.Correlation{
		DidErrors:   scan.DidErrors,
		EcuActivity: scan.EcuActivity,
		PrimaryECU:  scan.PrimaryECU,
	}
}

// ScanText runs the full ECU/DID sweep over raw file text. Node declarations
// and part numbers hide in lines that no error/success filter would keep, so
// scanning everything is more reliable than scanning pre-filtered entries.
func ScanText(raw string) *schemas.EcuDidScan {
	lines := strings.Split(raw, "\n")
	entries := make([]schemas.LogEntry, len(lines))
	for i, l := range lines {
		entries[i] = schemas.LogEntry{Line: i + 1, Text: l}
	}
	return Scan(entries)
}

// Scan walks every entry once to build DID occurrence counts and the
// weighted ECU activity table, then attributes each error line to a DID.
func Scan(entries []schemas.LogEntry) *schemas.EcuDidScan {
	scan := &schemas.EcuDidScan{
		EcuActivity: map[string]int{},
		DidCounts:   map[string]int{},
		DidErrors:   map[string][]string{},
	}

	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.Display()
	}

	// First pass: DID sightings, ECU activity, part numbers, tool version.
	seenPart := map[string]bool{}
	for _, text := range texts {
		if _, did, ok := patterns.FirstMatch(patterns.Did, text); ok {
			scan.DidCounts[strings.ToUpper(did)]++
		}
		for _, m := range patterns.EcuNodeDecl.FindAllStringSubmatch(text, -1) {
			scan.EcuActivity[strings.ToUpper(m[1])] += patterns.NodeDeclWeight
		}
		for _, m := range patterns.EcuBareAddr.FindAllStringSubmatch(text, -1) {
			scan.EcuActivity[strings.ToUpper(m[1])]++
		}
		for _, m := range patterns.PartNumber.FindAllStringSubmatch(text, -1) {
			if !seenPart[m[1]] {
				seenPart[m[1]] = true
				scan.PartNumbers = append(scan.PartNumbers, m[1])
			}
		}
		if scan.FdrsVersion == "" {
			if m := patterns.FdrsVersion.FindStringSubmatch(text); len(m) > 1 {
				scan.FdrsVersion = m[1]
			}
		}
	}

	// Second pass: attribute error lines.
	for i, text := range texts {
		lower := strings.ToLower(text)
		if !containsAny(lower, patterns.ErrorKeywords) {
			continue
		}
		did := AttributeError(texts, i, scan.DidCounts)
		scan.DidErrors[did] = append(scan.DidErrors[did], text)
	}

	scan.PrimaryECU = primaryEcu(scan.EcuActivity)
	return scan
}

// AttributeError finds the DID responsible for the error at index i. The
// error line itself is checked first; failing that, the backward window is
// searched for a request, preferring DIDs already seen at least twice
// elsewhere in the log over one-off matches.
func AttributeError(texts []string, i int, didCounts map[string]int) string {
	if _, did, ok := patterns.FirstMatch(patterns.Did, texts[i]); ok {
		return strings.ToUpper(did)
	}

	var fallback string
	start := i - patterns.CorrelationWindow
	if start < 0 {
		start = 0
	}
	// Walk backwards so the nearest candidate is considered first.
	for j := i - 1; j >= start; j-- {
		var did string
		if m := patterns.Request.FindStringSubmatch(texts[j]); len(m) > 1 {
			did = strings.ToUpper(m[1])
		} else if _, d, ok := patterns.FirstMatch(patterns.Did, texts[j]); ok {
			did = strings.ToUpper(d)
		} else {
			continue
		}
		if didCounts[did] >= patterns.DidRepeatThreshold {
			return did
		}
		if fallback == "" {
			fallback = did
		}
	}
	if fallback != "" {
		return fallback
	}
	return UnknownDid
}

func primaryEcu(activity map[string]int) string {
	best, bestWeight := "", 0
	for addr, weight := range activity {
		if weight > bestWeight || (weight == bestWeight && addr < best) {
			best, bestWeight = addr, weight
		}
	}
	return best
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
