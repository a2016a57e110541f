package extract

import (
	"strings"

	"github.com/dgrzelak/udscope/api/schemas"
	"github.com/dgrzelak/udscope/internal/analysis/patterns"
)

// Errors collects every line containing an error keyword and sub-categorizes
// it by a second keyword pass in fixed priority order: communication, then
// programming, then the timeout literal, then an NRC reference, else system.
func Errors(entries []schemas.LogEntry) schemas.ErrorAnalysis {
	analysis := schemas.ErrorAnalysis{TypeCounts: map[schemas.ErrorType]int{}}

	for i, e := range entries {
		text := e.Display()
		lower := strings.ToLower(text)
		if !containsAny(lower, patterns.ErrorKeywords) {
			continue
		}

		entry := schemas.ErrorEntry{
			Line: lineNo(i, e),
			Text: truncate(text, 120),
			Type: classifyError(lower),
		}
		if entry.Type == schemas.ErrorNRC {
			if m := patterns.Nrc.FindStringSubmatch(text); len(m) > 1 {
				entry.NrcCode = strings.ToUpper(m[1])
				if desc, ok := patterns.NrcDescriptions[entry.NrcCode]; ok {
					entry.NrcDescription = desc
				} else {
					entry.NrcDescription = "Unknown negative response code"
				}
			}
		}

		analysis.Errors = append(analysis.Errors, entry)
		analysis.TypeCounts[entry.Type]++
	}
	return analysis
}

func classifyError(lower string) schemas.ErrorType {
	switch {
	case containsAny(lower, patterns.CommunicationKeywords):
		return schemas.ErrorCommunication
	case containsAny(lower, patterns.ProgrammingKeywords):
		return schemas.ErrorProgramming
	case strings.Contains(lower, "timeout"):
		return schemas.ErrorTimeout
	case strings.Contains(lower, "nrc"):
		return schemas.ErrorNRC
	default:
		return schemas.ErrorSystem
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
