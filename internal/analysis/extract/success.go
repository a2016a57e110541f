package extract

import (
	"strings"

	"github.com/dgrzelak/udscope/api/schemas"
	"github.com/dgrzelak/udscope/internal/analysis/patterns"
)

// Success collects lines reporting completed or passing operations. A line
// only qualifies when no error keyword is simultaneously present, so "update
// not successful" is never double-counted as a success.
func Success(entries []schemas.LogEntry) schemas.SuccessAnalysis {
	var analysis schemas.SuccessAnalysis

	for i, e := range entries {
		text := e.Display()
		lower := strings.ToLower(text)
		if !containsAny(lower, patterns.SuccessKeywords) || containsAny(lower, patterns.ErrorKeywords) {
			continue
		}
		analysis.Successes = append(analysis.Successes, schemas.SuccessEntry{
			Line:     lineNo(i, e),
			Text:     truncate(text, 120),
			Category: successCategory(lower),
		})
	}
	return analysis
}

func successCategory(lower string) string {
	switch {
	case containsAny(lower, patterns.ProgrammingKeywords):
		return "programming"
	case strings.Contains(lower, "test") || strings.Contains(lower, "pass"):
		return "test"
	default:
		return "general"
	}
}
