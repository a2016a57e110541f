package extract

import (
	"strings"

	"github.com/dgrzelak/udscope/api/schemas"
	"github.com/dgrzelak/udscope/internal/analysis/patterns"
)

// pendingRequest is the single buffered request slot used while scanning
// forward. It is deliberately a slot, not a queue: when two requests arrive
// before any response, only the most recent survives for pairing. Downstream
// root-cause output depends on this exact policy.
type pendingRequest struct {
	line int
	text string
	did  string
}

// DidTransactions pairs DID read requests with the next response line.
func DidTransactions(entries []schemas.LogEntry) schemas.DidResponses {
	var result schemas.DidResponses
	var pending *pendingRequest

	for i, e := range entries {
		text := e.Display()
		lower := strings.ToLower(text)

		if strings.Contains(lower, "request") {
			if _, did, ok := patterns.FirstMatch(patterns.Did, text); ok {
				// Last request wins.
				pending = &pendingRequest{line: lineNo(i, e), text: truncate(text, 120), did: strings.ToUpper(did)}
				continue
			}
		}

		if pending != nil && strings.Contains(lower, "response") {
			if _, _, ok := patterns.FirstMatch(patterns.Did, text); ok {
				result.Transactions = append(result.Transactions, schemas.DidTransaction{
					RequestLine:  pending.line,
					ResponseLine: lineNo(i, e),
					RequestData:  pending.text,
					ResponseData: truncate(text, 120),
					DidCode:      pending.did,
					Explanation:  explainDid(pending.did),
				})
				pending = nil
			}
		}
	}
	return result
}

func explainDid(did string) string {
	if desc, ok := patterns.DidDescriptions[did]; ok {
		return desc
	}
	return "Data Identifier " + did
}
