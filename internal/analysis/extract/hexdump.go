package extract

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/dgrzelak/udscope/api/schemas"
	"github.com/dgrzelak/udscope/internal/analysis/patterns"
)

// HexCommunications decodes raw hex runs found in the log into ASCII and a
// best-effort frame explanation. Mostly-binary payloads are decoded but not
// reported as ASCII discoveries, which suppresses noise.
func HexCommunications(entries []schemas.LogEntry) schemas.HexCommunications {
	var result schemas.HexCommunications

	for i, e := range entries {
		text := e.Display()
		_, run, ok := patterns.FirstMatch(patterns.HexRun, text)
		if !ok {
			continue
		}
		clean := strings.ToUpper(strings.Join(strings.Fields(run), ""))
		if len(clean) < patterns.MinHexRun {
			continue
		}
		if len(clean)%2 != 0 {
			clean = clean[:len(clean)-1]
		}

		ascii := decodeASCII(clean)
		frame := schemas.HexFrame{
			Line:        lineNo(i, e),
			Hex:         clean,
			Explanation: explainFrame(clean),
		}
		if countAlnum(ascii) >= patterns.MinAsciiAlnum {
			frame.ASCII = ascii
			result.AsciiDiscoveries = append(result.AsciiDiscoveries,
				fmt.Sprintf("line %d: %q", frame.Line, ascii))
		}
		result.Frames = append(result.Frames, frame)
	}
	return result
}

// decodeASCII maps each byte pair to its printable character, or '.' for
// anything outside the printable range.
func decodeASCII(hex string) string {
	var b strings.Builder
	for i := 0; i+1 < len(hex); i += 2 {
		v, err := strconv.ParseUint(hex[i:i+2], 16, 8)
		if err != nil {
			b.WriteByte('.')
			continue
		}
		if v >= 32 && v <= 126 {
			b.WriteByte(byte(v))
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}

func countAlnum(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// explainFrame recognizes the Ford transport framing used by the source
// logs: a leading 0000 pad, one module-id byte, then the UDS service byte.
// Unrecognized shapes fall back to a generic prefix description.
func explainFrame(hex string) string {
	if strings.HasPrefix(hex, "0000") && len(hex) >= 8 {
		module := hex[4:6]
		service := hex[6:8]
		if name, ok := patterns.UdsServiceNames[service]; ok {
			return fmt.Sprintf("Module 0x%s, service 0x%s (%s)", module, service, name)
		}
		return fmt.Sprintf("Module 0x%s, unrecognized service 0x%s", module, service)
	}
	if name, ok := patterns.UdsServiceNames[hex[:2]]; ok {
		return fmt.Sprintf("Service 0x%s (%s)", hex[:2], name)
	}
	return "Diagnostic Data: " + truncate(hex, 16)
}
