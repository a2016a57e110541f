// Package logsource turns diagnostic log files into the ordered entry
// sequence the analysis engine consumes. Two source shapes are supported:
// free-form text session logs and XML session exports.
package logsource

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgrzelak/udscope/api/schemas"
)

// maxLineBytes bounds a single log line; diagnostic tools occasionally dump
// whole payloads on one line.
const maxLineBytes = 1024 * 1024

// Load reads a log file and returns its entries plus the raw text. The raw
// text is kept because some detections (node declarations, part numbers) are
// more reliable over the unfiltered file.
func Load(path string) ([]schemas.LogEntry, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read log file %s: %w", path, err)
	}
	raw := string(data)

	if looksLikeXML(path, data) {
		entries, err := parseXML(data)
		if err == nil {
			return entries, raw, nil
		}
		// Fall through to line parsing: a malformed XML export is still
		// useful as plain text.
	}
	return ParseText(raw), raw, nil
}

// ParseText splits raw text into one entry per line, 1-based.
func ParseText(raw string) []schemas.LogEntry {
	scanner := bufio.NewScanner(strings.NewReader(raw))
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var entries []schemas.LogEntry
	line := 0
	for scanner.Scan() {
		line++
		entries = append(entries, schemas.LogEntry{Line: line, Text: scanner.Text()})
	}
	return entries
}

// looksLikeXML sniffs by extension first, then by the leading bytes.
func looksLikeXML(path string, data []byte) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml", ".vbf":
		return true
	}
	head := bytes.TrimLeft(data, " \t\r\n\uFEFF")
	return bytes.HasPrefix(head, []byte("<?xml")) || bytes.HasPrefix(head, []byte("<"))
}
