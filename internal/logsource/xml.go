package logsource

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/dgrzelak/udscope/api/schemas"
)

// timestampAttrs are attribute names checked, in order, for a per-record
// timestamp worth carrying onto the entry.
var timestampAttrs = []string{"timestamp", "time", "ts"}

// parseXML flattens an XML session export into ordered entries: every
// element with text content becomes one entry whose display string is
// "tag: text" plus its attributes. Element order in the document defines
// entry order, which keeps the correlation windows meaningful.
func parseXML(data []byte) ([]schemas.LogEntry, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to parse XML log: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("XML log has no root element")
	}

	var entries []schemas.LogEntry
	line := 0
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		if text := strings.TrimSpace(el.Text()); text != "" {
			line++
			entries = append(entries, schemas.LogEntry{
				Line:      line,
				Text:      displayString(el, text),
				Timestamp: timestampOf(el),
			})
		}
		for _, child := range el.ChildElements() {
			walk(child)
		}
	}
	walk(root)

	if len(entries) == 0 {
		return nil, fmt.Errorf("XML log contained no text content")
	}
	return entries, nil
}

func displayString(el *etree.Element, text string) string {
	var b strings.Builder
	b.WriteString(el.Tag)
	for _, attr := range el.Attr {
		b.WriteString(" ")
		b.WriteString(attr.Key)
		b.WriteString("=")
		b.WriteString(attr.Value)
	}
	b.WriteString(": ")
	b.WriteString(text)
	return b.String()
}

func timestampOf(el *etree.Element) string {
	for _, name := range timestampAttrs {
		if attr := el.SelectAttr(name); attr != nil && attr.Value != "" {
			return attr.Value
		}
	}
	return ""
}
