// Package tabular converts between CSV/TSV text and the relational
// shape/row model. It is a pure text transform plus store calls: no state
// is kept between conversions.
package tabular

import (
	"regexp"
	"strings"
)

// Delimiters supported for input and output.
const (
	Comma = ','
	Tab   = '\t'
)

var lineBreak = regexp.MustCompile(`\r\n|\n`)

// splitLines splits on CRLF or LF and drops blank lines entirely.
func splitLines(content string) []string {
	var lines []string
	for _, line := range lineBreak.Split(content, -1) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// detectDelimiter counts tabs vs commas in the first line. More tabs than
// commas means TSV, everything else is CSV. No BOM or multi-line sniffing.
func detectDelimiter(firstLine string) rune {
	if strings.Count(firstLine, "\t") > strings.Count(firstLine, ",") {
		return Tab
	}
	return Comma
}

// parseLine splits one line into fields with a manual quote-aware scan.
// A double quote toggles quoted mode, a doubled "" inside quotes emits one
// literal quote, and the delimiter only separates outside quotes. Every
// field is trimmed after extraction.
func parseLine(line string, delim rune) []string {
	var fields []string
	var field strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				field.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == delim && !inQuotes:
			fields = append(fields, strings.TrimSpace(field.String()))
			field.Reset()
		default:
			field.WriteRune(ch)
		}
	}
	fields = append(fields, strings.TrimSpace(field.String()))

	return fields
}

// escapeCell wraps a cell in double quotes (doubling internal quotes)
// whenever it contains the active delimiter, a quote, or a newline.
func escapeCell(cell string, delim rune) string {
	if !strings.ContainsAny(cell, string(delim)+"\"\n\r") {
		return cell
	}
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}
