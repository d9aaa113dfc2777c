// Package csvtext decodes the CSV text published by the ticket spreadsheet.
//
// The decoder is a tolerant character scanner rather than a strict RFC 4180
// reader: it never fails, accepts mixed line endings and absorbs unbalanced
// quotes into the current field.
package csvtext

import "strings"

// Row is one decoded line of fields, positional and unnamed.
type Row []string

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Decode splits text into rows of fields. The first returned row is the
// header row when the text came from a spreadsheet export.
//
// Line endings are normalized to "\n" before scanning, including inside
// quoted fields. A line that contributes no characters at all is not
// emitted; a line of empty fields such as "a,,b" is.
func Decode(text string) []Row {
	if text == "" {
		return nil
	}
	text = lineEndings.Replace(text)

	var (
		rows     []Row
		row      Row
		field    strings.Builder
		inQuotes bool
		started  bool
	)

	endField := func() {
		row = append(row, field.String())
		field.Reset()
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '"':
			started = true
			if inQuotes && i+1 < len(text) && text[i+1] == '"' {
				field.WriteByte('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			started = true
			endField()
		case c == '\n' && !inQuotes:
			if started {
				endField()
				rows = append(rows, row)
			}
			row = nil
			field.Reset()
			started = false
		default:
			started = true
			field.WriteByte(c)
		}
	}

	if started {
		endField()
		rows = append(rows, row)
	}
	return rows
}
