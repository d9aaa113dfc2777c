// Package ticket turns decoded spreadsheet rows into ticket records and
// derives the facets the board displays for each of them.
package ticket

import (
	"strings"
	"unicode"
)

// Column names used by the ticket spreadsheet.
const (
	ColumnTimestamp   = "Carimbo de data/hora"
	ColumnID          = "Numero do Chamado"
	ColumnTitle       = "Titulo"
	ColumnDescription = "Assunto"
	ColumnStatus      = "Status"
	ColumnSystem      = "Sistema"
)

// Record is one ticket keyed by header name. Keys keep header order and
// every record of a decode shares the header's key set.
type Record struct {
	keys   []string
	values map[string]string
}

// NewRecord builds a record from parallel header and value slices. Missing
// values are empty strings, extra values are dropped, and a repeated header
// keeps its first position with the last value.
func NewRecord(headers, values []string) Record {
	r := Record{values: make(map[string]string, len(headers))}
	for i, h := range headers {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		if _, seen := r.values[h]; !seen {
			r.keys = append(r.keys, h)
		}
		r.values[h] = v
	}
	return r
}

// Get returns the field value, or "" when the column is absent.
func (r Record) Get(key string) string {
	return r.values[key]
}

// Has reports whether the record carries the column.
func (r Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Keys returns the column names in header order.
func (r Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len is the number of columns.
func (r Record) Len() int {
	return len(r.keys)
}

// Values returns the field values in header order.
func (r Record) Values() []string {
	out := make([]string, len(r.keys))
	for i, k := range r.keys {
		out[i] = r.values[k]
	}
	return out
}

func (r Record) ID() string          { return r.Get(ColumnID) }
func (r Record) Title() string       { return r.Get(ColumnTitle) }
func (r Record) Description() string { return r.Get(ColumnDescription) }
func (r Record) Timestamp() string   { return r.Get(ColumnTimestamp) }

// System is the trimmed "Sistema" value as shown on the badge.
func (r Record) System() string { return trimField(r.Get(ColumnSystem)) }

// trimField trims the same set JavaScript's String.prototype.trim does,
// which includes the byte order mark Google Sheets may prepend. NEL
// (U+0085) is a Go space but not a JavaScript one.
func trimField(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		if r == '\u0085' {
			return false
		}
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}
