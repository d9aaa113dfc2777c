package csvtext

import (
	"encoding/csv"
	"strings"
)

// Encode writes rows as CSV text with "\n" line endings, quoting fields
// that contain commas, quotes or line breaks so Decode reads them back
// unchanged. A row holding a single empty field is written as `""` since
// Decode drops empty lines.
func Encode(rows []Row) string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	for _, row := range rows {
		if len(row) == 1 && row[0] == "" {
			w.Flush()
			b.WriteString("\"\"\n")
			continue
		}
		// strings.Builder never returns a write error.
		_ = w.Write(row)
	}
	w.Flush()
	return b.String()
}
