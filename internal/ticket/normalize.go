package ticket

import "ticketboard/internal/csvtext"

// Normalize zips the header row with every data row. Header names and
// values are trimmed; short rows are padded with "" and long rows cut to
// the header length.
func Normalize(rows []csvtext.Row) []Record {
	if len(rows) == 0 {
		return nil
	}

	headers := Headers(rows)
	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		values := make([]string, len(headers))
		for i := range headers {
			if i < len(row) {
				values[i] = trimField(row[i])
			}
		}
		records = append(records, NewRecord(headers, values))
	}
	return records
}

// Headers returns the trimmed header row, or nil when there are no rows.
func Headers(rows []csvtext.Row) []string {
	if len(rows) == 0 {
		return nil
	}
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = trimField(h)
	}
	return headers
}

// Parse decodes CSV text and normalizes it into records.
func Parse(text string) []Record {
	return Normalize(csvtext.Decode(text))
}

// Encode writes records back to CSV text under the given headers.
func Encode(headers []string, records []Record) string {
	rows := make([]csvtext.Row, 0, len(records)+1)
	rows = append(rows, csvtext.Row(headers))
	for _, r := range records {
		row := make(csvtext.Row, len(headers))
		for i, h := range headers {
			row[i] = r.Get(h)
		}
		rows = append(rows, row)
	}
	return csvtext.Encode(rows)
}
