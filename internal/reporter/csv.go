package reporter

import (
	"bytes"
	"encoding/csv"
)

// CSVReporter outputs one line per row with a header
type CSVReporter struct{}

// Report generates CSV output for the given rows
func (r *CSVReporter) Report(rows []Row) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Columns); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row.Values()); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
