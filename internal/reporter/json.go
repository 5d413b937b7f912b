package reporter

import "encoding/json"

// JSONReporter outputs rows as an indented JSON array
type JSONReporter struct{}

// Report generates JSON output for the given rows
func (r *JSONReporter) Report(rows []Row) ([]byte, error) {
	if rows == nil {
		rows = []Row{}
	}
	return json.MarshalIndent(rows, "", "  ")
}
