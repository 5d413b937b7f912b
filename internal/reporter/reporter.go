// Package reporter flattens persisted dependency collections into rows and
// renders them in several output formats.
package reporter

import (
	"fmt"
	"strings"
)

// Reporter is the interface for output formatters
type Reporter interface {
	// Report renders the given rows
	Report(rows []Row) ([]byte, error)
}

// Formats lists the supported output formats
var Formats = []string{"csv", "json", "table", "classified"}

// Get returns a reporter for the specified format. frontendRepos is only
// used by the classified format.
func Get(format string, frontendRepos []string) (Reporter, error) {
	switch strings.ToLower(format) {
	case "", "csv":
		return &CSVReporter{}, nil
	case "json":
		return &JSONReporter{}, nil
	case "table":
		return &TableReporter{}, nil
	case "classified":
		return NewClassifiedReporter(frontendRepos), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}
