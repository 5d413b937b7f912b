package reporter

import (
	"bytes"
	"encoding/csv"
	"strings"

	"github.com/ronreiter/license-crawler/internal/models"
)

// Dependency classes
const (
	ClassDev      = "dev"
	ClassFrontend = "frontend"
	ClassBackend  = "backend"
)

// ClassifiedReporter reduces rows to package, license and a dependency
// class derived from the dependency kind and the repository.
type ClassifiedReporter struct {
	frontend map[string]bool
}

// NewClassifiedReporter creates a ClassifiedReporter treating the named
// repositories as frontend code.
func NewClassifiedReporter(frontendRepos []string) *ClassifiedReporter {
	frontend := make(map[string]bool, len(frontendRepos))
	for _, r := range frontendRepos {
		if r = strings.TrimSpace(r); r != "" {
			frontend[r] = true
		}
	}
	return &ClassifiedReporter{frontend: frontend}
}

// Classify returns dev for dev dependencies, frontend for dependencies of a
// frontend repository, and backend otherwise.
func (r *ClassifiedReporter) Classify(row Row) string {
	switch {
	case row.DependencyKind == string(models.KindDev):
		return ClassDev
	case r.frontend[row.RepoName]:
		return ClassFrontend
	default:
		return ClassBackend
	}
}

// Report generates the classified CSV
func (r *ClassifiedReporter) Report(rows []Row) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"package_name", "license", "dependency_class"}); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write([]string{row.PackageName, row.License, r.Classify(row)}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
