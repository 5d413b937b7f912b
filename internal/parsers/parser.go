package parsers

import (
	"time"

	"github.com/ronreiter/license-crawler/internal/models"
)

// Source describes the manifest file being parsed.
type Source struct {
	Path     string // Slash-separated, relative to the repository root
	Modified time.Time
}

// Parser is the interface for dependency file parsers
type Parser interface {
	// CanParse returns true if this parser can handle the given filename
	CanParse(filename string) bool

	// Parse extracts dependencies from the file content
	Parse(src Source, content []byte) ([]models.Dependency, error)
}

// GetAllParsers returns all available parsers
func GetAllParsers(includeIndirect bool) []Parser {
	return []Parser{
		&PythonPyProjectParser{},
		&PythonRequirementsParser{},
		&NodePackageJSONParser{},
		&GoModParser{IncludeIndirect: includeIndirect},
	}
}
