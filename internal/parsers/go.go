package parsers

import (
	"fmt"

	"github.com/ronreiter/license-crawler/internal/models"
	"golang.org/x/mod/modfile"
)

// GoModParser parses go.mod files
type GoModParser struct {
	IncludeIndirect bool // Whether to include indirect dependencies
}

// CanParse returns true for go.mod files
func (p *GoModParser) CanParse(filename string) bool {
	return filename == "go.mod"
}

// Parse extracts dependencies from go.mod content
func (p *GoModParser) Parse(src Source, content []byte) ([]models.Dependency, error) {
	mod, err := modfile.ParseLax(src.Path, content, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrFormat, src.Path, err)
	}

	requires := make(map[string]any, len(mod.Require))
	for _, req := range mod.Require {
		// Skip indirect deps unless explicitly requested
		if req.Indirect && !p.IncludeIndirect {
			continue
		}
		requires[req.Mod.Path] = req.Mod.Version
	}

	return ParseGroup(requires, Group{
		Ecosystem: models.EcosystemGo,
		Kind:      models.KindNormal,
		Source:    src,
	})
}
