package parsers

import (
	"encoding/json"
	"fmt"

	"github.com/ronreiter/license-crawler/internal/models"
)

// NodePackageJSONParser parses package.json files (direct dependencies only)
type NodePackageJSONParser struct{}

// CanParse returns true for package.json files
func (p *NodePackageJSONParser) CanParse(filename string) bool {
	return filename == "package.json"
}

var packageJSONGroups = []struct {
	key  string
	kind models.Kind
}{
	{"dependencies", models.KindNormal},
	{"devDependencies", models.KindDev},
}

// Parse extracts dependencies from package.json content
func (p *NodePackageJSONParser) Parse(src Source, content []byte) ([]models.Dependency, error) {
	var doc map[string]any
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrFormat, src.Path, err)
	}

	var deps []models.Dependency
	for _, grp := range packageJSONGroups {
		recs, err := ParseGroup(doc[grp.key], Group{
			Ecosystem: models.EcosystemJavaScript,
			Kind:      grp.kind,
			Source:    src,
		})
		if err != nil {
			return nil, err
		}
		deps = append(deps, recs...)
	}
	return deps, nil
}
