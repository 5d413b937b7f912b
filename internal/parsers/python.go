package parsers

import (
	"fmt"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ronreiter/license-crawler/internal/models"
)

// PythonPyProjectParser parses pyproject.toml files
type PythonPyProjectParser struct{}

// CanParse returns true for pyproject.toml files
func (p *PythonPyProjectParser) CanParse(filename string) bool {
	return filename == "pyproject.toml"
}

// Normal and dev groups, each in order of preference. PEP 621 tables win over
// Poetry; Poetry 1.2+ group tables come last.
var (
	pyprojectNormalGroups = [][]string{
		{"project", "dependencies"},
		{"tool", "poetry", "dependencies"},
	}
	pyprojectDevGroups = [][]string{
		{"project", "optional-dependencies", "dev"},
		{"tool", "poetry", "dev-dependencies"},
		{"tool", "poetry", "group", "dev", "dependencies"},
	}
)

// Parse extracts dependencies from pyproject.toml content
func (p *PythonPyProjectParser) Parse(src Source, content []byte) ([]models.Dependency, error) {
	var doc map[string]any
	if err := toml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrFormat, src.Path, err)
	}

	var deps []models.Dependency
	for _, kind := range []models.Kind{models.KindNormal, models.KindDev} {
		groups := pyprojectNormalGroups
		if kind == models.KindDev {
			groups = pyprojectDevGroups
		}
		group := firstGroup(doc, groups)
		recs, err := ParseGroup(withoutInterpreter(group), Group{
			Ecosystem: models.EcosystemPython,
			Kind:      kind,
			Source:    src,
		})
		if err != nil {
			return nil, err
		}
		deps = append(deps, recs...)
	}
	return deps, nil
}

func firstGroup(doc map[string]any, paths [][]string) any {
	for _, p := range paths {
		if v, ok := lookup(doc, p...); ok {
			return v
		}
	}
	return nil
}

// withoutInterpreter drops Poetry's "python" key, which pins the interpreter
// rather than naming a package.
func withoutInterpreter(group any) any {
	m, ok := group.(map[string]any)
	if !ok {
		return group
	}
	if _, ok := m["python"]; !ok {
		return m
	}
	out := make(map[string]any, len(m)-1)
	for k, v := range m {
		if k != "python" {
			out[k] = v
		}
	}
	return out
}

// PythonRequirementsParser parses requirements.txt files
type PythonRequirementsParser struct{}

var devRequirementFiles = map[string]bool{
	"requirements-dev.txt":  true,
	"requirements-test.txt": true,
	"requirements_dev.txt":  true,
	"dev-requirements.txt":  true,
	"test-requirements.txt": true,
}

// CanParse returns true for requirements.txt files
func (p *PythonRequirementsParser) CanParse(filename string) bool {
	return filename == "requirements.txt" ||
		strings.HasSuffix(filename, "-requirements.txt") ||
		strings.HasSuffix(filename, "_requirements.txt") ||
		devRequirementFiles[filename]
}

// Parse extracts dependencies from requirements.txt content
func (p *PythonRequirementsParser) Parse(src Source, content []byte) ([]models.Dependency, error) {
	var entries []string
	for _, line := range strings.Split(string(content), "\n") {
		if entry := cleanRequirement(line); entry != "" {
			entries = append(entries, entry)
		}
	}

	kind := models.KindNormal
	if devRequirementFiles[path.Base(src.Path)] {
		kind = models.KindDev
	}
	return ParseGroup(entries, Group{
		Ecosystem: models.EcosystemPython,
		Kind:      kind,
		Source:    src,
	})
}

// cleanRequirement strips comments, pip options, extras and environment
// markers from one requirements line.
func cleanRequirement(line string) string {
	line = strings.TrimSpace(line)

	// Skip empty lines, comments, and options
	if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
		return ""
	}

	// Remove inline comments
	if idx := strings.Index(line, "#"); idx > 0 {
		line = strings.TrimSpace(line[:idx])
	}

	// Remove environment markers
	if idx := strings.Index(line, ";"); idx > 0 {
		line = strings.TrimSpace(line[:idx])
	}

	// Remove extras like [security]
	if idx := strings.Index(line, "["); idx > 0 {
		bracketEnd := strings.Index(line, "]")
		if bracketEnd > idx {
			line = strings.TrimSpace(line[:idx] + line[bracketEnd+1:])
		}
	}

	// URLs and local paths are not registry packages
	if strings.Contains(line, "://") || strings.HasPrefix(line, ".") || strings.HasPrefix(line, "/") {
		return ""
	}
	return line
}
