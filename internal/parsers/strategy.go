package parsers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ronreiter/license-crawler/internal/models"
)

// Shape is the structural form of one dependency group inside a manifest.
type Shape int

const (
	ShapeUnknown Shape = iota
	ShapeMapping       // name -> version
	ShapeList          // ["name>=1.0", ...]
)

func (s Shape) String() string {
	switch s {
	case ShapeMapping:
		return "mapping"
	case ShapeList:
		return "list"
	default:
		return "unknown"
	}
}

// constraintOperators are tried in this order; the first one present wins.
var constraintOperators = []string{">=", "==", "~="}

// Group identifies the dependency group being transformed into records.
type Group struct {
	Ecosystem models.Ecosystem
	Kind      models.Kind
	Source    Source
}

// DetectShape inspects a decoded group once and reports its form.
func DetectShape(doc any) Shape {
	switch doc.(type) {
	case map[string]any, map[string]string:
		return ShapeMapping
	case []any, []string:
		return ShapeList
	default:
		return ShapeUnknown
	}
}

// ParseGroup turns one decoded dependency group into records tagged with g.
// A nil group yields no records. Any shape other than mapping or list is a
// format error.
func ParseGroup(doc any, g Group) ([]models.Dependency, error) {
	if doc == nil {
		return nil, nil
	}
	switch DetectShape(doc) {
	case ShapeMapping:
		return parseMapping(toStringMap(doc), g), nil
	case ShapeList:
		return parseList(toAnySlice(doc), g), nil
	default:
		return nil, fmt.Errorf("%w: %s: unsupported dependency group of type %T", models.ErrFormat, g.Source.Path, doc)
	}
}

// parseMapping emits one record per key whose value is a non-empty string.
// Tables and other values usually point at local or VCS dependencies and are
// skipped.
func parseMapping(m map[string]any, g Group) []models.Dependency {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	var deps []models.Dependency
	for _, name := range names {
		version, ok := m[name].(string)
		name = strings.TrimSpace(name)
		if !ok || version == "" || name == "" {
			continue
		}
		deps = append(deps, newRecord(g, name, version, ""))
	}
	return deps
}

func parseList(entries []any, g Group) []models.Dependency {
	var deps []models.Dependency
	for _, e := range entries {
		raw, ok := e.(string)
		if !ok {
			continue
		}
		raw = strings.TrimSpace(raw)
		name, version := SplitConstraint(raw)
		if name == "" {
			continue
		}
		deps = append(deps, newRecord(g, name, version, raw))
	}
	return deps
}

// SplitConstraint splits "name<op>version" on the first operator found in
// the order >=, ==, ~=. The version keeps its operator. Without an operator
// the whole entry is the name.
func SplitConstraint(entry string) (name, version string) {
	entry = strings.TrimSpace(entry)
	for _, op := range constraintOperators {
		if idx := strings.Index(entry, op); idx >= 0 {
			name = strings.TrimSpace(entry[:idx])
			rest := strings.TrimSpace(entry[idx+len(op):])
			return name, op + rest
		}
	}
	return entry, ""
}

func newRecord(g Group, name, version, display string) models.Dependency {
	d := models.Dependency{
		Ecosystem: g.Ecosystem,
		Name:      name,
		Version:   version,
		Modified:  g.Source.Modified,
		Path:      g.Source.Path,
		Kind:      g.Kind,
	}
	if display == "" {
		display = d.Display()
	}
	d.NameWithVersion = display
	return d
}

func toStringMap(doc any) map[string]any {
	switch v := doc.(type) {
	case map[string]any:
		return v
	case map[string]string:
		m := make(map[string]any, len(v))
		for k, s := range v {
			m[k] = s
		}
		return m
	}
	return nil
}

func toAnySlice(doc any) []any {
	switch v := doc.(type) {
	case []any:
		return v
	case []string:
		s := make([]any, len(v))
		for i, e := range v {
			s[i] = e
		}
		return s
	}
	return nil
}

// lookup walks nested tables by key and returns the value at the end of path.
func lookup(doc map[string]any, path ...string) (any, bool) {
	var cur any = doc
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[key]; !ok {
			return nil, false
		}
	}
	return cur, true
}
