package parsers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronreiter/license-crawler/internal/models"
)

var testSource = Source{Path: "svc/pyproject.toml", Modified: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}

func pythonGroup(kind models.Kind) Group {
	return Group{Ecosystem: models.EcosystemPython, Kind: kind, Source: testSource}
}

func TestDetectShape(t *testing.T) {
	tests := []struct {
		name string
		doc  any
		want Shape
	}{
		{"any map", map[string]any{"a": "1"}, ShapeMapping},
		{"string map", map[string]string{"a": "1"}, ShapeMapping},
		{"any list", []any{"a"}, ShapeList},
		{"string list", []string{"a"}, ShapeList},
		{"scalar", "requests", ShapeUnknown},
		{"number", 3, ShapeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectShape(tt.doc))
		})
	}
}

func TestParseGroupMappingSkipsEmptyValues(t *testing.T) {
	deps, err := ParseGroup(map[string]any{"requests": "2.25.1", "flask": ""}, pythonGroup(models.KindNormal))
	require.NoError(t, err)
	require.Len(t, deps, 1)

	d := deps[0]
	assert.Equal(t, "requests", d.Name)
	assert.Equal(t, "2.25.1", d.Version)
	assert.Equal(t, "requests==2.25.1", d.NameWithVersion)
	assert.Equal(t, models.KindNormal, d.Kind)
	assert.Equal(t, "svc/pyproject.toml", d.Path)
	assert.Equal(t, testSource.Modified, d.Modified)
	assert.Empty(t, d.License)
}

func TestParseGroupMappingOneRecordPerStringKey(t *testing.T) {
	doc := map[string]any{
		"zeta":   "^1.0",
		"alpha":  "*",
		"local":  map[string]any{"path": "../local"},
		"git":    map[string]any{"git": "https://example.com/x.git"},
		"flag":   true,
		"pinned": "==3.1",
	}
	deps, err := ParseGroup(doc, pythonGroup(models.KindDev))
	require.NoError(t, err)

	var names []string
	for _, d := range deps {
		names = append(names, d.Name)
		assert.Equal(t, doc[d.Name], d.Version)
		assert.Equal(t, models.KindDev, d.Kind)
	}
	assert.Equal(t, []string{"alpha", "pinned", "zeta"}, names)
}

func TestParseGroupMappingJavaScriptSeparator(t *testing.T) {
	g := Group{Ecosystem: models.EcosystemJavaScript, Kind: models.KindNormal, Source: testSource}
	deps, err := ParseGroup(map[string]string{"react": "^18.2.0"}, g)
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, "react@^18.2.0", deps[0].NameWithVersion)
}

func TestParseGroupList(t *testing.T) {
	deps, err := ParseGroup([]any{"click>=8.0", "django==4.2", "attrs~=23.1", "rich", 42, "  "}, pythonGroup(models.KindNormal))
	require.NoError(t, err)
	require.Len(t, deps, 4)

	assert.Equal(t, "click", deps[0].Name)
	assert.Equal(t, ">=8.0", deps[0].Version)
	assert.Equal(t, "click>=8.0", deps[0].NameWithVersion)

	assert.Equal(t, "django", deps[1].Name)
	assert.Equal(t, "==4.2", deps[1].Version)

	assert.Equal(t, "attrs", deps[2].Name)
	assert.Equal(t, "~=23.1", deps[2].Version)

	assert.Equal(t, "rich", deps[3].Name)
	assert.Empty(t, deps[3].Version)
	assert.Equal(t, "rich", deps[3].NameWithVersion)
}

func TestParseGroupRejectsScalars(t *testing.T) {
	_, err := ParseGroup("requests", pythonGroup(models.KindNormal))
	require.ErrorIs(t, err, models.ErrFormat)
}

func TestParseGroupNil(t *testing.T) {
	deps, err := ParseGroup(nil, pythonGroup(models.KindNormal))
	require.NoError(t, err)
	assert.Empty(t, deps)
}

func TestSplitConstraint(t *testing.T) {
	tests := []struct {
		entry, name, version string
	}{
		{"click>=8.0", "click", ">=8.0"},
		{"pkg>=1.0", "pkg", ">=1.0"},
		{"django == 4.2", "django", "==4.2"},
		{"attrs~=23.1", "attrs", "~=23.1"},
		{"pkg>=1.0,==1.5", "pkg", ">=1.0,==1.5"},
		// >= is tried before == regardless of position
		{"pkg==1.0,>=0.9", "pkg==1.0,", ">=0.9"},
		{"requests", "requests", ""},
		// != is not a known operator, so the entry stays whole
		{"pkg!=1.0", "pkg!=1.0", ""},
	}
	for _, tt := range tests {
		t.Run(tt.entry, func(t *testing.T) {
			name, version := SplitConstraint(tt.entry)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.version, version)
		})
	}
}
