package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronreiter/license-crawler/internal/models"
)

const pep621Project = `
[project]
name = "demo"
dependencies = [
  "requests>=2.25.1",
  "pydantic==2.5.0",
  "rich",
]

[project.optional-dependencies]
dev = ["pytest~=7.4", "black"]
docs = ["sphinx"]
`

const poetryProject = `
[tool.poetry]
name = "demo"

[tool.poetry.dependencies]
python = "^3.10"
fastapi = "^0.104.1"
mylib = { path = "../mylib", develop = true }
uvicorn = { version = "^0.24", extras = ["standard"] }

[tool.poetry.group.dev.dependencies]
pytest = "^7.4"
`

func TestPyProjectPEP621(t *testing.T) {
	p := &PythonPyProjectParser{}
	deps, err := p.Parse(testSource, []byte(pep621Project))
	require.NoError(t, err)
	require.Len(t, deps, 5)

	assert.Equal(t, "requests", deps[0].Name)
	assert.Equal(t, ">=2.25.1", deps[0].Version)
	assert.Equal(t, "requests>=2.25.1", deps[0].NameWithVersion)
	assert.Equal(t, models.KindNormal, deps[2].Kind)

	assert.Equal(t, "pytest", deps[3].Name)
	assert.Equal(t, models.KindDev, deps[3].Kind)
	assert.Equal(t, "black", deps[4].Name)
	for _, d := range deps {
		assert.Equal(t, models.EcosystemPython, d.Ecosystem)
		assert.NotEqual(t, "sphinx", d.Name)
	}
}

func TestPyProjectPoetry(t *testing.T) {
	p := &PythonPyProjectParser{}
	deps, err := p.Parse(testSource, []byte(poetryProject))
	require.NoError(t, err)
	require.Len(t, deps, 2)

	assert.Equal(t, "fastapi", deps[0].Name)
	assert.Equal(t, "^0.104.1", deps[0].Version)
	assert.Equal(t, "fastapi==^0.104.1", deps[0].NameWithVersion)
	assert.Equal(t, models.KindNormal, deps[0].Kind)

	assert.Equal(t, "pytest", deps[1].Name)
	assert.Equal(t, models.KindDev, deps[1].Kind)
}

func TestPyProjectPoetryLegacyDevDependencies(t *testing.T) {
	content := `
[tool.poetry.dependencies]
python = "^3.9"

[tool.poetry.dev-dependencies]
mypy = "1.7.0"
`
	deps, err := (&PythonPyProjectParser{}).Parse(testSource, []byte(content))
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, "mypy", deps[0].Name)
	assert.Equal(t, models.KindDev, deps[0].Kind)
}

func TestPyProjectMalformed(t *testing.T) {
	_, err := (&PythonPyProjectParser{}).Parse(testSource, []byte("[project\ndependencies = "))
	require.ErrorIs(t, err, models.ErrFormat)
}

func TestPyProjectWrongGroupType(t *testing.T) {
	_, err := (&PythonPyProjectParser{}).Parse(testSource, []byte("[project]\ndependencies = \"requests\"\n"))
	require.ErrorIs(t, err, models.ErrFormat)
}

func TestRequirementsParser(t *testing.T) {
	content := `
# core
requests==2.31.0  # http
flask[async]>=2.0
-r base.txt
--hash=sha256:abc
numpy ; python_version > "3.8"
git+https://github.com/org/repo.git
./local/pkg
`
	src := Source{Path: "requirements.txt"}
	deps, err := (&PythonRequirementsParser{}).Parse(src, []byte(content))
	require.NoError(t, err)
	require.Len(t, deps, 3)

	assert.Equal(t, "requests", deps[0].Name)
	assert.Equal(t, "==2.31.0", deps[0].Version)
	assert.Equal(t, "requests==2.31.0", deps[0].NameWithVersion)
	assert.Equal(t, "flask", deps[1].Name)
	assert.Equal(t, ">=2.0", deps[1].Version)
	assert.Equal(t, "numpy", deps[2].Name)
	assert.Empty(t, deps[2].Version)
	for _, d := range deps {
		assert.Equal(t, models.KindNormal, d.Kind)
	}
}

func TestRequirementsParserDevFile(t *testing.T) {
	src := Source{Path: "tools/requirements-dev.txt"}
	deps, err := (&PythonRequirementsParser{}).Parse(src, []byte("pytest\n"))
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, models.KindDev, deps[0].Kind)
}

func TestRequirementsCanParse(t *testing.T) {
	p := &PythonRequirementsParser{}
	assert.True(t, p.CanParse("requirements.txt"))
	assert.True(t, p.CanParse("prod-requirements.txt"))
	assert.True(t, p.CanParse("requirements-dev.txt"))
	assert.False(t, p.CanParse("requirements.in"))
	assert.False(t, p.CanParse("pyproject.toml"))
}
