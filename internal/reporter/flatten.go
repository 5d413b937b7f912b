package reporter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/package-url/packageurl-go"

	"github.com/ronreiter/license-crawler/internal/license"
	"github.com/ronreiter/license-crawler/internal/models"
	"github.com/ronreiter/license-crawler/internal/store"
)

// Row is one dependency record together with the repository it came from.
type Row struct {
	RepoName           string `json:"repo_name"`
	OwnerName          string `json:"owner_name"`
	Ecosystem          string `json:"ecosystem"`
	PackageName        string `json:"package_name"`
	PackageVersion     string `json:"package_version"`
	PackageWithVersion string `json:"package_with_version"`
	SourceFileModified string `json:"source_file_modified"`
	SourceFilePath     string `json:"source_file_path"`
	DependencyKind     string `json:"dependency_kind"`
	License            string `json:"license"`
	PURL               string `json:"purl"`
}

// Columns is the header used by tabular outputs, in Row field order.
var Columns = []string{
	"repo_name", "owner_name", "ecosystem", "package_name", "package_version",
	"package_with_version", "source_file_modified", "source_file_path",
	"dependency_kind", "license", "purl",
}

// Values returns the row in Columns order
func (r Row) Values() []string {
	return []string{
		r.RepoName, r.OwnerName, r.Ecosystem, r.PackageName, r.PackageVersion,
		r.PackageWithVersion, r.SourceFileModified, r.SourceFilePath,
		r.DependencyKind, r.License, r.PURL,
	}
}

// Flatten reads every collection in st and turns each record into a Row
// with its license standardized. Collections that cannot be loaded are
// skipped; their errors are joined into the returned error while the rows of
// all other collections are still returned.
func Flatten(st store.Store) ([]Row, error) {
	owners, err := st.Owners()
	if err != nil {
		return nil, err
	}

	var (
		rows []Row
		errs []error
	)
	for _, owner := range owners {
		keys, err := st.Keys(owner)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, key := range keys {
			deps, err := st.Load(key)
			if err != nil {
				errs = append(errs, fmt.Errorf("error processing %s: %w", key, err))
				continue
			}
			for _, d := range deps {
				rows = append(rows, NewRow(key, d))
			}
		}
	}
	return rows, errors.Join(errs...)
}

// NewRow builds the row for one record stored under key
func NewRow(key store.Key, d models.Dependency) Row {
	var modified string
	if !d.Modified.IsZero() {
		modified = d.Modified.Format(time.RFC3339)
	}
	return Row{
		RepoName:           key.Repo,
		OwnerName:          key.Owner.Name,
		Ecosystem:          string(d.Ecosystem),
		PackageName:        d.Name,
		PackageVersion:     d.Version,
		PackageWithVersion: d.Display(),
		SourceFileModified: modified,
		SourceFilePath:     d.Path,
		DependencyKind:     string(d.Kind),
		License:            license.Standardize(d.License),
		PURL:               PackageURL(d),
	}
}

// plainVersion matches exact versions; constraint expressions do not match.
var plainVersion = regexp.MustCompile(`^v?\d+(\.\d+)*([-+][0-9A-Za-z.+-]+)?$`)

// PackageURL returns the purl of a record. The version is only included
// when it is an exact version. Unknown ecosystems yield "".
func PackageURL(d models.Dependency) string {
	var (
		purlType  string
		namespace string
		name      = d.Name
	)
	switch d.Ecosystem {
	case models.EcosystemPython:
		purlType = packageurl.TypePyPi
		name = strings.ReplaceAll(strings.ToLower(name), "_", "-")
	case models.EcosystemJavaScript:
		purlType = packageurl.TypeNPM
		if strings.HasPrefix(name, "@") {
			if i := strings.Index(name, "/"); i > 0 {
				namespace, name = name[:i], name[i+1:]
			}
		}
	case models.EcosystemGo:
		purlType = packageurl.TypeGolang
		if i := strings.LastIndex(name, "/"); i > 0 {
			namespace, name = name[:i], name[i+1:]
		}
	default:
		return ""
	}

	version := strings.TrimSpace(d.Version)
	if !plainVersion.MatchString(version) {
		version = ""
	}
	return packageurl.NewPackageURL(purlType, namespace, name, version, nil, "").ToString()
}
