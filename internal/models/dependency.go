package models

import "time"

// Ecosystem represents a package ecosystem
type Ecosystem string

const (
	EcosystemPython     Ecosystem = "python"
	EcosystemJavaScript Ecosystem = "javascript"
	EcosystemGo         Ecosystem = "go"
)

// Separator returns the string placed between name and version in display form.
func (e Ecosystem) Separator() string {
	if e == EcosystemPython {
		return "=="
	}
	return "@"
}

// Kind tells whether a dependency is needed at runtime or only for development.
type Kind string

const (
	KindNormal Kind = "normal"
	KindDev    Kind = "dev"
)

// UnknownLicense is stored when a license could not be resolved.
const UnknownLicense = "Unknown"

// Dependency represents one declared dependency occurrence in a manifest.
// The JSON tags define the persisted record shape.
type Dependency struct {
	Ecosystem       Ecosystem `json:"ecosystem"`
	Name            string    `json:"package_name"`
	Version         string    `json:"package_version"`
	NameWithVersion string    `json:"package_with_version"`
	Modified        time.Time `json:"source_file_modified"`
	Path            string    `json:"source_file_path"` // relative to the repository root
	Kind            Kind      `json:"dependency_kind"`
	License         string    `json:"license,omitempty"`
}

// Display returns the explicit name-with-version form, or derives it from
// name, version and the ecosystem separator.
func (d Dependency) Display() string {
	if d.NameWithVersion != "" {
		return d.NameWithVersion
	}
	if d.Version == "" {
		return d.Name
	}
	return d.Name + d.Ecosystem.Separator() + d.Version
}

// HasLicense reports whether the license field was already resolved.
func (d Dependency) HasLicense() bool {
	return d.License != ""
}

// String returns a human-readable representation
func (d Dependency) String() string {
	return string(d.Ecosystem) + ":" + d.Display()
}
