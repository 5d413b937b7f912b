package models

import "time"

// OwnerKind scopes persisted results: an organization, a user, or nothing.
type OwnerKind string

const (
	OwnerNone OwnerKind = ""
	OwnerOrg  OwnerKind = "org"
	OwnerUser OwnerKind = "user"
)

// Config holds configuration for a crawler invocation
type Config struct {
	// Output settings
	OutputDir  string // Root of the persisted record tree
	Store      string // "file" or "sqlite"
	SQLitePath string // Database file for the sqlite store

	// Owner scope of the repositories being scanned
	OwnerKind OwnerKind
	OwnerName string

	// Behavior settings
	FetchLicenses   bool // Resolve licenses through package registries
	IncludeIndirect bool // Keep indirect go.mod requirements
	MaxRepos        int  // Upper bound on repositories for user/org scans (0 = all)

	// API settings
	GitHubToken string
	Timeout     time.Duration // Per registry request
	MaxWorkers  int           // Concurrent license lookups
	CacheSize   int           // License cache capacity
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		OutputDir:     "license_data",
		Store:         "file",
		FetchLicenses: true,
		Timeout:       10 * time.Second,
		MaxWorkers:    10,
		CacheSize:     8192,
	}
}

// Workers returns MaxWorkers, falling back to the default pool size.
func (c *Config) Workers() int {
	if c.MaxWorkers <= 0 {
		return 10
	}
	return c.MaxWorkers
}
