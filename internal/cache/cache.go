package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ronreiter/license-crawler/internal/models"
)

// DefaultSize is the default number of cached licenses
const DefaultSize = 8192

// Key identifies a package within its ecosystem
type Key struct {
	Ecosystem models.Ecosystem
	Name      string
}

// LicenseCache holds resolved license strings for the lifetime of one crawler
// run. It is safe for concurrent use and never written to disk.
type LicenseCache struct {
	entries *lru.Cache[Key, string]
}

// New creates a license cache holding at most size entries
func New(size int) (*LicenseCache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[Key, string](size)
	if err != nil {
		return nil, err
	}
	return &LicenseCache{entries: entries}, nil
}

// Get returns the cached license for a package
func (c *LicenseCache) Get(eco models.Ecosystem, name string) (string, bool) {
	return c.entries.Get(Key{Ecosystem: eco, Name: name})
}

// Set stores the license for a package, replacing any previous value
func (c *LicenseCache) Set(eco models.Ecosystem, name, license string) {
	c.entries.Add(Key{Ecosystem: eco, Name: name}, license)
}

// Len returns the number of cached packages
func (c *LicenseCache) Len() int {
	return c.entries.Len()
}

// Clear removes all cached entries
func (c *LicenseCache) Clear() {
	c.entries.Purge()
}
