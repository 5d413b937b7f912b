// Package license resolves, enriches and standardizes dependency licenses.
//
// A [Resolver] looks licenses up in public package registries through one
// [Fetcher] per ecosystem and remembers every answer, including failures, in
// a process-scoped cache. An [Enricher] fans lookups for a batch of records
// out over a bounded worker pool. [Standardize] folds verbose license text
// into a small set of canonical family labels.
package license

import (
	"context"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/ronreiter/license-crawler/internal/cache"
	"github.com/ronreiter/license-crawler/internal/models"
)

// Fetcher looks up the license of one package in a registry. An empty
// result means the registry declares no license.
type Fetcher interface {
	FetchLicense(ctx context.Context, name string) (string, error)
}

// Resolver returns best-effort license strings and owns the license cache.
// It is safe for concurrent use.
type Resolver struct {
	cache    *cache.LicenseCache
	fetchers map[models.Ecosystem]Fetcher
	inflight singleflight.Group
	logger   *log.Logger
}

// NewResolver creates a Resolver backed by c. Ecosystems without a fetcher
// always resolve to models.UnknownLicense.
func NewResolver(c *cache.LicenseCache, fetchers map[models.Ecosystem]Fetcher, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{cache: c, fetchers: fetchers, logger: logger}
}

// Resolve returns the license of name in eco. It never fails: lookup errors,
// timeouts and empty answers yield models.UnknownLicense. Every outcome is
// cached, so a package costs at most one registry call per run. Concurrent
// misses for the same package share a single call.
func (r *Resolver) Resolve(ctx context.Context, eco models.Ecosystem, name string) string {
	if license, ok := r.cache.Get(eco, name); ok {
		return license
	}

	v, _, _ := r.inflight.Do(string(eco)+"\x00"+name, func() (any, error) {
		if license, ok := r.cache.Get(eco, name); ok {
			return license, nil
		}
		license := r.lookup(ctx, eco, name)
		r.cache.Set(eco, name, license)
		return license, nil
	})
	return v.(string)
}

func (r *Resolver) lookup(ctx context.Context, eco models.Ecosystem, name string) string {
	f, ok := r.fetchers[eco]
	if !ok {
		r.logger.Debug("no registry for ecosystem", "ecosystem", eco, "package", name)
		return models.UnknownLicense
	}

	license, err := f.FetchLicense(ctx, name)
	if err != nil {
		r.logger.Warn("license lookup failed", "ecosystem", eco, "package", name, "err", err)
		return models.UnknownLicense
	}
	if license == "" {
		return models.UnknownLicense
	}
	return license
}
