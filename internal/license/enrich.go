package license

import (
	"context"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/ronreiter/license-crawler/internal/models"
)

// DefaultWorkers is the default number of concurrent lookups
const DefaultWorkers = 10

// LicenseResolver is the lookup the Enricher fans out. Resolve must not fail;
// it reports problems through its return value.
type LicenseResolver interface {
	Resolve(ctx context.Context, eco models.Ecosystem, name string) string
}

// ecosystemOrder fixes the dispatch order of the partitions.
var ecosystemOrder = []models.Ecosystem{
	models.EcosystemPython,
	models.EcosystemJavaScript,
	models.EcosystemGo,
}

// Enricher fills in missing licenses using a bounded worker pool
type Enricher struct {
	resolver LicenseResolver
	workers  int
	logger   *log.Logger
}

// NewEnricher creates an Enricher running at most workers lookups at a time.
func NewEnricher(r LicenseResolver, workers int, logger *log.Logger) *Enricher {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Enricher{resolver: r, workers: workers, logger: logger}
}

// Enrich resolves the license of every record that has none and writes it
// back at the record's own index. It returns once all lookups finished; one
// failed lookup never cancels the others.
func (e *Enricher) Enrich(ctx context.Context, deps []models.Dependency) {
	parts := partition(deps)

	total := 0
	kv := make([]any, 0, 2*len(parts))
	for _, eco := range orderedKeys(parts) {
		total += len(parts[eco])
		kv = append(kv, string(eco), len(parts[eco]))
	}
	if total == 0 {
		return
	}
	e.logger.Info("Fetching license information", kv...)

	var g errgroup.Group
	g.SetLimit(e.workers)
	for _, eco := range orderedKeys(parts) {
		for _, idx := range parts[eco] {
			name := deps[idx].Name
			g.Go(func() error {
				deps[idx].License = e.resolve(ctx, eco, name)
				return nil
			})
		}
	}
	_ = g.Wait()

	e.logger.Debug("License fetching completed", "lookups", total)
}

// resolve shields sibling lookups from a panicking resolver.
func (e *Enricher) resolve(ctx context.Context, eco models.Ecosystem, name string) (license string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("license lookup panicked", "ecosystem", eco, "package", name, "err", fmt.Sprint(r))
			license = models.UnknownLicense
		}
	}()
	return e.resolver.Resolve(ctx, eco, name)
}

// partition groups the indexes of unlicensed records by ecosystem.
func partition(deps []models.Dependency) map[models.Ecosystem][]int {
	parts := make(map[models.Ecosystem][]int)
	for i, d := range deps {
		if d.HasLicense() {
			continue
		}
		parts[d.Ecosystem] = append(parts[d.Ecosystem], i)
	}
	return parts
}

// orderedKeys lists the known ecosystems in dispatch order, followed by any
// others sorted by name.
func orderedKeys(parts map[models.Ecosystem][]int) []models.Ecosystem {
	keys := make([]models.Ecosystem, 0, len(parts))
	known := make(map[models.Ecosystem]bool, len(ecosystemOrder))
	for _, eco := range ecosystemOrder {
		known[eco] = true
		if len(parts[eco]) > 0 {
			keys = append(keys, eco)
		}
	}
	var rest []models.Ecosystem
	for eco := range parts {
		if !known[eco] {
			rest = append(rest, eco)
		}
	}
	slices.Sort(rest)
	return append(keys, rest...)
}
