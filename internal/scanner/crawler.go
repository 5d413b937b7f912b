// Package scanner turns repositories into persisted dependency collections.
//
// A Scanner handles one local directory tree. A Crawler drives the full
// per-repository flow (materialize, discover, parse, enrich, persist) and
// the user and organization batch scans built on top of it.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/ronreiter/license-crawler/internal/clients"
	"github.com/ronreiter/license-crawler/internal/gitrepo"
	"github.com/ronreiter/license-crawler/internal/models"
	"github.com/ronreiter/license-crawler/internal/store"
)

// State is the terminal state of one repository scan
type State string

const (
	StateSuccess State = "success"
	StateEmpty   State = "empty"
	StateFailed  State = "failed"
)

// Outcome reports the result of scanning one repository
type Outcome struct {
	Repo    string
	URL     string
	State   State
	Records int
	Files   []FileResult
	Err     error
}

// RepoLister enumerates the repositories of a user or organization
type RepoLister interface {
	ListRepositories(ctx context.Context, kind models.OwnerKind, name string, limit int) ([]clients.Repository, error)
}

// Crawler scans repositories one at a time and persists their records
type Crawler struct {
	config       *models.Config
	scanner      *Scanner
	materializer gitrepo.Materializer
	store        store.Store
	lister       RepoLister
	logger       *log.Logger
}

// NewCrawler wires a Crawler. lister is only needed for ScanOwner.
func NewCrawler(config *models.Config, sc *Scanner, m gitrepo.Materializer, st store.Store, lister RepoLister, logger *log.Logger) *Crawler {
	if logger == nil {
		logger = log.Default()
	}
	return &Crawler{
		config:       config,
		scanner:      sc,
		materializer: m,
		store:        st,
		lister:       lister,
		logger:       logger,
	}
}

// ScanRepository scans the repository at url and persists it under the
// owner scope of the configuration.
func (c *Crawler) ScanRepository(ctx context.Context, url string) Outcome {
	owner := store.Owner{Kind: c.config.OwnerKind, Name: c.config.OwnerName}
	return c.scanRepository(ctx, owner, url)
}

func (c *Crawler) scanRepository(ctx context.Context, owner store.Owner, url string) Outcome {
	out := Outcome{Repo: gitrepo.RepoName(url), URL: url}
	logger := c.logger.With("repo", out.Repo)
	logger.Info("Scanning repository")

	failed := func(err error) Outcome {
		out.State = StateFailed
		out.Err = err
		logger.Error("Error scanning repository", "url", url, "err", err)
		return out
	}

	if out.Repo == "" {
		return failed(fmt.Errorf("%w: cannot derive repository name from %q", models.ErrRetrieval, url))
	}

	tmp, err := os.MkdirTemp("", "license-crawler-*")
	if err != nil {
		return failed(fmt.Errorf("%w: %v", models.ErrRetrieval, err))
	}
	defer os.RemoveAll(tmp)

	if err := c.materializer.Materialize(ctx, url, tmp); err != nil {
		if !errors.Is(err, models.ErrRetrieval) {
			err = fmt.Errorf("%w: %v", models.ErrRetrieval, err)
		}
		return failed(err)
	}

	result, err := c.scanner.ScanDir(ctx, tmp)
	if err != nil {
		return failed(err)
	}
	out.Files = result.Files
	out.Records = len(result.Records)

	if len(result.Records) == 0 {
		out.State = StateEmpty
		logger.Info("No dependencies found")
		return out
	}

	key := store.Key{Owner: owner, Repo: out.Repo}
	if err := c.store.Save(key, result.Records); err != nil {
		return failed(err)
	}

	out.State = StateSuccess
	logger.Info("Saved dependencies", "key", key.String(), "dependencies", out.Records, "failed_files", result.Failed())
	return out
}

// ScanOwner lists the repositories of a user or organization and scans them
// sequentially. When listing fails part way, the repositories listed so far
// are still scanned and the listing error is returned alongside their
// outcomes.
func (c *Crawler) ScanOwner(ctx context.Context, kind models.OwnerKind, name string) ([]Outcome, error) {
	if c.lister == nil {
		return nil, errors.New("no repository lister configured")
	}

	repos, listErr := c.lister.ListRepositories(ctx, kind, name, c.config.MaxRepos)
	if listErr != nil {
		var rle *models.RateLimitError
		if errors.As(listErr, &rle) {
			c.logger.Warn("API rate limit may have been exceeded. Try setting a GITHUB_TOKEN environment variable.", "status", rle.Status)
		} else {
			c.logger.Error("Error fetching repositories", "err", listErr)
		}
	}
	c.logger.Info(fmt.Sprintf("Found %d repositories for %s %s", len(repos), kind, name))

	owner := store.Owner{Kind: kind, Name: name}
	outcomes := make([]Outcome, 0, len(repos))
	for _, r := range repos {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, c.scanRepository(ctx, owner, cloneURL(r)))
	}
	return outcomes, listErr
}

// ScanUser scans all repositories of a GitHub user
func (c *Crawler) ScanUser(ctx context.Context, name string) ([]Outcome, error) {
	return c.ScanOwner(ctx, models.OwnerUser, name)
}

// ScanOrg scans all repositories of a GitHub organization
func (c *Crawler) ScanOrg(ctx context.Context, name string) ([]Outcome, error) {
	return c.ScanOwner(ctx, models.OwnerOrg, name)
}

func cloneURL(r clients.Repository) string {
	if r.CloneURL != "" {
		return r.CloneURL
	}
	return "https://github.com/" + r.FullName + ".git"
}

// Summarize counts outcomes by state
func Summarize(outcomes []Outcome) map[State]int {
	counts := map[State]int{}
	for _, o := range outcomes {
		counts[o.State]++
	}
	return counts
}
