package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ronreiter/license-crawler/internal/cache"
	"github.com/ronreiter/license-crawler/internal/clients"
	"github.com/ronreiter/license-crawler/internal/gitrepo"
	"github.com/ronreiter/license-crawler/internal/license"
	"github.com/ronreiter/license-crawler/internal/models"
	"github.com/ronreiter/license-crawler/internal/scanner"
	"github.com/ronreiter/license-crawler/internal/store"
)

func newRepoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "repo <url>",
		Short: "Scan a single repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			crawler, closeStore, err := newCrawler(opts.config(), logger)
			if err != nil {
				return err
			}
			defer closeStore()

			out := crawler.ScanRepository(ctx, args[0])
			logSummary(logger, []scanner.Outcome{out})
			return nil
		},
	}
}

func newUserCmd(opts *rootOptions) *cobra.Command {
	return newOwnerCmd(opts, models.OwnerUser, "user <username>", "Scan all repositories of a GitHub user")
}

func newOrgCmd(opts *rootOptions) *cobra.Command {
	return newOwnerCmd(opts, models.OwnerOrg, "org <org-name>", "Scan all repositories of a GitHub organization")
}

func newOwnerCmd(opts *rootOptions, kind models.OwnerKind, use, short string) *cobra.Command {
	var maxRepos int

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg := opts.config()
			cfg.OwnerKind = kind
			cfg.OwnerName = args[0]
			cfg.MaxRepos = maxRepos

			if cfg.GitHubToken == "" && !opts.skipTokenCheck {
				if !confirmWithoutToken(cmd.InOrStdin(), cmd.ErrOrStderr()) {
					return errors.New("GITHUB_TOKEN is not set")
				}
			}

			crawler, closeStore, err := newCrawler(cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			outcomes, err := crawler.ScanOwner(ctx, kind, args[0])
			logSummary(logger, outcomes)
			if err != nil && len(outcomes) == 0 && !errors.Is(err, models.ErrRateLimited) {
				return fmt.Errorf("failed to list repositories for %s %s: %w", kind, args[0], err)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&maxRepos, "max-repos", 0, "Maximum number of repositories to scan (0 = all)")
	return cmd
}

// newCrawler wires the scan pipeline for cfg. The returned func closes the
// result store.
func newCrawler(cfg *models.Config, logger *log.Logger) (*scanner.Crawler, func(), error) {
	st, err := store.Open(cfg)
	if err != nil {
		return nil, nil, err
	}

	var enricher scanner.Enricher
	if cfg.FetchLicenses {
		licenses, err := cache.New(cfg.CacheSize)
		if err != nil {
			st.Close()
			return nil, nil, fmt.Errorf("failed to create license cache: %w", err)
		}
		resolver := license.NewResolver(licenses, map[models.Ecosystem]license.Fetcher{
			models.EcosystemPython:     clients.NewPyPIClient(cfg.Timeout),
			models.EcosystemJavaScript: clients.NewNpmClient(cfg.Timeout),
			models.EcosystemGo:         clients.NewDepsDevClient(cfg.Timeout),
		}, logger)
		enricher = license.NewEnricher(resolver, cfg.Workers(), logger)
	}

	crawler := scanner.NewCrawler(
		cfg,
		scanner.New(cfg, enricher, logger),
		gitrepo.NewCloner(cfg.GitHubToken),
		st,
		clients.NewGitHubClient(cfg.GitHubToken, cfg.Timeout),
		logger,
	)
	return crawler, func() { st.Close() }, nil
}

func logSummary(logger *log.Logger, outcomes []scanner.Outcome) {
	counts := scanner.Summarize(outcomes)
	logger.Info("Scan complete",
		"repositories", len(outcomes),
		"saved", counts[scanner.StateSuccess],
		"empty", counts[scanner.StateEmpty],
		"failed", counts[scanner.StateFailed],
	)
}
