package cmd

import (
	"context"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ronreiter/license-crawler/internal/models"
)

// version is set via ldflags at build time
var version = "dev"

// rootOptions holds the persistent flags shared by all subcommands
type rootOptions struct {
	outputDir       string
	skipLicenses    bool
	maxWorkers      int
	storeKind       string
	sqlitePath      string
	includeIndirect bool
	skipTokenCheck  bool
	timeout         time.Duration
	verbose         bool
}

// config builds the run configuration from flags and the environment
func (o *rootOptions) config() *models.Config {
	cfg := models.DefaultConfig()
	cfg.OutputDir = o.outputDir
	cfg.Store = o.storeKind
	cfg.SQLitePath = o.sqlitePath
	cfg.FetchLicenses = !o.skipLicenses
	cfg.IncludeIndirect = o.includeIndirect
	cfg.MaxWorkers = o.maxWorkers
	cfg.Timeout = o.timeout
	cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	return cfg
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	defaults := models.DefaultConfig()

	root := &cobra.Command{
		Use:   "license-crawler",
		Short: "Collect third-party dependencies and their licenses from repositories",
		Long: `license-crawler clones source repositories, extracts the dependencies
declared in their manifest files and looks up each dependency's license in
the public package registries.

Supported manifests:
  - Python: pyproject.toml (PEP 621 and Poetry), requirements*.txt
  - JavaScript: package.json
  - Go: go.mod

Results are stored per repository under the output directory and can be
flattened into a single report with the export command.

Examples:
  # Scan a single repository
  license-crawler repo https://github.com/psf/requests

  # Scan every repository of an organization, at most 20
  license-crawler org my-org --max-repos 20

  # Scan a user's repositories without license lookups
  license-crawler user octocat --skip-licenses

  # Flatten everything collected so far into a CSV file
  license-crawler export --output dependencies.csv`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// A missing .env file is fine
			_ = godotenv.Load()

			level := charmlog.InfoLevel
			if opts.verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level))
			cmd.SetContext(ctx)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.outputDir, "output-dir", defaults.OutputDir, "Output directory for collected results")
	pf.BoolVar(&opts.skipLicenses, "skip-licenses", false, "Skip fetching license information")
	pf.IntVar(&opts.maxWorkers, "max-workers", defaults.MaxWorkers, "Maximum number of concurrent license lookups")
	pf.StringVar(&opts.storeKind, "store", defaults.Store, "Result store: file, sqlite")
	pf.StringVar(&opts.sqlitePath, "sqlite-path", "", "Database file for the sqlite store (default: <output-dir>/licenses.db)")
	pf.BoolVar(&opts.includeIndirect, "include-indirect", false, "Include indirect go.mod requirements")
	pf.BoolVar(&opts.skipTokenCheck, "skip-token-check", false, "Skip the GitHub token check")
	pf.DurationVar(&opts.timeout, "timeout", defaults.Timeout, "Timeout for each registry request")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(newRepoCmd(opts))
	root.AddCommand(newUserCmd(opts))
	root.AddCommand(newOrgCmd(opts))
	root.AddCommand(newExportCmd(opts))

	return root
}

// Execute runs the command tree and exits non-zero on setup failures.
func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
