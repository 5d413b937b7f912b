package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ronreiter/license-crawler/internal/reporter"
	"github.com/ronreiter/license-crawler/internal/store"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		inputDir      string
		output        string
		format        string
		frontendRepos []string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Flatten collected results into a single report",
		Long: `Export reads every collected repository result and writes one row per
dependency. License strings are standardized into their family names.

Formats:
  csv         all record fields plus repo_name, owner_name and purl
  json        the same rows as a JSON array
  table       a terminal table with per-license totals
  classified  package_name, license and dependency_class (dev, frontend, backend)

Use --output - to write to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			rep, err := reporter.Get(format, frontendRepos)
			if err != nil {
				return err
			}

			cfg := opts.config()
			if inputDir != "" {
				cfg.OutputDir = inputDir
			}
			if cfg.Store == "file" || cfg.Store == "" {
				if info, err := os.Stat(cfg.OutputDir); err != nil || !info.IsDir() {
					return fmt.Errorf("input directory %s does not exist", cfg.OutputDir)
				}
			}

			st, err := store.Open(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			logger.Info("Converting collected results", "input", cfg.OutputDir, "format", format)
			rows, err := reporter.Flatten(st)
			if err != nil {
				// Unreadable collections are skipped
				for _, e := range splitErrors(err) {
					logger.Warn("Skipping collection", "err", e)
				}
			}

			data, err := rep.Report(rows)
			if err != nil {
				return fmt.Errorf("failed to generate report: %w", err)
			}

			if !cmd.Flags().Changed("output") && strings.EqualFold(format, "table") {
				output = "-"
			}
			if output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}

			if dir := filepath.Dir(output); dir != "" {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			logger.Info("Conversion complete", "rows", len(rows), "output", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&inputDir, "input-dir", "", "Directory containing collected results (default: --output-dir)")
	cmd.Flags().StringVarP(&output, "output", "o", "dependencies.csv", "Output file path, - for stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Output format: "+strings.Join(reporter.Formats, ", "))
	cmd.Flags().StringSliceVar(&frontendRepos, "frontend-repos", nil, "Repositories classified as frontend (classified format)")
	return cmd
}

// splitErrors unpacks an errors.Join result
func splitErrors(err error) []error {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		return joined.Unwrap()
	}
	return []error{err}
}
