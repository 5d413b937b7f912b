package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/ronreiter/license-crawler/internal/models"
	"github.com/ronreiter/license-crawler/internal/parsers"
)

// FileStatus is the outcome of parsing one manifest
type FileStatus string

const (
	FileParsed  FileStatus = "parsed"
	FileSkipped FileStatus = "skipped" // parsed, but declares no dependencies
	FileFailed  FileStatus = "failed"
)

// FileResult records what happened to one discovered manifest.
type FileResult struct {
	Path   string // Slash-separated, relative to the scanned root
	Status FileStatus
	Count  int
	Err    error
}

// Result holds the records of one directory scan, in discovery order.
type Result struct {
	Records []models.Dependency
	Files   []FileResult
}

// Failed returns the number of manifests that could not be parsed
func (r *Result) Failed() int {
	n := 0
	for _, f := range r.Files {
		if f.Status == FileFailed {
			n++
		}
	}
	return n
}

// Enricher fills in missing licenses
type Enricher interface {
	Enrich(ctx context.Context, deps []models.Dependency)
}

// skipDirs are never descended into
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	".venv":        true,
	"venv":         true,
	"__pycache__":  true,
}

// Scanner extracts dependency records from a local directory tree
type Scanner struct {
	config   *models.Config
	parsers  []parsers.Parser
	enricher Enricher
	logger   *log.Logger
}

// New creates a Scanner. enricher may be nil, in which case records are
// returned without licenses.
func New(config *models.Config, enricher Enricher, logger *log.Logger) *Scanner {
	if logger == nil {
		logger = log.Default()
	}
	return &Scanner{
		config:   config,
		parsers:  parsers.GetAllParsers(config.IncludeIndirect),
		enricher: enricher,
		logger:   logger,
	}
}

// ScanDir discovers the manifests below root, parses each of them and, when
// license fetching is enabled, enriches the records. A manifest that fails
// to parse is recorded in Result.Files and never stops the scan; only an
// unreadable root is an error.
func (s *Scanner) ScanDir(ctx context.Context, root string) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	paths, err := s.discover(root)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, rel := range paths {
		fr, deps := s.parseFile(root, rel)
		result.Files = append(result.Files, fr)
		result.Records = append(result.Records, deps...)
	}

	if s.config.FetchLicenses && s.enricher != nil && len(result.Records) > 0 {
		s.enricher.Enrich(ctx, result.Records)
	}
	return result, nil
}

// discover returns the slash-separated relative paths of all manifests,
// sorted.
func (s *Scanner) discover(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			s.logger.Warn("Skipping unreadable path", "path", p, "err", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if p != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		if s.parserFor(d.Name()) == nil {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Strings(paths)
	return paths, nil
}

func (s *Scanner) parserFor(filename string) parsers.Parser {
	for _, p := range s.parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// parseFile converts every failure into a failed FileResult
func (s *Scanner) parseFile(root, rel string) (FileResult, []models.Dependency) {
	fr := FileResult{Path: rel}
	full := filepath.Join(root, filepath.FromSlash(rel))

	fail := func(err error) (FileResult, []models.Dependency) {
		fr.Status = FileFailed
		fr.Err = err
		s.logger.Warn("Error processing manifest", "path", rel, "err", err)
		return fr, nil
	}

	info, err := os.Stat(full)
	if err != nil {
		return fail(err)
	}
	content, err := os.ReadFile(full)
	if err != nil {
		return fail(err)
	}

	parser := s.parserFor(filepath.Base(full))
	deps, err := parser.Parse(parsers.Source{Path: rel, Modified: info.ModTime()}, content)
	if err != nil {
		if !errors.Is(err, models.ErrFormat) {
			err = fmt.Errorf("%w: %v", models.ErrFormat, err)
		}
		return fail(err)
	}

	fr.Count = len(deps)
	if len(deps) == 0 {
		fr.Status = FileSkipped
	} else {
		fr.Status = FileParsed
	}
	s.logger.Debug("Parsed manifest", "path", rel, "dependencies", len(deps))
	return fr, deps
}
