// Package gitrepo materializes remote repositories on the local filesystem.
package gitrepo

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"path"
	"strings"

	"github.com/ronreiter/license-crawler/internal/models"
)

// Materializer fetches the repository at url into the directory dest.
type Materializer interface {
	Materialize(ctx context.Context, url, dest string) error
}

// runGitCommand is injectable in tests.
var runGitCommand = func(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git %s: %w: %s", redactArgs(args), err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Cloner performs shallow git clones. Token, when set, authenticates
// https://github.com URLs.
type Cloner struct {
	Token string
}

// NewCloner creates a Cloner
func NewCloner(token string) *Cloner {
	return &Cloner{Token: token}
}

// Materialize clones the default branch of rawURL with depth 1 into dest.
func (c *Cloner) Materialize(ctx context.Context, rawURL, dest string) error {
	if strings.TrimSpace(rawURL) == "" {
		return fmt.Errorf("%w: empty repository url", models.ErrRetrieval)
	}

	cloneURL := withToken(rawURL, c.Token)
	if err := runGitCommand(ctx, "clone", "--depth", "1", cloneURL, dest); err != nil {
		return fmt.Errorf("%w: clone %s: %v", models.ErrRetrieval, rawURL, scrub(err.Error(), c.Token))
	}
	return nil
}

// withToken injects token as user-info into https://github.com URLs.
// Other URLs are returned as is.
func withToken(rawURL, token string) string {
	if token == "" {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme != "https" || !strings.EqualFold(u.Host, "github.com") || u.User != nil {
		return rawURL
	}
	u.User = url.User(token)
	return u.String()
}

// RepoName returns the last path segment of a repository URL without a
// trailing ".git".
func RepoName(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	if u, err := url.Parse(s); err == nil && u.Path != "" && u.Scheme != "" {
		s = u.Path
	} else if i := strings.LastIndex(s, ":"); i >= 0 && strings.HasPrefix(s, "git@") {
		s = s[i+1:]
	}
	s = strings.TrimRight(s, "/")
	return strings.TrimSuffix(path.Base(s), ".git")
}

func redactArgs(args []string) string {
	out := make([]string, len(args))
	for i, a := range args {
		if u, err := url.Parse(a); err == nil && u.User != nil {
			u.User = url.User("redacted")
			a = u.String()
		}
		out[i] = a
	}
	return strings.Join(out, " ")
}

func scrub(s, token string) string {
	if token == "" {
		return s
	}
	return strings.ReplaceAll(s, token, "***")
}
