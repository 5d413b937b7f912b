package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ronreiter/license-crawler/internal/models"
)

const (
	githubURL     = "https://api.github.com"
	githubPerPage = 100
)

// Repository is the subset of the GitHub repository payload the crawler uses
type Repository struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	CloneURL string `json:"clone_url"`
	Private  bool   `json:"private"`
	Fork     bool   `json:"fork"`
	Archived bool   `json:"archived"`
}

// GitHubClient lists the repositories of users and organizations
type GitHubClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewGitHubClient creates a GitHub API client. An empty token means
// unauthenticated requests with lower rate limits.
func NewGitHubClient(token string, timeout time.Duration) *GitHubClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GitHubClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    githubURL,
		token:      token,
	}
}

// ListRepositories pages through /users/{name}/repos or /orgs/{name}/repos
// until an empty page, or until limit repositories were collected (0 = no
// limit). On failure the repositories collected so far are returned together
// with the error; a 403 is reported as *models.RateLimitError.
func (c *GitHubClient) ListRepositories(ctx context.Context, kind models.OwnerKind, name string, limit int) ([]Repository, error) {
	var segment string
	switch kind {
	case models.OwnerUser:
		segment = "users"
	case models.OwnerOrg:
		segment = "orgs"
	default:
		return nil, fmt.Errorf("unsupported owner kind %q", kind)
	}

	headers := map[string]string{"Accept": "application/vnd.github+json"}
	if c.token != "" {
		headers["Authorization"] = "token " + c.token
	}

	var repos []Repository
	for page := 1; ; page++ {
		endpoint := fmt.Sprintf("%s/%s/%s/repos?page=%d&per_page=%d",
			c.baseURL, segment, url.PathEscape(name), page, githubPerPage)

		var batch []Repository
		if err := getJSON(ctx, c.httpClient, endpoint, headers, &batch); err != nil {
			return repos, githubError(err)
		}
		if len(batch) == 0 {
			break
		}

		repos = append(repos, batch...)
		if limit > 0 && len(repos) >= limit {
			repos = repos[:limit]
			break
		}
	}
	return repos, nil
}

func githubError(err error) error {
	var se *statusError
	if !errors.As(err, &se) || se.Status != http.StatusForbidden {
		return err
	}
	rl := &models.RateLimitError{Status: se.Status}
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal([]byte(se.Body), &body) == nil {
		rl.Message = body.Message
	}
	return rl
}
