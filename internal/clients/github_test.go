package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronreiter/license-crawler/internal/models"
)

func repoPage(start, n int) []Repository {
	page := make([]Repository, n)
	for i := range page {
		name := fmt.Sprintf("repo-%d", start+i)
		page[i] = Repository{Name: name, CloneURL: "https://github.com/acme/" + name + ".git"}
	}
	return page
}

func newGitHub(t *testing.T, token string, h http.HandlerFunc) *GitHubClient {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	c := NewGitHubClient(token, time.Second)
	c.baseURL = server.URL
	return c
}

func TestListRepositoriesPagesUntilEmpty(t *testing.T) {
	var auth string
	c := newGitHub(t, "s3cret", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orgs/acme/repos", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		auth = r.Header.Get("Authorization")

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		switch page {
		case 1:
			json.NewEncoder(w).Encode(repoPage(0, 100))
		case 2:
			json.NewEncoder(w).Encode(repoPage(100, 20))
		default:
			w.Write([]byte(`[]`))
		}
	})

	repos, err := c.ListRepositories(context.Background(), models.OwnerOrg, "acme", 0)
	require.NoError(t, err)
	assert.Len(t, repos, 120)
	assert.Equal(t, "repo-119", repos[119].Name)
	assert.Equal(t, "token s3cret", auth)
}

func TestListRepositoriesTruncatesToLimit(t *testing.T) {
	calls := 0
	c := newGitHub(t, "", func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/users/octo/repos", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(repoPage(0, 100))
	})

	repos, err := c.ListRepositories(context.Background(), models.OwnerUser, "octo", 5)
	require.NoError(t, err)
	assert.Len(t, repos, 5)
	assert.Equal(t, 1, calls)
}

func TestListRepositoriesRateLimited(t *testing.T) {
	c := newGitHub(t, "", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			json.NewEncoder(w).Encode(repoPage(0, 100))
			return
		}
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message": "API rate limit exceeded"}`))
	})

	repos, err := c.ListRepositories(context.Background(), models.OwnerOrg, "acme", 0)
	require.ErrorIs(t, err, models.ErrRateLimited)

	var rl *models.RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, http.StatusForbidden, rl.Status)
	assert.Equal(t, "API rate limit exceeded", rl.Message)
	assert.Len(t, repos, 100)
}

func TestListRepositoriesOtherStatus(t *testing.T) {
	c := newGitHub(t, "", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	repos, err := c.ListRepositories(context.Background(), models.OwnerUser, "ghost", 0)
	require.ErrorIs(t, err, models.ErrNotFound)
	assert.NotErrorIs(t, err, models.ErrRateLimited)
	assert.Empty(t, repos)
}

func TestListRepositoriesRejectsRootScope(t *testing.T) {
	_, err := NewGitHubClient("", time.Second).ListRepositories(context.Background(), models.OwnerNone, "x", 0)
	require.Error(t, err)
}
