package clients

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const npmURL = "https://registry.npmjs.org"

// NpmClient reads license metadata from the npm registry
type NpmClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewNpmClient creates a new npm registry client
func NewNpmClient(timeout time.Duration) *NpmClient {
	return &NpmClient{
		httpClient: newHTTPClient(timeout),
		baseURL:    npmURL,
	}
}

type npmResponse struct {
	License any `json:"license"`
}

// FetchLicense returns the top-level license of an npm package. Scoped names
// such as @types/node are escaped into a single path segment.
func (c *NpmClient) FetchLicense(ctx context.Context, name string) (string, error) {
	var data npmResponse
	if err := getJSON(ctx, c.httpClient, c.baseURL+"/"+url.PathEscape(name), nil, &data); err != nil {
		return "", err
	}
	return npmLicense(data.License), nil
}

// npmLicense accepts both "MIT" and {"type": "MIT", "url": "..."}.
func npmLicense(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case map[string]any:
		if s, ok := val["type"].(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
