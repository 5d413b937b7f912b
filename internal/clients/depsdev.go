package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const depsDevURL = "https://api.deps.dev/v3"

// DepsDevClient resolves Go module licenses through the deps.dev API
type DepsDevClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewDepsDevClient creates a new deps.dev client
func NewDepsDevClient(timeout time.Duration) *DepsDevClient {
	return &DepsDevClient{
		httpClient: newHTTPClient(timeout),
		baseURL:    depsDevURL,
	}
}

type depsDevPackage struct {
	Versions []struct {
		VersionKey struct {
			Version string `json:"version"`
		} `json:"versionKey"`
		IsDefault bool `json:"isDefault"`
	} `json:"versions"`
}

type depsDevVersion struct {
	Licenses []string `json:"licenses"`
}

// FetchLicense returns the licenses of the module's default version joined
// with " AND ".
func (c *DepsDevClient) FetchLicense(ctx context.Context, module string) (string, error) {
	pkgURL := fmt.Sprintf("%s/systems/go/packages/%s", c.baseURL, url.PathEscape(module))

	var pkg depsDevPackage
	if err := getJSON(ctx, c.httpClient, pkgURL, nil, &pkg); err != nil {
		return "", err
	}

	version := ""
	for _, v := range pkg.Versions {
		version = v.VersionKey.Version
		if v.IsDefault {
			break
		}
	}
	if version == "" {
		return "", nil
	}

	var ver depsDevVersion
	if err := getJSON(ctx, c.httpClient, pkgURL+"/versions/"+url.PathEscape(version), nil, &ver); err != nil {
		return "", err
	}
	return strings.Join(ver.Licenses, " AND "), nil
}
