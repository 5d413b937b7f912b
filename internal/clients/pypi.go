package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const pypiURL = "https://pypi.org/pypi"

// PyPIClient reads license metadata from the PyPI JSON API
type PyPIClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewPyPIClient creates a new PyPI client
func NewPyPIClient(timeout time.Duration) *PyPIClient {
	return &PyPIClient{
		httpClient: newHTTPClient(timeout),
		baseURL:    pypiURL,
	}
}

type pypiResponse struct {
	Info struct {
		License           string   `json:"license"`
		LicenseExpression string   `json:"license_expression"`
		Classifiers       []string `json:"classifiers"`
	} `json:"info"`
}

// FetchLicense returns the license declared for a PyPI project, or an empty
// string when the project declares none.
func (c *PyPIClient) FetchLicense(ctx context.Context, name string) (string, error) {
	var data pypiResponse
	endpoint := fmt.Sprintf("%s/%s/json", c.baseURL, url.PathEscape(name))
	if err := getJSON(ctx, c.httpClient, endpoint, nil, &data); err != nil {
		return "", err
	}
	return pypiLicense(data), nil
}

// pypiLicense prefers the license field. Empty or "UNKNOWN" values fall back
// to the first "License :: " classifier, then to the PEP 639 expression.
func pypiLicense(data pypiResponse) string {
	license := strings.TrimSpace(data.Info.License)
	if license != "" && license != "UNKNOWN" {
		return license
	}
	for _, c := range data.Info.Classifiers {
		if strings.HasPrefix(c, "License :: ") {
			parts := strings.Split(c, " :: ")
			return strings.TrimSpace(parts[len(parts)-1])
		}
	}
	return strings.TrimSpace(data.Info.LicenseExpression)
}
