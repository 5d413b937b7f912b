package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ronreiter/license-crawler/internal/models"
)

// DefaultTimeout bounds every registry request
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of an error response is kept for messages
const maxErrorBody = 512

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// statusError describes a non-200 response.
type statusError struct {
	URL    string
	Status int
	Body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.URL, e.Status)
}

// Unwrap maps 404 to ErrNotFound; every status error is a lookup failure.
func (e *statusError) Unwrap() []error {
	if e.Status == http.StatusNotFound {
		return []error{models.ErrLookup, models.ErrNotFound}
	}
	return []error{models.ErrLookup}
}

// getJSON performs a GET request and decodes a 200 response into v.
func getJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrLookup, err)
	}
	req.Header.Set("Accept", "application/json")
	for k, val := range headers {
		req.Header.Set(k, val)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrLookup, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &statusError{URL: url, Status: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", models.ErrLookup, url, err)
	}
	return nil
}
