package license

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronreiter/license-crawler/internal/cache"
	"github.com/ronreiter/license-crawler/internal/models"
)

type fakeFetcher struct {
	mu       sync.Mutex
	licenses map[string]string
	errs     map[string]error
	delay    time.Duration
	calls    atomic.Int32
	seen     []string
}

func (f *fakeFetcher) FetchLicense(_ context.Context, name string) (string, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.seen = append(f.seen, name)
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if err, ok := f.errs[name]; ok {
		return "", err
	}
	return f.licenses[name], nil
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestResolver(t *testing.T, fetchers map[models.Ecosystem]Fetcher) (*Resolver, *cache.LicenseCache) {
	t.Helper()
	c, err := cache.New(0)
	require.NoError(t, err)
	return NewResolver(c, fetchers, quietLogger()), c
}

func TestResolveCachesSuccess(t *testing.T) {
	py := &fakeFetcher{licenses: map[string]string{"requests": "Apache 2.0"}}
	r, c := newTestResolver(t, map[models.Ecosystem]Fetcher{models.EcosystemPython: py})

	ctx := context.Background()
	assert.Equal(t, "Apache 2.0", r.Resolve(ctx, models.EcosystemPython, "requests"))
	assert.Equal(t, "Apache 2.0", r.Resolve(ctx, models.EcosystemPython, "requests"))
	assert.EqualValues(t, 1, py.calls.Load())

	got, ok := c.Get(models.EcosystemPython, "requests")
	assert.True(t, ok)
	assert.Equal(t, "Apache 2.0", got)
}

func TestResolveFailureCachesUnknown(t *testing.T) {
	npm := &fakeFetcher{errs: map[string]error{"leftpad": errors.New("status 500")}}
	r, c := newTestResolver(t, map[models.Ecosystem]Fetcher{models.EcosystemJavaScript: npm})

	ctx := context.Background()
	assert.Equal(t, models.UnknownLicense, r.Resolve(ctx, models.EcosystemJavaScript, "leftpad"))
	assert.Equal(t, models.UnknownLicense, r.Resolve(ctx, models.EcosystemJavaScript, "leftpad"))
	assert.EqualValues(t, 1, npm.calls.Load(), "failed lookups are not retried")

	got, ok := c.Get(models.EcosystemJavaScript, "leftpad")
	assert.True(t, ok)
	assert.Equal(t, models.UnknownLicense, got)
}

func TestResolveEmptyIsUnknown(t *testing.T) {
	py := &fakeFetcher{licenses: map[string]string{}}
	r, _ := newTestResolver(t, map[models.Ecosystem]Fetcher{models.EcosystemPython: py})

	assert.Equal(t, models.UnknownLicense, r.Resolve(context.Background(), models.EcosystemPython, "nolicense"))
}

func TestResolveUnsupportedEcosystem(t *testing.T) {
	r, _ := newTestResolver(t, nil)
	assert.Equal(t, models.UnknownLicense, r.Resolve(context.Background(), models.Ecosystem("rust"), "serde"))
}

func TestResolveKeysByEcosystem(t *testing.T) {
	py := &fakeFetcher{licenses: map[string]string{"six": "MIT"}}
	npm := &fakeFetcher{licenses: map[string]string{"six": "ISC"}}
	r, _ := newTestResolver(t, map[models.Ecosystem]Fetcher{
		models.EcosystemPython:     py,
		models.EcosystemJavaScript: npm,
	})

	ctx := context.Background()
	assert.Equal(t, "MIT", r.Resolve(ctx, models.EcosystemPython, "six"))
	assert.Equal(t, "ISC", r.Resolve(ctx, models.EcosystemJavaScript, "six"))
}

func TestResolveConcurrentMissesShareOneCall(t *testing.T) {
	py := &fakeFetcher{licenses: map[string]string{"django": "BSD"}, delay: 50 * time.Millisecond}
	r, _ := newTestResolver(t, map[models.Ecosystem]Fetcher{models.EcosystemPython: py})

	var wg sync.WaitGroup
	results := make([]string, 20)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = r.Resolve(context.Background(), models.EcosystemPython, "django")
		}()
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, "BSD", got)
	}
	assert.EqualValues(t, 1, py.calls.Load())
}
