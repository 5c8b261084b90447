package recipes

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fairyhunter13/beerxml-recipe-service/internal/beerxml"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/cache"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/fetch"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/model"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/obs"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/render"
)

const recipeURL = "https://example.com/uploads/bowie-brown.xml"

type stubFetcher struct {
	doc   []byte
	err   error
	calls atomic.Int64
	delay time.Duration
}

func (f *stubFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.doc, nil
}

func fixture(t *testing.T) []byte {
	t.Helper()
	b, err := os.ReadFile("../beerxml/testdata/bowie-brown.xml")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return b
}

func setupService(t *testing.T, f *stubFetcher) (*Service, *cache.Memory) {
	t.Helper()
	obs.InitLogger()
	c := cache.NewMemory(16)
	return New(f, c), c
}

func TestRenderCachesFragment(t *testing.T) {
	f := &stubFetcher{doc: fixture(t)}
	svc, c := setupService(t, f)
	ctx := context.Background()
	req := Request{URL: recipeURL, TTL: time.Hour, Options: render.DefaultOptions()}

	first, err := svc.Render(ctx, req)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if first.Cached || !strings.Contains(first.HTML, "beerxml-recipe") {
		t.Fatalf("unexpected first result %+v", first.Cached)
	}
	second, err := svc.Render(ctx, req)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !second.Cached || second.HTML != first.HTML {
		t.Fatalf("expected cached identical fragment")
	}
	if f.calls.Load() != 1 {
		t.Fatalf("expected 1 fetch, got %d", f.calls.Load())
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 cache entry, got %d", c.Len())
	}
}

func TestRenderZeroTTLBypassesCache(t *testing.T) {
	f := &stubFetcher{doc: fixture(t)}
	svc, c := setupService(t, f)
	ctx := context.Background()
	req := Request{URL: recipeURL, Options: render.DefaultOptions()}
	for i := 0; i < 2; i++ {
		if _, err := svc.Render(ctx, req); err != nil {
			t.Fatalf("render: %v", err)
		}
	}
	if f.calls.Load() != 2 || c.Len() != 0 {
		t.Fatalf("expected uncached renders, calls=%d len=%d", f.calls.Load(), c.Len())
	}
}

func TestRenderInvalidateClearsAndSkipsCache(t *testing.T) {
	f := &stubFetcher{doc: fixture(t)}
	svc, c := setupService(t, f)
	ctx := context.Background()
	req := Request{URL: recipeURL, TTL: time.Hour, Options: render.DefaultOptions()}
	if _, err := svc.Render(ctx, req); err != nil {
		t.Fatalf("render: %v", err)
	}
	req.Invalidate = true
	res, err := svc.Render(ctx, req)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if res.Cached || c.Len() != 0 {
		t.Fatalf("expected cleared cache, cached=%v len=%d", res.Cached, c.Len())
	}
}

func TestRenderKeysDifferByOptions(t *testing.T) {
	f := &stubFetcher{doc: fixture(t)}
	svc, _ := setupService(t, f)
	ctx := context.Background()
	us := Request{URL: recipeURL, TTL: time.Hour, Options: render.DefaultOptions()}
	metric := us
	metric.Options.Metric = true
	a, err := svc.Render(ctx, us)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	b, err := svc.Render(ctx, metric)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if a.Key == b.Key || b.Cached {
		t.Fatalf("metric rendering must not reuse the US fragment")
	}
	if !strings.Contains(b.HTML, "20.8 L") {
		t.Fatalf("expected metric batch size")
	}
}

func TestRenderParseErrorNotCached(t *testing.T) {
	f := &stubFetcher{doc: []byte("definitely not xml")}
	svc, c := setupService(t, f)
	_, err := svc.Render(context.Background(), Request{URL: recipeURL, TTL: time.Hour})
	if !beerxml.IsParseError(err) {
		t.Fatalf("expected parse error, got %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("failed render must not be cached")
	}
}

func TestRenderFetchErrorPropagates(t *testing.T) {
	f := &stubFetcher{err: &fetch.FetchError{URL: recipeURL, StatusCode: 500}}
	svc, _ := setupService(t, f)
	_, err := svc.Render(context.Background(), Request{URL: recipeURL, TTL: time.Hour})
	var fe *fetch.FetchError
	if !errors.As(err, &fe) || fe.StatusCode != 500 {
		t.Fatalf("expected fetch error, got %v", err)
	}
}

func TestRenderValidation(t *testing.T) {
	f := &stubFetcher{doc: fixture(t)}
	svc, _ := setupService(t, f)
	for _, u := range []string{"", "   ", "file:///tmp/r.xml", "not a url"} {
		_, err := svc.Render(context.Background(), Request{URL: u})
		if !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("%q: expected invalid request, got %v", u, err)
		}
	}
	if f.calls.Load() != 0 {
		t.Fatalf("invalid requests must not fetch")
	}
}

func TestConcurrentRendersShareFetch(t *testing.T) {
	f := &stubFetcher{doc: fixture(t), delay: 100 * time.Millisecond}
	svc, _ := setupService(t, f)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Render(context.Background(), Request{URL: recipeURL}); err != nil {
				t.Errorf("render: %v", err)
			}
		}()
	}
	wg.Wait()
	if n := f.calls.Load(); n >= 8 {
		t.Fatalf("expected shared fetches, got %d", n)
	}
}

// ctxFetcher waits for its delay or for the context, whichever ends first.
type ctxFetcher struct {
	doc   []byte
	delay time.Duration
	calls atomic.Int64
}

func (f *ctxFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.calls.Add(1)
	select {
	case <-time.After(f.delay):
		return f.doc, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestCancelledCallerDoesNotFailSharedFetch(t *testing.T) {
	obs.InitLogger()
	f := &ctxFetcher{doc: fixture(t), delay: 200 * time.Millisecond}
	svc := New(f, cache.NewMemory(16))
	req := Request{URL: recipeURL, Options: render.DefaultOptions()}

	first, cancelFirst := context.WithCancel(context.Background())
	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		_, _ = svc.Render(first, req)
	}()

	time.Sleep(20 * time.Millisecond)
	secondErr := make(chan error, 1)
	go func() {
		_, err := svc.Render(context.Background(), req)
		secondErr <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancelFirst()
	<-firstDone
	if err := <-secondErr; err != nil {
		t.Fatalf("render with live context failed: %v", err)
	}
}

func TestInspectAndInvalidate(t *testing.T) {
	f := &stubFetcher{doc: fixture(t)}
	svc, c := setupService(t, f)
	ctx := context.Background()
	r, v, err := svc.Inspect(ctx, recipeURL, render.DefaultOptions())
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if r.Name != "Bowie Brown" || v.Details.BatchSize.String() != "5.5 gal" {
		t.Fatalf("unexpected inspect result %q %v", r.Name, v.Details.BatchSize)
	}
	if v.Download == nil || v.Download.FileName != "bowie-brown" {
		t.Fatalf("expected download link in view")
	}

	req := Request{URL: recipeURL, TTL: time.Hour, Options: render.DefaultOptions()}
	if _, err := svc.Render(ctx, req); err != nil {
		t.Fatalf("render: %v", err)
	}
	key, err := svc.Invalidate(ctx, req)
	if err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if key != Key(Request{URL: recipeURL, Options: render.DefaultOptions()}) {
		t.Fatalf("unexpected key %q", key)
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty cache")
	}
}

func TestWarmPopulatesCache(t *testing.T) {
	f := &stubFetcher{doc: fixture(t)}
	svc, c := setupService(t, f)
	job := model.WarmJob{URL: recipeURL, Scope: "42", TTL: time.Minute, Options: render.DefaultOptions()}
	if err := svc.Warm(context.Background(), job); err != nil {
		t.Fatalf("warm: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("expected warmed entry")
	}
}

func TestKey(t *testing.T) {
	a := Key(Request{URL: recipeURL, Scope: "7", Options: render.DefaultOptions()})
	if !strings.HasPrefix(a, "beerxml_recipe-7_bowie-brown-") || !strings.HasSuffix(a, ":us.download.style.mash.misc") {
		t.Fatalf("unexpected key %q", a)
	}
	b := Key(Request{URL: "https://other.example.com/bowie-brown.xml", Scope: "7", Options: render.DefaultOptions()})
	if a == b {
		t.Fatalf("same file name on another host must not collide")
	}
}
