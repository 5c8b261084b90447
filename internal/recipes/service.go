// Package recipes renders BeerXML documents into cached HTML fragments:
// fetch, parse, render and store, keyed by recipe identity.
package recipes

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/fairyhunter13/beerxml-recipe-service/internal/beerxml"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/cache"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/fetch"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/model"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/obs"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/render"
)

// ErrInvalidRequest is wrapped by errors caused by the caller's input.
var ErrInvalidRequest = errors.New("invalid recipe request")

// Fetcher retrieves a BeerXML document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Request describes one fragment to render.
type Request struct {
	URL   string
	Scope string
	// TTL is how long the fragment stays cached; zero bypasses the cache.
	TTL time.Duration
	// Invalidate drops any cached fragment and renders without caching.
	Invalidate bool
	Options    render.Options
}

// Result is a rendered fragment.
type Result struct {
	HTML   string
	Key    string
	Cached bool
}

// Service is safe for concurrent use. Concurrent loads of the same
// document share one fetch.
type Service struct {
	fetcher Fetcher
	cache   cache.Cache
	group   singleflight.Group
}

// New returns a Service using f to fetch documents and c to store
// fragments.
func New(f Fetcher, c cache.Cache) *Service {
	return &Service{fetcher: f, cache: c}
}

// Key derives the cache key of a request from its scope, the document's
// file name, a digest of its URL and the display options.
func Key(req Request) string {
	sum := sha1.Sum([]byte(req.URL))
	return fmt.Sprintf("beerxml_recipe-%s_%s-%s:%s",
		req.Scope,
		render.FileName(req.URL),
		hex.EncodeToString(sum[:6]),
		req.Options.Flags(),
	)
}

func validate(req *Request) error {
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		return fmt.Errorf("%w: recipe source not set", ErrInvalidRequest)
	}
	if err := fetch.ValidateURL(req.URL); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	req.Options.Source = req.URL
	return nil
}

// Render returns the fragment for req, from cache when possible. Parse
// and fetch failures are returned unchanged and nothing is cached.
func (s *Service) Render(ctx context.Context, req Request) (Result, error) {
	if err := validate(&req); err != nil {
		obs.Renders.WithLabelValues("invalid").Inc()
		return Result{}, err
	}
	key := Key(req)
	ttl := req.TTL
	if req.Invalidate {
		if err := s.cache.Delete(ctx, key); err != nil {
			obs.Logger.Warn("cache_delete_failed", "key", key, "error", err)
		}
		ttl = 0
	}

	if ttl > 0 {
		html, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			obs.CacheLookups.WithLabelValues("error").Inc()
			obs.Logger.Warn("cache_get_failed", "key", key, "error", err)
		case ok:
			obs.CacheLookups.WithLabelValues("hit").Inc()
			obs.Renders.WithLabelValues("ok").Inc()
			return Result{HTML: html, Key: key, Cached: true}, nil
		default:
			obs.CacheLookups.WithLabelValues("miss").Inc()
		}
	} else {
		obs.CacheLookups.WithLabelValues("bypass").Inc()
	}

	recipe, err := s.load(ctx, req.URL)
	if err != nil {
		obs.Renders.WithLabelValues(failureLabel(err)).Inc()
		obs.Logger.Warn("recipe_load_failed", "url", req.URL, "error", err)
		return Result{}, err
	}
	html, err := render.Fragment(recipe, req.Options)
	if err != nil {
		obs.Renders.WithLabelValues("render_error").Inc()
		return Result{}, err
	}
	if ttl > 0 {
		if err := s.cache.Set(ctx, key, html, ttl); err != nil {
			obs.Logger.Warn("cache_set_failed", "key", key, "error", err)
		}
	}
	obs.Renders.WithLabelValues("ok").Inc()
	obs.Logger.Info("recipe_rendered", "url", req.URL, "key", key, "recipe", recipe.Name, "ttl_sec", ttl.Seconds())
	return Result{HTML: html, Key: key}, nil
}

// Inspect parses the document at url and returns it with its display view.
// It never touches the cache.
func (s *Service) Inspect(ctx context.Context, url string, opts render.Options) (*beerxml.Recipe, render.View, error) {
	req := Request{URL: url, Options: opts}
	if err := validate(&req); err != nil {
		return nil, render.View{}, err
	}
	recipe, err := s.load(ctx, req.URL)
	if err != nil {
		return nil, render.View{}, err
	}
	return recipe, render.BuildView(recipe, req.Options), nil
}

// Invalidate drops the cached fragment of req.
func (s *Service) Invalidate(ctx context.Context, req Request) (string, error) {
	if err := validate(&req); err != nil {
		return "", err
	}
	key := Key(req)
	if err := s.cache.Delete(ctx, key); err != nil {
		return key, err
	}
	obs.Logger.Info("cache_invalidated", "key", key)
	return key, nil
}

// Warm renders a queued job into the cache.
func (s *Service) Warm(ctx context.Context, job model.WarmJob) error {
	_, err := s.Render(ctx, Request{
		URL:     job.URL,
		Scope:   job.Scope,
		TTL:     job.TTL,
		Options: job.Options,
	})
	return err
}

// load fetches and parses url. The shared fetch is detached from the
// caller's cancellation so one departing caller cannot fail the others
// waiting on it; the fetcher's own timeout still bounds it.
func (s *Service) load(ctx context.Context, url string) (*beerxml.Recipe, error) {
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(url, func() (any, error) {
		doc, err := s.fetcher.Fetch(shared, url)
		if err != nil {
			return nil, err
		}
		return beerxml.Parse(doc)
	})
	if err != nil {
		return nil, err
	}
	return v.(*beerxml.Recipe), nil
}

func failureLabel(err error) string {
	var fe *fetch.FetchError
	switch {
	case beerxml.IsParseError(err):
		return "parse_error"
	case errors.As(err, &fe):
		return "fetch_error"
	default:
		return "error"
	}
}
