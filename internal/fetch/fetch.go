// Package fetch downloads BeerXML documents over HTTP.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fairyhunter13/beerxml-recipe-service/internal/obs"
)

// ErrUnsupportedURL is wrapped by a FetchError for anything other than an
// absolute http or https URL.
var ErrUnsupportedURL = errors.New("only absolute http and https URLs are supported")

// ErrTooLarge is wrapped by a FetchError when the body exceeds the limit.
var ErrTooLarge = errors.New("document exceeds size limit")

// FetchError reports a document that could not be retrieved.
type FetchError struct {
	URL string
	// StatusCode is set when the server answered with a non-2xx status.
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client fetches documents with a bounded body size. It never retries.
type Client struct {
	HTTP     *http.Client
	MaxBytes int64
}

// New returns a Client with the given request timeout and body limit.
func New(timeout time.Duration, maxBytes int64) *Client {
	return &Client{HTTP: &http.Client{Timeout: timeout}, MaxBytes: maxBytes}
}

// ValidateURL checks that raw is an absolute http(s) URL.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return &FetchError{URL: raw, Err: err}
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &FetchError{URL: raw, Err: ErrUnsupportedURL}
	}
	return nil
}

// Fetch downloads the document at raw.
func (c *Client) Fetch(ctx context.Context, raw string) ([]byte, error) {
	if err := ValidateURL(raw); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return nil, &FetchError{URL: raw, Err: err}
	}
	req.Header.Set("Accept", "application/xml, text/xml, */*")

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	obs.FetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, &FetchError{URL: raw, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &FetchError{URL: raw, StatusCode: resp.StatusCode}
	}

	body := io.Reader(resp.Body)
	if c.MaxBytes > 0 {
		body = io.LimitReader(resp.Body, c.MaxBytes+1)
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return nil, &FetchError{URL: raw, Err: err}
	}
	if c.MaxBytes > 0 && int64(len(b)) > c.MaxBytes {
		return nil, &FetchError{URL: raw, Err: ErrTooLarge}
	}
	obs.Logger.Debug("document_fetched", "url", raw, "bytes", len(b))
	return b, nil
}
