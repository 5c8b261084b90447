// Package integration exercises a running service over HTTP. Set BASE_URL
// to the service address; RECIPE_URL to a BeerXML document the service can
// reach enables the rendering tests.
package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"
)

func baseURL(t testing.TB) string {
	t.Helper()
	v := os.Getenv("BASE_URL")
	if v == "" {
		t.Skip("BASE_URL not set")
	}
	return strings.TrimRight(v, "/")
}

func recipeURL(t testing.TB) string {
	t.Helper()
	v := os.Getenv("RECIPE_URL")
	if v == "" {
		t.Skip("RECIPE_URL not set")
	}
	return v
}

func waitReady(t *testing.T) string {
	t.Helper()
	u := baseURL(t)
	deadline := time.Now().Add(20 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(u + "/healthz")
		if err == nil {
			_ = resp.Body.Close()
			return u
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("service not ready")
	return ""
}

type ack struct {
	Status      string `json:"status"`
	RequestID   string `json:"request_id"`
	Sequence    uint64 `json:"sequence"`
	Recipe      string `json:"recipe"`
	Key         string `json:"key"`
	ReceivedAt  string `json:"received_at"`
	QueueDepth  int    `json:"queue_depth"`
	BacklogSize int    `json:"backlog_size"`
	WorkerCount int    `json:"worker_count"`
}

type apiError struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

func TestIntegration_OpenAPIAndDocs(t *testing.T) {
	u := waitReady(t)
	for _, path := range []string{"/openapi.yaml", "/docs", "/metrics"} {
		resp, err := http.Get(u + path)
		if err != nil {
			t.Fatal(err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.StatusCode)
		}
	}
}

func TestIntegration_GeneratedRequestIDWhenMissing(t *testing.T) {
	u := waitReady(t)
	resp, err := http.Get(u + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.Header.Get("X-Request-Id") == "" {
		t.Fatalf("expected X-Request-Id header")
	}
}

func TestIntegration_ValidationErrors(t *testing.T) {
	u := waitReady(t)
	cases := []struct {
		query  url.Values
		status int
		code   string
	}{
		{url.Values{}, http.StatusBadRequest, "validation_error"},
		{url.Values{"recipe": {"file:///etc/passwd"}}, http.StatusBadRequest, "validation_error"},
		{url.Values{"recipe": {"https://example.com/r.xml"}, "metric": {"perhaps"}}, http.StatusBadRequest, "validation_error"},
	}
	for _, tc := range cases {
		resp, err := http.Get(u + "/recipes/render?" + tc.query.Encode())
		if err != nil {
			t.Fatal(err)
		}
		var e apiError
		_ = json.NewDecoder(resp.Body).Decode(&e)
		_ = resp.Body.Close()
		if resp.StatusCode != tc.status || e.Error != tc.code {
			t.Fatalf("%v: expected %d %s, got %d %s", tc.query, tc.status, tc.code, resp.StatusCode, e.Error)
		}
	}
}

func TestIntegration_WarmUnsupportedMediaType(t *testing.T) {
	u := waitReady(t)
	resp, err := http.Post(u+"/recipes/warm", "text/plain", bytes.NewBufferString("{}"))
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", resp.StatusCode)
	}
}

func TestIntegration_RenderMissThenHit(t *testing.T) {
	u := waitReady(t)
	q := url.Values{"recipe": {recipeURL(t)}, "scope": {"integration"}}

	del, _ := http.NewRequest(http.MethodDelete, u+"/recipes/cache?"+q.Encode(), nil)
	resp, err := http.DefaultClient.Do(del)
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	var bodies []string
	for _, want := range []string{"miss", "hit"} {
		resp, err := http.Get(u + "/recipes/render?" + q.Encode())
		if err != nil {
			t.Fatal(err)
		}
		b, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", resp.StatusCode, b)
		}
		if got := resp.Header.Get("X-Cache"); got != want {
			t.Fatalf("expected X-Cache %s, got %s", want, got)
		}
		bodies = append(bodies, string(b))
	}
	if bodies[0] != bodies[1] || !strings.Contains(bodies[0], "beerxml-recipe") {
		t.Fatalf("expected identical recipe fragments")
	}
}

func TestIntegration_WarmAck(t *testing.T) {
	u := waitReady(t)
	body, _ := json.Marshal(map[string]any{"recipe": recipeURL(t), "scope": "warm", "cache": 60})
	req, _ := http.NewRequest(http.MethodPost, u+"/recipes/warm", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", "integration-warm")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}
	var a ack
	if err := json.NewDecoder(resp.Body).Decode(&a); err != nil {
		t.Fatal(err)
	}
	if a.RequestID != "integration-warm" || a.Sequence == 0 || a.Key == "" {
		t.Fatalf("unexpected ack %+v", a)
	}
	if _, err := time.Parse(time.RFC3339, a.ReceivedAt); err != nil {
		t.Fatalf("received_at not RFC3339: %v", err)
	}
}
