package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fairyhunter13/beerxml-recipe-service/internal/beerxml"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/config"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/fetch"
	httpopenapi "github.com/fairyhunter13/beerxml-recipe-service/internal/http/openapi"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/model"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/obs"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/queue"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/recipes"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/render"
)

type App struct {
	Cfg     config.Config
	Service *recipes.Service
	Manager *queue.Manager
	closing atomic.Bool
	started time.Time
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

type inspectResponse struct {
	Recipe  *beerxml.Recipe `json:"recipe"`
	View    render.View     `json:"view"`
	Options render.Options  `json:"options"`
}

func NewApp(cfg config.Config, svc *recipes.Service, m *queue.Manager) *App {
	return &App{Cfg: cfg, Service: svc, Manager: m, started: time.Now()}
}

// StartShutdown rejects further warm requests. Renders keep being served
// until the server itself stops.
func (a *App) StartShutdown() {
	a.closing.Store(true)
	a.Manager.CloseIntake()
}

// maxCacheSeconds is the largest cache lifetime a time.Duration can hold.
const maxCacheSeconds = math.MaxInt64 / int64(time.Second)

// requestFromQuery builds a render request from query parameters, falling
// back to the configured defaults for anything left out.
func (a *App) requestFromQuery(q url.Values) (recipes.Request, error) {
	req := recipes.Request{
		URL:     strings.TrimSpace(q.Get("recipe")),
		Scope:   q.Get("scope"),
		TTL:     a.Cfg.CacheTTL,
		Options: a.Cfg.Display,
	}
	if req.URL == "" {
		return req, errors.New("recipe is required")
	}
	if v := q.Get("cache"); v != "" {
		sec, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("cache must be an integer number of seconds, got %q", v)
		}
		switch {
		case sec < 0:
			req.Invalidate = true
			req.TTL = 0
		case int64(sec) > maxCacheSeconds:
			return req, fmt.Errorf("cache must be at most %d seconds, got %d", maxCacheSeconds, sec)
		default:
			req.TTL = time.Duration(sec) * time.Second
		}
	}
	flags := []struct {
		name string
		dst  *bool
	}{
		{"metric", &req.Options.Metric},
		{"mhop", &req.Options.MetricHops},
		{"download", &req.Options.Download},
		{"style", &req.Options.Style},
		{"mash", &req.Options.Mash},
		{"misc", &req.Options.Misc},
		{"fermentation", &req.Options.Fermentation},
	}
	for _, f := range flags {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		b, ok := config.ParseBool(v)
		if !ok {
			return req, fmt.Errorf("%s must be a boolean, got %q", f.name, v)
		}
		*f.dst = b
	}
	return req, nil
}

func (a *App) renderHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	req, err := a.requestFromQuery(r.URL.Query())
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	res, err := a.Service.Render(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	cacheState := "miss"
	if res.Cached {
		cacheState = "hit"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Cache", cacheState)
	w.Header().Set("X-Cache-Key", res.Key)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(res.HTML))
}

func (a *App) inspectHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	req, err := a.requestFromQuery(r.URL.Query())
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	recipe, view, err := a.Service.Inspect(r.Context(), req.URL, req.Options)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	req.Options.Source = req.URL
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(inspectResponse{Recipe: recipe, View: view, Options: req.Options})
}

func (a *App) warmHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	if a.closing.Load() || a.Manager.IsShuttingDown() {
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
		return
	}
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return
	}
	var body model.WarmRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	body.Recipe = strings.TrimSpace(body.Recipe)
	if body.Recipe == "" {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "recipe is required")
		return
	}
	if err := fetch.ValidateURL(body.Recipe); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	ttl := a.Cfg.CacheTTL
	if body.Cache != nil {
		if *body.Cache <= 0 || int64(*body.Cache) > maxCacheSeconds {
			WriteJSONError(w, http.StatusBadRequest, "validation_error",
				fmt.Sprintf("cache must be between 1 and %d seconds when warming", maxCacheSeconds))
			return
		}
		ttl = time.Duration(*body.Cache) * time.Second
	}
	job := model.WarmJob{
		URL:     body.Recipe,
		Scope:   body.Scope,
		TTL:     ttl,
		Options: body.Apply(a.Cfg.Display),
	}
	seq, ok := a.Manager.Enqueue(job)
	if !ok {
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
		return
	}
	ac := ack{
		Status:      "accepted",
		RequestID:   RequestIDFromContext(r.Context()),
		Sequence:    seq,
		Recipe:      job.URL,
		Key:         recipes.Key(recipes.Request{URL: job.URL, Scope: job.Scope, Options: job.Options}),
		ReceivedAt:  time.Now().UTC().Format(time.RFC3339),
		QueueDepth:  a.Manager.QueueDepth(),
		BacklogSize: a.Manager.BacklogSize(),
		WorkerCount: a.Manager.WorkerCount(),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(ac)
	obs.Logger.Info("warm_accepted",
		"request_id", ac.RequestID,
		"sequence", ac.Sequence,
		"recipe", ac.Recipe,
		"queue_depth", ac.QueueDepth,
		"backlog_size", ac.BacklogSize,
		"worker_count", ac.WorkerCount,
	)
}

func (a *App) cacheHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	req, err := a.requestFromQuery(r.URL.Query())
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	key, err := a.Service.Invalidate(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("X-Cache-Key", key)
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (a *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	s := a.Manager.Stats()
	m := map[string]any{
		"warm_enqueued":  s.Enqueued,
		"warm_processed": s.Processed,
		"warm_failed":    s.Failed,
		"backlog_size":   s.Backlog,
		"queue_depth":    s.Depth,
		"worker_count":   a.Manager.WorkerCount(),
		"uptime_sec":     time.Since(a.started).Seconds(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(m)
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>BeerXML Recipe Service</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}
