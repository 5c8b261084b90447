// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fairyhunter13/beerxml-recipe-service/internal/render"
)

// Config holds configuration knobs for the HTTP server, the fragment
// cache, document fetching and the cache warming workers.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	LogLevel        string

	CacheBackend string
	CacheSize    int
	CacheTTL     time.Duration
	RedisAddress string
	RedisPrefix  string

	FetchTimeout  time.Duration
	FetchMaxBytes int64

	// Display holds the defaults used when a request leaves an option out.
	Display render.Options

	InitialWorkerCount      int
	WorkerMin               int
	WorkerMax               int
	ScaleInterval           time.Duration
	ScaleUpBacklogPerWorker int
	ScaleDownIdleTicks      int
	QueueHighWatermark      int
}

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func boolenv(key string, def bool) bool {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	b, ok := ParseBool(v)
	if !ok {
		return def
	}
	return b
}

func durenvms(key string, defMs int) time.Duration {
	ms := atoienv(key, defMs)
	return time.Duration(ms) * time.Millisecond
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

// ParseBool accepts the spellings people use in shortcodes and env files:
// 1/0, true/false, yes/no and on/off, in any case.
func ParseBool(s string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on", "y", "t":
		return true, true
	case "0", "false", "no", "off", "n", "f":
		return false, true
	}
	return false, false
}

// Load collects configuration from environment with defaults.
func Load() Config {
	minWorkers := atoienv("WORKER_MIN", 1)
	maxWorkers := atoienv("WORKER_MAX", 4)
	initialWorkers := atoienv("WORKER_COUNT", minWorkers)

	display := render.DefaultOptions()
	display.Metric = strings.EqualFold(getenv("UNITS", "us"), "metric")
	display.Download = boolenv("DISPLAY_DOWNLOAD", display.Download)
	display.Style = boolenv("DISPLAY_STYLE", display.Style)
	display.Mash = boolenv("DISPLAY_MASH", display.Mash)
	display.Misc = boolenv("DISPLAY_MISC", display.Misc)
	display.Fermentation = boolenv("DISPLAY_FERMENTATION", display.Fermentation)
	display.MetricHops = boolenv("DISPLAY_METRIC_HOPS", display.MetricHops)

	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 15),
		LogLevel:        getenv("LOG_LEVEL", "info"),

		CacheBackend: strings.ToLower(getenv("CACHE_BACKEND", CacheMemory)),
		CacheSize:    atoienv("CACHE_SIZE", 512),
		CacheTTL:     durenvs("CACHE_TTL", 12*60*60),
		RedisAddress: getenv("REDIS_ADDRESS", "localhost:6379"),
		RedisPrefix:  getenv("REDIS_PREFIX", "beerxml:"),

		FetchTimeout:  durenvms("FETCH_TIMEOUT_MS", 10000),
		FetchMaxBytes: int64(atoienv("FETCH_MAX_BYTES", 2<<20)),

		Display: display,

		InitialWorkerCount:      initialWorkers,
		WorkerMin:               minWorkers,
		WorkerMax:               maxWorkers,
		ScaleInterval:           durenvms("SCALE_INTERVAL_MS", 500),
		ScaleUpBacklogPerWorker: atoienv("SCALE_UP_BACKLOG_PER_WORKER", 10),
		ScaleDownIdleTicks:      atoienv("SCALE_DOWN_IDLE_TICKS", 6),
		QueueHighWatermark:      atoienv("QUEUE_HIGH_WATERMARK", 1000),
	}
}
