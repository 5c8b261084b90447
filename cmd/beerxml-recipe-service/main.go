// Package main boots the BeerXML recipe HTTP service.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fairyhunter13/beerxml-recipe-service/internal/cache"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/config"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/fetch"
	httpapi "github.com/fairyhunter13/beerxml-recipe-service/internal/http"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/obs"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/queue"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/recipes"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	obs.InitLoggerWith(os.Stdout, obs.ParseLevel(cfg.LogLevel))
	obs.Logger.Info("service_starting", "cache_backend", cfg.CacheBackend)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fragments, closeCache := openCache(ctx, cfg)
	defer closeCache()

	svc := recipes.New(fetch.New(cfg.FetchTimeout, cfg.FetchMaxBytes), fragments)
	q := queue.New(128)
	mgr := queue.NewManager(cfg, q, svc)
	mgr.Start(ctx)

	app := httpapi.NewApp(cfg, svc, mgr)
	mux := httpapi.NewRouter(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.FetchTimeout + 20*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", "signal", s.String())

	app.StartShutdown()
	obs.Logger.Info("shutdown_drain_begin", "backlog_size", mgr.BacklogSize(), "worker_count", mgr.WorkerCount())

	ctxDrain, cancelDrain := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelDrain()
	if drained := mgr.DrainUntil(ctxDrain); !drained {
		obs.Logger.Warn("shutdown_drain_timeout")
	} else {
		obs.Logger.Info("shutdown_drain_complete")
	}

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	mgr.Stop()
	obs.Logger.Info("service_stopped")
}

// openCache selects the fragment cache backend. An unreachable Redis falls
// back to the in-memory cache so rendering keeps working.
func openCache(ctx context.Context, cfg config.Config) (cache.Cache, func()) {
	if cfg.CacheBackend == config.CacheRedis {
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		r, err := cache.DialRedis(dialCtx, cfg.RedisAddress, cfg.RedisPrefix)
		if err == nil {
			obs.Logger.Info("cache_redis_connected", "addr", cfg.RedisAddress)
			return r, func() { _ = r.Close() }
		}
		obs.Logger.Error("cache_redis_unavailable", "addr", cfg.RedisAddress, "error", err)
	}
	return cache.NewMemory(cfg.CacheSize), func() {}
}
