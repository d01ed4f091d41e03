// A small HTTP front for the cache: it shields a slow simulated upstream
// behind GetOrCompute and exposes the cache's activity as Prometheus
// metrics. This is a demo of wiring, not part of the library surface.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cache "github.com/krisalay/swr-cache"
	"github.com/krisalay/swr-cache/api"
	"github.com/krisalay/swr-cache/prom"
)

// config holds the process-level knobs. Flags win over environment
// variables; environment variables win over defaults.
type config struct {
	addr            string
	shards          int
	expiresIn       time.Duration
	timeout         time.Duration
	upstreamLatency time.Duration
}

func (c config) validate() error {
	if c.addr == "" {
		return errors.New("server: listen address must not be empty")
	}
	if c.shards < 1 {
		return errors.New("server: shards must be at least 1")
	}
	if c.expiresIn < 0 || c.timeout < 0 || c.upstreamLatency < 0 {
		return errors.New("server: durations must not be negative")
	}
	return nil
}

func loadConfig() (config, error) {
	addr := flag.String("addr", envOr("SWR_ADDR", ":8080"), "listen address")
	shards := flag.Int("shards", envIntOr("SWR_SHARDS", 8), "entry store shard count")
	expiresIn := flag.Duration("expires-in", envDurationOr("SWR_EXPIRES_IN", 30*time.Second), "window after which a cached value is considered stale")
	timeout := flag.Duration("timeout", envDurationOr("SWR_TIMEOUT", 200*time.Millisecond), "maximum time a request waits on a refresh before falling back")
	upstream := flag.Duration("upstream-latency", envDurationOr("SWR_UPSTREAM_LATENCY", time.Second), "simulated upstream latency")
	flag.Parse()

	cfg := config{
		addr:            *addr,
		shards:          *shards,
		expiresIn:       *expiresIn,
		timeout:         *timeout,
		upstreamLatency: *upstream,
	}
	return cfg, cfg.validate()
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return fallback
}

// newLogger builds a text logger whose level comes from LOG_LEVEL.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

type server struct {
	cache  *cache.SWRCache[string]
	router chi.Router
	logger *slog.Logger
	cfg    config
}

func newServer(cfg config, logger *slog.Logger) *server {
	c := cache.New[string](
		cache.WithShards(cfg.shards),
		cache.WithMetrics(prom.NewMetrics(nil, "swr")),
		cache.WithLogger(logger),
	)

	s := &server{
		cache:  c,
		router: chi.NewRouter(),
		logger: logger,
		cfg:    cfg,
	}
	s.routes()
	return s
}

func (s *server) routes() {
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Get("/v1/lookup", s.handleLookup)
	s.router.Get("/v1/peek", s.handlePeek)
	s.router.Put("/v1/prime", s.handlePrime)
}

// lookupResponse is what both lookup and peek answer with.
type lookupResponse struct {
	Key     string `json:"key"`
	Value   string `json:"value,omitempty"`
	Found   bool   `json:"found"`
	Expired bool   `json:"expired,omitempty"`
}

/*
handleLookup serves GET /v1/lookup?key=K[&force=true].

It asks the cache for the key; on a miss or an expired value the cache
invokes the simulated upstream, bounded by the configured timeout. The
response mirrors the cache's result: a fresh value, a stale value with
"expired": true while the refresh finishes in the background, or
"found": false when nothing is available yet.
*/
func (s *server) handleLookup(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(r.URL.Query().Get("key"))
	if key == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing key parameter"))
		return
	}
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))

	res, err := s.cache.GetOrCompute(r.Context(), key, s.upstream(key), api.Options{
		ExpiresIn:    s.cfg.expiresIn,
		Timeout:      s.cfg.timeout,
		ForceRefresh: force,
	})
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJSON(w, http.StatusOK, lookupResponse{
		Key:     key,
		Value:   res.Value,
		Found:   res.Found,
		Expired: res.Expired,
	})
}

// handlePeek serves GET /v1/peek?key=K: a read that never triggers the
// upstream and never waits.
func (s *server) handlePeek(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(r.URL.Query().Get("key"))
	if key == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing key parameter"))
		return
	}

	res, ok := s.cache.Peek(key, s.cfg.expiresIn)
	if !ok {
		writeJSON(w, http.StatusNotFound, lookupResponse{Key: key})
		return
	}
	writeJSON(w, http.StatusOK, lookupResponse{
		Key:     key,
		Value:   res.Value,
		Found:   true,
		Expired: res.Expired,
	})
}

// handlePrime serves PUT /v1/prime?key=K&value=V: warms the cache with a
// known-good value without touching the upstream.
func (s *server) handlePrime(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(r.URL.Query().Get("key"))
	value := r.URL.Query().Get("value")
	if key == "" || value == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing key or value parameter"))
		return
	}

	s.cache.Set(key, value)
	writeJSON(w, http.StatusOK, lookupResponse{Key: key, Value: value, Found: true})
}

// upstream returns the producer for a key: a stand-in for the expensive
// remote call the cache exists to shield.
func (s *server) upstream(key string) func() (string, error) {
	return func() (string, error) {
		time.Sleep(s.cfg.upstreamLatency)
		return fmt.Sprintf("value-of-%s@%s", key, time.Now().UTC().Format(time.RFC3339)), nil
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func main() {
	logger := newLogger()

	if err := godotenv.Load(); err != nil {
		logger.Warn("server: .env file not loaded", "error", err)
	} else {
		logger.Info("server: environment loaded from .env")
	}

	cfg, err := loadConfig()
	if err != nil {
		logger.Error("server: invalid configuration", "error", err)
		os.Exit(1)
	}

	srv := newServer(cfg, logger)
	defer srv.cache.Close()

	httpServer := &http.Server{
		Addr:    cfg.addr,
		Handler: srv.router,
	}

	go func() {
		logger.Info("server: listening",
			"addr", cfg.addr,
			"expires_in", cfg.expiresIn,
			"timeout", cfg.timeout,
			"upstream_latency", cfg.upstreamLatency,
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server: listen failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server: shutdown failed", "error", err)
	}
}
