// Package server exposes the contract library over HTTP for contractd.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/jeffcaradona/data-contract-library/internal/bootstrap/config"
	"github.com/jeffcaradona/data-contract-library/internal/platform/ratelimiter"
	"github.com/jeffcaradona/data-contract-library/pkg/respond"
)

type Server struct {
	httpServer *http.Server
	dispatcher *respond.Dispatcher
	limiter    *ratelimiter.MapLimiter
	dataset    *Dataset
	cfg        config.Config
	log        *slog.Logger
}

func New(cfg config.Config, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	var limiter *ratelimiter.MapLimiter
	if cfg.RateLimitEnabled {
		limiter = ratelimiter.New(cfg.RateLimitRPS, cfg.RateLimitBurst, 10*time.Minute)
	}

	mux := http.NewServeMux()
	s := &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		dispatcher: respond.New(respond.WithLogger(log), respond.WithObserver(promObserver{})),
		limiter:    limiter,
		dataset:    NewDataset(250),
		cfg:        cfg,
		log:        log,
	}

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/v1/echo", s.json(s.handleEcho))
	mux.HandleFunc("/v1/items", s.json(s.handleItems))
	mux.HandleFunc("/v1/export", s.guard(s.handleExport))
	return s
}

// Handler exposes the configured mux. Test hook.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := s.httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// json wraps a JSON-producing handler with the common guards plus gzip.
func (s *Server) json(h http.HandlerFunc) http.HandlerFunc {
	if s.cfg.GzipEnabled {
		return s.guard(gzipMiddleware(h))
	}
	return s.guard(h)
}

// guard applies CORS, rate limiting and request logging in the order the
// response pipeline needs them: a throttled client must be turned away
// before any contract is built.
func (s *Server) guard(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.applyCORS(w, r) {
			return
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if !s.allow(w, r) {
			return
		}
		reqID := uuid.NewString()
		w.Header().Set("X-Request-ID", reqID)
		started := time.Now()
		s.log.Info("request", "request_id", reqID, "method", r.Method, "path", r.URL.Path)
		h(w, r)
		s.log.Info("response", "request_id", reqID, "path", r.URL.Path, "latency_ms", time.Since(started).Milliseconds())
	}
}

func (s *Server) allow(w http.ResponseWriter, r *http.Request) bool {
	if s.limiter.Allow(clientKey(r), time.Now()) {
		return true
	}
	throttledTotal.Inc()
	http.Error(w, "too many requests", http.StatusTooManyRequests)
	return false
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}

func (s *Server) applyCORS(w http.ResponseWriter, r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin != "" && !isAllowedOrigin(origin) {
		http.Error(w, "origin is not allowed", http.StatusForbidden)
		return false
	}
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
	}
	w.Header().Set("Vary", "Origin")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")
	return true
}

func isAllowedOrigin(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	switch strings.TrimSpace(u.Hostname()) {
	case "localhost", "127.0.0.1", "::1":
		return true
	default:
		return false
	}
}
