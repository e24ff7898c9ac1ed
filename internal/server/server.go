// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the published catalog over a JSON HTTP API.
// Reads are served concurrently from the current snapshot; recluster
// requests are serialized and rate limited.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/pdiddy/paper-clusters/internal/catalog"
	"github.com/pdiddy/paper-clusters/internal/cluster"
	"github.com/pdiddy/paper-clusters/internal/query"
	"github.com/pdiddy/paper-clusters/pkg/types"
)

// APIVersion is reported by the index route.
const APIVersion = "1.0.0"

// Search and recluster parameter bounds.
const (
	defaultSearchLimit = 50
	maxSearchLimit     = 200
	defaultClusters    = 5
	shutdownTimeout    = 5 * time.Second
)

// Server serves the query API for one catalog.
type Server struct {
	cfg     types.ServerConfig
	catalog *catalog.Catalog
	logger  *slog.Logger
	echo    *echo.Echo

	// mu serializes recluster requests.
	mu      sync.Mutex
	limiter *rate.Limiter
}

// New builds a server over cat. A nil logger discards request logs.
func New(cfg types.ServerConfig, cat *catalog.Catalog, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		cfg:     cfg,
		catalog: cat,
		logger:  logger,
		echo:    echo.New(),
	}
	if cfg.ReclusterRate > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.ReclusterRate), 1)
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency)
			return nil
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowCredentials: true,
	}))

	e.GET("/", s.handleIndex)
	e.GET("/api/papers", s.handlePapers)
	e.GET("/api/clusters", s.handleClusters)
	e.POST("/api/cluster/:method", s.handleRecluster)
	e.GET("/api/search", s.handleSearch)
	e.GET("/api/stats", s.handleStats)
	return s
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		errc <- s.echo.Start(s.cfg.Addr)
	}()
	s.logger.Info("listening", "addr", s.cfg.Addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving on %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return s.echo.Shutdown(shutdownCtx)
	}
}

func detail(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"detail": msg})
}

func (s *Server) handleIndex(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"message": "Paper Clusters API",
		"version": APIVersion,
		"endpoints": map[string]string{
			"/api/papers":           "Get all papers",
			"/api/clusters":         "Get cluster information",
			"/api/cluster/{method}": "Re-cluster papers",
			"/api/search":           "Search papers",
			"/api/stats":            "Get corpus statistics",
		},
	})
}

// optionalInt parses an optional integer query parameter.
func optionalInt(c echo.Context, name string) (*int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	return &v, nil
}

func (s *Server) handlePapers(c echo.Context) error {
	var f query.Filter
	var err error
	if f.ClusterID, err = optionalInt(c, "cluster_id"); err != nil {
		return detail(c, http.StatusBadRequest, err.Error())
	}
	if f.Year, err = optionalInt(c, "year"); err != nil {
		return detail(c, http.StatusBadRequest, err.Error())
	}
	f.Search = c.QueryParam("search")

	return c.JSON(http.StatusOK, query.FilterPapers(s.catalog.Current().Papers, f))
}

func (s *Server) handleClusters(c echo.Context) error {
	return c.JSON(http.StatusOK, s.catalog.Current().Clusters)
}

func (s *Server) handleRecluster(c echo.Context) error {
	method := c.Param("method")
	if _, err := cluster.ParseMethod(method); err != nil {
		return detail(c, http.StatusBadRequest, fmt.Sprintf("Invalid method. Must be one of: %s", methodList()))
	}

	k := defaultClusters
	if raw := c.QueryParam("n_clusters"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return detail(c, http.StatusBadRequest, fmt.Sprintf("n_clusters must be an integer, got %q", raw))
		}
		k = v
	}
	if err := cluster.ValidateK(k); err != nil {
		return detail(c, http.StatusBadRequest, err.Error())
	}

	if s.limiter != nil && !s.limiter.Allow() {
		return detail(c, http.StatusTooManyRequests, "recluster rate limit exceeded")
	}

	s.mu.Lock()
	snap, err := s.catalog.Recluster(c.Request().Context(), method, k)
	s.mu.Unlock()
	if err != nil {
		s.logger.Error("recluster failed", "method", method, "n_clusters", k, "error", err)
		if errors.Is(err, cluster.ErrInvalidArgument) {
			return detail(c, http.StatusBadRequest, err.Error())
		}
		return detail(c, http.StatusInternalServerError, err.Error())
	}
	s.logger.Info("reclustered", "method", snap.Method, "n_clusters", k, "clusters", len(snap.Clusters))

	return c.JSON(http.StatusOK, map[string]any{
		"message":    fmt.Sprintf("Papers clustered using %s", snap.Method),
		"method":     snap.Method,
		"n_clusters": k,
		"clusters":   len(snap.Clusters),
	})
}

func methodList() string {
	names := make([]string, len(cluster.Methods))
	for i, m := range cluster.Methods {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

func (s *Server) handleSearch(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return detail(c, http.StatusBadRequest, "q is required")
	}

	limit := defaultSearchLimit
	if raw := c.QueryParam("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > maxSearchLimit {
			return detail(c, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxSearchLimit))
		}
		limit = v
	}

	return c.JSON(http.StatusOK, query.Search(s.catalog.Current().Papers, q, limit))
}

func (s *Server) handleStats(c echo.Context) error {
	stats, err := query.ComputeStats(s.catalog.Current())
	if errors.Is(err, query.ErrNoPapers) {
		return c.JSON(http.StatusOK, map[string]string{"error": "No papers loaded"})
	}
	if err != nil {
		return detail(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}
