// Package preview serves a chart over HTTP for browser preview: an HTML
// shell, the rendered SVG timeline, and a small JSON API.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/chartsmith/pkg/buildinfo"
	"github.com/matzehuels/chartsmith/pkg/render"
)

// Server serves one chart file. Charts are served read-only; with watching
// enabled, the watcher swaps in a fresh chart when the file changes.
//
// The zero value is not usable - use NewServer.
type Server struct {
	cfg     Config
	watcher *chartWatcher
	logger  *log.Logger
	http    *http.Server
}

// NewServer loads the chart at path and builds the HTTP server around it.
func NewServer(cfg Config, path string, logger *log.Logger) (*Server, error) {
	watcher, err := newChartWatcher(path, cfg.WatchInterval, logger)
	if err != nil {
		return nil, err
	}
	s := &Server{cfg: cfg, watcher: watcher, logger: logger}
	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
	return s, nil
}

// Run serves until the context ends, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if s.cfg.Watch {
		go s.watcher.Run(ctx)
	}

	serveErr := make(chan error, 1)
	s.logger.Info("preview listening", "addr", s.cfg.Addr, "watch", s.cfg.Watch)
	go func() {
		serveErr <- s.http.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	}
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Get("/healthz", s.handleHealth)
	r.Get("/api/chart", s.handleChart)
	r.Get("/chart.svg", s.handleSVG)
	r.Get("/", s.handleIndex)
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "took", time.Since(start))
	})
}

// =============================================================================
// Handlers
// =============================================================================

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

type chartResponse struct {
	Title    string         `json:"title"`
	Artist   string         `json:"artist,omitempty"`
	Audio    string         `json:"audio,omitempty"`
	BPM      float64        `json:"bpm"`
	Lanes    int            `json:"lanes"`
	LengthMS int64          `json:"length_ms"`
	Notes    []noteResponse `json:"notes"`
}

type noteResponse struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Lane    int    `json:"lane"`
	StartMS int64  `json:"start_ms"`
	HoldMS  int64  `json:"hold_ms,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: buildinfo.Version,
		Commit:  buildinfo.Commit,
		Date:    buildinfo.Date,
	})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	c := s.watcher.Chart()
	resp := chartResponse{
		Title:    c.Title,
		Artist:   c.Artist,
		Audio:    c.Audio,
		BPM:      c.BPM,
		Lanes:    c.Lanes,
		LengthMS: c.Length().Milliseconds(),
		Notes:    make([]noteResponse, 0, c.Len()),
	}
	for _, o := range c.Objects() {
		resp.Notes = append(resp.Notes, noteResponse{
			ID:      o.ID.String(),
			Kind:    o.Kind.String(),
			Lane:    o.Lane,
			StartMS: o.Start.Milliseconds(),
			HoldMS:  o.Hold.Milliseconds(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	var opts []render.SVGOption
	if q := r.URL.Query().Get("width"); q != "" {
		width, err := strconv.Atoi(q)
		if err != nil {
			http.Error(w, "width must be an integer", http.StatusBadRequest)
			return
		}
		opts = append(opts, render.WithWidth(width))
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := render.SVG(w, s.watcher.Chart(), opts...); err != nil {
		s.logger.Error("svg render failed", "err", err)
	}
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
{{if .Refresh}}<meta http-equiv="refresh" content="{{.Refresh}}">
{{end}}<title>{{.Title}} · chartsmith</title>
<style>
  body { margin: 0; background: #16161e; color: #c0caf5; font: 14px/1.4 monospace; }
  header { padding: 12px 16px; }
  a { color: #5fafff; }
  img { display: block; margin: 0 16px 16px; max-width: calc(100% - 32px); }
</style>
</head>
<body>
<header>{{.Title}}{{if .Artist}} · {{.Artist}}{{end}} · {{.BPM}} BPM · <a href="/api/chart">json</a></header>
<img src="/chart.svg" alt="chart timeline">
</body>
</html>
`))

type indexData struct {
	Title   string
	Artist  string
	BPM     float64
	Refresh int
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	c := s.watcher.Chart()
	title := c.Title
	if title == "" {
		title = "Untitled"
	}
	data := indexData{Title: title, Artist: c.Artist, BPM: c.BPM}
	if s.cfg.Watch {
		data.Refresh = 2
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Error("index render failed", "err", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
