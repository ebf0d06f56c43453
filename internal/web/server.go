// Package web serves the browser UI: a small routing table of server-rendered
// views backed by the SWAPI data access client.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/Sternrassler/swapi-browser/pkg/client"
	"github.com/Sternrassler/swapi-browser/pkg/logging"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Fetcher is the part of *client.Client the views need.
type Fetcher interface {
	FetchPeople(ctx context.Context, page int) (*client.PeoplePage, error)
	FetchPlanets(ctx context.Context, page int) (*client.PlanetPage, error)
}

// Options configures the web server.
type Options struct {
	// SSL turns on HTTPS redirects and HSTS. Leave off behind a TLS-terminating proxy.
	SSL bool

	// FetchTimeout bounds a single page fetch made by a view.
	FetchTimeout time.Duration
}

// Server is the web UI.
type Server struct {
	Router    *gin.Engine
	fetcher   Fetcher
	templates *template.Template
	options   Options
	logger    zerolog.Logger
}

// NewServer creates a new web server instance with all routes registered.
func NewServer(fetcher Fetcher, opts Options) (*Server, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = client.DefaultTimeout
	}

	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	s := &Server{
		Router:    router,
		fetcher:   fetcher,
		templates: tmpl,
		options:   opts,
		logger:    logging.NewLogger(logging.ComponentWeb),
	}

	secureConfig := secure.Config{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'",
	}
	if opts.SSL {
		secureConfig.SSLRedirect = true
		secureConfig.STSSeconds = 31536000
		secureConfig.STSIncludeSubdomains = true
	}

	router.Use(gin.Recovery())
	router.Use(s.requestLogger())
	router.Use(secure.New(secureConfig))

	if err := s.setupRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

// ServeHTTP makes the server usable as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("Starting web server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
		s.logger.Info().Msg("Shutting down web server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// requestLogger logs every served request through zerolog.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := s.logger.Info()
		if status >= http.StatusInternalServerError {
			event = s.logger.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("Served request")
	}
}

// staticFiles returns the embedded static directory.
func staticFiles() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("embedded static filesystem: " + err.Error())
	}
	return http.FS(sub)
}
