package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"ipxplorer/internal/engine"
	"ipxplorer/internal/handlers"
	"ipxplorer/internal/render"
)

// Config holds server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
	WriteTimeout   time.Duration // per WebSocket message
	PongWait       time.Duration
}

// Server serves the explorer pages, API and WebSocket endpoint.
type Server struct {
	cfg        Config
	eng        *engine.Engine
	router     chi.Router
	httpServer *http.Server
}

// New creates a server with all routes registered.
func New(cfg Config, eng *engine.Engine, rnd *render.Renderer) *Server {
	s := &Server{cfg: cfg, eng: eng}
	s.router = s.buildRouter(rnd)
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) buildRouter(rnd *render.Renderer) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	handlers.RegisterRoutes(r, s.eng, rnd, handlers.Options{
		WriteWait:      s.cfg.WriteTimeout,
		PongWait:       s.cfg.PongWait,
		AllowedOrigins: s.cfg.AllowedOrigins,
	})
	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port. It blocks until the server
// stops and returns nil after a clean Shutdown.
func (s *Server) Start() error {
	addr := s.httpServer.Addr
	logrus.WithField("addr", addr).Infof("ipxplorer listening on http://localhost%s", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// requestLogger logs one line per request through logrus.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		logrus.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start).String(),
			"remote":     r.RemoteAddr,
		}).Debug("http request")
	})
}
