package server

import (
	"context"
	"errors"
	"net/http"

	_ "github.com/akolanti/DocQuery/cmd/api/docs"
	"github.com/akolanti/DocQuery/internal/config"
	"github.com/akolanti/DocQuery/internal/handlers"
	"github.com/akolanti/DocQuery/internal/middleware"
	"github.com/akolanti/DocQuery/pkg/logger_i"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	http   *http.Server
	logger *logger_i.Logger
}

// NewRouter mounts the public endpoints (health, metrics, swagger) and every
// workspace route behind the middleware chain.
func NewRouter(h *handlers.Handler, chain *middleware.Chain) *chi.Mux {
	r := chi.NewRouter()
	initSwagger(r)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", h.GetHealth)

	r.Group(func(r chi.Router) {
		r.Use(chain.Handler)

		r.Post("/documents", h.PostDocument)
		r.Get("/documents", h.ListDocuments)
		r.Get("/documents/{id}", h.GetDocument)
		r.Post("/documents/{id}/parse", h.PostParse)
		r.Post("/documents/{id}/reupload", h.PostReupload)

		r.Post("/sessions", h.PostSession)
		r.Get("/sessions", h.ListSessions)
		r.Get("/sessions/active", h.GetActiveSession)
		r.Put("/sessions/active", h.PutActiveSession)
		r.Patch("/sessions/{id}", h.PatchSession)
		r.Post("/sessions/{id}/documents", h.PostSessionDocument)
		r.Put("/sessions/{id}/active-document", h.PutActiveDocument)
		r.Get("/sessions/{id}/messages", h.GetMessages)
		r.Post("/sessions/{id}/ask", h.PostAsk)

		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.PutSettings)
		r.Delete("/storage", h.DeleteStorage)
		r.Delete("/storage/{family}", h.DeleteStorageFamily)
	})
	return r
}

func initSwagger(r *chi.Mux) {
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)
}

func New(listenAddr string, handler http.Handler) *Server {
	return &Server{
		http: &http.Server{
			Addr:         listenAddr,
			Handler:      handler,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
		logger: logger_i.NewLogger("Server"),
	}
}

// Start blocks until the server stops. A graceful Shutdown is not an error.
func (s *Server) Start() error {
	s.logger.Info("Server is listening at", "address", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("Server crashed", "error", err, "addr", s.http.Addr)
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.http.SetKeepAlivesEnabled(false)
	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Error("Could not shutdown gracefully", "error", err)
		return err
	}
	s.logger.Info("Server shut down")
	return nil
}
