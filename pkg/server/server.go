package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	handlers "github.com/de-tools/workflow-builder/pkg/handlers/workflow"
	"github.com/de-tools/workflow-builder/pkg/models/domain"
	buildermiddleware "github.com/de-tools/workflow-builder/pkg/server/middleware"
	"github.com/de-tools/workflow-builder/pkg/services/workflow"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router          http.Handler
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Workflows workflow.Service
	Roster    domain.Roster
	Logger    zerolog.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func ConfigureRouter(config Config) *chi.Mux {
	logger := config.Dependencies.Logger
	wfHandler := handlers.NewHandler(config.Dependencies.Workflows, config.Dependencies.Roster)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(buildermiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", wfHandler.Health)
	router.Route("/workflows", func(r chi.Router) {
		r.Get("/", wfHandler.ListWorkflows)
		r.Post("/", wfHandler.CreateWorkflow)
		r.Get("/{id}", wfHandler.GetWorkflow)
		r.Put("/{id}", wfHandler.UpdateWorkflow)
		r.Delete("/{id}", wfHandler.DeleteWorkflow)
		r.Patch("/{id}/status", wfHandler.UpdateStatus)
	})

	return router
}

func NewWebAPI(config Config) *WebAPI {
	router := ConfigureRouter(config)
	logger := config.Dependencies.Logger

	shutdownTimeout := config.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}

	return &WebAPI{
		router:          router,
		logger:          &logger,
		shutdownTimeout: shutdownTimeout,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start serves until the listener fails, ctx is cancelled or the process
// receives SIGINT/SIGTERM. In-flight requests get the shutdown timeout to finish.
func (w *WebAPI) Start(ctx context.Context) error {
	serverErrors := make(chan error, 1)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		w.logger.Info().Msg("shutdown initiated")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(shutdownCtx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
