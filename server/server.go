// Package server provides the HTTP server for the flowd workflow engine.
//
// The server exposes a REST API to submit, inspect and cancel workflow
// executions, and to browse the registered workflow catalog.
//
// # Endpoints
//
//   - GET /health - Simple health check, returns "ok"
//   - GET /api/status - Aggregate server status (uptime, counters, capabilities)
//   - GET /api/workflows - Workflow catalog listing
//   - GET /api/workflows/{id} - Full workflow definition
//   - POST /api/executions - Submit a workflow execution
//   - GET /api/executions/{id} - Execution state, task progress and outputs
//   - DELETE /api/executions/{id} - Cancel an in-flight execution
//
// # Example
//
//	srv := server.New(cfg, eng, logger)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/flowd-io/flowd/config"
	"github.com/flowd-io/flowd/engine"
	"github.com/flowd-io/flowd/server/cron"
	"github.com/flowd-io/flowd/server/handlers"
)

const (
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 30 * time.Second
)

// Server is the HTTP front end for the workflow engine.
type Server struct {
	addr            string
	shutdownTimeout time.Duration
	logger          *slog.Logger
	engine          *engine.Engine
	triggers        []*cron.Trigger
	httpServer      *http.Server
}

// New creates a Server for the given engine. Cron triggers are built from
// the configured schedules; an invalid schedule is an error.
func New(cfg *config.Config, eng *engine.Engine, logger *slog.Logger) (*Server, error) {
	s := &Server{
		addr:            cfg.Server.ListenAddr,
		shutdownTimeout: cfg.Server.ShutdownTimeout,
		logger:          logger,
		engine:          eng,
	}

	for _, sched := range cfg.Schedules {
		trigger, err := cron.NewTrigger(sched.Cron, sched.WorkflowID, sched.Inputs, eng, logger)
		if err != nil {
			return nil, fmt.Errorf("schedule for workflow %q: %w", sched.WorkflowID, err)
		}
		s.triggers = append(s.triggers, trigger)
	}

	return s, nil
}

// Run starts the HTTP server and blocks until the context is cancelled.
// It performs a graceful shutdown when the context is done. Configured
// cron triggers are started automatically.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpServer = &http.Server{
		Addr:         s.addr,
		Handler:      mux,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
	}

	for _, trigger := range s.triggers {
		s.logger.Info("starting cron trigger", "next_run", trigger.NextRun())
		trigger.Start(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", s.addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	executeHandler := handlers.NewExecuteHandler(s.logger, s.engine)
	statusHandler := handlers.NewStatusHandler(s.engine)
	cancelHandler := handlers.NewCancelHandler(s.logger, s.engine)
	workflowsHandler := handlers.NewWorkflowsHandler(s.engine)
	definitionHandler := handlers.NewDefinitionHandler(s.engine)
	serverStatusHandler := handlers.NewServerStatusHandler(s.engine)

	mux.HandleFunc("GET /health", handlers.HandleHealth)
	mux.Handle("GET /api/status", serverStatusHandler)
	mux.Handle("GET /api/workflows", workflowsHandler)
	mux.Handle("GET /api/workflows/{id}", definitionHandler)
	mux.Handle("POST /api/executions", executeHandler)
	mux.Handle("GET /api/executions/{id}", statusHandler)
	mux.Handle("DELETE /api/executions/{id}", cancelHandler)
}
