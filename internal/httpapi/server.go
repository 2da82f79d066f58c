// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskVault Contributors

// Package httpapi is the HTTP adapter over the auth and task services. It
// shapes requests and responses and maps domain error codes to statuses;
// all invariants live in the services it calls.
package httpapi

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/oops"

	"github.com/taskvault/taskvault/internal/auth"
	"github.com/taskvault/taskvault/internal/observability"
	"github.com/taskvault/taskvault/internal/task"
)

// Server serves the TaskVault API.
type Server struct {
	addr       string
	engine     *gin.Engine
	listener   net.Listener
	httpServer *http.Server
	logger     *slog.Logger
	running    atomic.Bool
}

// NewServer wires the API routes over the given services. metrics may be nil
// (e.g. in tests).
func NewServer(addr string, authSvc *auth.Service, taskSvc *task.Service, metrics *observability.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestObserver(metrics, logger))

	authHandler := &authHandler{auth: authSvc, metrics: metrics, logger: logger}
	taskHandler := &taskHandler{tasks: taskSvc, logger: logger}

	api := engine.Group("/api")
	{
		api.POST("/auth/register", authHandler.register)
		api.POST("/auth/login", authHandler.login)

		authed := api.Group("")
		authed.Use(requireAuth(authSvc, logger))
		{
			authed.GET("/auth/profile", authHandler.profile)

			authed.POST("/tasks", taskHandler.create)
			authed.GET("/tasks", taskHandler.list)
			authed.GET("/tasks/:id", taskHandler.get)
			authed.PATCH("/tasks/:id", taskHandler.update)
			authed.DELETE("/tasks/:id", taskHandler.remove)
		}
	}

	return &Server{
		addr:   addr,
		engine: engine,
		logger: logger,
	}
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start begins serving the API. It returns a channel that receives any
// server error after startup and is closed on graceful stop.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("api server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			s.logger.Error("api server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	s.logger.Info("api server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown api server").Wrap(err)
		}
	}

	s.logger.Info("api server stopped")
	return nil
}

// Addr returns the listen address, or empty if not running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
