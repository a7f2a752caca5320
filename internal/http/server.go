package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/taskboardhq/taskboard/internal/middleware"
	"github.com/taskboardhq/taskboard/internal/service"
)

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

func NewServer(port string, logger *slog.Logger, taskSvc *service.TaskService, authSvc *service.AuthService, auth *middleware.Auth, corsOrigins []string) *Server {
	router := NewRouter(taskSvc, authSvc)

	// Middleware chain: recovery -> logging -> cors -> auth -> router
	chain := middleware.Recovery(logger)(
		middleware.Logging(logger)(
			middleware.CORS(corsOrigins)(
				auth.Middleware(router))))

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%s", port),
			Handler:      chain,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting server", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	return s.httpServer.Shutdown(ctx)
}
