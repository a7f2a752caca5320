package http

import (
	"net/http"

	"github.com/taskboardhq/taskboard/internal/http/handler"
	"github.com/taskboardhq/taskboard/internal/service"
)

func NewRouter(taskSvc *service.TaskService, authSvc *service.AuthService) http.Handler {
	mux := http.NewServeMux()

	// Health check - intentionally outside /api for load balancer probes
	health := handler.NewHealthHandler()
	mux.Handle("/health", health)

	authHandler := handler.NewAuthHandler(authSvc)
	mux.Handle("/api/auth/", authHandler)

	taskHandler := handler.NewTaskHandler(taskSvc)
	mux.Handle("/api/tasks", taskHandler)
	mux.Handle("/api/tasks/", taskHandler)

	return mux
}
