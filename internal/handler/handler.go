package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/UmudovRavan/taskflow/internal/handler/dto"
	"github.com/UmudovRavan/taskflow/internal/middleware"
	"github.com/UmudovRavan/taskflow/internal/repository"
	"github.com/UmudovRavan/taskflow/internal/service"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	pool             *pgxpool.Pool
	taskService      *service.TaskService
	taskRepo         *repository.TaskRepository
	ledger           *repository.TransactionRepository
	commentRepo      *repository.CommentRepository
	notificationRepo *repository.NotificationRepository
	userRepo         *repository.UserRepository
	authMiddleware   *middleware.AuthMiddleware
}

// New creates a new Handler instance with all dependencies. The pusher is
// the transport notifications are delivered through after commit.
func New(pool *pgxpool.Pool, pusher service.Pusher) *Handler {
	taskRepo := repository.NewTaskRepository(pool)
	ledger := repository.NewTransactionRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	performanceRepo := repository.NewPerformanceRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	fanout := service.NewNotificationFanout(notificationRepo, pusher)
	taskService := service.NewTaskService(
		pool, taskRepo, ledger, commentRepo, performanceRepo, userRepo, fanout,
	)

	authMiddleware := middleware.NewAuthMiddleware(userRepo)

	return &Handler{
		pool:             pool,
		taskService:      taskService,
		taskRepo:         taskRepo,
		ledger:           ledger,
		commentRepo:      commentRepo,
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		authMiddleware:   authMiddleware,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	auth := h.authMiddleware.Authenticate

	mux.Handle("GET /api/v1/tasks", auth(http.HandlerFunc(h.handleListTasks)))
	mux.Handle("POST /api/v1/tasks", auth(http.HandlerFunc(h.handleCreateTask)))
	mux.Handle("GET /api/v1/tasks/{id}", auth(http.HandlerFunc(h.handleGetTask)))
	mux.Handle("POST /api/v1/tasks/{id}/assign", auth(http.HandlerFunc(h.handleAssignTask)))
	mux.Handle("POST /api/v1/tasks/{id}/unassign", auth(http.HandlerFunc(h.handleUnassignTask)))
	mux.Handle("POST /api/v1/tasks/{id}/accept", auth(http.HandlerFunc(h.handleAcceptTask)))
	mux.Handle("POST /api/v1/tasks/{id}/reject", auth(http.HandlerFunc(h.handleRejectTask)))
	mux.Handle("POST /api/v1/tasks/{id}/finish", auth(http.HandlerFunc(h.handleFinishTask)))
	mux.Handle("POST /api/v1/tasks/{id}/return", auth(http.HandlerFunc(h.handleReturnTask)))
	mux.Handle("POST /api/v1/tasks/{id}/complete", auth(http.HandlerFunc(h.handleCompleteTask)))
	mux.Handle("POST /api/v1/tasks/{id}/comments", auth(http.HandlerFunc(h.handleCommentTask)))
	mux.Handle("GET /api/v1/leaderboard", auth(http.HandlerFunc(h.handleLeaderboard)))
	mux.Handle("GET /api/v1/notifications", auth(http.HandlerFunc(h.handleListNotifications)))
	mux.Handle("POST /api/v1/notifications/{id}/read", auth(http.HandlerFunc(h.handleMarkNotificationRead)))
}

// handleHealthz returns 200 OK if the database is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.pool.Ping(ctx); err != nil {
		slog.Error("database health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Ping checks if the database is reachable (used for testing).
func (h *Handler) Ping(ctx context.Context) error {
	return h.pool.Ping(ctx)
}

// ExpireOverdue expires all tasks past their deadline. Exposed for the
// check-deadlines command.
func (h *Handler) ExpireOverdue(ctx context.Context) (int, error) {
	return h.taskService.ExpireOverdue(ctx)
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// extractPathID extracts and validates a UUID path parameter.
// Returns (id, true) if valid, ("", false) if invalid (error already sent
// to client).
func extractPathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "id is required")
		return "", false
	}

	if _, err := uuid.Parse(id); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "id must be a valid UUID")
		return "", false
	}

	return id, true
}
