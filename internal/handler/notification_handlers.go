package handler

import (
	"net/http"

	"github.com/UmudovRavan/taskflow/internal/handler/dto"
	"github.com/UmudovRavan/taskflow/internal/middleware"
)

// handleListNotifications returns the authenticated user's notifications,
// newest first.
func (h *Handler) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	ns, err := h.notificationRepo.ListByRecipient(ctx, user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list notifications")
		return
	}

	out := make([]dto.NotificationResponse, len(ns))
	for i, n := range ns {
		out[i] = dto.ToNotificationResponse(n)
	}

	respondJSON(w, http.StatusOK, dto.NotificationsListResponse{Notifications: out})
}

// handleMarkNotificationRead flips the read flag on one notification.
func (h *Handler) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := middleware.GetUserFromContext(ctx); err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	notificationID, ok := extractPathID(w, r)
	if !ok {
		return
	}

	if err := h.notificationRepo.MarkRead(ctx, notificationID); err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
