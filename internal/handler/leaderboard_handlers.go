package handler

import (
	"net/http"

	"github.com/UmudovRavan/taskflow/internal/handler/dto"
)

// handleLeaderboard returns users ranked by summed performance points.
func (h *Handler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entries, err := h.taskService.Leaderboard(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load leaderboard")
		return
	}

	respondJSON(w, http.StatusOK, dto.ToLeaderboardResponse(entries))
}
