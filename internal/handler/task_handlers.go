package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/UmudovRavan/taskflow/internal/domain"
	"github.com/UmudovRavan/taskflow/internal/handler/dto"
	"github.com/UmudovRavan/taskflow/internal/middleware"
	"github.com/UmudovRavan/taskflow/internal/repository"
)

// handleCreateTask creates a new task owned by the authenticated user.
func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	var req dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "title is required")
		return
	}

	difficulty := domain.TaskDifficulty(req.Difficulty)
	if !difficulty.IsValid() {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "difficulty must be EASY, MEDIUM, or HARD")
		return
	}

	task, err := h.taskRepo.Create(ctx, h.pool, &domain.Task{
		Title:       req.Title,
		Description: req.Description,
		Difficulty:  difficulty,
		Deadline:    req.Deadline,
		Status:      domain.TaskStatusPending,
		CreatorID:   user.ID,
		ParentID:    req.ParentID,
	})
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToTaskResponse(task))
}

// handleGetTask retrieves task details with its audit trail and comments.
func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	taskID, ok := extractPathID(w, r)
	if !ok {
		return
	}

	task, err := h.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	txns, err := h.ledger.ListByTask(ctx, taskID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load task transactions")
		return
	}

	comments, err := h.commentRepo.ListByTask(ctx, taskID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load task comments")
		return
	}

	resp := dto.TaskDetailResponse{
		Task:         dto.ToTaskResponse(task),
		Transactions: make([]dto.TransactionResponse, len(txns)),
		Comments:     make([]dto.CommentResponse, len(comments)),
	}
	for i, txn := range txns {
		resp.Transactions[i] = dto.ToTransactionResponse(txn)
	}
	for i, comment := range comments {
		resp.Comments[i] = dto.ToCommentResponse(comment)
	}

	respondJSON(w, http.StatusOK, resp)
}

// handleListTasks returns tasks with optional filters.
func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	query := r.URL.Query()

	var statuses []string
	if statusParam := query.Get("status"); statusParam != "" {
		for _, part := range splitAndTrim(statusParam, ",") {
			parsed, err := domain.ParseTaskStatus(part)
			if err != nil {
				status, code, message := dto.MapDomainError(err)
				respondError(w, status, code, message)
				return
			}
			statuses = append(statuses, string(parsed))
		}
	}

	var creatorID, assigneeID *string
	if creatorParam := query.Get("creator"); creatorParam != "" {
		if creatorParam == "me" {
			creatorID = &user.ID
		} else {
			creatorID = &creatorParam
		}
	}
	if assigneeParam := query.Get("assignee"); assigneeParam != "" {
		if assigneeParam == "me" {
			assigneeID = &user.ID
		} else {
			assigneeID = &assigneeParam
		}
	}

	limit := 50
	if limitParam := query.Get("limit"); limitParam != "" {
		if n, err := strconv.Atoi(limitParam); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	offset := 0
	if offsetParam := query.Get("offset"); offsetParam != "" {
		if n, err := strconv.Atoi(offsetParam); err == nil && n >= 0 {
			offset = n
		}
	}

	tasks, err := h.taskRepo.List(ctx, repository.TaskListFilters{
		Statuses:   statuses,
		CreatorID:  creatorID,
		AssigneeID: assigneeID,
		Unassigned: query.Get("unassigned") == "true",
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list tasks")
		return
	}

	out := make([]dto.TaskResponse, len(tasks))
	for i, task := range tasks {
		out[i] = dto.ToTaskResponse(task)
	}

	respondJSON(w, http.StatusOK, dto.TasksListResponse{Tasks: out})
}

// handleAssignTask assigns the task to a user.
func (h *Handler) handleAssignTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractPathID(w, r)
	if !ok {
		return
	}

	var req dto.AssignTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if req.AssigneeID == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "assignee_id is required")
		return
	}

	task, err := h.taskService.AssignTask(ctx, taskID, user.ID, req.AssigneeID)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleUnassignTask clears the task's assignee.
func (h *Handler) handleUnassignTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractPathID(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.UnassignTask(ctx, taskID, user.ID)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleAcceptTask accepts an assigned task.
func (h *Handler) handleAcceptTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractPathID(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.AcceptTask(ctx, taskID, user.ID)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleRejectTask rejects an assigned task with a reason.
func (h *Handler) handleRejectTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractPathID(w, r)
	if !ok {
		return
	}

	var req dto.RejectTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	task, err := h.taskService.RejectTask(ctx, taskID, user.ID, req.Reason)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleFinishTask submits an in-progress task for review.
func (h *Handler) handleFinishTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractPathID(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.FinishTask(ctx, taskID, user.ID)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleReturnTask sends a task under review back for revision.
func (h *Handler) handleReturnTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractPathID(w, r)
	if !ok {
		return
	}

	var req dto.ReturnTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	task, err := h.taskService.ReturnForRevision(ctx, taskID, user.ID, req.Reason)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleCompleteTask closes the review and awards performance points.
func (h *Handler) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractPathID(w, r)
	if !ok {
		return
	}

	var req dto.CompleteTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	task, err := h.taskService.CompleteWithScore(ctx, taskID, user.ID, req.Reason)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleCommentTask adds a comment to a task and fans out mentions.
func (h *Handler) handleCommentTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractPathID(w, r)
	if !ok {
		return
	}

	var req dto.CommentTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	comment, err := h.taskService.AddComment(ctx, taskID, user.ID, req.Content)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToCommentResponse(comment))
}

// splitAndTrim splits a string by delimiter and trims whitespace.
func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
