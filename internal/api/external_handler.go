package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/phrazzld/tasklink-api/internal/api/shared"
	"github.com/phrazzld/tasklink-api/internal/domain"
	"github.com/phrazzld/tasklink-api/internal/service"
)

// ExternalHandler serves the surface the chat bot calls. Callers are
// identified by telegram_id alone.
type ExternalHandler struct {
	tasks  service.TaskService
	logger *slog.Logger
}

// NewExternalHandler creates a new ExternalHandler
func NewExternalHandler(tasks service.TaskService, logger *slog.Logger) *ExternalHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExternalHandler{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "external_handler")),
	}
}

// ListTasks handles GET /api/telegram/tasks?telegram_id=.
func (h *ExternalHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("telegram_id"))
	if raw == "" {
		HandleAPIError(w, r, domain.NewValidationError("telegram_id", "is required", nil), "telegram_id is required")
		return
	}
	externalID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		HandleAPIError(w, r,
			domain.NewValidationError("telegram_id", "has invalid format", domain.ErrInvalidID), "")
		return
	}
	if err := domain.ValidateExternalID(externalID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	tasks, err := h.tasks.ListTasksByExternalIdentity(r.Context(), externalID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// CompleteTask handles POST /api/telegram/complete-task.
func (h *ExternalHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	var req ExternalCompleteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.tasks.CompleteTaskByExternalIdentity(r.Context(), int64(req.TelegramID), int64(req.TaskID))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ExternalCompleteResponse{
		Message: "Task completed ✅",
		Task:    *task,
	})
}
