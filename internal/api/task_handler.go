package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasklink-api/internal/api/shared"
	"github.com/phrazzld/tasklink-api/internal/platform/logger"
	"github.com/phrazzld/tasklink-api/internal/service"
)

// TaskHandler serves the authenticated web surface.
type TaskHandler struct {
	tasks    service.TaskService
	registry *service.IdentityRegistry
	logger   *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(tasks service.TaskService, registry *service.IdentityRegistry, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}
	return &TaskHandler{
		tasks:    tasks,
		registry: registry,
		logger:   logger.With(slog.String("component", "task_handler")),
	}
}

// MyTasks handles GET /api/my-tasks.
func (h *TaskHandler) MyTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListTasksFor(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// CreateTask handles POST /api/create-task.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.tasks.CreateTask(r.Context(), userID, req.Title, req.Description, req.Deadline.Time)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, task)
}

// CompleteTask handles PATCH /api/complete-task/{id}.
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	taskID, err := getPathInt64(r, "id")
	if err != nil {
		log.Debug("invalid task id", slog.String("value", chiParam(r, "id")))
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.tasks.CompleteTask(r.Context(), taskID, userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// LinkTelegram handles POST /api/link-telegram.
func (h *TaskHandler) LinkTelegram(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req LinkTelegramRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.registry.Bind(r.Context(), userID, int64(req.TelegramID))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, LinkTelegramResponse{
		Message:    "Telegram account linked",
		TelegramID: int64(req.TelegramID),
		Result:     result,
	})
}
