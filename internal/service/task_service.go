package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasklink-api/internal/domain"
	"github.com/phrazzld/tasklink-api/internal/events"
	"github.com/phrazzld/tasklink-api/internal/platform/logger"
	"github.com/phrazzld/tasklink-api/internal/store"
)

// TaskNotifier schedules chat notifications about new tasks. Implementations
// must not block on delivery.
type TaskNotifier interface {
	EnqueueNewTask(ctx context.Context, accountID uuid.UUID, task domain.Task) error
}

// TaskService provides task operations for both request surfaces.
type TaskService interface {
	// ListTasksFor returns the account's tasks ordered by deadline. An empty
	// slice is a valid result.
	ListTasksFor(ctx context.Context, account uuid.UUID) ([]domain.Task, error)

	// CreateTask stores a task in the account's default list, creating that
	// list on first use, then broadcasts and schedules a new-task notification.
	CreateTask(ctx context.Context, account uuid.UUID, title, description string, deadline time.Time) (*domain.Task, error)

	// CompleteTask marks the account's task completed. Completing an already
	// completed task returns it unchanged with no broadcast.
	// Returns ErrTaskNotFound if the task is not assigned to account.
	CompleteTask(ctx context.Context, taskID int64, account uuid.UUID) (*domain.Task, error)

	// CompleteTaskByExternalIdentity resolves externalID and completes the task
	// on behalf of the bound account. Returns ErrNotLinked or ErrTaskNotFound.
	CompleteTaskByExternalIdentity(ctx context.Context, externalID int64, taskID int64) (*domain.Task, error)

	// ListTasksByExternalIdentity resolves externalID and lists the bound
	// account's tasks. It also broadcasts a realtime update.
	ListTasksByExternalIdentity(ctx context.Context, externalID int64) ([]domain.Task, error)
}

// TaskServiceImpl implements the TaskService interface
type TaskServiceImpl struct {
	tasks     store.TaskStore
	registry  *IdentityRegistry
	publisher events.Publisher
	notifier  TaskNotifier
	logger    *slog.Logger
}

// Ensure TaskServiceImpl implements TaskService interface
var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a new TaskService. If logger is nil, a default logger will be used.
func NewTaskService(
	tasks store.TaskStore,
	registry *IdentityRegistry,
	publisher events.Publisher,
	notifier TaskNotifier,
	logger *slog.Logger,
) *TaskServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskServiceImpl{
		tasks:     tasks,
		registry:  registry,
		publisher: publisher,
		notifier:  notifier,
		logger:    logger.With(slog.String("component", "task_service")),
	}
}

// ListTasksFor implements TaskService.ListTasksFor.
func (s *TaskServiceImpl) ListTasksFor(ctx context.Context, account uuid.UUID) ([]domain.Task, error) {
	tasks, err := s.tasks.ListByAssignee(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// CreateTask implements TaskService.CreateTask.
func (s *TaskServiceImpl) CreateTask(
	ctx context.Context,
	account uuid.UUID,
	title, description string,
	deadline time.Time,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", account.String()))

	task, err := domain.NewTask(account, title, description, deadline)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.CreateInDefaultList(ctx, task, domain.DefaultTaskListName); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		log.Error("failed to create task", slog.String("error", err.Error()))
		return nil, fmt.Errorf("create task: %w", err)
	}

	log.Info("task created", slog.Int64("task_id", task.ID))
	s.afterWrite(ctx)
	if err := s.notifier.EnqueueNewTask(ctx, account, *task); err != nil {
		log.Warn("new task notification dropped",
			slog.Int64("task_id", task.ID),
			slog.String("error", err.Error()))
	}
	return task, nil
}

// CompleteTask implements TaskService.CompleteTask.
func (s *TaskServiceImpl) CompleteTask(ctx context.Context, taskID int64, account uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", account.String()),
		slog.Int64("task_id", taskID))

	task, transitioned, err := s.tasks.Complete(ctx, taskID, account)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		log.Error("failed to complete task", slog.String("error", err.Error()))
		return nil, fmt.Errorf("complete task: %w", err)
	}

	if transitioned {
		log.Info("task completed")
		s.afterWrite(ctx)
	} else {
		log.Debug("task already completed")
	}
	return task, nil
}

// CompleteTaskByExternalIdentity implements TaskService.CompleteTaskByExternalIdentity.
func (s *TaskServiceImpl) CompleteTaskByExternalIdentity(
	ctx context.Context,
	externalID int64,
	taskID int64,
) (*domain.Task, error) {
	account, err := s.registry.Resolve(ctx, externalID)
	if err != nil {
		return nil, err
	}
	return s.CompleteTask(ctx, taskID, account)
}

// ListTasksByExternalIdentity implements TaskService.ListTasksByExternalIdentity.
func (s *TaskServiceImpl) ListTasksByExternalIdentity(ctx context.Context, externalID int64) ([]domain.Task, error) {
	account, err := s.registry.Resolve(ctx, externalID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.ListTasksFor(ctx, account)
	if err != nil {
		return nil, err
	}

	// Listing from the chat surface also nudges web clients to refresh.
	s.afterWrite(ctx)
	return tasks, nil
}

// afterWrite broadcasts the generic change signal. Publishers never block.
func (s *TaskServiceImpl) afterWrite(ctx context.Context) {
	s.publisher.Publish(ctx, events.TaskUpdated())
}
