package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasklink-api/internal/domain"
)

// TaskStore defines the interface for task and task list persistence.
type TaskStore interface {
	// CreateInDefaultList persists task into the assignee's first task list,
	// creating a list named defaultListName when the assignee owns none.
	// Concurrent first calls for one owner must still produce a single list.
	// On success task.ID and task.ListID are set.
	CreateInDefaultList(ctx context.Context, task *domain.Task, defaultListName string) error

	// ListByAssignee returns the assignee's tasks ordered by deadline, then ID.
	ListByAssignee(ctx context.Context, assignee uuid.UUID) ([]domain.Task, error)

	// Complete atomically marks the task completed if it is assigned to assignee.
	// transitioned is true only for the call that flipped completed from false
	// to true. Returns ErrTaskNotFound if no such task is assigned to assignee.
	Complete(ctx context.Context, id int64, assignee uuid.UUID) (task *domain.Task, transitioned bool, err error)

	// ListOverdue returns incomplete tasks whose deadline is before now.
	ListOverdue(ctx context.Context, now time.Time) ([]domain.Task, error)
}
