package notify

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasklink-api/internal/domain"
)

// Kind identifies which message a Job renders.
type Kind string

// Job kinds
const (
	KindNewTask Kind = "new_task"
	KindOverdue Kind = "overdue"
)

// Job is one pending notification for an account.
type Job struct {
	ID         uuid.UUID
	Kind       Kind
	AccountID  uuid.UUID
	Task       domain.Task
	EnqueuedAt time.Time
}

func newJob(kind Kind, accountID uuid.UUID, task domain.Task) Job {
	return Job{
		ID:         uuid.New(),
		Kind:       kind,
		AccountID:  accountID,
		Task:       task,
		EnqueuedAt: time.Now().UTC(),
	}
}
