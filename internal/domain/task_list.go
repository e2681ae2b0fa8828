package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTaskListName is the name given to the list created lazily on an
// account's first task.
const DefaultTaskListName = "Default"

// TaskList groups tasks owned by one account.
type TaskList struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	OwnerID   uuid.UUID `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
}
