package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxTaskTitleLength bounds Task.Title in characters.
const MaxTaskTitleLength = 255

// Task is a single to-do item assigned to an account.
//
// Completed only ever moves from false to true. CreatedAt is set once, at creation.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
	Completed   bool      `json:"completed"`
	ListID      int64     `json:"task_list"`
	AssigneeID  uuid.UUID `json:"assigned_to"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewTask builds an incomplete task for assignee. The list and ID are
// assigned when the task is persisted.
func NewTask(assignee uuid.UUID, title, description string, deadline time.Time) (*Task, error) {
	t := &Task{
		Title:       strings.TrimSpace(title),
		Description: description,
		Deadline:    deadline.UTC(),
		AssigneeID:  assignee,
		CreatedAt:   time.Now().UTC(),
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks the fields a caller controls.
func (t *Task) Validate() error {
	if t.AssigneeID == uuid.Nil {
		return NewValidationError("assigned_to", "is required", ErrEmptyUserID)
	}
	if t.Title == "" {
		return NewValidationError("title", "is required", nil)
	}
	if utf8.RuneCountInString(t.Title) > MaxTaskTitleLength {
		return NewValidationError("title", "is too long", nil)
	}
	if t.Deadline.IsZero() {
		return NewValidationError("deadline", "is required", nil)
	}
	return nil
}

// IsOverdue reports whether the task is incomplete with a deadline before now.
func (t *Task) IsOverdue(now time.Time) bool {
	return !t.Completed && t.Deadline.Before(now)
}
