package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasklink-api/internal/domain"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Token  string    `json:"token"`
}

// CreateTaskRequest defines the payload for creating a task. The assignee
// and list are chosen by the server.
type CreateTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Deadline    Deadline `json:"deadline"`
}

// Validate implements the validator hook used by shared.ValidateRequest.
func (r CreateTaskRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return domain.NewValidationError("title", "is required", nil)
	}
	if r.Deadline.IsZero() {
		return domain.NewValidationError("deadline", "is required", nil)
	}
	return nil
}

// LinkTelegramRequest binds the caller to a Telegram chat identity.
type LinkTelegramRequest struct {
	TelegramID FlexibleInt64 `json:"telegram_id"`
}

// Validate implements the validator hook used by shared.ValidateRequest.
func (r LinkTelegramRequest) Validate() error {
	if r.TelegramID == 0 {
		return domain.NewValidationError("telegram_id", "is required", nil)
	}
	return domain.ValidateExternalID(int64(r.TelegramID))
}

// LinkTelegramResponse reports the outcome of a bind.
type LinkTelegramResponse struct {
	Message    string            `json:"message"`
	TelegramID int64             `json:"telegram_id"`
	Result     domain.LinkResult `json:"result"`
}

// ExternalCompleteRequest is sent by the bot to complete a task.
type ExternalCompleteRequest struct {
	TelegramID FlexibleInt64 `json:"telegram_id"`
	TaskID     FlexibleInt64 `json:"task_id"`
}

// Validate implements the validator hook used by shared.ValidateRequest.
func (r ExternalCompleteRequest) Validate() error {
	if r.TelegramID == 0 || r.TaskID == 0 {
		return domain.NewValidationError("telegram_id", "telegram_id and task_id required", nil)
	}
	if r.TaskID < 0 {
		return domain.NewValidationError("task_id", "must be a positive integer", domain.ErrInvalidID)
	}
	return domain.ValidateExternalID(int64(r.TelegramID))
}

// ExternalCompleteResponse confirms a completion made through the bot.
type ExternalCompleteResponse struct {
	Message string      `json:"message"`
	Task    domain.Task `json:"task"`
}

// FlexibleInt64 decodes from a JSON number or a numeric string. Web forms
// send the Telegram ID as a string.
type FlexibleInt64 int64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexibleInt64) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(strings.TrimSpace(s))
		if len(data) == 0 {
			*f = 0
			return nil
		}
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("expected integer, got %s", data)
	}
	*f = FlexibleInt64(n)
	return nil
}

// deadlineLayouts are tried in order. Layouts without a zone are UTC.
var deadlineLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Deadline decodes RFC 3339 timestamps and the zone-less shapes produced by
// HTML datetime-local inputs.
type Deadline struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Deadline) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return domain.NewValidationError("deadline", "must be a string timestamp", domain.ErrInvalidFormat)
	}
	t, err := ParseDeadline(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ParseDeadline parses s with the accepted deadline layouts.
func ParseDeadline(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range deadlineLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.NewValidationError("deadline", "has invalid format", domain.ErrInvalidFormat)
}
