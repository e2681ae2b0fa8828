package telegram

import (
	"fmt"

	"github.com/phrazzld/tasklink-api/internal/redact"
)

// TransportError reports a failed Bot API call: a network failure, a non-JSON
// reply, or an ok=false response. Its message never contains the bot token.
type TransportError struct {
	Method      string
	StatusCode  int    // Bot API error_code, or the HTTP status when no envelope was returned
	Description string // Bot API description, when present
	Err         error
}

func (e *TransportError) Error() string {
	msg := "telegram " + e.Method + " failed"
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (%d)", e.StatusCode)
	}
	if e.Description != "" {
		msg += ": " + e.Description
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return redact.String(msg)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
