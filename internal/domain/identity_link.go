package domain

import (
	"time"

	"github.com/google/uuid"
)

// IdentityLink binds an external chat identity to an account.
//
// An account has at most one link and an external ID resolves to at most one
// account. Rebinding an account rewrites ExternalID in place.
type IdentityLink struct {
	UserID     uuid.UUID `json:"user_id"`
	ExternalID int64     `json:"telegram_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// LinkResult reports what Bind did to the stored link.
type LinkResult string

// Possible LinkResult values
const (
	LinkCreated   LinkResult = "created"
	LinkUpdated   LinkResult = "updated"
	LinkUnchanged LinkResult = "unchanged"
)

// ValidateExternalID rejects non-positive chat identities.
func ValidateExternalID(externalID int64) error {
	if externalID <= 0 {
		return NewValidationError("telegram_id", "must be a positive integer", ErrInvalidID)
	}
	return nil
}
