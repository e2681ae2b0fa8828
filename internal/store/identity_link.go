package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tasklink-api/internal/domain"
)

// IdentityLinkStore persists the external identity ↔ account mapping.
type IdentityLinkStore interface {
	// Upsert creates the link for link.UserID or overwrites its ExternalID.
	// Returns ErrExternalIDTaken if the external ID belongs to another account.
	Upsert(ctx context.Context, link *domain.IdentityLink) (domain.LinkResult, error)

	// GetByExternalID returns ErrIdentityLinkNotFound when nothing matches.
	GetByExternalID(ctx context.Context, externalID int64) (*domain.IdentityLink, error)

	// GetByUserID returns ErrIdentityLinkNotFound when the account is not linked.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.IdentityLink, error)
}
