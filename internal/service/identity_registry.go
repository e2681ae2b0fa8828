package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tasklink-api/internal/domain"
	"github.com/phrazzld/tasklink-api/internal/platform/logger"
	"github.com/phrazzld/tasklink-api/internal/store"
)

// IdentityRegistry binds external chat identities to accounts and resolves them.
//
// An account has at most one external identity and an external identity
// belongs to at most one account. Binding an identity already held by a
// different account fails with ErrExternalIDTaken.
type IdentityRegistry struct {
	links  store.IdentityLinkStore
	logger *slog.Logger
}

// NewIdentityRegistry creates a registry over links. If logger is nil, a default logger will be used.
func NewIdentityRegistry(links store.IdentityLinkStore, logger *slog.Logger) *IdentityRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &IdentityRegistry{
		links:  links,
		logger: logger.With(slog.String("component", "identity_registry")),
	}
}

// Bind links account to externalID, creating the link or overwriting the
// account's previous external ID in place.
func (r *IdentityRegistry) Bind(ctx context.Context, account uuid.UUID, externalID int64) (domain.LinkResult, error) {
	log := logger.FromContextOrDefault(ctx, r.logger).With(slog.String("user_id", account.String()))

	if err := domain.ValidateExternalID(externalID); err != nil {
		return "", err
	}

	result, err := r.links.Upsert(ctx, &domain.IdentityLink{UserID: account, ExternalID: externalID})
	if err != nil {
		if errors.Is(err, store.ErrExternalIDTaken) {
			log.Warn("bind rejected, external id held by another account")
			return "", ErrExternalIDTaken
		}
		return "", fmt.Errorf("bind external identity: %w", err)
	}

	log.Info("external identity bound", slog.String("result", string(result)))
	return result, nil
}

// Resolve returns the account bound to externalID, or ErrNotLinked.
func (r *IdentityRegistry) Resolve(ctx context.Context, externalID int64) (uuid.UUID, error) {
	link, err := r.links.GetByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, store.ErrIdentityLinkNotFound) {
			logger.FromContextOrDefault(ctx, r.logger).Debug("external identity not linked")
			return uuid.Nil, ErrNotLinked
		}
		return uuid.Nil, fmt.Errorf("resolve external identity: %w", err)
	}
	return link.UserID, nil
}

// LookupByAccount returns account's link. An unlinked account yields an
// error matching both ErrNotLinked and store.ErrIdentityLinkNotFound, so
// callers outside this package can test for the store sentinel.
func (r *IdentityRegistry) LookupByAccount(ctx context.Context, account uuid.UUID) (*domain.IdentityLink, error) {
	link, err := r.links.GetByUserID(ctx, account)
	if err != nil {
		if errors.Is(err, store.ErrIdentityLinkNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrNotLinked, err)
		}
		return nil, fmt.Errorf("lookup identity link: %w", err)
	}
	return link, nil
}
