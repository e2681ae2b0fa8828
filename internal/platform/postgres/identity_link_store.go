package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasklink-api/internal/domain"
	"github.com/phrazzld/tasklink-api/internal/platform/logger"
	"github.com/phrazzld/tasklink-api/internal/store"
)

// PostgresIdentityLinkStore implements the store.IdentityLinkStore interface
// using a PostgreSQL database as the storage backend.
type PostgresIdentityLinkStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresIdentityLinkStore creates a new PostgreSQL implementation of the
// IdentityLinkStore interface. If logger is nil, a default logger will be used.
func NewPostgresIdentityLinkStore(db store.DBTX, logger *slog.Logger) *PostgresIdentityLinkStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresIdentityLinkStore{
		db:     db,
		logger: logger.With(slog.String("component", "identity_link_store")),
	}
}

// Ensure PostgresIdentityLinkStore implements store.IdentityLinkStore interface
var _ store.IdentityLinkStore = (*PostgresIdentityLinkStore)(nil)

// Upsert implements store.IdentityLinkStore.Upsert.
//
// The outcome is read from the row the statement wrote: xmax = 0 only for a
// freshly inserted tuple, and updated_at is set to this call's timestamp only
// when external_id changed. Two concurrent first binds for one account
// therefore report one LinkCreated and one LinkUpdated or LinkUnchanged.
func (s *PostgresIdentityLinkStore) Upsert(
	ctx context.Context,
	link *domain.IdentityLink,
) (domain.LinkResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", link.UserID.String()))

	if err := domain.ValidateExternalID(link.ExternalID); err != nil {
		return "", err
	}

	query := `
		INSERT INTO identity_links (user_id, external_id, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET external_id = EXCLUDED.external_id,
		    updated_at = CASE
		        WHEN identity_links.external_id = EXCLUDED.external_id THEN identity_links.updated_at
		        ELSE EXCLUDED.updated_at
		    END
		RETURNING created_at, updated_at, (xmax = 0) AS inserted, (updated_at = $3) AS changed
	`

	var inserted, changed bool
	err := s.db.QueryRowContext(ctx, query, link.UserID, link.ExternalID, time.Now().UTC()).Scan(
		&link.CreatedAt,
		&link.UpdatedAt,
		&inserted,
		&changed,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("identity link references unknown user")
			return "", store.ErrUserNotFound
		}
		err = MapError(err)
		if errors.Is(err, store.ErrExternalIDTaken) {
			log.Warn("external id already bound to another account")
			return "", err
		}
		log.Error("failed to upsert identity link", slog.String("error", err.Error()))
		return "", store.NewStoreError("identity_link", "upsert", "failed to upsert link", err)
	}
	link.CreatedAt = link.CreatedAt.UTC()
	link.UpdatedAt = link.UpdatedAt.UTC()

	var result domain.LinkResult
	switch {
	case inserted:
		result = domain.LinkCreated
	case changed:
		result = domain.LinkUpdated
	default:
		result = domain.LinkUnchanged
	}

	log.Info("identity link saved", slog.String("result", string(result)))
	return result, nil
}

// GetByExternalID implements store.IdentityLinkStore.GetByExternalID.
func (s *PostgresIdentityLinkStore) GetByExternalID(
	ctx context.Context,
	externalID int64,
) (*domain.IdentityLink, error) {
	return s.getOne(ctx, "external_id", externalID)
}

// GetByUserID implements store.IdentityLinkStore.GetByUserID.
func (s *PostgresIdentityLinkStore) GetByUserID(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.IdentityLink, error) {
	return s.getOne(ctx, "user_id", userID)
}

func (s *PostgresIdentityLinkStore) getOne(ctx context.Context, column string, value any) (*domain.IdentityLink, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// column is always one of the literals passed by the exported getters.
	query := `
		SELECT user_id, external_id, created_at, updated_at
		FROM identity_links
		WHERE ` + column + ` = $1
	`

	var link domain.IdentityLink
	err := s.db.QueryRowContext(ctx, query, value).Scan(
		&link.UserID,
		&link.ExternalID,
		&link.CreatedAt,
		&link.UpdatedAt,
	)
	if err != nil {
		if IsNotFoundError(err) {
			log.Debug("identity link not found", slog.String("by", column))
			return nil, store.ErrIdentityLinkNotFound
		}
		log.Error("failed to get identity link", slog.String("by", column), slog.String("error", err.Error()))
		return nil, store.NewStoreError("identity_link", "get", "failed to query link", MapError(err))
	}
	link.CreatedAt = link.CreatedAt.UTC()
	link.UpdatedAt = link.UpdatedAt.UTC()
	return &link, nil
}
