package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasklink-api/internal/domain"
	"github.com/phrazzld/tasklink-api/internal/platform/logger"
	"github.com/phrazzld/tasklink-api/internal/store"
)

const taskColumns = `id, title, description, deadline, completed, list_id, assignee_id, created_at`

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// db may be a *sql.DB or a *sql.Tx. If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// CreateInDefaultList implements store.TaskStore.CreateInDefaultList.
//
// The list lookup/creation and the task insert share one transaction. When
// the store already wraps a *sql.Tx the caller owns the transaction.
// Duplicate default lists are prevented by the partial unique index
// task_lists_one_default_per_owner; a racing insert degrades to DO NOTHING
// and the following SELECT sees the winner's row.
func (s *PostgresTaskStore) CreateInDefaultList(
	ctx context.Context,
	task *domain.Task,
	defaultListName string,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create", slog.String("error", err.Error()))
		return err
	}

	db, ok := s.db.(*sql.DB)
	if !ok {
		return s.createInDefaultList(ctx, s.db, task, defaultListName)
	}
	return store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		return s.createInDefaultList(ctx, tx, task, defaultListName)
	})
}

func (s *PostgresTaskStore) createInDefaultList(
	ctx context.Context,
	db store.DBTX,
	task *domain.Task,
	defaultListName string,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("assignee_id", task.AssigneeID.String()))

	_, err := db.ExecContext(ctx, `
		INSERT INTO task_lists (name, owner_id, is_default, created_at)
		SELECT $1, $2, TRUE, $3
		WHERE NOT EXISTS (SELECT 1 FROM task_lists WHERE owner_id = $2)
		ON CONFLICT DO NOTHING
	`, defaultListName, task.AssigneeID, time.Now().UTC())
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("default list owner does not exist")
			return store.ErrUserNotFound
		}
		log.Error("failed to ensure default task list", slog.String("error", err.Error()))
		return store.NewStoreError("task_list", "create", "failed to ensure default list", MapError(err))
	}

	err = db.QueryRowContext(ctx, `
		SELECT id FROM task_lists
		WHERE owner_id = $1
		ORDER BY created_at, id
		LIMIT 1
	`, task.AssigneeID).Scan(&task.ListID)
	if err != nil {
		log.Error("failed to resolve default task list", slog.String("error", err.Error()))
		return store.NewStoreError("task_list", "get", "failed to resolve default list", MapError(err))
	}

	err = db.QueryRowContext(ctx, `
		INSERT INTO tasks (title, description, deadline, completed, list_id, assignee_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`,
		task.Title,
		task.Description,
		task.Deadline,
		task.Completed,
		task.ListID,
		task.AssigneeID,
		task.CreatedAt,
	).Scan(&task.ID)
	if err != nil {
		log.Error("failed to insert task", slog.String("error", err.Error()))
		return store.NewStoreError("task", "create", "failed to insert task", MapError(err))
	}

	log.Info("task created",
		slog.Int64("task_id", task.ID),
		slog.Int64("list_id", task.ListID))
	return nil
}

// ListByAssignee implements store.TaskStore.ListByAssignee.
func (s *PostgresTaskStore) ListByAssignee(ctx context.Context, assignee uuid.UUID) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE assignee_id = $1
		ORDER BY deadline, id`
	return s.queryTasks(ctx, "list_by_assignee", query, assignee)
}

// ListOverdue implements store.TaskStore.ListOverdue.
func (s *PostgresTaskStore) ListOverdue(ctx context.Context, now time.Time) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE NOT completed AND deadline < $1
		ORDER BY deadline, id`
	return s.queryTasks(ctx, "list_overdue", query, now.UTC())
}

// Complete implements store.TaskStore.Complete.
//
// The UPDATE is a compare-and-set on completed, so under concurrent calls
// exactly one caller observes transitioned == true.
func (s *PostgresTaskStore) Complete(
	ctx context.Context,
	id int64,
	assignee uuid.UUID,
) (*domain.Task, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.Int64("task_id", id),
		slog.String("assignee_id", assignee.String()))

	task, err := scanTask(s.db.QueryRowContext(ctx, `
		UPDATE tasks SET completed = TRUE
		WHERE id = $1 AND assignee_id = $2 AND NOT completed
		RETURNING `+taskColumns, id, assignee))
	if err == nil {
		log.Info("task completed")
		return task, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Error("failed to complete task", slog.String("error", err.Error()))
		return nil, false, store.NewStoreError("task", "complete", "update failed", MapError(err))
	}

	// Either already completed or not ours.
	task, err = scanTask(s.db.QueryRowContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = $1 AND assignee_id = $2`, id, assignee))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found for assignee")
			return nil, false, store.ErrTaskNotFound
		}
		log.Error("failed to load task after no-op completion", slog.String("error", err.Error()))
		return nil, false, store.NewStoreError("task", "complete", "lookup failed", MapError(err))
	}

	log.Debug("task already completed")
	return task, false, nil
}

func (s *PostgresTaskStore) queryTasks(ctx context.Context, op, query string, args ...any) ([]domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks", slog.String("operation", op), slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", op, "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, store.NewStoreError("task", op, "scan failed", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task", op, "iteration failed", err)
	}
	return tasks, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	if err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Deadline,
		&t.Completed,
		&t.ListID,
		&t.AssigneeID,
		&t.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}
	t.Deadline = t.Deadline.UTC()
	t.CreatedAt = t.CreatedAt.UTC()
	return &t, nil
}
