package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/tasklink-api/internal/domain"
	"github.com/phrazzld/tasklink-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTask(t *testing.T, assignee uuid.UUID) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(assignee, "Buy milk", "", time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return task
}

func TestPostgresTaskStore_CreateInDefaultList(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresTaskStore(db, discardLogger())
	assignee := uuid.New()
	task := newTestTask(t, assignee)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO task_lists")).
		WithArgs(domain.DefaultTaskListName, assignee.String(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM task_lists")).
		WithArgs(assignee.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tasks")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))
	mock.ExpectCommit()

	err := s.CreateInDefaultList(context.Background(), task, domain.DefaultTaskListName)

	require.NoError(t, err)
	assert.Equal(t, int64(42), task.ID)
	assert.Equal(t, int64(7), task.ListID)
	assert.False(t, task.Completed)
}

func TestPostgresTaskStore_CreateInDefaultList_UnknownOwner(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresTaskStore(db, discardLogger())
	task := newTestTask(t, uuid.New())

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO task_lists")).
		WillReturnError(&pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "task_lists_owner_id_fkey"})
	mock.ExpectRollback()

	err := s.CreateInDefaultList(context.Background(), task, domain.DefaultTaskListName)

	assert.ErrorIs(t, err, store.ErrUserNotFound)
	assert.Zero(t, task.ID)
}

func TestPostgresTaskStore_CreateInDefaultList_InvalidTask(t *testing.T) {
	db, _ := newMock(t)
	s := NewPostgresTaskStore(db, discardLogger())

	err := s.CreateInDefaultList(context.Background(), &domain.Task{AssigneeID: uuid.New()}, "Default")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPostgresTaskStore_CreateInDefaultList_TaskInsertFailsRollsBack(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresTaskStore(db, discardLogger())
	task := newTestTask(t, uuid.New())

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO task_lists")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM task_lists")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tasks")).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := s.CreateInDefaultList(context.Background(), task, domain.DefaultTaskListName)

	var storeErr *store.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "task", storeErr.Entity)
	assert.Equal(t, "create", storeErr.Operation)
}

func TestPostgresTaskStore_Complete(t *testing.T) {
	assignee := uuid.New()
	deadline := time.Date(2030, 5, 1, 12, 0, 0, 0, time.UTC)
	created := time.Date(2030, 4, 1, 12, 0, 0, 0, time.UTC)
	row := func(completed bool) *sqlmock.Rows {
		return sqlmock.NewRows(taskColumnNames).
			AddRow(int64(5), "Ship it", "", deadline, completed, int64(1), assignee.String(), created)
	}

	t.Run("first completion transitions", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresTaskStore(db, discardLogger())

		mock.ExpectQuery(regexp.QuoteMeta("UPDATE tasks SET completed = TRUE")).
			WithArgs(int64(5), assignee.String()).
			WillReturnRows(row(true))

		task, transitioned, err := s.Complete(context.Background(), 5, assignee)

		require.NoError(t, err)
		assert.True(t, transitioned)
		assert.True(t, task.Completed)
		assert.Equal(t, deadline, task.Deadline)
	})

	t.Run("already completed is a no-op", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresTaskStore(db, discardLogger())

		mock.ExpectQuery(regexp.QuoteMeta("UPDATE tasks SET completed = TRUE")).
			WillReturnRows(sqlmock.NewRows(taskColumnNames))
		mock.ExpectQuery(regexp.QuoteMeta("FROM tasks")).
			WithArgs(int64(5), assignee.String()).
			WillReturnRows(row(true))

		task, transitioned, err := s.Complete(context.Background(), 5, assignee)

		require.NoError(t, err)
		assert.False(t, transitioned)
		assert.True(t, task.Completed)
	})

	t.Run("not assigned to requester", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresTaskStore(db, discardLogger())

		mock.ExpectQuery(regexp.QuoteMeta("UPDATE tasks SET completed = TRUE")).
			WillReturnRows(sqlmock.NewRows(taskColumnNames))
		mock.ExpectQuery(regexp.QuoteMeta("FROM tasks")).
			WillReturnRows(sqlmock.NewRows(taskColumnNames))

		task, transitioned, err := s.Complete(context.Background(), 5, assignee)

		assert.ErrorIs(t, err, store.ErrTaskNotFound)
		assert.Nil(t, task)
		assert.False(t, transitioned)
	})

	t.Run("database failure", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresTaskStore(db, discardLogger())

		mock.ExpectQuery(regexp.QuoteMeta("UPDATE tasks SET completed = TRUE")).
			WillReturnError(errors.New("connection reset"))

		_, _, err := s.Complete(context.Background(), 5, assignee)

		require.Error(t, err)
		assert.False(t, store.IsNotFoundError(err))
	})
}

func TestPostgresTaskStore_ListOverdue(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresTaskStore(db, discardLogger())
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	assignee := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE NOT completed AND deadline < $1")).
		WithArgs(now).
		WillReturnRows(sqlmock.NewRows(taskColumnNames).
			AddRow(int64(1), "Late", "", now.Add(-time.Hour), false, int64(1), assignee.String(), now.Add(-48*time.Hour)))

	tasks, err := s.ListOverdue(context.Background(), now)

	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Late", tasks[0].Title)
	assert.Equal(t, assignee, tasks[0].AssigneeID)
}

func TestPostgresTaskStore_ListByAssigneeEmpty(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresTaskStore(db, discardLogger())

	mock.ExpectQuery(regexp.QuoteMeta("WHERE assignee_id = $1")).
		WillReturnRows(sqlmock.NewRows(taskColumnNames))

	tasks, err := s.ListByAssignee(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}
