package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/tasklink-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "no rows", err: sql.ErrNoRows, want: store.ErrNotFound},
		{
			name: "email unique violation",
			err:  &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: usersEmailConstraint},
			want: store.ErrEmailExists,
		},
		{
			name: "external id unique violation",
			err:  &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: identityLinksExternalIDConstraint},
			want: store.ErrExternalIDTaken,
		},
		{
			name: "other unique violation",
			err:  &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "something_else"},
			want: store.ErrDuplicate,
		},
		{
			name: "foreign key violation",
			err:  &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "tasks_list_id_fkey"},
			want: store.ErrInvalidEntity,
		},
		{
			name: "check violation",
			err:  &pgconn.PgError{Code: checkViolationCode, ConstraintName: "tasks_title_check"},
			want: store.ErrInvalidEntity,
		},
		{
			name: "not null violation",
			err:  &pgconn.PgError{Code: notNullViolationCode, ColumnName: "title"},
			want: store.ErrInvalidEntity,
		},
		{
			name: "wrapped pg error",
			err:  fmt.Errorf("exec: %w", &pgconn.PgError{Code: uniqueViolationCode}),
			want: store.ErrDuplicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestMapError_Passthrough(t *testing.T) {
	assert.NoError(t, MapError(nil))

	plain := errors.New("connection refused")
	assert.Same(t, plain, MapError(plain))
}

func TestViolationPredicates(t *testing.T) {
	unique := &pgconn.PgError{Code: uniqueViolationCode}
	fk := &pgconn.PgError{Code: foreignKeyViolationCode}

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsUniqueViolation(fk))
	assert.True(t, IsForeignKeyViolation(fmt.Errorf("wrapped: %w", fk)))
	assert.False(t, IsForeignKeyViolation(errors.New("plain")))

	assert.True(t, IsNotFoundError(sql.ErrNoRows))
	assert.True(t, IsNotFoundError(store.ErrTaskNotFound))
	assert.False(t, IsNotFoundError(unique))
}
