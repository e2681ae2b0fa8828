package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser("test@example.com", "correct-horse-battery")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "test@example.com", user.Email)
	assert.Equal(t, "correct-horse-battery", user.Password)
	assert.False(t, user.CreatedAt.IsZero())
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)
}

func TestUserValidate(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		pass    string
		wantErr error
	}{
		{name: "empty_email", email: "", pass: "correct-horse-battery", wantErr: ErrEmptyEmail},
		{name: "invalid_email", email: "invalidemail", pass: "correct-horse-battery", wantErr: ErrInvalidEmail},
		{name: "short_password", email: "a@example.com", pass: "short", wantErr: ErrPasswordTooShort},
		{name: "long_password", email: "a@example.com", pass: strings.Repeat("x", 73), wantErr: ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.email, tt.pass)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("stored_user_needs_hash", func(t *testing.T) {
		u := &User{ID: uuid.New(), Email: "a@example.com"}
		assert.ErrorIs(t, u.Validate(), ErrEmptyPassword)

		u.HashedPassword = "$2a$10$abc"
		assert.NoError(t, u.Validate())
	})
}
