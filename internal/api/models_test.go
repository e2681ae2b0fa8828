package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/phrazzld/tasklink-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleInt64(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    FlexibleInt64
		wantErr bool
	}{
		{input: `42`, want: 42},
		{input: `"42"`, want: 42},
		{input: `" 7 "`, want: 7},
		{input: `""`, want: 0},
		{input: `null`, want: 0},
		{input: `-3`, want: -3},
		{input: `"abc"`, wantErr: true},
		{input: `1.5`, wantErr: true},
		{input: `true`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			var got FlexibleInt64
			err := json.Unmarshal([]byte(tc.input), &got)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseDeadline(t *testing.T) {
	t.Parallel()
	want := time.Date(2099, 1, 1, 9, 30, 0, 0, time.UTC)

	for _, input := range []string{
		"2099-01-01T09:30:00Z",
		"2099-01-01T12:30:00+03:00",
		"2099-01-01T09:30:00",
		"2099-01-01T09:30",
		"2099-01-01 09:30",
	} {
		got, err := ParseDeadline(input)
		require.NoError(t, err, input)
		assert.True(t, want.Equal(got), "%s parsed as %s", input, got)
		assert.Equal(t, time.UTC, got.Location())
	}

	got, err := ParseDeadline("")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = ParseDeadline("01/02/2099")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateTaskRequestDecode(t *testing.T) {
	t.Parallel()

	var req CreateTaskRequest
	require.NoError(t, json.Unmarshal(
		[]byte(`{"title":"Buy milk","description":"2%","deadline":"2099-01-01T00:00"}`), &req))
	require.NoError(t, req.Validate())
	assert.Equal(t, time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC), req.Deadline.Time)

	err := json.Unmarshal([]byte(`{"title":"x","deadline":12}`), &req)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
