package bot

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPIServer(t *testing.T, handler http.HandlerFunc) *APIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAPIClient(srv.URL+"/api/", srv.Client())
}

func TestAPIClient_ListTasks(t *testing.T) {
	c := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/telegram/tasks", r.URL.Path)
		assert.Equal(t, "31337", r.URL.Query().Get("telegram_id"))
		_, _ = w.Write([]byte(`[{"id":7,"title":"Report","deadline":"2026-03-01T09:30:00Z","completed":false}]`))
	})

	tasks, err := c.ListTasks(context.Background(), 31337)

	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, int64(7), tasks[0].ID)
	assert.Equal(t, "Report", tasks[0].Title)
	assert.True(t, tasks[0].Deadline.Equal(time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)))
}

func TestAPIClient_ListTasksNotLinked(t *testing.T) {
	c := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"User not linked","code":"not_linked"}`))
	})

	_, err := c.ListTasks(context.Background(), 1)

	assert.ErrorIs(t, err, ErrNotLinked)
}

func TestAPIClient_ListTasksServerError(t *testing.T) {
	c := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"An internal error occurred","code":"internal_error"}`))
	})

	_, err := c.ListTasks(context.Background(), 1)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "internal_error", apiErr.Code)
}

func TestAPIClient_CompleteTask(t *testing.T) {
	var got map[string]int64
	c := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/telegram/complete-task", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"message":"Task completed ✅","task":{"id":9,"completed":true}}`))
	})

	err := c.CompleteTask(context.Background(), 31337, 9)

	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"telegram_id": 31337, "task_id": 9}, got)
}

func TestAPIClient_CompleteTaskErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"task missing", http.StatusNotFound, `{"error":"Task not found","code":"not_found"}`, ErrTaskNotFound},
		{"not linked", http.StatusNotFound, `{"error":"User not linked","code":"not_linked"}`, ErrNotLinked},
		{"bare 404", http.StatusNotFound, `not json`, ErrTaskNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			err := c.CompleteTask(context.Background(), 1, 2)

			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAPIClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewAPIClient(url, nil).CompleteTask(context.Background(), 1, 2)

	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}
