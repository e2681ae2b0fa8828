package main

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/tasklink-api/internal/config"
	"github.com/phrazzld/tasklink-api/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080, LogLevel: "error", RequestTimeoutSeconds: 5},
		Database: config.DatabaseConfig{
			URL:          "postgres://localhost/tasklink",
			MaxOpenConns: 1,
		},
		Auth: config.AuthConfig{
			JWTSecret:            "0123456789abcdef0123456789abcdef",
			TokenLifetimeMinutes: 60,
			BCryptCost:           4,
		},
		Telegram: config.TelegramConfig{APIURL: "https://api.telegram.org", MessagesPerSecond: 1},
		Notify:   config.NotifyConfig{QueueSize: 4, WorkerCount: 1, SendTimeoutSeconds: 1},
		Scanner:  config.ScannerConfig{Enabled: true, IntervalMinutes: 60},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestApp(t *testing.T) (*application, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	app, err := newApplication(testConfig(), testLogger(), db)
	require.NoError(t, err)
	return app, mock
}

func TestParseFlags(t *testing.T) {
	t.Parallel()

	opts, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, options{}, opts)

	opts, err = parseFlags([]string{"-migrate", "up"})
	require.NoError(t, err)
	assert.Equal(t, "up", opts.migrate)

	opts, err = parseFlags([]string{"-scan-once"})
	require.NoError(t, err)
	assert.True(t, opts.scanOnce)

	_, err = parseFlags([]string{"-migrate", "up", "-scan-once"})
	assert.Error(t, err)

	_, err = parseFlags([]string{"-unknown"})
	assert.Error(t, err)
}

func TestRunMigrations_RejectsUnknownCommand(t *testing.T) {
	t.Parallel()

	err := runMigrations(context.Background(), nil, "create", testLogger())
	assert.ErrorContains(t, err, "unknown migration command")
}

func TestNewSender(t *testing.T) {
	t.Parallel()

	sender, err := newSender(config.TelegramConfig{APIURL: "https://api.telegram.org"}, testLogger())
	require.NoError(t, err)
	assert.IsType(t, notify.LogSender{}, sender)

	sender, err = newSender(config.TelegramConfig{
		BotToken:          "123:abc",
		APIURL:            "https://api.telegram.org",
		MessagesPerSecond: 1,
	}, testLogger())
	require.NoError(t, err)
	assert.NotNil(t, sender)
}

func TestApplication_Routes(t *testing.T) {
	t.Parallel()
	app, mock := newTestApp(t)

	mock.ExpectPing()
	rr := httptest.NewRecorder()
	app.router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	app.router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/my-tasks", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplication_ScanOnce(t *testing.T) {
	t.Parallel()
	app, mock := newTestApp(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	assignee := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM tasks")).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "description", "deadline", "completed", "list_id", "assignee_id", "created_at",
		}).AddRow(int64(1), "Pay rent", "", now.Add(-time.Hour), false, int64(1), assignee.String(), now.Add(-48*time.Hour)))

	linkRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"user_id", "external_id", "created_at", "updated_at"}).
			AddRow(assignee.String(), int64(99), now, now)
	}
	// scan, enqueue and delivery each resolve the link
	mock.ExpectQuery(regexp.QuoteMeta("FROM identity_links")).WillReturnRows(linkRows())
	mock.ExpectQuery(regexp.QuoteMeta("FROM identity_links")).WillReturnRows(linkRows())
	mock.ExpectQuery(regexp.QuoteMeta("FROM identity_links")).WillReturnRows(linkRows())

	require.NoError(t, app.scanOnce(context.Background(), now))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplication_RunStopsOnCancel(t *testing.T) {
	t.Parallel()
	app, _ := newTestApp(t)
	app.config.Server.Port = freePort(t)
	app.config.Scanner.Enabled = false

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = l.Close() }()
	_, portStr, err := net.SplitHostPort(l.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return port
}
