package service_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasklink-api/internal/mocks"
	"github.com/phrazzld/tasklink-api/internal/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// taskFixture wires a TaskService over in-memory stores.
type taskFixture struct {
	tasks     *mocks.MemoryTaskStore
	links     *mocks.MemoryIdentityLinkStore
	registry  *service.IdentityRegistry
	publisher *mocks.RecordingPublisher
	notifier  *mocks.TestifyMockNotifier
	svc       *service.TaskServiceImpl
}

func newTaskFixture(t *testing.T, notifier *mocks.TestifyMockNotifier) *taskFixture {
	t.Helper()
	if notifier == nil {
		notifier = mocks.NewQuietNotifier()
	}
	f := &taskFixture{
		tasks:     mocks.NewMemoryTaskStore(),
		links:     mocks.NewMemoryIdentityLinkStore(),
		publisher: &mocks.RecordingPublisher{},
		notifier:  notifier,
	}
	f.registry = service.NewIdentityRegistry(f.links, testLogger())
	f.svc = service.NewTaskService(f.tasks, f.registry, f.publisher, f.notifier, testLogger())
	t.Cleanup(func() { notifier.AssertExpectations(t) })
	return f
}

func farDeadline() time.Time {
	return time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)
}

func newAccount() uuid.UUID {
	return uuid.New()
}
