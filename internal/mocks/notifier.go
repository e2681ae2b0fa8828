package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tasklink-api/internal/domain"
	"github.com/stretchr/testify/mock"
)

// TestifyMockNotifier mocks the dispatcher's enqueue methods with testify/mock.
// Tests that do not care about notifications can use NewQuietNotifier.
type TestifyMockNotifier struct {
	mock.Mock
}

// EnqueueNewTask is a mock implementation of the new-task enqueue.
func (m *TestifyMockNotifier) EnqueueNewTask(ctx context.Context, accountID uuid.UUID, task domain.Task) error {
	args := m.Called(ctx, accountID, task)
	return args.Error(0)
}

// EnqueueOverdue is a mock implementation of the overdue enqueue.
func (m *TestifyMockNotifier) EnqueueOverdue(ctx context.Context, accountID uuid.UUID, task domain.Task) error {
	args := m.Called(ctx, accountID, task)
	return args.Error(0)
}

// NewQuietNotifier returns a notifier mock that accepts any enqueue.
func NewQuietNotifier() *TestifyMockNotifier {
	m := &TestifyMockNotifier{}
	m.On("EnqueueNewTask", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("EnqueueOverdue", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return m
}
