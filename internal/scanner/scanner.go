package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasklink-api/internal/domain"
	"github.com/phrazzld/tasklink-api/internal/platform/logger"
	"github.com/phrazzld/tasklink-api/internal/store"
)

// OverdueSource lists incomplete tasks whose deadline is before now.
type OverdueSource interface {
	ListOverdue(ctx context.Context, now time.Time) ([]domain.Task, error)
}

// LinkLookup reports whether an account has a bound chat identity. An
// unlinked account is an error wrapping store.ErrIdentityLinkNotFound.
type LinkLookup interface {
	LookupByAccount(ctx context.Context, account uuid.UUID) (*domain.IdentityLink, error)
}

// OverdueNotifier schedules an overdue reminder without blocking.
type OverdueNotifier interface {
	EnqueueOverdue(ctx context.Context, accountID uuid.UUID, task domain.Task) error
}

// Scanner enqueues overdue reminders for linked assignees.
type Scanner struct {
	tasks    OverdueSource
	links    LinkLookup
	notifier OverdueNotifier
	logger   *slog.Logger
}

// New creates a Scanner. If logger is nil, a default logger will be used.
func New(tasks OverdueSource, links LinkLookup, notifier OverdueNotifier, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		tasks:    tasks,
		links:    links,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "expiry_scanner")),
	}
}

// Scan enqueues one overdue reminder per overdue task whose assignee is
// linked, and returns how many were enqueued. Enqueue failures are logged
// and skipped.
func (s *Scanner) Scan(ctx context.Context, now time.Time) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	overdue, err := s.tasks.ListOverdue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list overdue tasks: %w", err)
	}

	enqueued := 0
	for _, task := range overdue {
		if task.Completed || !task.Deadline.Before(now) {
			continue
		}

		// The notifier skips unlinked accounts on its own; the lookup here
		// keeps them out of the returned count.
		_, err := s.links.LookupByAccount(ctx, task.AssigneeID)
		if errors.Is(err, store.ErrIdentityLinkNotFound) {
			continue
		}
		if err != nil {
			return enqueued, fmt.Errorf("lookup identity link: %w", err)
		}

		if err := s.notifier.EnqueueOverdue(ctx, task.AssigneeID, task); err != nil {
			log.Warn("overdue reminder not enqueued",
				slog.Int64("task_id", task.ID),
				slog.String("error", err.Error()))
			continue
		}
		enqueued++
	}

	log.Info("expiry scan finished",
		slog.Int("overdue", len(overdue)),
		slog.Int("enqueued", enqueued))
	return enqueued, nil
}

// Run scans every interval until ctx is cancelled. A failed scan is logged
// and the next tick tries again.
func (s *Scanner) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("expiry scanner started", slog.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("expiry scanner stopped")
			return nil
		case tick := <-ticker.C:
			if _, err := s.Scan(ctx, tick.UTC()); err != nil && ctx.Err() == nil {
				s.logger.Error("expiry scan failed", slog.String("error", err.Error()))
			}
		}
	}
}
