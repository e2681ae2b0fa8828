package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasklink-api/internal/config"
	"github.com/phrazzld/tasklink-api/internal/domain"
	"github.com/phrazzld/tasklink-api/internal/platform/logger"
	"github.com/phrazzld/tasklink-api/internal/redact"
	"github.com/phrazzld/tasklink-api/internal/store"
)

// LinkLookup resolves the chat identity bound to an account. An unlinked
// account is reported with an error wrapping store.ErrIdentityLinkNotFound.
type LinkLookup interface {
	LookupByAccount(ctx context.Context, account uuid.UUID) (*domain.IdentityLink, error)
}

// Sender delivers text to an external chat.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Dispatcher queues notifications and delivers them in the background.
type Dispatcher struct {
	queue       *Queue
	pool        *WorkerPool
	links       LinkLookup
	sender      Sender
	sendTimeout time.Duration
	logger      *slog.Logger
}

// NewDispatcher wires a queue and worker pool sized by cfg. Call Start
// before enqueueing and Stop on shutdown.
func NewDispatcher(cfg config.NotifyConfig, links LinkLookup, sender Sender, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "notify_dispatcher"))

	sendTimeout := time.Duration(cfg.SendTimeoutSeconds) * time.Second
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}

	d := &Dispatcher{
		queue:       NewQueue(cfg.QueueSize, logger),
		links:       links,
		sender:      sender,
		sendTimeout: sendTimeout,
		logger:      logger,
	}
	d.pool = NewWorkerPool(d.queue, cfg.WorkerCount, d.deliver, logger)
	return d
}

// Start launches the delivery workers.
func (d *Dispatcher) Start() {
	d.pool.Start()
}

// Stop stops accepting notifications and waits for queued ones to finish.
func (d *Dispatcher) Stop(ctx context.Context) error {
	return d.pool.Stop(ctx)
}

// EnqueueNewTask schedules a "new task" message for accountID without
// blocking. It is a no-op when the account has no linked chat.
func (d *Dispatcher) EnqueueNewTask(ctx context.Context, accountID uuid.UUID, task domain.Task) error {
	return d.enqueue(ctx, newJob(KindNewTask, accountID, task), d.queue.Enqueue)
}

// EnqueueOverdue schedules an "overdue task" message for accountID without
// blocking. It is a no-op when the account has no linked chat.
func (d *Dispatcher) EnqueueOverdue(ctx context.Context, accountID uuid.UUID, task domain.Task) error {
	return d.enqueue(ctx, newJob(KindOverdue, accountID, task), d.queue.Enqueue)
}

// Waiting returns a view of d whose enqueues wait for queue space instead
// of failing with ErrQueueFull. Batch callers such as a one-shot scan use it.
func (d *Dispatcher) Waiting() *WaitingDispatcher {
	return &WaitingDispatcher{d: d}
}

// WaitingDispatcher enqueues through a Dispatcher, blocking while its queue
// is full.
type WaitingDispatcher struct {
	d *Dispatcher
}

// EnqueueOverdue is like Dispatcher.EnqueueOverdue but waits for queue space
// until ctx is done.
func (w *WaitingDispatcher) EnqueueOverdue(ctx context.Context, accountID uuid.UUID, task domain.Task) error {
	return w.d.enqueue(ctx, newJob(KindOverdue, accountID, task), func(job Job) error {
		return w.d.queue.EnqueueWait(ctx, job)
	})
}

func (d *Dispatcher) enqueue(ctx context.Context, job Job, put func(Job) error) error {
	log := logger.FromContextOrDefault(ctx, d.logger).With(
		slog.String("kind", string(job.Kind)),
		slog.Int64("task_id", job.Task.ID))

	if _, err := d.links.LookupByAccount(ctx, job.AccountID); err != nil {
		if errors.Is(err, store.ErrIdentityLinkNotFound) {
			log.Debug("account not linked, notification not enqueued")
			return nil
		}
		log.Warn("notification not enqueued, link lookup failed", slog.String("error", err.Error()))
		return fmt.Errorf("resolve identity link: %w", err)
	}

	if err := put(job); err != nil {
		log.Warn("notification not enqueued", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// deliver runs on a worker. The link is looked up again so a rebind or
// unlink after enqueue is honored. Missing links and transport failures are
// not errors.
func (d *Dispatcher) deliver(ctx context.Context, job Job) error {
	log := d.logger.With(
		slog.String("job_id", job.ID.String()),
		slog.String("kind", string(job.Kind)),
		slog.Int64("task_id", job.Task.ID))

	link, err := d.links.LookupByAccount(ctx, job.AccountID)
	if errors.Is(err, store.ErrIdentityLinkNotFound) {
		log.Debug("account not linked, notification skipped")
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve identity link: %w", err)
	}

	text, err := Render(job)
	if err != nil {
		return err
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()
	if err := d.sender.SendMessage(sendCtx, link.ExternalID, text); err != nil {
		log.Warn("notification delivery failed", slog.String("error", redact.Error(err)))
		return nil
	}

	log.Info("notification delivered",
		slog.Duration("latency", time.Since(job.EnqueuedAt)))
	return nil
}

// LogSender is a Sender that only logs messages. It stands in for the
// Bot API when no bot token is configured.
type LogSender struct {
	Logger *slog.Logger
}

// SendMessage implements Sender.
func (s LogSender) SendMessage(ctx context.Context, chatID int64, text string) error {
	log := s.Logger
	if log == nil {
		log = slog.Default()
	}
	log.InfoContext(ctx, "telegram disabled, notification not sent",
		slog.Int64("chat_id", chatID),
		slog.Int("text_len", len(text)))
	return nil
}
