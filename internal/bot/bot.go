package bot

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/tasklink-api/internal/domain"
	"github.com/phrazzld/tasklink-api/internal/platform/telegram"
	"github.com/phrazzld/tasklink-api/internal/redact"
)

// UpdateSource long-polls for incoming chat updates.
type UpdateSource interface {
	GetUpdates(ctx context.Context, offset int64) ([]telegram.Update, error)
}

// Sender delivers replies to a chat.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// TaskAPI is the backend surface the bot drives.
type TaskAPI interface {
	ListTasks(ctx context.Context, externalID int64) ([]domain.Task, error)
	CompleteTask(ctx context.Context, externalID, taskID int64) error
}

const (
	minBackoff = time.Second
	maxBackoff = 30 * time.Second
)

// Bot answers chat commands.
type Bot struct {
	updates UpdateSource
	sender  Sender
	api     TaskAPI
	logger  *slog.Logger
}

// New creates a Bot.
func New(updates UpdateSource, sender Sender, api TaskAPI, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		updates: updates,
		sender:  sender,
		api:     api,
		logger:  logger.With(slog.String("component", "bot")),
	}
}

// Run polls for updates until ctx is cancelled. Poll failures back off
// exponentially up to maxBackoff.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.InfoContext(ctx, "bot polling started")
	var offset int64
	backoff := minBackoff

	for {
		if ctx.Err() != nil {
			b.logger.InfoContext(ctx, "bot polling stopped")
			return nil
		}

		updates, err := b.updates.GetUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			b.logger.WarnContext(ctx, "get updates failed",
				slog.String("error", redact.Error(err)),
				slog.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				continue
			}
			backoff = min(backoff*2, maxBackoff)
			continue
		}
		backoff = minBackoff

		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			if u.Message != nil {
				b.Handle(ctx, u.Message)
			}
		}
	}
}

// Handle answers one message. Messages that are not commands are ignored.
func (b *Bot) Handle(ctx context.Context, msg *telegram.Message) {
	if msg == nil || msg.From == nil || msg.From.IsBot {
		return
	}
	text := strings.TrimSpace(msg.Text)
	if !strings.HasPrefix(text, "/") {
		return
	}

	externalID := msg.From.ID
	cmd := ParseCommand(text)
	log := b.logger.With(slog.Int64("telegram_id", externalID), slog.Int("command", int(cmd.Kind)))

	var replies []string
	switch cmd.Kind {
	case CommandStart:
		replies = []string{RenderStart(externalID)}
	case CommandLogin:
		replies = []string{RenderLogin(externalID)}
	case CommandTasks:
		replies = b.listTasks(ctx, log, externalID)
	case CommandComplete:
		replies = []string{b.completeTask(ctx, log, externalID, cmd.TaskID)}
	case CommandCompleteInvalid:
		replies = []string{MsgCompleteBadInput}
	default:
		replies = []string{MsgUnknownCommand}
	}

	for _, reply := range replies {
		if err := b.sender.SendMessage(ctx, msg.Chat.ID, reply); err != nil {
			log.ErrorContext(ctx, "failed to send reply", slog.String("error", redact.Error(err)))
			return
		}
	}
}

func (b *Bot) listTasks(ctx context.Context, log *slog.Logger, externalID int64) []string {
	tasks, err := b.api.ListTasks(ctx, externalID)
	switch {
	case errors.Is(err, ErrNotLinked):
		return []string{MsgNotLinked}
	case err != nil:
		log.ErrorContext(ctx, "failed to list tasks", slog.String("error", redact.Error(err)))
		return []string{MsgListFailed}
	case len(tasks) == 0:
		return []string{MsgNoTasks}
	}

	replies := make([]string, 0, len(tasks))
	for _, t := range tasks {
		replies = append(replies, RenderTask(t))
	}
	return replies
}

func (b *Bot) completeTask(ctx context.Context, log *slog.Logger, externalID, taskID int64) string {
	err := b.api.CompleteTask(ctx, externalID, taskID)
	switch {
	case err == nil:
		return MsgCompleted
	case errors.Is(err, ErrTaskNotFound), errors.Is(err, ErrNotLinked):
		return MsgTaskNotFound
	default:
		log.ErrorContext(ctx, "failed to complete task",
			slog.Int64("task_id", taskID), slog.String("error", redact.Error(err)))
		return MsgCompleteFailed
	}
}

// sleep waits for d and reports whether it elapsed before ctx was done.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
