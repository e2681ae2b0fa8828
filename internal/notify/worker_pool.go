package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/phrazzld/tasklink-api/internal/redact"
)

// HandlerFunc processes one job. Errors are logged by the pool.
type HandlerFunc func(ctx context.Context, job Job) error

// WorkerPool drains a Queue with a fixed number of goroutines.
type WorkerPool struct {
	queue       *Queue
	handler     HandlerFunc
	workerCount int
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	logger      *slog.Logger
}

// NewWorkerPool creates a pool; a non-positive workerCount means one worker.
func NewWorkerPool(queue *Queue, workerCount int, handler HandlerFunc, logger *slog.Logger) *WorkerPool {
	if logger == nil {
		logger = slog.Default()
	}
	if workerCount <= 0 {
		logger.Warn("invalid worker count specified, using default",
			slog.Int("specified_count", workerCount),
			slog.Int("default_count", 1))
		workerCount = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		queue:       queue,
		handler:     handler,
		workerCount: workerCount,
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger,
	}
}

// Start launches the workers.
func (p *WorkerPool) Start() {
	p.logger.Info("starting notification workers", slog.Int("worker_count", p.workerCount))
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop closes the queue and waits for workers to drain it. If ctx expires
// first, in-flight handlers are cancelled and the remaining jobs are dropped.
func (p *WorkerPool) Stop(ctx context.Context) error {
	p.queue.Close()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		p.logger.Info("notification workers stopped")
		return nil
	case <-ctx.Done():
		p.cancel()
		<-done
		return fmt.Errorf("notification workers did not drain: %w", ctx.Err())
	}
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	log := p.logger.With(slog.Int("worker_id", id))

	for job := range p.queue.Jobs() {
		if p.ctx.Err() != nil {
			log.Warn("dropping notification after shutdown deadline",
				slog.String("job_id", job.ID.String()))
			continue
		}
		p.run(log, job)
	}
}

func (p *WorkerPool) run(log *slog.Logger, job Job) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("notification handler panicked",
				slog.String("job_id", job.ID.String()),
				slog.Any("panic", r))
		}
	}()

	if err := p.handler(p.ctx, job); err != nil {
		log.Error("notification job failed",
			slog.String("job_id", job.ID.String()),
			slog.String("kind", string(job.Kind)),
			slog.String("error", redact.Error(err)))
	}
}
