package scheduler

import (
	"context"
	"fmt"

	progressionsvc "outreach_backend/internal/progression/service"
	"outreach_backend/platform/config"
	"outreach_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Worker consumes progression tasks from the queue and applies them through
// the progression service. Failed tasks are retried by asynq; the database
// event log keeps retries idempotent.
type Worker struct {
	server      *asynq.Server
	mux         *asynq.ServeMux
	progression *progressionsvc.Service
	log         *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, progression *progressionsvc.Service, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:      server,
		mux:         mux,
		progression: progression,
		log:         log,
	}

	mux.HandleFunc(TaskProgressionOutboundSent, w.handleOutboundSent)
	mux.HandleFunc(TaskProgressionBooked, w.handleBooked)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleOutboundSent(ctx context.Context, task *asynq.Task) error {
	evt, err := ParseOutboundSentPayload(task)
	if err != nil {
		return err
	}

	_, err = w.progression.IngestOutbound(ctx, evt.WorkspaceID, evt)
	return err
}

func (w *Worker) handleBooked(ctx context.Context, task *asynq.Task) error {
	evt, err := ParseBookedPayload(task)
	if err != nil {
		return err
	}

	_, err = w.progression.IngestBooked(ctx, evt.WorkspaceID, evt)
	return err
}
