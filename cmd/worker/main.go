package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"outreach_backend/internal/email"
	"outreach_backend/internal/events"
	"outreach_backend/internal/notification"
	processrepo "outreach_backend/internal/process/repository"
	processsvc "outreach_backend/internal/process/service"
	"outreach_backend/internal/progression/repository"
	progressionsvc "outreach_backend/internal/progression/service"
	"outreach_backend/internal/questions"
	"outreach_backend/internal/scheduler"
	"outreach_backend/platform/config"
	"outreach_backend/platform/db"
	"outreach_backend/platform/logger"
	"outreach_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)

	var dedupe *repository.DedupeCache
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Error("failed to parse redis url", "error", err)
			panic("failed to parse redis url: " + err.Error())
		}
		client := redis.NewClient(opt)
		defer client.Close()
		dedupe = repository.NewDedupeCache(client)
	}

	progressionService := progressionsvc.New(repository.New(pool), dedupe, log)
	progressionService.SetEventBus(eventBus)

	// Booking notifications fire from worker-applied events too, so the
	// subscriber is registered here as well as in the API process.
	val := validator.New()
	questionsModule := questions.NewModule(pool, val)
	processService := processsvc.New(processrepo.New(pool), questionsModule.Service(), log)
	sender := initEmailSender(cfg, log)
	notification.NewSubscriber(sender, processService, cfg.EscalationRecipient, log).Register(eventBus)

	worker, err := scheduler.NewWorker(cfg, progressionService, log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	cleanup := scheduler.NewArchivedProgressCleanup(progressionService, log, time.Hour, cfg.ArchivedProgressRetention)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		worker.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		cleanup.Run(ctx)
	}()

	<-ctx.Done()
	log.Info("shutdown signal received, waiting for worker to drain")
	wg.Wait()
}

func initEmailSender(cfg config.EmailConfig, log *logger.Logger) email.Sender {
	if !cfg.GetEmailEnabled() {
		log.Warn("email disabled; escalation notifications will not be sent")
		return email.NoopSender{}
	}
	return email.NewSMTPSender(
		cfg.GetSMTPHost(), cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(), cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(), cfg.GetEmailFromName(),
	)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return lastErr
}
