package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"slotify/services/scheduling"
)

const TypeCompletionSweep = "booking:completion_sweep"

// InitCompletionWorker runs the background completion sweeper: a periodic
// asynq task that flips CONFIRMED bookings whose end has passed to
// COMPLETED. Sweeping is idempotent, so a redelivered task is harmless.
func InitCompletionWorker(redisOpt asynq.RedisClientOpt, engine scheduling.BookingEngine, every time.Duration, logger *zap.Logger) {
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeCompletionSweep, handleCompletionSweep(engine, logger))

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{})
	spec := fmt.Sprintf("@every %s", every)
	if _, err := scheduler.Register(spec, asynq.NewTask(TypeCompletionSweep, nil)); err != nil {
		logger.Error("failed to register completion sweep", zap.Error(err))
		return
	}

	// Start worker and scheduler with retry logic.
	go runWithRetry("completion worker", logger, func() error { return srv.Run(mux) })
	go runWithRetry("completion scheduler", logger, func() error { return scheduler.Run() })
}

func handleCompletionSweep(engine scheduling.BookingEngine, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		n, err := engine.CompletePastBookings(ctx)
		if err != nil {
			logger.Error("completion sweep failed", zap.Error(err))
			return err
		}
		if n > 0 {
			logger.Info("completion sweep done", zap.Int64("completed", n))
		}
		return nil
	}
}

func runWithRetry(name string, logger *zap.Logger, run func() error) {
	const maxAttempts = 5
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err := run()
		if err == nil {
			return
		}
		logger.Error("background runner failed",
			zap.String("runner", name),
			zap.Int("attempt", attempts),
			zap.Error(err))
		if attempts == maxAttempts {
			logger.Error("max retry attempts reached, giving up", zap.String("runner", name))
			return
		}
		time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
	}
}
