package scheduler

import (
	"context"
	"fmt"

	"steam_search_backend/platform/apperr"
	"steam_search_backend/platform/config"
	"steam_search_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// DetailsWarmer fills the details cache for one app.
type DetailsWarmer interface {
	Prefetch(ctx context.Context, appID string) error
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	warmer DetailsWarmer
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, warmer DetailsWarmer, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 4
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
		Logger:   newAsynqLogger(log),
		LogLevel: asynq.WarnLevel,
	})

	w := &Worker{
		server: server,
		mux:    asynq.NewServeMux(),
		warmer: warmer,
		log:    log,
	}
	w.mux.HandleFunc(TaskPrefetchDetails, w.handlePrefetchDetails)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	// Start instead of Run: Run waits for OS signals and ignores ctx.
	if err := w.server.Start(w.mux); err != nil {
		w.log.Error("scheduler worker failed to start", "error", err)
		return
	}

	<-ctx.Done()
	w.server.Shutdown()
}

func (w *Worker) handlePrefetchDetails(ctx context.Context, task *asynq.Task) error {
	payload, err := ParsePrefetchDetailsPayload(task)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	err = w.warmer.Prefetch(ctx, payload.AppID)
	switch {
	case err == nil:
		w.log.Debug("details prefetched", "appId", payload.AppID)
		return nil
	case apperr.Is(err, apperr.KindNotFound):
		return nil
	case apperr.Retryable(err):
		return err
	default:
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
}
