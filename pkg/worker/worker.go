package worker

import (
    "context"

    "github.com/hibiken/asynq"

    "github.com/zubenkoruslan/hospitalitai-sub007/pkg/logger"
)

type Worker interface {
    Start(ctx context.Context) error
    Stop() error
}

type Config struct {
    RedisAddr     string         `yaml:"redis_addr"`
    RedisPassword string         `yaml:"redis_password"`
    RedisDB       int            `yaml:"redis_db"`
    Concurrency   int            `yaml:"concurrency"`
    Queues        map[string]int `yaml:"queues"`
}

// DefaultQueues weights the priority queues.
func DefaultQueues() map[string]int {
    return map[string]int{
        "critical": 6,
        "default":  3,
        "low":      1,
    }
}

type BaseWorker struct {
    server *asynq.Server
    mux    *asynq.ServeMux
    logger logger.Logger
}

// Start runs the server in the background until ctx is done.
func (w *BaseWorker) Start(ctx context.Context) error {
    if err := w.server.Start(w.mux); err != nil {
        return err
    }
    go func() {
        <-ctx.Done()
        w.Stop()
    }()
    return nil
}

// Stop waits for active tasks and shuts the server down. Safe to call twice.
func (w *BaseWorker) Stop() error {
    w.server.Shutdown()
    return nil
}
