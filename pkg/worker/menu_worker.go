package worker

import (
    "context"
    "errors"
    "fmt"
    "io"
    "time"

    "github.com/hibiken/asynq"

    "github.com/zubenkoruslan/hospitalitai-sub007/internal/models"
    "github.com/zubenkoruslan/hospitalitai-sub007/pkg/logger"
    "github.com/zubenkoruslan/hospitalitai-sub007/pkg/queue"
)

// TaskHandler processes one decoded parse task and writes its result.
type TaskHandler interface {
    HandleTask(ctx context.Context, task *queue.Task, out io.Writer) error
}

type MenuWorker struct {
    BaseWorker
    handler TaskHandler
}

func NewMenuWorker(cfg Config, handler TaskHandler, log logger.Logger) *MenuWorker {
    if log == nil {
        log = logger.NewNop()
    }
    if len(cfg.Queues) == 0 {
        cfg.Queues = DefaultQueues()
    }
    server := asynq.NewServer(
        asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB},
        asynq.Config{
            Concurrency: cfg.Concurrency,
            Queues:      cfg.Queues,
            RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
                return time.Duration(n) * time.Minute
            },
            Logger: zapAdapter{log.Named("asynq")},
        },
    )

    w := &MenuWorker{
        BaseWorker: BaseWorker{
            server: server,
            mux:    asynq.NewServeMux(),
            logger: log,
        },
        handler: handler,
    }
    w.mux.HandleFunc(queue.TaskTypeMenuParse, w.handleMenuParse)
    return w
}

func (w *MenuWorker) handleMenuParse(ctx context.Context, t *asynq.Task) error {
    task, err := queue.DecodeTask(t.Payload())
    if err != nil {
        w.logger.Error("Invalid task payload", logger.Error(err), logger.String("payload", string(t.Payload())))
        return fmt.Errorf("%w: %w", asynq.SkipRetry, err)
    }
    w.logger.Info("Processing menu task",
        logger.String("taskId", task.ID),
        logger.String("filename", task.Filename),
        logger.Int64("size", task.Size),
    )
    return retryable(w.handler.HandleTask(ctx, task, t.ResultWriter()))
}

// retryable lets asynq retry only failures that another attempt could fix.
func retryable(err error) error {
    switch {
    case err == nil:
        return nil
    case errors.Is(err, models.ErrServiceUnavailable), errors.Is(err, context.DeadlineExceeded):
        return err
    default:
        return fmt.Errorf("%w: %w", asynq.SkipRetry, err)
    }
}
