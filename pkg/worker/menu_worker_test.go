package worker

import (
    "context"
    "errors"
    "fmt"
    "io"
    "testing"

    "github.com/hibiken/asynq"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/zubenkoruslan/hospitalitai-sub007/internal/models"
    "github.com/zubenkoruslan/hospitalitai-sub007/pkg/logger"
    "github.com/zubenkoruslan/hospitalitai-sub007/pkg/queue"
)

type fakeHandler struct {
    got *queue.Task
    err error
}

func (f *fakeHandler) HandleTask(_ context.Context, task *queue.Task, _ io.Writer) error {
    f.got = task
    return f.err
}

func TestHandleMenuParseDecodesTask(t *testing.T) {
    h := &fakeHandler{}
    w := NewMenuWorker(Config{RedisAddr: "localhost:6379"}, h, logger.NewTestLogger())

    task := queue.NewTask("uploads/1/menu.pdf", "menu.pdf", 10)
    at, err := queue.NewMenuParseTask(task, queue.DefaultConfig())
    require.NoError(t, err)

    require.NoError(t, w.handleMenuParse(context.Background(), at))
    require.NotNil(t, h.got)
    assert.Equal(t, task.ID, h.got.ID)
}

func TestHandleMenuParseSkipsRetryOnBadPayload(t *testing.T) {
    h := &fakeHandler{}
    w := NewMenuWorker(Config{}, h, nil)

    err := w.handleMenuParse(context.Background(), asynq.NewTask(queue.TaskTypeMenuParse, []byte("{")))
    assert.ErrorIs(t, err, asynq.SkipRetry)
    assert.Nil(t, h.got)
}

func TestRetryable(t *testing.T) {
    assert.NoError(t, retryable(nil))

    transient := fmt.Errorf("chunk 1/2: %w", models.ErrServiceUnavailable)
    assert.NotErrorIs(t, retryable(transient), asynq.SkipRetry)
    assert.NotErrorIs(t, retryable(errors.Join(transient, models.ErrNoItems)), asynq.SkipRetry)

    assert.ErrorIs(t, retryable(models.ErrUnsupportedFormat), asynq.SkipRetry)
    assert.ErrorIs(t, retryable(errors.Join(errors.New("bad json"), models.ErrNoItems)), asynq.SkipRetry)
    assert.ErrorIs(t, retryable(models.ErrFileTooLarge), models.ErrFileTooLarge)
}
