package queue

import (
    "testing"
    "time"

    "github.com/hibiken/asynq"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/zubenkoruslan/hospitalitai-sub007/internal/models"
)

func TestMenuParseTaskRoundTrip(t *testing.T) {
    task := NewTask("uploads/abc/wine.pdf", "wine.pdf", 2048)
    task.Priority = 1
    require.NotEmpty(t, task.ID)

    at, err := NewMenuParseTask(task, DefaultConfig())
    require.NoError(t, err)
    assert.Equal(t, TaskTypeMenuParse, at.Type())

    got, err := DecodeTask(at.Payload())
    require.NoError(t, err)
    assert.Equal(t, task.ID, got.ID)
    assert.Equal(t, "uploads/abc/wine.pdf", got.ObjectKey)
    assert.Equal(t, int64(2048), got.Size)
    assert.Equal(t, QueueCritical, got.QueueName())
}

func TestTaskValidate(t *testing.T) {
    _, err := NewMenuParseTask(&Task{ID: "x", Filename: "menu.csv"}, DefaultConfig())
    assert.ErrorContains(t, err, "object key")

    _, err = DecodeTask([]byte(`{"id": "x", "objectKey": "k"}`))
    assert.ErrorContains(t, err, "filename")

    _, err = DecodeTask([]byte(`not json`))
    assert.Error(t, err)
}

func TestQueueNameByPriority(t *testing.T) {
    assert.Equal(t, QueueCritical, (&Task{Priority: 1}).QueueName())
    assert.Equal(t, QueueDefault, (&Task{Priority: 2}).QueueName())
    assert.Equal(t, QueueLow, (&Task{}).QueueName())
}

func TestConvertAsynqStatus(t *testing.T) {
    done := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
    tests := []struct {
        state    asynq.TaskState
        want     models.ProcessingStatus
        progress float64
    }{
        {asynq.TaskStatePending, models.StatusPending, 0},
        {asynq.TaskStateScheduled, models.StatusPending, 0},
        {asynq.TaskStateActive, models.StatusRunning, 0},
        {asynq.TaskStateRetry, models.StatusPending, 0},
        {asynq.TaskStateArchived, models.StatusFailed, 0},
        {asynq.TaskStateCompleted, models.StatusCompleted, 1},
    }
    for _, tt := range tests {
        t.Run(tt.state.String(), func(t *testing.T) {
            s := convertAsynqStatus(&asynq.TaskInfo{ID: "t1", State: tt.state, LastErr: "boom", CompletedAt: done})
            assert.Equal(t, "t1", s.TaskID)
            assert.Equal(t, tt.want, s.Status)
            assert.Equal(t, tt.progress, s.Progress)
        })
    }
}
