package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "time"

    "github.com/google/uuid"
    "github.com/hibiken/asynq"
    "github.com/redis/go-redis/v9"

    "github.com/zubenkoruslan/hospitalitai-sub007/internal/models"
)

const TaskTypeMenuParse = "menu:parse"

// Queue names by priority.
const (
    QueueCritical = "critical"
    QueueDefault  = "default"
    QueueLow      = "low"
)

var queueNames = []string{QueueCritical, QueueDefault, QueueLow}

// ErrTaskNotFound is returned when neither the status store nor any queue
// knows the task.
var ErrTaskNotFound = errors.New("task not found")

type Queue interface {
    Enqueue(ctx context.Context, task *Task) error
    GetTaskStatus(ctx context.Context, taskID string) (*TaskStatus, error)
    CancelTask(ctx context.Context, taskID string) error
    SaveStatus(ctx context.Context, status *TaskStatus) error
}

// Task asks a worker to parse one stored upload.
type Task struct {
    ID        string    `json:"id"`
    ObjectKey string    `json:"objectKey"`
    Filename  string    `json:"filename"`
    Size      int64     `json:"size"`
    Priority  int       `json:"priority"`
    CreatedAt time.Time `json:"createdAt"`
}

// NewTask creates a task with a fresh id.
func NewTask(objectKey, filename string, size int64) *Task {
    return &Task{
        ID:        uuid.NewString(),
        ObjectKey: objectKey,
        Filename:  filename,
        Size:      size,
        CreatedAt: time.Now().UTC(),
    }
}

// Validate reports a task that a worker could not act on.
func (t *Task) Validate() error {
    switch {
    case t == nil:
        return errors.New("invalid task: nil")
    case t.ID == "":
        return errors.New("invalid task: missing id")
    case t.ObjectKey == "":
        return errors.New("invalid task: missing object key")
    case t.Filename == "":
        return errors.New("invalid task: missing filename")
    }
    return nil
}

// QueueName maps the task priority onto a queue.
func (t *Task) QueueName() string {
    switch t.Priority {
    case 1:
        return QueueCritical
    case 2:
        return QueueDefault
    default:
        return QueueLow
    }
}

// TaskStatus is the externally visible state of a parse task.
type TaskStatus struct {
    TaskID     string                  `json:"taskId"`
    Status     models.ProcessingStatus `json:"status"`
    Progress   float64                 `json:"progress"`
    Items      int                     `json:"items,omitempty"`
    Error      string                  `json:"error,omitempty"`
    StartedAt  time.Time               `json:"startedAt"`
    FinishedAt time.Time               `json:"finishedAt,omitempty"`
}

type Config struct {
    RedisAddr     string        `yaml:"redis_addr"`
    RedisPassword string        `yaml:"redis_password"`
    RedisDB       int           `yaml:"redis_db"`
    MaxRetries    int           `yaml:"max_retries"`
    Timeout       time.Duration `yaml:"timeout"`
    Retention     time.Duration `yaml:"retention"`
    StatusTTL     time.Duration `yaml:"status_ttl"`
    Concurrency   int           `yaml:"concurrency"`
}

func DefaultConfig() Config {
    return Config{
        RedisAddr:   "localhost:6379",
        MaxRetries:  3,
        Timeout:     30 * time.Minute,
        Retention:   24 * time.Hour,
        StatusTTL:   24 * time.Hour,
        Concurrency: 5,
    }
}

// RedisOpt is the asynq connection for cfg.
func (c Config) RedisOpt() asynq.RedisClientOpt {
    return asynq.RedisClientOpt{Addr: c.RedisAddr, Password: c.RedisPassword, DB: c.RedisDB}
}

// AsynqQueue enqueues with asynq and keeps task status in Redis.
type AsynqQueue struct {
    client    *asynq.Client
    inspector *asynq.Inspector
    redis     *redis.Client
    config    Config
}

func NewAsynqQueue(cfg Config) *AsynqQueue {
    return &AsynqQueue{
        client:    asynq.NewClient(cfg.RedisOpt()),
        inspector: asynq.NewInspector(cfg.RedisOpt()),
        redis: redis.NewClient(&redis.Options{
            Addr:     cfg.RedisAddr,
            Password: cfg.RedisPassword,
            DB:       cfg.RedisDB,
        }),
        config: cfg,
    }
}

// NewMenuParseTask builds the asynq task for t.
func NewMenuParseTask(t *Task, cfg Config) (*asynq.Task, error) {
    if err := t.Validate(); err != nil {
        return nil, err
    }
    payload, err := json.Marshal(t)
    if err != nil {
        return nil, fmt.Errorf("failed to marshal task: %w", err)
    }
    return asynq.NewTask(TaskTypeMenuParse, payload,
        asynq.TaskID(t.ID),
        asynq.Queue(t.QueueName()),
        asynq.MaxRetry(cfg.MaxRetries),
        asynq.Timeout(cfg.Timeout),
        asynq.Retention(cfg.Retention),
    ), nil
}

// DecodeTask reads a Task back from an asynq payload.
func DecodeTask(payload []byte) (*Task, error) {
    var t Task
    if err := json.Unmarshal(payload, &t); err != nil {
        return nil, fmt.Errorf("failed to unmarshal task: %w", err)
    }
    if err := t.Validate(); err != nil {
        return nil, err
    }
    return &t, nil
}

func (q *AsynqQueue) Enqueue(ctx context.Context, task *Task) error {
    t, err := NewMenuParseTask(task, q.config)
    if err != nil {
        return err
    }
    if _, err := q.client.EnqueueContext(ctx, t); err != nil {
        return fmt.Errorf("failed to enqueue task: %w", err)
    }
    return q.SaveStatus(ctx, &TaskStatus{
        TaskID:    task.ID,
        Status:    models.StatusPending,
        StartedAt: task.CreatedAt,
    })
}

// GetTaskStatus prefers the status saved by the worker and falls back to
// asking asynq.
func (q *AsynqQueue) GetTaskStatus(ctx context.Context, taskID string) (*TaskStatus, error) {
    data, err := q.redis.Get(ctx, statusKey(taskID)).Bytes()
    switch {
    case err == nil:
        var status TaskStatus
        if err := json.Unmarshal(data, &status); err != nil {
            return nil, fmt.Errorf("failed to unmarshal status: %w", err)
        }
        return &status, nil
    case !errors.Is(err, redis.Nil):
        return nil, fmt.Errorf("failed to get status from redis: %w", err)
    }

    for _, name := range queueNames {
        info, err := q.inspector.GetTaskInfo(name, taskID)
        if err == nil {
            return convertAsynqStatus(info), nil
        }
    }
    return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
}

// CancelTask removes a waiting task or signals a running one, then records
// the cancellation.
func (q *AsynqQueue) CancelTask(ctx context.Context, taskID string) error {
    var lastErr error
    for _, name := range queueNames {
        info, err := q.inspector.GetTaskInfo(name, taskID)
        if err != nil {
            lastErr = err
            continue
        }
        if info.State == asynq.TaskStateActive {
            err = q.inspector.CancelProcessing(taskID)
        } else {
            err = q.inspector.DeleteTask(name, taskID)
        }
        if err != nil {
            return fmt.Errorf("failed to cancel task: %w", err)
        }
        return q.SaveStatus(ctx, &TaskStatus{
            TaskID:     taskID,
            Status:     models.StatusCancelled,
            FinishedAt: time.Now().UTC(),
        })
    }
    return fmt.Errorf("%w: %s: %w", ErrTaskNotFound, taskID, lastErr)
}

func (q *AsynqQueue) SaveStatus(ctx context.Context, status *TaskStatus) error {
    data, err := json.Marshal(status)
    if err != nil {
        return fmt.Errorf("failed to marshal status: %w", err)
    }
    if err := q.redis.Set(ctx, statusKey(status.TaskID), data, q.config.StatusTTL).Err(); err != nil {
        return fmt.Errorf("failed to save status: %w", err)
    }
    return nil
}

func (q *AsynqQueue) Close() error {
    return errors.Join(q.client.Close(), q.inspector.Close(), q.redis.Close())
}

func statusKey(taskID string) string {
    return "menu_task_status:" + taskID
}

func convertAsynqStatus(info *asynq.TaskInfo) *TaskStatus {
    status := &TaskStatus{
        TaskID:    info.ID,
        StartedAt: info.NextProcessAt,
    }

    switch info.State {
    case asynq.TaskStateActive:
        status.Status = models.StatusRunning
    case asynq.TaskStateCompleted:
        status.Status = models.StatusCompleted
        status.Progress = 1
        status.FinishedAt = info.CompletedAt
    case asynq.TaskStateArchived:
        status.Status = models.StatusFailed
        status.Error = info.LastErr
    case asynq.TaskStateRetry:
        status.Status = models.StatusPending
        status.Error = info.LastErr
    default:
        status.Status = models.StatusPending
    }
    return status
}
