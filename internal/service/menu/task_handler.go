package menu

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/zubenkoruslan/hospitalitai-sub007/internal/models"
	"github.com/zubenkoruslan/hospitalitai-sub007/internal/utils/validator"
	"github.com/zubenkoruslan/hospitalitai-sub007/pkg/converters"
	"github.com/zubenkoruslan/hospitalitai-sub007/pkg/logger"
	"github.com/zubenkoruslan/hospitalitai-sub007/pkg/queue"
	"github.com/zubenkoruslan/hospitalitai-sub007/pkg/storage"
)

// StatusStore records task progress for later queries.
type StatusStore interface {
	SaveStatus(ctx context.Context, status *queue.TaskStatus) error
}

// TaskHandler runs queued parse tasks: it fetches the stored upload, parses
// it and writes the result envelope.
type TaskHandler struct {
	parser       MenuParser
	storage      storage.Storage
	status       StatusStore
	validator    *validator.DocumentValidator
	converter    *converters.JSONConverter
	deleteSource bool
	logger       logger.Logger
}

type HandlerOption func(*TaskHandler)

// WithDeleteSource removes the uploaded object once it has been parsed.
func WithDeleteSource(on bool) HandlerOption {
	return func(h *TaskHandler) { h.deleteSource = on }
}

func WithValidator(v *validator.DocumentValidator) HandlerOption {
	return func(h *TaskHandler) { h.validator = v }
}

func NewTaskHandler(parser MenuParser, store storage.Storage, status StatusStore, log logger.Logger, opts ...HandlerOption) *TaskHandler {
	if log == nil {
		log = logger.NewNop()
	}
	h := &TaskHandler{
		parser:    parser,
		storage:   store,
		status:    status,
		converter: converters.NewJSONConverter(),
		logger:    log.Named("tasks"),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.validator == nil {
		h.validator = validator.NewDocumentValidator(log, nil)
	}
	return h
}

// HandleTask parses the upload named by task and writes the JSON envelope
// to out. The returned error is the pipeline error, if any, after the
// envelope and the final status have been recorded.
func (h *TaskHandler) HandleTask(ctx context.Context, task *queue.Task, out io.Writer) error {
	if err := task.Validate(); err != nil {
		return err
	}
	log := h.logger.With(logger.String("taskId", task.ID), logger.String("filename", task.Filename))
	ctx = logger.IntoContext(ctx, log)

	started := time.Now().UTC()
	h.saveStatus(ctx, log, &queue.TaskStatus{TaskID: task.ID, Status: models.StatusRunning, StartedAt: started})

	data, err := h.parse(ctx, task)
	if errors.Is(err, context.Canceled) {
		h.saveStatus(context.WithoutCancel(ctx), log, &queue.TaskStatus{
			TaskID: task.ID, Status: models.StatusCancelled, StartedAt: started, FinishedAt: time.Now().UTC(),
		})
		return err
	}

	result := h.converter.Convert(data, err)
	result.TaskID = task.ID
	result.Metadata = &converters.DocumentMetadata{
		FileName:     task.Filename,
		FileType:     models.RawDocument{Filename: task.Filename}.Extension(),
		FileSize:     task.Size,
		ProcessingMs: time.Since(started).Milliseconds(),
	}
	payload, merr := h.converter.Marshal(result)
	if merr != nil {
		return merr
	}
	if _, werr := io.Copy(out, bytes.NewReader(payload)); werr != nil {
		return fmt.Errorf("failed to write result: %w", werr)
	}

	status := &queue.TaskStatus{
		TaskID:     task.ID,
		Status:     models.StatusCompleted,
		Progress:   1,
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
	}
	if err != nil {
		status.Status = models.StatusFailed
		status.Error = err.Error()
	} else {
		status.Items = data.TotalItems
	}
	h.saveStatus(ctx, log, status)

	if err == nil && h.deleteSource {
		if derr := h.storage.Delete(ctx, task.ObjectKey); derr != nil {
			log.Warn("failed to delete source object", logger.String("key", task.ObjectKey), logger.Error(derr))
		}
	}

	if err != nil {
		log.Error("menu task failed", logger.Error(err))
		return err
	}
	log.Info("menu task completed", logger.Int("items", data.TotalItems))
	return nil
}

func (h *TaskHandler) parse(ctx context.Context, task *queue.Task) (*models.ParsedMenuData, error) {
	content, err := storage.ReadAll(ctx, h.storage, task.ObjectKey, h.validator.MaxFileSize())
	if err != nil {
		return nil, err
	}
	doc := models.RawDocument{Filename: task.Filename, Content: content}
	info, err := h.validator.Check(doc)
	if err != nil {
		return nil, err
	}
	h.logger.Debug("document accepted", logger.String("hash", info.Hash), logger.String("mimeType", info.MimeType))
	return h.parser.ParseMenu(ctx, doc)
}

func (h *TaskHandler) saveStatus(ctx context.Context, log logger.Logger, status *queue.TaskStatus) {
	if h.status == nil {
		return
	}
	if err := h.status.SaveStatus(ctx, status); err != nil {
		log.Error("failed to save task status", logger.String("status", string(status.Status)), logger.Error(err))
	}
}
