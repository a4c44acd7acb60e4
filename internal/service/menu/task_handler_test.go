package menu

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zubenkoruslan/hospitalitai-sub007/internal/models"
	"github.com/zubenkoruslan/hospitalitai-sub007/internal/utils/validator"
	"github.com/zubenkoruslan/hospitalitai-sub007/pkg/converters"
	"github.com/zubenkoruslan/hospitalitai-sub007/pkg/logger"
	"github.com/zubenkoruslan/hospitalitai-sub007/pkg/queue"
)

type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memoryStorage) Store(_ context.Context, r io.Reader, key string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return key, nil
}

func (m *memoryStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("no such key %q", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

type statusRecorder struct {
	statuses []queue.TaskStatus
}

func (r *statusRecorder) SaveStatus(_ context.Context, s *queue.TaskStatus) error {
	r.statuses = append(r.statuses, *s)
	return nil
}

func (r *statusRecorder) last() queue.TaskStatus {
	return r.statuses[len(r.statuses)-1]
}

type parserFunc func(ctx context.Context, doc models.RawDocument) (*models.ParsedMenuData, error)

func (f parserFunc) ParseMenu(ctx context.Context, doc models.RawDocument) (*models.ParsedMenuData, error) {
	return f(ctx, doc)
}

func storedTask(t *testing.T, store *memoryStorage, filename, content string) *queue.Task {
	t.Helper()
	task := queue.NewTask("uploads/"+filename, filename, int64(len(content)))
	_, err := store.Store(context.Background(), bytes.NewReader([]byte(content)), task.ObjectKey)
	require.NoError(t, err)
	return task
}

func TestHandleTaskWritesEnvelope(t *testing.T) {
	store := &memoryStorage{objects: map[string][]byte{}}
	status := &statusRecorder{}
	var got models.RawDocument
	parser := parserFunc(func(_ context.Context, doc models.RawDocument) (*models.ParsedMenuData, error) {
		got = doc
		return &models.ParsedMenuData{MenuName: "Lunch", Items: []models.CleanMenuItem{{Name: "Soup"}}, TotalItems: 1}, nil
	})
	h := NewTaskHandler(parser, store, status, logger.NewTestLogger(), WithDeleteSource(true))
	task := storedTask(t, store, "lunch.csv", "name,price\nSoup,5\n")

	var out bytes.Buffer
	require.NoError(t, h.HandleTask(context.Background(), task, &out))

	assert.Equal(t, "lunch.csv", got.Filename)
	assert.Equal(t, "name,price\nSoup,5\n", string(got.Content))

	var res converters.ParseResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, task.ID, res.TaskID)
	require.NotNil(t, res.Data)
	assert.Equal(t, "Lunch", res.Data.MenuName)
	assert.Equal(t, ".csv", res.Metadata.FileType)

	require.Len(t, status.statuses, 2)
	assert.Equal(t, models.StatusRunning, status.statuses[0].Status)
	assert.Equal(t, models.StatusCompleted, status.last().Status)
	assert.Equal(t, 1, status.last().Items)
	assert.NotContains(t, store.objects, task.ObjectKey, "source deleted after success")
}

func TestHandleTaskRecordsFailure(t *testing.T) {
	store := &memoryStorage{objects: map[string][]byte{}}
	status := &statusRecorder{}
	parseErr := errors.Join(errors.New("full document: giving up after 3 attempts"), models.ErrNoItems)
	parser := parserFunc(func(context.Context, models.RawDocument) (*models.ParsedMenuData, error) {
		return nil, parseErr
	})
	h := NewTaskHandler(parser, store, status, nil, WithDeleteSource(true))
	task := storedTask(t, store, "menu.txt", "Soup of the day 6.00")

	var out bytes.Buffer
	err := h.HandleTask(context.Background(), task, &out)
	assert.ErrorIs(t, err, models.ErrNoItems)

	var res converters.ParseResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.False(t, res.Success)
	assert.Equal(t, []string{"full document: giving up after 3 attempts", "no menu items extracted"}, res.Errors)
	assert.Equal(t, models.StatusFailed, status.last().Status)
	assert.Contains(t, store.objects, task.ObjectKey, "source kept for a retry")
}

func TestHandleTaskRejectsInvalidUploads(t *testing.T) {
	store := &memoryStorage{objects: map[string][]byte{}}
	called := false
	parser := parserFunc(func(context.Context, models.RawDocument) (*models.ParsedMenuData, error) {
		called = true
		return nil, nil
	})
	h := NewTaskHandler(parser, store, nil, nil, WithValidator(validator.NewDocumentValidator(nil, &validator.ValidatorConfig{MaxFileSize: 8})))

	var out bytes.Buffer
	err := h.HandleTask(context.Background(), storedTask(t, store, "menu.txt", "far too long for the limit"), &out)
	assert.ErrorIs(t, err, models.ErrFileTooLarge)

	out.Reset()
	err = h.HandleTask(context.Background(), storedTask(t, store, "menu.png", "png"), &out)
	assert.ErrorIs(t, err, models.ErrUnsupportedFormat)
	assert.False(t, called)

	err = h.HandleTask(context.Background(), &queue.Task{ID: "x"}, &out)
	assert.Error(t, err)
}

func TestHandleTaskCancelled(t *testing.T) {
	store := &memoryStorage{objects: map[string][]byte{}}
	status := &statusRecorder{}
	ctx, cancel := context.WithCancel(context.Background())
	parser := parserFunc(func(context.Context, models.RawDocument) (*models.ParsedMenuData, error) {
		cancel()
		return nil, context.Canceled
	})
	h := NewTaskHandler(parser, store, status, nil)

	var out bytes.Buffer
	err := h.HandleTask(ctx, storedTask(t, store, "menu.txt", "Soup of the day 6.00"), &out)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, out.Len())
	assert.Equal(t, models.StatusCancelled, status.last().Status)
}
