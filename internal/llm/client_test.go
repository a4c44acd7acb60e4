package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zubenkoruslan/hospitalitai-sub007/internal/models"
	"github.com/zubenkoruslan/hospitalitai-sub007/pkg/logger"
)

type recorder struct {
	delays []time.Duration
}

func (r *recorder) sleep(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

func countingService(calls *int, err error, out string) Service {
	return ServiceFunc(func(ctx context.Context, system, user string) (string, error) {
		*calls++
		return out, err
	})
}

func TestExtractRetriesOnlyUnavailable(t *testing.T) {
	calls := 0
	rec := &recorder{}
	log := logger.NewTestLogger()
	c := NewClient(countingService(&calls, unavailable(errors.New("503")), ""), log, WithSleeper(rec.sleep))

	_, err := c.Extract(context.Background(), Request{Text: "menu", Label: "full document"})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrServiceUnavailable)
	assert.Equal(t, 3, calls)
	require.Len(t, rec.delays, 2)
	assert.Less(t, rec.delays[0], rec.delays[1])
	assert.Equal(t, 2*time.Second, rec.delays[0])
	assert.Equal(t, 4*time.Second, rec.delays[1])
	assert.Len(t, log.Messages("WARN"), 2)
}

func TestExtractChunkedPolicy(t *testing.T) {
	calls := 0
	rec := &recorder{}
	c := NewClient(countingService(&calls, unavailable(errors.New("overloaded")), ""), nil, WithSleeper(rec.sleep))

	_, err := c.Extract(context.Background(), Request{Text: "menu", Label: "chunk 1/2", Chunked: true})
	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []time.Duration{1500 * time.Millisecond}, rec.delays)
}

func TestExtractDelaysStrictlyIncrease(t *testing.T) {
	calls := 0
	rec := &recorder{}
	policy := RetryPolicy{Attempts: 5, Base: 100 * time.Millisecond, Multiplier: 1.5}
	c := NewClient(countingService(&calls, unavailable(errors.New("busy")), ""), nil,
		WithSleeper(rec.sleep), WithPolicies(policy, policy))

	_, err := c.Extract(context.Background(), Request{Text: "menu"})
	require.Error(t, err)
	assert.Equal(t, 5, calls)
	require.Len(t, rec.delays, 4)
	for i := 1; i < len(rec.delays); i++ {
		assert.Greater(t, rec.delays[i], rec.delays[i-1])
	}
}

func TestExtractDoesNotRetryOtherErrors(t *testing.T) {
	calls := 0
	rec := &recorder{}
	boom := errors.New("invalid api key")
	c := NewClient(countingService(&calls, boom, ""), nil, WithSleeper(rec.sleep))

	_, err := c.Extract(context.Background(), Request{Text: "menu"})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
	assert.Empty(t, rec.delays)
}

func TestExtractRecoversAfterTransientFailure(t *testing.T) {
	calls := 0
	svc := ServiceFunc(func(ctx context.Context, system, user string) (string, error) {
		calls++
		if calls == 1 {
			return "", unavailable(errors.New("503"))
		}
		assert.Contains(t, user, "Menu section: chunk 2/3")
		assert.NotEmpty(t, system)
		return `{"items":[]}`, nil
	})
	rec := &recorder{}
	c := NewClient(svc, nil, WithSleeper(rec.sleep))

	out, err := c.Extract(context.Background(), Request{Text: "menu", Label: "chunk 2/3", Chunked: true})
	require.NoError(t, err)
	assert.Equal(t, `{"items":[]}`, out)
	assert.Equal(t, 2, calls)
}

func TestExtractStopsWhenCancelled(t *testing.T) {
	calls := 0
	ctx, cancel := context.WithCancel(context.Background())
	c := NewClient(countingService(&calls, unavailable(errors.New("503")), ""), nil,
		WithSleeper(func(ctx context.Context, d time.Duration) error {
			cancel()
			return ctx.Err()
		}))

	_, err := c.Extract(ctx, Request{Text: "menu"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestAttemptTimeoutIsTransient(t *testing.T) {
	calls := 0
	svc := ServiceFunc(func(ctx context.Context, system, user string) (string, error) {
		calls++
		<-ctx.Done()
		return "", ctx.Err()
	})
	rec := &recorder{}
	c := NewClient(svc, nil, WithSleeper(rec.sleep), WithCallTimeout(10*time.Millisecond))

	_, err := c.Extract(context.Background(), Request{Text: "menu"})
	assert.ErrorIs(t, err, models.ErrServiceUnavailable)
	assert.Equal(t, 3, calls)
}

func TestRetryPolicyDelay(t *testing.T) {
	p := DefaultSinglePolicy()
	assert.Equal(t, 2*time.Second, p.Delay(1))
	assert.Equal(t, 4*time.Second, p.Delay(2))
	assert.Equal(t, 8*time.Second, p.Delay(3))
}

func TestNewServiceRejectsUnknownProvider(t *testing.T) {
	_, err := NewService(Config{Provider: "carrier-pigeon"})
	assert.Error(t, err)

	_, err = NewService(Config{Provider: ProviderOpenAI})
	assert.Error(t, err, "missing api key")
}

func TestClassifyOllama(t *testing.T) {
	assert.ErrorIs(t, classifyOllama(errors.New("ollama: 503 Service Unavailable")), models.ErrServiceUnavailable)
	assert.NotErrorIs(t, classifyOllama(errors.New("model not found")), models.ErrServiceUnavailable)
}

func TestPromptsMerge(t *testing.T) {
	p := Prompts{Wine: "custom"}.Merge()
	assert.Equal(t, "custom", p.Wine)
	assert.Equal(t, DefaultPrompts().Extraction, p.Extraction)
}
