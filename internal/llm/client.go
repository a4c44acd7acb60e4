package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/zubenkoruslan/hospitalitai-sub007/internal/models"
	"github.com/zubenkoruslan/hospitalitai-sub007/pkg/logger"
)

// RetryPolicy bounds the attempts made for one extraction call. The delay
// before attempt n+1 is Base * Multiplier^(n-1).
type RetryPolicy struct {
	Attempts   int           `yaml:"attempts"`
	Base       time.Duration `yaml:"base"`
	Multiplier float64       `yaml:"multiplier"`
}

// Delay returns the wait after the given failed attempt (1-based).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	return time.Duration(float64(p.Base) * math.Pow(p.Multiplier, float64(attempt-1)))
}

// DefaultSinglePolicy is used for whole-document calls.
func DefaultSinglePolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, Base: 2 * time.Second, Multiplier: 2}
}

// DefaultChunkPolicy is used for per-chunk calls, which are already many.
func DefaultChunkPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 2, Base: 1500 * time.Millisecond, Multiplier: 1.5}
}

// Request is one extraction call.
type Request struct {
	Text    string
	Label   string // e.g. "chunk 3/7" or "full document"
	Chunked bool
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Client wraps a Service with the retry policy and the extraction
// instruction.
type Client struct {
	svc         Service
	log         logger.Logger
	single      RetryPolicy
	chunked     RetryPolicy
	callTimeout time.Duration
	sleep       Sleeper
	prompts     Prompts
}

type ClientOption func(*Client)

func WithPolicies(single, chunked RetryPolicy) ClientOption {
	return func(c *Client) {
		c.single = single
		c.chunked = chunked
	}
}

func WithCallTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.callTimeout = d }
}

func WithSleeper(s Sleeper) ClientOption {
	return func(c *Client) { c.sleep = s }
}

func WithPrompts(p Prompts) ClientOption {
	return func(c *Client) { c.prompts = p }
}

func NewClient(svc Service, log logger.Logger, opts ...ClientOption) *Client {
	c := &Client{
		svc:     svc,
		log:     log,
		single:  DefaultSinglePolicy(),
		chunked: DefaultChunkPolicy(),
		sleep:   sleep,
		prompts: DefaultPrompts(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.NewNop()
	}
	return c
}

// Prompts returns the instructions the client was configured with.
func (c *Client) Prompts() Prompts { return c.prompts }

// Extract sends menu text to the extraction service and returns its raw
// response text.
func (c *Client) Extract(ctx context.Context, req Request) (string, error) {
	policy := c.single
	if req.Chunked {
		policy = c.chunked
	}
	user := req.Text
	if req.Label != "" {
		user = fmt.Sprintf("Menu section: %s\n\n%s", req.Label, req.Text)
	}
	return c.call(ctx, policy, req.Label, c.prompts.Extraction, user)
}

// Complete runs an arbitrary instruction under the single-pass policy.
func (c *Client) Complete(ctx context.Context, label, system, user string) (string, error) {
	return c.call(ctx, c.single, label, system, user)
}

func (c *Client) call(ctx context.Context, policy RetryPolicy, label, system, user string) (string, error) {
	attempts := max(policy.Attempts, 1)
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		out, err := c.attempt(ctx, system, user)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !errors.Is(err, models.ErrServiceUnavailable) {
			return "", err
		}
		if attempt == attempts {
			break
		}
		delay := policy.Delay(attempt)
		c.log.Warn("extraction service unavailable, retrying",
			logger.String("label", label),
			logger.Int("attempt", attempt),
			logger.Duration("delay", delay),
			logger.Error(err))
		if err := c.sleep(ctx, delay); err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("giving up after %d attempts: %w", attempts, lastErr)
}

// attempt makes one call under its own deadline. Hitting that deadline is
// transient; the caller's own cancellation is not.
func (c *Client) attempt(ctx context.Context, system, user string) (string, error) {
	if c.callTimeout <= 0 {
		return c.svc.Generate(ctx, system, user)
	}
	actx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()
	out, err := c.svc.Generate(actx, system, user)
	if err != nil && ctx.Err() == nil && errors.Is(actx.Err(), context.DeadlineExceeded) {
		return "", unavailable(err)
	}
	return out, err
}
