package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/zubenkoruslan/hospitalitai-sub007/internal/agent/document/ocr"
	"github.com/zubenkoruslan/hospitalitai-sub007/internal/chunker"
	"github.com/zubenkoruslan/hospitalitai-sub007/internal/density"
	"github.com/zubenkoruslan/hospitalitai-sub007/internal/llm"
	"github.com/zubenkoruslan/hospitalitai-sub007/internal/service/menu"
	"github.com/zubenkoruslan/hospitalitai-sub007/internal/utils/validator"
	"github.com/zubenkoruslan/hospitalitai-sub007/pkg/logger"
	"github.com/zubenkoruslan/hospitalitai-sub007/pkg/queue"
	"github.com/zubenkoruslan/hospitalitai-sub007/pkg/storage"
)

type Config struct {
	Log logger.Config `yaml:"log"`
	LLM llm.Config    `yaml:"llm"`

	Prompts llm.Prompts `yaml:"prompts"`

	Retry struct {
		Single  llm.RetryPolicy `yaml:"single"`
		Chunked llm.RetryPolicy `yaml:"chunked"`
	} `yaml:"retry"`

	Density  density.Config `yaml:"density"`
	Chunker  chunker.Config `yaml:"chunker"`
	Pipeline menu.Config    `yaml:"pipeline"`

	OCR struct {
		Enabled            bool `yaml:"enabled"`
		ocr.TextractConfig `yaml:",inline"`
	} `yaml:"ocr"`

	Storage storage.Config            `yaml:"storage"`
	Queue   queue.Config              `yaml:"queue"`
	Upload  validator.ValidatorConfig `yaml:"upload"`

	Worker struct {
		DeleteSource bool           `yaml:"delete_source"`
		Queues       map[string]int `yaml:"queues"`
	} `yaml:"worker"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{
		Log:      logger.DefaultConfig(),
		LLM:      llm.DefaultConfig(),
		Prompts:  llm.DefaultPrompts(),
		Density:  density.DefaultConfig(),
		Chunker:  chunker.DefaultConfig(),
		Pipeline: menu.DefaultConfig(),
		Storage:  storage.Config{Type: storage.StorageTypeS3},
		Queue:    queue.DefaultConfig(),
		Upload:   *validator.DefaultValidatorConfig(),
	}
	cfg.Retry.Single = llm.DefaultSinglePolicy()
	cfg.Retry.Chunked = llm.DefaultChunkPolicy()
	cfg.OCR.MinConfidence = 50
	return cfg
}

// Load reads path (optional) over the defaults, then .env and environment
// overrides. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	// A missing .env is normal outside development.
	_ = godotenv.Load()
	if err := mergeWithEnv(cfg); err != nil {
		return nil, err
	}
	cfg.Prompts = cfg.Prompts.Merge()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func mergeWithEnv(cfg *Config) error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	setString("LOG_LEVEL", &cfg.Log.Level)

	setString("LLM_PROVIDER", &cfg.LLM.Provider)
	setString("LLM_MODEL", &cfg.LLM.Model)
	setString("OPENAI_API_KEY", &cfg.LLM.APIKey)
	if strings.EqualFold(cfg.LLM.Provider, llm.ProviderOllama) {
		setString("OLLAMA_BASE_URL", &cfg.LLM.BaseURL)
	}

	setString("AWS_REGION", &cfg.OCR.Region)
	setString("AWS_ACCESS_KEY", &cfg.OCR.AccessKey)
	setString("AWS_SECRET_KEY", &cfg.OCR.SecretKey)

	if cfg.Storage.Type == storage.StorageTypeMinio {
		setString("MINIO_ENDPOINT", &cfg.Storage.Endpoint)
		setString("MINIO_ACCESS_KEY", &cfg.Storage.AccessKey)
		setString("MINIO_SECRET_KEY", &cfg.Storage.SecretKey)
		setString("MINIO_REGION", &cfg.Storage.Region)
		setString("MINIO_BUCKET_NAME", &cfg.Storage.Bucket)
		if v, ok := os.LookupEnv("MINIO_USE_SSL"); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("MINIO_USE_SSL: %w", err)
			}
			cfg.Storage.UseSSL = b
		}
	} else {
		setString("AWS_S3_BUCKET_NAME", &cfg.Storage.Bucket)
		setString("AWS_REGION", &cfg.Storage.Region)
		setString("AWS_ENDPOINT", &cfg.Storage.Endpoint)
		setString("AWS_ACCESS_KEY", &cfg.Storage.AccessKey)
		setString("AWS_SECRET_KEY", &cfg.Storage.SecretKey)
	}

	setString("REDIS_ADDR", &cfg.Queue.RedisAddr)
	setString("REDIS_PASSWORD", &cfg.Queue.RedisPassword)
	return nil
}

// FieldError is one invalid configuration value.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate reports every invalid field, joined.
func (c *Config) Validate() error {
	var errs []error
	add := func(field, format string, args ...any) {
		errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	switch strings.ToLower(c.LLM.Provider) {
	case llm.ProviderOpenAI:
		if c.LLM.APIKey == "" {
			add("llm.api_key", "required for the openai provider (or set OPENAI_API_KEY)")
		}
	case llm.ProviderOllama:
	default:
		add("llm.provider", "must be %q or %q, got %q", llm.ProviderOpenAI, llm.ProviderOllama, c.LLM.Provider)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		add("llm.temperature", "must be within [0, 2]")
	}
	if c.LLM.MaxTokens <= 0 {
		add("llm.max_tokens", "must be positive")
	}

	checkPolicy := func(field string, p llm.RetryPolicy) {
		if p.Attempts < 1 {
			add(field+".attempts", "must be at least 1")
		}
		if p.Base < 0 {
			add(field+".base", "must not be negative")
		}
		if p.Multiplier < 1 {
			add(field+".multiplier", "must be at least 1")
		}
	}
	checkPolicy("retry.single", c.Retry.Single)
	checkPolicy("retry.chunked", c.Retry.Chunked)

	if c.Chunker.TargetSize < c.Chunker.MinChunkSize {
		add("chunker.target_size", "must not be below min_chunk_size")
	}
	if c.Chunker.BoundaryWindow < 0 || c.Chunker.BoundaryWindow >= 1 {
		add("chunker.boundary_window", "must be within [0, 1)")
	}
	if c.Pipeline.LengthThreshold <= 0 {
		add("pipeline.length_threshold", "must be positive")
	}
	if c.Pipeline.ChunkDelay < 0 {
		add("pipeline.chunk_delay", "must not be negative")
	}
	// A zero threshold is always met and would disable the single-pass fallback.
	pc := c.Pipeline.PreferChunked
	for _, th := range []struct {
		field string
		v     int
	}{{"wine", pc.Wine}, {"food", pc.Food}, {"beverage", pc.Beverage}, {"total", pc.Total}} {
		if th.v <= 0 {
			add("pipeline.prefer_chunked."+th.field, "must be positive")
		}
	}
	if r := c.Pipeline.Items; r.MinConfidence < 0 || r.MinConfidence > 100 {
		add("pipeline.items.min_confidence", "must be within [0, 100]")
	}
	if c.Pipeline.Enrichment.BatchSize <= 0 {
		add("pipeline.enrichment.batch_size", "must be positive")
	}

	if c.OCR.Enabled && c.OCR.Region == "" {
		add("ocr.region", "required when ocr is enabled (or set AWS_REGION)")
	}
	if c.Upload.MaxFileSize <= 0 {
		add("upload.max_file_size", "must be positive")
	}
	if c.Queue.Timeout < time.Second {
		add("queue.timeout", "must be at least 1s")
	}
	return errors.Join(errs...)
}

// ValidateStorage checks the storage section, which only the queue paths
// need.
func (c *Config) ValidateStorage() error {
	var errs []error
	switch c.Storage.Type {
	case storage.StorageTypeS3:
		if c.Storage.Region == "" {
			errs = append(errs, FieldError{"storage.region", "required for s3 (or set AWS_REGION)"})
		}
	case storage.StorageTypeMinio:
		if c.Storage.Endpoint == "" {
			errs = append(errs, FieldError{"storage.endpoint", "required for minio (or set MINIO_ENDPOINT)"})
		}
	default:
		errs = append(errs, FieldError{"storage.type", fmt.Sprintf("unknown type %q", c.Storage.Type)})
	}
	if c.Storage.Bucket == "" {
		errs = append(errs, FieldError{"storage.bucket", "required"})
	}
	return errors.Join(errs...)
}
