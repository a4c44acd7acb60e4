package ocr

import (
    "context"
    "errors"
    "fmt"
    "strings"

    "github.com/aws/aws-sdk-go-v2/aws"
    "github.com/aws/aws-sdk-go-v2/config"
    "github.com/aws/aws-sdk-go-v2/credentials"
    "github.com/aws/aws-sdk-go-v2/service/textract"
    "github.com/aws/aws-sdk-go-v2/service/textract/types"

    "github.com/zubenkoruslan/hospitalitai-sub007/pkg/logger"
)

// DetectAPI is the part of the Textract client used here.
type DetectAPI interface {
    DetectDocumentText(ctx context.Context, params *textract.DetectDocumentTextInput, optFns ...func(*textract.Options)) (*textract.DetectDocumentTextOutput, error)
}

type TextractConfig struct {
    Region        string  `yaml:"region"`
    AccessKey     string  `yaml:"access_key"`
    SecretKey     string  `yaml:"secret_key"`
    MinConfidence float32 `yaml:"min_confidence"`
}

// TextractProcessor recognises text in scanned menus. Textract's synchronous
// API accepts images and single page PDFs.
type TextractProcessor struct {
    client DetectAPI
    logger logger.Logger
    config *TextractConfig
}

func NewTextractProcessor(ctx context.Context, cfg *TextractConfig, log logger.Logger) (*TextractProcessor, error) {
    if cfg == nil || cfg.Region == "" {
        return nil, errors.New("textract region is required")
    }
    opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
    if cfg.AccessKey != "" && cfg.SecretKey != "" {
        opts = append(opts, config.WithCredentialsProvider(
            credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
        ))
    }

    awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
    if err != nil {
        return nil, fmt.Errorf("unable to load AWS config: %w", err)
    }
    return NewTextractProcessorWithClient(textract.NewFromConfig(awsCfg), cfg, log), nil
}

func NewTextractProcessorWithClient(client DetectAPI, cfg *TextractConfig, log logger.Logger) *TextractProcessor {
    if log == nil {
        log = logger.NewNop()
    }
    return &TextractProcessor{client: client, logger: log, config: cfg}
}

// DetectText returns the recognised LINE blocks at or above the configured
// confidence, one per line.
func (p *TextractProcessor) DetectText(ctx context.Context, content []byte) (string, error) {
    result, err := p.client.DetectDocumentText(ctx, &textract.DetectDocumentTextInput{
        Document: &types.Document{Bytes: content},
    })
    if err != nil {
        return "", fmt.Errorf("failed to detect document text: %w", err)
    }

    var lines []string
    skipped := 0
    for _, block := range result.Blocks {
        if block.BlockType != types.BlockTypeLine {
            continue
        }
        if aws.ToFloat32(block.Confidence) < p.config.MinConfidence {
            skipped++
            continue
        }
        if text := strings.TrimSpace(aws.ToString(block.Text)); text != "" {
            lines = append(lines, text)
        }
    }

    p.logger.Info("textract detection complete",
        logger.Int("lines", len(lines)),
        logger.Int("lowConfidence", skipped),
    )
    return strings.Join(lines, "\n"), nil
}
