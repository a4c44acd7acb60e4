package pdf

import (
    "bytes"
    "context"
    "fmt"
    "strings"

    "github.com/ledongthuc/pdf"
    "golang.org/x/sync/errgroup"

    "github.com/zubenkoruslan/hospitalitai-sub007/internal/models"
    "github.com/zubenkoruslan/hospitalitai-sub007/pkg/logger"
)

// minTextLen below which a PDF is considered scanned and sent to OCR.
const minTextLen = 10

// OCR recognises text in a document that carries no text layer.
type OCR interface {
    DetectText(ctx context.Context, content []byte) (string, error)
}

type Processor struct {
    logger     logger.Logger
    ocr        OCR
    maxWorkers int
}

type Option func(*Processor)

// WithOCR enables the fallback for scanned PDFs.
func WithOCR(ocr OCR) Option {
    return func(p *Processor) { p.ocr = ocr }
}

func WithMaxWorkers(n int) Option {
    return func(p *Processor) {
        if n > 0 {
            p.maxWorkers = n
        }
    }
}

func NewProcessor(log logger.Logger, opts ...Option) *Processor {
    p := &Processor{
        logger:     log,
        maxWorkers: 4,
    }
    for _, opt := range opts {
        opt(p)
    }
    return p
}

func (p *Processor) CanProcess(format models.Format) bool {
    return format == models.FormatPDF
}

// Extract reads every page concurrently and joins them in page order, each
// prefixed with a "Page N" marker line.
func (p *Processor) Extract(ctx context.Context, content []byte) (string, error) {
    text, err := p.extractText(ctx, content)
    if err != nil && p.ocr == nil {
        return "", err
    }
    if err == nil && len(strings.TrimSpace(text)) >= minTextLen {
        return text, nil
    }
    if p.ocr == nil {
        return text, nil
    }

    p.logger.Info("pdf has no usable text layer, falling back to OCR",
        logger.Int("textLength", len(strings.TrimSpace(text))),
        logger.Error(err),
    )
    ocrText, ocrErr := p.ocr.DetectText(ctx, content)
    if ocrErr != nil {
        return "", fmt.Errorf("ocr fallback failed: %w", ocrErr)
    }
    return ocrText, nil
}

func (p *Processor) extractText(ctx context.Context, content []byte) (text string, err error) {
    // ledongthuc/pdf panics on some malformed files
    defer func() {
        if r := recover(); r != nil {
            err = fmt.Errorf("failed to parse pdf: %v", r)
        }
    }()

    reader := bytes.NewReader(content)
    pdfReader, err := pdf.NewReader(reader, reader.Size())
    if err != nil {
        return "", fmt.Errorf("failed to open pdf: %w", err)
    }

    numPages := pdfReader.NumPage()
    pages := make([]string, numPages)

    g, ctx := errgroup.WithContext(ctx)
    g.SetLimit(p.maxWorkers)
    for i := 1; i <= numPages; i++ {
        pageNum := i
        g.Go(func() (err error) {
            defer func() {
                if r := recover(); r != nil {
                    err = fmt.Errorf("failed to read page %d: %v", pageNum, r)
                }
            }()
            if err := ctx.Err(); err != nil {
                return err
            }

            page := pdfReader.Page(pageNum)
            if page.V.IsNull() {
                return nil
            }
            pageText, err := page.GetPlainText(nil)
            if err != nil {
                return fmt.Errorf("failed to get text from page %d: %w", pageNum, err)
            }
            pages[pageNum-1] = pageText
            return nil
        })
    }
    if err := g.Wait(); err != nil {
        return "", err
    }

    var b strings.Builder
    for i, pageText := range pages {
        if strings.TrimSpace(pageText) == "" {
            continue
        }
        if b.Len() > 0 {
            b.WriteString("\n\n")
        }
        fmt.Fprintf(&b, "Page %d\n%s", i+1, pageText)
    }

    p.logger.Debug("pdf text extracted",
        logger.Int("pages", numPages),
        logger.Int("length", b.Len()),
    )
    return b.String(), nil
}

func (p *Processor) Close() error {
    return nil
}
