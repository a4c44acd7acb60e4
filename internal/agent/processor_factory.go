package agent

import (
    "context"
    "fmt"
    "strings"

    "github.com/zubenkoruslan/hospitalitai-sub007/internal/agent/document"
    "github.com/zubenkoruslan/hospitalitai-sub007/internal/agent/document/pdf"
    "github.com/zubenkoruslan/hospitalitai-sub007/internal/agent/document/sheet"
    "github.com/zubenkoruslan/hospitalitai-sub007/internal/agent/document/structured"
    "github.com/zubenkoruslan/hospitalitai-sub007/internal/agent/document/text"
    "github.com/zubenkoruslan/hospitalitai-sub007/internal/agent/document/word"
    "github.com/zubenkoruslan/hospitalitai-sub007/internal/models"
    "github.com/zubenkoruslan/hospitalitai-sub007/pkg/logger"
)

// MinTextLength is the shortest extracted text accepted as a menu.
const MinTextLength = 10

type ProcessorFactory struct {
    processors map[models.Format]document.Processor
    logger     logger.Logger
}

// NewProcessorFactory registers a processor for every supported format. A
// non-nil ocr enables the scanned-PDF fallback.
func NewProcessorFactory(log logger.Logger, ocr pdf.OCR) *ProcessorFactory {
    if log == nil {
        log = logger.NewNop()
    }
    log = log.Named("extractor")

    var pdfOpts []pdf.Option
    if ocr != nil {
        pdfOpts = append(pdfOpts, pdf.WithOCR(ocr))
    }

    factory := &ProcessorFactory{
        processors: make(map[models.Format]document.Processor),
        logger:     log,
    }
    factory.Register(pdf.NewProcessor(log, pdfOpts...))
    factory.Register(sheet.NewCSVProcessor(log))
    factory.Register(sheet.NewExcelProcessor(log))
    factory.Register(word.NewProcessor(log))
    factory.Register(structured.NewJSONProcessor(log))
    factory.Register(text.NewProcessor(log))
    factory.Register(text.NewHTMLProcessor(log))
    return factory
}

var allFormats = []models.Format{
    models.FormatPDF, models.FormatCSV, models.FormatExcel, models.FormatWord,
    models.FormatJSON, models.FormatText, models.FormatHTML,
}

// Register installs p for every format it can process, replacing any
// previous processor.
func (f *ProcessorFactory) Register(p document.Processor) {
    for _, format := range allFormats {
        if p.CanProcess(format) {
            f.processors[format] = p
        }
    }
}

func (f *ProcessorFactory) GetProcessor(ext string) (document.Processor, models.Format, error) {
    format, ok := models.FormatForExtension(ext)
    if !ok {
        f.logger.Warn("unsupported file type", logger.String("extension", ext))
        return nil, "", fmt.Errorf("%w: %q", models.ErrUnsupportedFormat, ext)
    }
    processor, ok := f.processors[format]
    if !ok {
        return nil, "", fmt.Errorf("%w: no processor for %s", models.ErrUnsupportedFormat, format)
    }
    return processor, format, nil
}

// ExtractText dispatches on the document's extension and rejects results
// too short to be a menu.
func (f *ProcessorFactory) ExtractText(ctx context.Context, doc models.RawDocument) (string, error) {
    processor, format, err := f.GetProcessor(doc.Extension())
    if err != nil {
        return "", err
    }

    text, err := processor.Extract(ctx, doc.Content)
    if err != nil {
        return "", fmt.Errorf("extract %s: %w", format, err)
    }
    if n := len(strings.TrimSpace(text)); n < MinTextLength {
        return "", fmt.Errorf("%w: %d characters from %s", models.ErrEmptyContent, n, doc.Filename)
    }

    f.logger.Debug("text extracted",
        logger.String("filename", doc.Filename),
        logger.String("format", string(format)),
        logger.Int("length", len(text)),
    )
    return text, nil
}

func (f *ProcessorFactory) Close() error {
    seen := make(map[document.Processor]bool)
    for _, p := range f.processors {
        if seen[p] {
            continue
        }
        seen[p] = true
        if err := p.Close(); err != nil {
            return err
        }
    }
    return nil
}
