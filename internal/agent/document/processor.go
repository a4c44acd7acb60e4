package document

import (
    "context"

    "github.com/zubenkoruslan/hospitalitai-sub007/internal/models"
)

// Processor turns the bytes of one document format into plain text.
type Processor interface {
    // CanProcess reports whether the processor handles the format
    CanProcess(format models.Format) bool

    // Extract returns the document text. It does not normalize.
    Extract(ctx context.Context, content []byte) (string, error)

    // Close releases resources held by the processor
    Close() error
}
