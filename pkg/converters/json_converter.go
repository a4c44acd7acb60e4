package converters

import (
    "encoding/json"
    "fmt"
    "strings"
    "time"

    "github.com/zubenkoruslan/hospitalitai-sub007/internal/models"
)

// ParseResult is the envelope handed back to callers of the parser.
type ParseResult struct {
    TaskID      string                 `json:"taskId,omitempty"`
    Success     bool                   `json:"success"`
    Data        *models.ParsedMenuData `json:"data,omitempty"`
    Errors      []string               `json:"errors"`
    Metadata    *DocumentMetadata      `json:"metadata,omitempty"`
    ProcessedAt time.Time              `json:"processedAt"`
}

// DocumentMetadata describes the source document of a result.
type DocumentMetadata struct {
    FileName     string `json:"fileName"`
    FileType     string `json:"fileType"`
    FileSize     int64  `json:"fileSize"`
    ProcessingMs int64  `json:"processingMs"`
}

type JSONConverter struct {
    now func() time.Time
}

func NewJSONConverter() *JSONConverter {
    return &JSONConverter{now: time.Now}
}

// Convert builds the envelope for a pipeline outcome. A joined error is
// expanded into one message per underlying error.
func (c *JSONConverter) Convert(data *models.ParsedMenuData, err error) *ParseResult {
    res := &ParseResult{
        Success:     err == nil && data != nil,
        Errors:      ErrorMessages(err),
        ProcessedAt: c.now().UTC(),
    }
    if res.Success {
        res.Data = data
    } else if len(res.Errors) == 0 {
        res.Errors = []string{models.ErrNoItems.Error()}
    }
    return res
}

// Marshal encodes the envelope.
func (c *JSONConverter) Marshal(res *ParseResult) ([]byte, error) {
    out, err := json.Marshal(res)
    if err != nil {
        return nil, fmt.Errorf("failed to marshal result: %w", err)
    }
    return out, nil
}

// ErrorMessages flattens err, descending into errors.Join trees. Errors
// wrapping several causes with fmt.Errorf keep their single message.
func ErrorMessages(err error) []string {
    if err == nil {
        return []string{}
    }
    joined, ok := err.(interface{ Unwrap() []error })
    if !ok || !isJoin(err, joined.Unwrap()) {
        return []string{err.Error()}
    }
    var out []string
    for _, e := range joined.Unwrap() {
        out = append(out, ErrorMessages(e)...)
    }
    return out
}

func isJoin(err error, errs []error) bool {
    msgs := make([]string, 0, len(errs))
    for _, e := range errs {
        msgs = append(msgs, e.Error())
    }
    return err.Error() == strings.Join(msgs, "\n")
}

// IsPartial reports a successful result that still carries degradation
// notes.
func IsPartial(res *ParseResult) bool {
    return res.Success && res.Data != nil && len(res.Data.ProcessingNotes) > 0
}
