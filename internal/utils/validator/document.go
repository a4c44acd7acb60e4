// internal/utils/validator/document.go
package validator

import (
    "crypto/sha256"
    "encoding/hex"
    "errors"
    "fmt"
    "net/http"
    "time"

    "github.com/zubenkoruslan/hospitalitai-sub007/internal/models"
    "github.com/zubenkoruslan/hospitalitai-sub007/pkg/logger"
)

// DocumentValidator checks uploads before they enter the pipeline.
type DocumentValidator struct {
    logger logger.Logger
    config *ValidatorConfig
}

// ValidatorConfig bounds accepted uploads.
type ValidatorConfig struct {
    MaxFileSize int64 `yaml:"max_file_size"` // bytes
}

// ValidationResult is the outcome of checking one upload.
type ValidationResult struct {
    IsValid  bool                `json:"isValid"`
    Errors   []ValidationError   `json:"errors,omitempty"`
    FileInfo models.DocumentInfo `json:"fileInfo"`
}

// ValidationError describes one failed check.
type ValidationError struct {
    Code    string `json:"code"`
    Message string `json:"message"`
    Field   string `json:"field,omitempty"`
    err     error
}

// Err returns the sentinel matching the failed check.
func (e ValidationError) Err() error {
    if e.err == nil {
        return errors.New(e.Message)
    }
    return fmt.Errorf("%w: %s", e.err, e.Message)
}

func DefaultValidatorConfig() *ValidatorConfig {
    return &ValidatorConfig{
        MaxFileSize: 50 * 1024 * 1024, // 50MB
    }
}

func NewDocumentValidator(log logger.Logger, config *ValidatorConfig) *DocumentValidator {
    if config == nil || config.MaxFileSize <= 0 {
        config = DefaultValidatorConfig()
    }
    if log == nil {
        log = logger.NewNop()
    }
    return &DocumentValidator{
        logger: log,
        config: config,
    }
}

// MaxFileSize is the largest accepted upload in bytes.
func (v *DocumentValidator) MaxFileSize() int64 {
    return v.config.MaxFileSize
}

// ValidateDocument checks size and extension and fingerprints the content.
func (v *DocumentValidator) ValidateDocument(doc models.RawDocument) *ValidationResult {
    sum := sha256.Sum256(doc.Content)
    result := &ValidationResult{
        IsValid: true,
        FileInfo: models.DocumentInfo{
            Filename:  doc.Filename,
            Extension: doc.Extension(),
            Size:      int64(len(doc.Content)),
            MimeType:  http.DetectContentType(doc.Content),
            Hash:      hex.EncodeToString(sum[:]),
            CheckedAt: time.Now(),
        },
    }

    if result.FileInfo.Size == 0 {
        result.Errors = append(result.Errors, ValidationError{
            Code:    "EMPTY_FILE",
            Message: "file is empty",
            Field:   "size",
            err:     models.ErrEmptyContent,
        })
    }
    if result.FileInfo.Size > v.config.MaxFileSize {
        result.Errors = append(result.Errors, ValidationError{
            Code:    "FILE_TOO_LARGE",
            Message: fmt.Sprintf("file size exceeds maximum limit of %d bytes", v.config.MaxFileSize),
            Field:   "size",
            err:     models.ErrFileTooLarge,
        })
    }

    format, ok := models.FormatForExtension(result.FileInfo.Extension)
    if !ok {
        result.Errors = append(result.Errors, ValidationError{
            Code:    "INVALID_FILE_TYPE",
            Message: fmt.Sprintf("file type %q is not supported", result.FileInfo.Extension),
            Field:   "extension",
            err:     models.ErrUnsupportedFormat,
        })
    }
    result.FileInfo.Format = format

    if len(result.Errors) > 0 {
        result.IsValid = false
        v.logger.Warn("document rejected",
            logger.String("filename", doc.Filename),
            logger.Int64("size", result.FileInfo.Size),
            logger.String("code", result.Errors[0].Code))
    }
    return result
}

// Check is ValidateDocument reduced to an error wrapping the first failure.
func (v *DocumentValidator) Check(doc models.RawDocument) (models.DocumentInfo, error) {
    res := v.ValidateDocument(doc)
    if !res.IsValid {
        return res.FileInfo, res.Errors[0].Err()
    }
    return res.FileInfo, nil
}
