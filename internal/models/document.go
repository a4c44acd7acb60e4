package models

import (
    "path/filepath"
    "sort"
    "strings"
    "time"
)

// Format identifies how a raw document is turned into text.
type Format string

const (
    FormatPDF   Format = "pdf"
    FormatCSV   Format = "csv"
    FormatExcel Format = "excel"
    FormatWord  Format = "word"
    FormatJSON  Format = "json"
    FormatText  Format = "text"
    FormatHTML  Format = "html"
)

var extensionFormats = map[string]Format{
    ".pdf":  FormatPDF,
    ".csv":  FormatCSV,
    ".xls":  FormatExcel,
    ".xlsx": FormatExcel,
    ".doc":  FormatWord,
    ".docx": FormatWord,
    ".json": FormatJSON,
    ".txt":  FormatText,
    ".html": FormatHTML,
    ".htm":  FormatHTML,
}

// FormatForExtension maps a lowercased extension (with dot) to its format.
func FormatForExtension(ext string) (Format, bool) {
    f, ok := extensionFormats[strings.ToLower(ext)]
    return f, ok
}

// SupportedExtensions lists every accepted extension.
func SupportedExtensions() []string {
    exts := make([]string, 0, len(extensionFormats))
    for ext := range extensionFormats {
        exts = append(exts, ext)
    }
    sort.Strings(exts)
    return exts
}

// RawDocument is an uploaded file as received. It is never mutated.
type RawDocument struct {
    Filename string
    Content  []byte
}

// Extension returns the lowercased extension including the dot.
func (d RawDocument) Extension() string {
    return strings.ToLower(filepath.Ext(d.Filename))
}

// Stem returns the filename without directory and extension.
func (d RawDocument) Stem() string {
    base := filepath.Base(d.Filename)
    return strings.TrimSuffix(base, filepath.Ext(base))
}

// DocumentInfo is what the upload validator learned about a document.
type DocumentInfo struct {
    Filename  string    `json:"filename"`
    Extension string    `json:"extension"`
    Format    Format    `json:"format"`
    Size      int64     `json:"size"`
    MimeType  string    `json:"mimeType"`
    Hash      string    `json:"hash"`
    CheckedAt time.Time `json:"checkedAt"`
}

// TextChunk is a contiguous slice of normalized text sent to the extraction
// service as one unit.
type TextChunk struct {
    Index int    `json:"index"`
    Text  string `json:"text"`
}

// ProcessingStatus of an asynchronous parse task.
type ProcessingStatus string

const (
    StatusPending   ProcessingStatus = "pending"
    StatusRunning   ProcessingStatus = "running"
    StatusCompleted ProcessingStatus = "completed"
    StatusFailed    ProcessingStatus = "failed"
    StatusCancelled ProcessingStatus = "cancelled"
)
