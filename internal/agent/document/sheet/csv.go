package sheet

import (
    "bytes"
    "context"
    "encoding/csv"
    "fmt"
    "strings"

    "github.com/zubenkoruslan/hospitalitai-sub007/internal/models"
    "github.com/zubenkoruslan/hospitalitai-sub007/pkg/logger"
)

// nameColumns mark a header row whose rows describe menu items.
var nameColumns = []string{"name", "item", "dish", "product", "wine", "drink", "title"}

type CSVProcessor struct {
    logger logger.Logger
}

func NewCSVProcessor(log logger.Logger) *CSVProcessor {
    return &CSVProcessor{logger: log}
}

func (p *CSVProcessor) CanProcess(format models.Format) bool {
    return format == models.FormatCSV
}

// Extract serializes each data row as "col: value, col: value" when the
// header names an item column. Otherwise the text is passed through with
// commas turned into separators.
func (p *CSVProcessor) Extract(ctx context.Context, content []byte) (string, error) {
    content = bytes.TrimPrefix(content, []byte("\xEF\xBB\xBF"))

    r := csv.NewReader(bytes.NewReader(content))
    r.LazyQuotes = true
    r.FieldsPerRecord = -1
    r.TrimLeadingSpace = true
    records, err := r.ReadAll()
    if err != nil || len(records) < 2 || !hasNameColumn(records[0]) {
        if err != nil {
            p.logger.Debug("csv not parseable as records, using plain text", logger.Error(err))
        }
        return plainCSV(string(content)), nil
    }

    header := records[0]
    var b strings.Builder
    for _, row := range records[1:] {
        var pairs []string
        for i, value := range row {
            value = strings.TrimSpace(value)
            if value == "" {
                continue
            }
            col := fmt.Sprintf("column%d", i+1)
            if i < len(header) && strings.TrimSpace(header[i]) != "" {
                col = strings.TrimSpace(header[i])
            }
            pairs = append(pairs, col+": "+value)
        }
        if len(pairs) == 0 {
            continue
        }
        b.WriteString(strings.Join(pairs, ", "))
        b.WriteByte('\n')
    }
    return b.String(), nil
}

func hasNameColumn(header []string) bool {
    for _, h := range header {
        h = strings.ToLower(strings.TrimSpace(h))
        for _, n := range nameColumns {
            if strings.Contains(h, n) {
                return true
            }
        }
    }
    return false
}

func plainCSV(s string) string {
    s = strings.ReplaceAll(s, `"`, "")
    return strings.ReplaceAll(s, ",", " | ")
}

func (p *CSVProcessor) Close() error { return nil }
