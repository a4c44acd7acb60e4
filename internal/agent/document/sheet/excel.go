package sheet

import (
    "bytes"
    "context"
    "fmt"
    "strings"

    "github.com/extrame/xls"
    "github.com/xuri/excelize/v2"

    "github.com/zubenkoruslan/hospitalitai-sub007/internal/models"
    "github.com/zubenkoruslan/hospitalitai-sub007/pkg/logger"
)

var (
    zipMagic = []byte("PK\x03\x04")
    oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// ExcelProcessor reads .xlsx workbooks with excelize and legacy .xls
// workbooks with extrame/xls, telling them apart by magic bytes.
type ExcelProcessor struct {
    logger logger.Logger
}

func NewExcelProcessor(log logger.Logger) *ExcelProcessor {
    return &ExcelProcessor{logger: log}
}

func (p *ExcelProcessor) CanProcess(format models.Format) bool {
    return format == models.FormatExcel
}

// Extract emits every sheet as a "=== Sheet: name ===" marker followed by
// one line per row of pipe-joined non-empty cells.
func (p *ExcelProcessor) Extract(ctx context.Context, content []byte) (string, error) {
    switch {
    case bytes.HasPrefix(content, zipMagic):
        return p.extractXLSX(content)
    case bytes.HasPrefix(content, oleMagic):
        return p.extractXLS(content)
    default:
        return "", fmt.Errorf("%w: not an excel workbook", models.ErrUnsupportedFormat)
    }
}

func (p *ExcelProcessor) extractXLSX(content []byte) (string, error) {
    f, err := excelize.OpenReader(bytes.NewReader(content))
    if err != nil {
        return "", fmt.Errorf("failed to open xlsx: %w", err)
    }
    defer f.Close()

    var b strings.Builder
    for _, sheet := range f.GetSheetList() {
        rows, err := f.GetRows(sheet)
        if err != nil {
            p.logger.Warn("skipping unreadable sheet", logger.String("sheet", sheet), logger.Error(err))
            continue
        }
        writeSheet(&b, sheet, rows)
    }
    return b.String(), nil
}

func (p *ExcelProcessor) extractXLS(content []byte) (string, error) {
    wb, err := xls.OpenReader(bytes.NewReader(content), "utf-8")
    if err != nil {
        return "", fmt.Errorf("failed to open xls: %w", err)
    }

    var b strings.Builder
    for i := 0; i < wb.NumSheets(); i++ {
        sheet := wb.GetSheet(i)
        if sheet == nil {
            continue
        }
        var rows [][]string
        for r := 0; r <= int(sheet.MaxRow); r++ {
            row := sheet.Row(r)
            if row == nil {
                continue
            }
            var cells []string
            for c := row.FirstCol(); c <= row.LastCol(); c++ {
                cells = append(cells, row.Col(c))
            }
            rows = append(rows, cells)
        }
        writeSheet(&b, sheet.Name, rows)
    }
    return b.String(), nil
}

func writeSheet(b *strings.Builder, name string, rows [][]string) {
    if b.Len() > 0 {
        b.WriteString("\n")
    }
    fmt.Fprintf(b, "=== Sheet: %s ===\n", name)
    for _, row := range rows {
        var cells []string
        for _, cell := range row {
            if cell = strings.TrimSpace(cell); cell != "" {
                cells = append(cells, cell)
            }
        }
        if len(cells) > 0 {
            b.WriteString(strings.Join(cells, " | "))
            b.WriteByte('\n')
        }
    }
}

func (p *ExcelProcessor) Close() error { return nil }
