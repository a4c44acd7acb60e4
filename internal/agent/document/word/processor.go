package word

import (
    "archive/zip"
    "bytes"
    "context"
    "encoding/xml"
    "fmt"
    "io"
    "strings"
    "unicode/utf16"
    "unicode/utf8"

    "github.com/zubenkoruslan/hospitalitai-sub007/internal/models"
    "github.com/zubenkoruslan/hospitalitai-sub007/pkg/logger"
)

// minRun is the shortest printable run kept from a legacy .doc binary.
const minRun = 4

type Processor struct {
    logger logger.Logger
}

func NewProcessor(log logger.Logger) *Processor {
    return &Processor{logger: log}
}

func (p *Processor) CanProcess(format models.Format) bool {
    return format == models.FormatWord
}

// Extract reads word/document.xml from a .docx archive. Legacy .doc files
// are not archives; their text is recovered by scanning printable runs.
func (p *Processor) Extract(ctx context.Context, content []byte) (string, error) {
    zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
    if err != nil {
        p.logger.Debug("word document is not a docx archive, scanning binary")
        return scanBinary(content), nil
    }
    return extractDocx(zr)
}

func extractDocx(zr *zip.Reader) (string, error) {
    var docFile *zip.File
    for _, f := range zr.File {
        if f.Name == "word/document.xml" {
            docFile = f
            break
        }
    }
    if docFile == nil {
        return "", fmt.Errorf("word/document.xml not found in archive")
    }

    rc, err := docFile.Open()
    if err != nil {
        return "", fmt.Errorf("open document.xml: %w", err)
    }
    defer rc.Close()

    decoder := xml.NewDecoder(rc)
    var out strings.Builder
    var para strings.Builder
    var cells []string
    inText := false

    for {
        tok, err := decoder.Token()
        if err == io.EOF {
            break
        }
        if err != nil {
            return "", fmt.Errorf("parse document.xml: %w", err)
        }

        switch t := tok.(type) {
        case xml.StartElement:
            switch t.Name.Local {
            case "t":
                inText = true
            case "tab":
                para.WriteByte('\t')
            case "br", "cr":
                para.WriteByte('\n')
            case "tr":
                cells = []string{}
            }
        case xml.CharData:
            if inText {
                para.Write(t)
            }
        case xml.EndElement:
            switch t.Name.Local {
            case "t":
                inText = false
            case "p":
                text := strings.TrimSpace(para.String())
                para.Reset()
                if text == "" {
                    continue
                }
                if cells != nil {
                    cells = append(cells, text)
                    continue
                }
                out.WriteString(text)
                out.WriteByte('\n')
            case "tr":
                if len(cells) > 0 {
                    out.WriteString(strings.Join(cells, " | "))
                    out.WriteByte('\n')
                }
                cells = nil
            }
        }
    }
    return out.String(), nil
}

// scanBinary collects printable runs from both the 8-bit and UTF-16LE views
// of a legacy .doc file and keeps whichever recovered more text.
func scanBinary(content []byte) string {
    narrow := printableRuns(bytesToLatin1(content))

    u16 := make([]uint16, len(content)/2)
    for i := range u16 {
        u16[i] = uint16(content[2*i]) | uint16(content[2*i+1])<<8
    }
    wide := printableRuns(utf16.Decode(u16))

    if utf8.RuneCountInString(wide) > utf8.RuneCountInString(narrow) {
        return wide
    }
    return narrow
}

func bytesToLatin1(b []byte) []rune {
    r := make([]rune, len(b))
    for i, c := range b {
        r[i] = rune(c)
    }
    return r
}

func printableRuns(runes []rune) string {
    var out strings.Builder
    var run []rune
    flush := func() {
        if len(strings.TrimSpace(string(run))) >= minRun {
            out.WriteString(strings.TrimSpace(string(run)))
            out.WriteByte('\n')
        }
        run = run[:0]
    }
    for _, r := range runes {
        switch {
        case r == '\r' || r == '\n':
            flush()
        case isTextRune(r):
            run = append(run, r)
        default:
            flush()
        }
    }
    flush()
    return out.String()
}

// isTextRune accepts ASCII, Latin-1, Latin Extended and the punctuation and
// currency blocks. Wider ranges let misaligned UTF-16 pairs pass as CJK.
func isTextRune(r rune) bool {
    switch {
    case r == '\t':
        return true
    case r >= 0x20 && r < 0x7f:
        return true
    case r >= 0xa0 && r <= 0x24f:
        return true
    case r >= 0x2010 && r <= 0x20cf:
        return true
    }
    return false
}

func (p *Processor) Close() error { return nil }
