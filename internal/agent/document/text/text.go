package text

import (
    "bytes"
    "context"
    "strings"
    "unicode/utf8"

    "github.com/PuerkitoBio/goquery"

    "github.com/zubenkoruslan/hospitalitai-sub007/internal/models"
    "github.com/zubenkoruslan/hospitalitai-sub007/pkg/logger"
)

// Processor reads plain text as-is.
type Processor struct {
    logger logger.Logger
}

func NewProcessor(log logger.Logger) *Processor {
    return &Processor{logger: log}
}

func (p *Processor) CanProcess(format models.Format) bool {
    return format == models.FormatText
}

func (p *Processor) Extract(ctx context.Context, content []byte) (string, error) {
    if !utf8.Valid(content) {
        return strings.ToValidUTF8(string(content), ""), nil
    }
    return string(content), nil
}

func (p *Processor) Close() error { return nil }

// HTMLProcessor extracts the visible text of an HTML menu page.
type HTMLProcessor struct {
    logger logger.Logger
}

func NewHTMLProcessor(log logger.Logger) *HTMLProcessor {
    return &HTMLProcessor{logger: log}
}

func (p *HTMLProcessor) CanProcess(format models.Format) bool {
    return format == models.FormatHTML
}

var blockSelectors = "h1, h2, h3, h4, h5, h6, p, li, tr, dt, dd, caption, figcaption"

// Extract prefers the main content area and emits one line per block
// element, table rows pipe-joined.
func (p *HTMLProcessor) Extract(ctx context.Context, content []byte) (string, error) {
    doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
    if err != nil {
        return "", err
    }
    doc.Find("script, style, noscript, nav, footer, header, form").Remove()

    root := doc.Find("body")
    for _, sel := range []string{"main", "article", ".menu", "#menu"} {
        if s := doc.Find(sel); s.Length() > 0 {
            root = s.First()
            break
        }
    }

    var lines []string
    root.Find(blockSelectors).Each(func(_ int, s *goquery.Selection) {
        // nested blocks are emitted by their innermost element
        if s.Find(blockSelectors).Length() > 0 && !s.Is("tr") {
            return
        }
        if !s.Is("tr") && s.ParentsFiltered("tr").Length() > 0 {
            return
        }
        var line string
        if s.Is("tr") {
            var cells []string
            s.Find("td, th").Each(func(_ int, c *goquery.Selection) {
                if t := collapse(c.Text()); t != "" {
                    cells = append(cells, t)
                }
            })
            line = strings.Join(cells, " | ")
        } else {
            line = collapse(s.Text())
        }
        if line != "" {
            lines = append(lines, line)
        }
    })

    if len(lines) == 0 {
        return collapse(root.Text()), nil
    }
    return strings.Join(lines, "\n"), nil
}

func collapse(s string) string {
    return strings.Join(strings.Fields(s), " ")
}

func (p *HTMLProcessor) Close() error { return nil }
