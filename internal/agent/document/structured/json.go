package structured

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "sort"
    "strings"

    "github.com/zubenkoruslan/hospitalitai-sub007/internal/models"
    "github.com/zubenkoruslan/hospitalitai-sub007/pkg/logger"
)

// leadingKeys are emitted first, in this order, when flattening an item.
var leadingKeys = []string{"name", "description", "price", "category"}

var menuNameKeys = []string{"menuName", "menu_name", "name", "title", "menu"}

type JSONProcessor struct {
    logger logger.Logger
}

func NewJSONProcessor(log logger.Logger) *JSONProcessor {
    return &JSONProcessor{logger: log}
}

func (p *JSONProcessor) CanProcess(format models.Format) bool {
    return format == models.FormatJSON
}

// Extract flattens each item to "key: value | key: value". Arrays are
// treated as item lists, objects with an "items" array as a named menu, and
// anything else as a single object.
func (p *JSONProcessor) Extract(ctx context.Context, content []byte) (string, error) {
    dec := json.NewDecoder(bytes.NewReader(content))
    dec.UseNumber()
    var doc any
    if err := dec.Decode(&doc); err != nil {
        return "", fmt.Errorf("invalid json document: %w", err)
    }

    var lines []string
    switch v := doc.(type) {
    case []any:
        lines = flattenList(v)
    case map[string]any:
        if items, ok := v["items"].([]any); ok {
            if name := menuName(v); name != "" {
                lines = append(lines, "Menu: "+name)
            }
            lines = append(lines, flattenList(items)...)
        } else {
            lines = append(lines, flattenObject("", v))
        }
    default:
        lines = append(lines, scalar(v))
    }
    return strings.Join(lines, "\n"), nil
}

func menuName(obj map[string]any) string {
    for _, k := range menuNameKeys {
        if s, ok := obj[k].(string); ok && strings.TrimSpace(s) != "" {
            return strings.TrimSpace(s)
        }
    }
    return ""
}

func flattenList(items []any) []string {
    lines := make([]string, 0, len(items))
    for _, item := range items {
        var line string
        if obj, ok := item.(map[string]any); ok {
            line = flattenObject("", obj)
        } else {
            line = scalar(item)
        }
        if line != "" {
            lines = append(lines, line)
        }
    }
    return lines
}

func flattenObject(prefix string, obj map[string]any) string {
    var pairs []string
    for _, k := range orderedKeys(obj) {
        key := k
        if prefix != "" {
            key = prefix + "." + k
        }
        switch v := obj[k].(type) {
        case map[string]any:
            if inner := flattenObject(key, v); inner != "" {
                pairs = append(pairs, inner)
            }
        case []any:
            if s := joinList(key, v); s != "" {
                pairs = append(pairs, s)
            }
        default:
            if s := scalar(v); s != "" {
                pairs = append(pairs, key+": "+s)
            }
        }
    }
    return strings.Join(pairs, " | ")
}

func joinList(key string, list []any) string {
    var parts []string
    for _, e := range list {
        switch v := e.(type) {
        case map[string]any:
            if s := flattenObject("", v); s != "" {
                parts = append(parts, "("+s+")")
            }
        case []any:
            if s := joinList("", v); s != "" {
                parts = append(parts, s)
            }
        default:
            if s := scalar(v); s != "" {
                parts = append(parts, s)
            }
        }
    }
    if len(parts) == 0 {
        return ""
    }
    if key == "" {
        return strings.Join(parts, ", ")
    }
    return key + ": " + strings.Join(parts, ", ")
}

func orderedKeys(obj map[string]any) []string {
    keys := make([]string, 0, len(obj))
    seen := make(map[string]bool, len(leadingKeys))
    for _, k := range leadingKeys {
        if _, ok := obj[k]; ok {
            keys = append(keys, k)
            seen[k] = true
        }
    }
    var rest []string
    for k := range obj {
        if !seen[k] {
            rest = append(rest, k)
        }
    }
    sort.Strings(rest)
    return append(keys, rest...)
}

func scalar(v any) string {
    switch v := v.(type) {
    case nil:
        return ""
    case string:
        return strings.TrimSpace(v)
    case json.Number:
        return v.String()
    case bool:
        if v {
            return "yes"
        }
        return "no"
    default:
        return fmt.Sprint(v)
    }
}

func (p *JSONProcessor) Close() error { return nil }
