// Package repair turns raw extraction-service responses into structured data,
// salvaging what it can from malformed or truncated output.
package repair

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/zubenkoruslan/hospitalitai-sub007/internal/models"
)

// Result is a parsed response plus what it cost to get there.
type Result struct {
	Data      models.RawExtractionData
	Recovered int
	Discarded int
	Truncated bool
	Repaired  bool
}

type envelope struct {
	MenuName        models.FlexString  `json:"menuName"`
	Items           []json.RawMessage  `json:"items"`
	TotalItemsFound models.FlexValue   `json:"totalItemsFound"`
	ProcessingNotes models.FlexStrings `json:"processingNotes"`
}

var (
	fencePattern         = regexp.MustCompile("```(?:json|JSON)?")
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
	whitespacePattern    = regexp.MustCompile(`\s+`)
	menuNamePattern      = regexp.MustCompile(`"menuName"\s*:\s*"((?:[^"\\]|\\.)*)"`)
)

// Parse never fails: when nothing can be salvaged the result has no items
// and a processing note saying why.
func Parse(raw string) Result {
	text := stripFences(raw)

	if candidate, ok := outerObject(text); ok {
		if env, err := decodeEnvelope(candidate); err == nil {
			return fromEnvelope(env, false)
		}
		if env, err := decodeEnvelope(repairText(candidate)); err == nil {
			res := fromEnvelope(env, false)
			res.Repaired = true
			return res
		}
	}

	if res, ok := recoverTruncated(text); ok {
		return res
	}

	return Result{
		Data: models.RawExtractionData{
			ProcessingNotes: []string{"could not parse extraction response; no items recovered"},
		},
	}
}

// DecodeObject decodes the JSON object embedded in raw into v, applying the
// same fence stripping and textual repairs as Parse.
func DecodeObject(raw string, v any) error {
	text := stripFences(raw)
	candidate, ok := outerObject(text)
	if !ok {
		return fmt.Errorf("%w: no JSON object found", models.ErrMalformedResponse)
	}
	if err := json.Unmarshal([]byte(candidate), v); err == nil {
		return nil
	}
	if err := json.Unmarshal([]byte(repairText(candidate)), v); err != nil {
		return fmt.Errorf("%w: %w", models.ErrMalformedResponse, err)
	}
	return nil
}

func stripFences(s string) string {
	return strings.TrimSpace(fencePattern.ReplaceAllString(s, ""))
}

// outerObject returns the span from the first '{' to the last '}'.
func outerObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// repairText applies conservative fixes for the usual model mistakes: raw
// newlines inside strings and trailing commas.
func repairText(s string) string {
	s = strings.NewReplacer("\r", " ", "\n", " ", "\t", " ").Replace(s)
	s = whitespacePattern.ReplaceAllString(s, " ")
	return trailingCommaPattern.ReplaceAllString(s, "$1")
}

func decodeEnvelope(s string) (envelope, error) {
	var env envelope
	err := json.Unmarshal([]byte(s), &env)
	return env, err
}

func fromEnvelope(env envelope, truncated bool) Result {
	res := Result{Truncated: truncated}
	res.Data.MenuName = env.MenuName.String()
	res.Data.ProcessingNotes = append([]string(nil), env.ProcessingNotes...)
	for _, raw := range env.Items {
		var item models.RawExtractionItem
		if err := json.Unmarshal(raw, &item); err != nil {
			res.Discarded++
			continue
		}
		res.Data.Items = append(res.Data.Items, item)
	}
	res.Recovered = len(res.Data.Items)
	if n, ok := env.TotalItemsFound.Float(); ok && n > 0 {
		res.Data.TotalItemsFound = int(n)
	} else {
		res.Data.TotalItemsFound = res.Recovered
	}
	if res.Discarded > 0 {
		res.Data.ProcessingNotes = append(res.Data.ProcessingNotes,
			fmt.Sprintf("discarded %d malformed items", res.Discarded))
	}
	return res
}

// recoverTruncated salvages every structurally complete object of the items
// array and closes the envelope around them.
func recoverTruncated(text string) (Result, bool) {
	key := strings.Index(text, `"items"`)
	if key < 0 {
		return Result{}, false
	}
	open := strings.IndexByte(text[key:], '[')
	if open < 0 {
		return Result{}, false
	}
	spans, incomplete := scanObjects(text[key+open+1:])
	if len(spans) == 0 {
		return Result{}, false
	}

	name := "null"
	if m := menuNamePattern.FindStringSubmatch(text); m != nil {
		name = `"` + m[1] + `"`
	}
	note := fmt.Sprintf("extraction response was truncated; recovered %d complete items", len(spans))
	noteJSON, _ := json.Marshal([]string{note})

	var b strings.Builder
	b.WriteString(`{"menuName": `)
	b.WriteString(name)
	b.WriteString(`, "items": [`)
	b.WriteString(strings.Join(spans, ","))
	b.WriteString(`], "totalItemsFound": 0, "processingNotes": `)
	b.Write(noteJSON)
	b.WriteString(`}`)

	env, err := decodeEnvelope(b.String())
	if err != nil {
		env, err = decodeEnvelope(repairText(b.String()))
		if err != nil {
			return Result{}, false
		}
	}
	res := fromEnvelope(env, true)
	if incomplete {
		res.Discarded++
	}
	return res, true
}

// scanObjects walks the body of a JSON array and returns the text of each
// complete top-level object. It tracks string and escape state so braces
// inside values do not count. incomplete reports a trailing object that was
// cut off.
func scanObjects(s string) (spans []string, incomplete bool) {
	depth := 0
	start := -1
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{', '[':
			if depth == 0 && ch == '{' {
				start = i
			}
			depth++
		case '}', ']':
			if depth == 0 {
				// end of the items array
				return spans, false
			}
			depth--
			if depth == 0 && start >= 0 {
				spans = append(spans, s[start:i+1])
				start = -1
			}
		}
	}
	return spans, depth > 0
}
