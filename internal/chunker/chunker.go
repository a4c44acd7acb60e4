// Package chunker splits long menu text into bounded chunks without cutting
// through menu entries.
package chunker

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/zubenkoruslan/hospitalitai-sub007/internal/models"
)

// Config bounds chunk sizes. Sizes are in bytes, which is an upper bound on
// characters for UTF-8 text.
type Config struct {
	TargetSize        int     `yaml:"target_size"`
	FoodTargetSize    int     `yaml:"food_target_size"`
	LargeDocThreshold int     `yaml:"large_doc_threshold"`
	MinChunkSize      int     `yaml:"min_chunk_size"`
	BoundaryWindow    float64 `yaml:"boundary_window"`
}

// DefaultConfig returns production chunk sizes.
func DefaultConfig() Config {
	return Config{
		TargetSize:        2500,
		FoodTargetSize:    1800,
		LargeDocThreshold: 6000,
		MinChunkSize:      50,
		BoundaryWindow:    0.3,
	}
}

// Chunker splits text using a fallback cascade: blank-line sections for large
// documents, page markers otherwise, and forced newline-aligned splits when
// neither yields bounded chunks.
type Chunker struct {
	cfg Config
}

// New returns a Chunker; zero fields fall back to defaults.
func New(cfg Config) *Chunker {
	def := DefaultConfig()
	if cfg.TargetSize <= 0 {
		cfg.TargetSize = def.TargetSize
	}
	if cfg.FoodTargetSize <= 0 {
		cfg.FoodTargetSize = def.FoodTargetSize
	}
	if cfg.LargeDocThreshold <= 0 {
		cfg.LargeDocThreshold = def.LargeDocThreshold
	}
	if cfg.MinChunkSize < 0 {
		cfg.MinChunkSize = def.MinChunkSize
	}
	if cfg.BoundaryWindow <= 0 || cfg.BoundaryWindow >= 1 {
		cfg.BoundaryWindow = def.BoundaryWindow
	}
	return &Chunker{cfg: cfg}
}

// Target returns the chunk size used for text of the given character.
func (c *Chunker) Target(foodHeavy bool) int {
	if foodHeavy {
		return c.cfg.FoodTargetSize
	}
	return c.cfg.TargetSize
}

// Chunk splits text into ordered chunks of at most target bytes. Chunks
// shorter than the configured minimum are merged into a neighbour where
// possible.
func (c *Chunker) Chunk(text string, foodHeavy bool) []models.TextChunk {
	target := c.Target(foodHeavy)
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var pieces []string
	if len(text) > c.cfg.LargeDocThreshold {
		pieces = pack(splitSections(text), target)
	} else {
		pieces = c.byPages(text, target)
	}

	if len(text) > target && (len(pieces) < 2 || anyOver(pieces, target)) {
		pieces = c.forceSplit(text, target)
	}

	chunks := make([]models.TextChunk, 0, len(pieces))
	for _, p := range c.absorbShort(pieces, target) {
		chunks = append(chunks, models.TextChunk{Index: len(chunks), Text: p})
	}
	return chunks
}

// absorbShort trims pieces and folds any piece under the minimum into its
// predecessor, or else its successor, when the result stays within target.
// A short piece that fits neither is dropped as noise.
func (c *Chunker) absorbShort(pieces []string, target int) []string {
	out := make([]string, 0, len(pieces))
	carry := ""
	for _, p := range pieces {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if carry != "" {
			if len(carry)+2+len(p) <= target {
				p = carry + "\n\n" + p
			}
			carry = ""
		}
		if len(p) >= c.cfg.MinChunkSize {
			out = append(out, p)
			continue
		}
		if n := len(out); n > 0 && len(out[n-1])+2+len(p) <= target {
			out[n-1] += "\n\n" + p
			continue
		}
		carry = p
	}
	return out
}

var pageMarker = regexp.MustCompile(`(?im)^[ \t]*[-=]*[ \t]*page[ \t]+\d+\b.*$`)

// byPages keeps each page whole when it fits and splits oversized pages on
// blank lines followed by a capitalised line.
func (c *Chunker) byPages(text string, target int) []string {
	var out []string
	for _, page := range splitPages(text) {
		if strings.TrimSpace(page) == "" {
			continue
		}
		if len(page) <= target {
			out = append(out, page)
			continue
		}
		out = append(out, pack(splitEntries(page), target)...)
	}
	return out
}

// splitPages cuts before every "Page N" marker line.
func splitPages(text string) []string {
	locs := pageMarker.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []string{text}
	}
	pages := make([]string, 0, len(locs)+1)
	start := 0
	for _, loc := range locs {
		if loc[0] > start {
			pages = append(pages, text[start:loc[0]])
		}
		start = loc[0]
	}
	return append(pages, text[start:])
}

func splitSections(text string) []string {
	return strings.Split(text, "\n\n")
}

// splitEntries splits on blank lines, gluing a section to its predecessor
// unless it starts with an uppercase letter (the start of a new entry).
func splitEntries(text string) []string {
	var out []string
	for _, s := range strings.Split(text, "\n\n") {
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			continue
		}
		r, _ := utf8.DecodeRuneInString(trimmed)
		if len(out) > 0 && !unicode.IsUpper(r) {
			out[len(out)-1] += "\n\n" + s
			continue
		}
		out = append(out, s)
	}
	return out
}

// pack greedily fills a buffer with sections until the next one would
// overflow target. A single section larger than target is emitted as is.
func pack(sections []string, target int) []string {
	var out []string
	var buf strings.Builder
	for _, s := range sections {
		if strings.TrimSpace(s) == "" {
			continue
		}
		if buf.Len() > 0 && buf.Len()+2+len(s) > target {
			out = append(out, buf.String())
			buf.Reset()
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(s)
	}
	if buf.Len() > 0 {
		out = append(out, buf.String())
	}
	return out
}

func anyOver(pieces []string, target int) bool {
	for _, p := range pieces {
		if len(strings.TrimSpace(p)) > target {
			return true
		}
	}
	return false
}

// forceSplit cuts text into slices of at most target bytes, preferring the
// last newline inside the tail window of each slice so entries stay whole.
func (c *Chunker) forceSplit(text string, target int) []string {
	var out []string
	window := int(float64(target) * c.cfg.BoundaryWindow)
	for len(text) > 0 {
		if len(text) <= target {
			out = append(out, text)
			break
		}
		cut := target
		if nl := strings.LastIndexByte(text[target-window:target], '\n'); nl >= 0 {
			cut = target - window + nl + 1
		} else {
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
			if cut == 0 {
				cut = target
			}
		}
		cut = c.keepTail(text, cut, window)
		out = append(out, text[:cut])
		text = text[cut:]
	}
	return out
}

// keepTail moves cut back until the text after it is either empty or at
// least MinChunkSize, so the final slice is never lost as noise. The moved
// cut is realigned to a line or word boundary inside the window.
func (c *Chunker) keepTail(text string, cut, window int) int {
	rest := len(strings.TrimSpace(text[cut:]))
	if rest == 0 || rest >= c.cfg.MinChunkSize {
		return cut
	}
	orig := cut
	for cut > 0 {
		cut--
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if len(strings.TrimSpace(text[cut:])) >= c.cfg.MinChunkSize {
			break
		}
	}
	if cut == 0 {
		return orig
	}
	if nl := strings.LastIndexByte(text[:cut], '\n'); nl >= 0 && cut-nl <= window {
		return nl + 1
	}
	if sp := strings.LastIndexFunc(text[:cut], unicode.IsSpace); sp >= 0 && cut-sp <= window {
		return sp + 1
	}
	return cut
}
