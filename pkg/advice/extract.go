package advice

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Thresholds bound what extracted text is accepted
type Thresholds struct {
	// MinChars and MaxChars gate the joined result
	MinChars int
	MaxChars int
	// MinItemChars and MaxItemChars filter single sentences, items and paragraphs
	MinItemChars int
	MaxItemChars int
	// MaxItems caps how many pieces are kept
	MaxItems int
	// EchoMinChars is the shortest partial prompt echo that gets stripped
	EchoMinChars int
}

// DefaultThresholds are the production bounds
var DefaultThresholds = Thresholds{
	MinChars:     30,
	MaxChars:     500,
	MinItemChars: 20,
	MaxItemChars: 300,
	MaxItems:     3,
	EchoMinChars: 24,
}

var (
	numberedItem = regexp.MustCompile(`(?m)^[ \t]*\d{1,2}[.)][ \t]+`)
	paragraphGap = regexp.MustCompile(`\n[ \t]*\n`)
	spaces       = regexp.MustCompile(`\s+`)
)

// Extract turns a raw provider reply into up to MaxItems short pieces of text.
// raw may be a JSON string, an object with generated_text or text, a list of those, or plain text.
func Extract(raw []byte, prompt string, th Thresholds) ([]string, error) {
	blob, ok := Normalize(raw)
	if !ok {
		return nil, ErrExtractionInsufficient
	}

	blob = StripEcho(blob, prompt, th.EchoMinChars)
	if strings.TrimSpace(blob) == "" {
		return nil, ErrExtractionInsufficient
	}

	items := numberedItems(blob, th)
	if len(items) == 0 {
		items = sentences(blob, th)
	}
	if len(items) == 0 {
		items = paragraphs(blob, th)
	}
	if len(items) > th.MaxItems {
		items = items[:th.MaxItems]
	}

	if !th.acceptable(strings.Join(items, " ")) {
		return nil, ErrExtractionInsufficient
	}
	return items, nil
}

// ExtractOne joins the first pieces of a reply into a single short answer
func ExtractOne(raw []byte, prompt string, th Thresholds, pieces int) (string, error) {
	items, err := Extract(raw, prompt, th)
	if err != nil {
		return "", err
	}
	if pieces > 0 && len(items) > pieces {
		items = items[:pieces]
	}
	return strings.Join(items, " "), nil
}

func (th Thresholds) acceptable(text string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(text))
	return n >= th.MinChars && n <= th.MaxChars
}

func (th Thresholds) keep(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= th.MinItemChars && n <= th.MaxItemChars
}

// Normalize reduces the known reply shapes to one text blob
func Normalize(raw []byte) (string, bool) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return "", false
	}

	var v interface{}
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		// not JSON at all, the provider answered with plain text
		return trimmed, true
	}
	return textOf(v, true)
}

func textOf(v interface{}, allowList bool) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, t != ""
	case map[string]interface{}:
		for _, key := range []string{"generated_text", "text"} {
			if s, ok := t[key].(string); ok && s != "" {
				return s, true
			}
		}
	case []interface{}:
		if allowList && len(t) > 0 {
			return textOf(t[0], false)
		}
	}
	return "", false
}

// StripEcho removes the prompt when the blob starts by repeating it. A partial echo is only
// stripped when at least minEcho characters match or the whole blob is a prefix of the prompt.
func StripEcho(blob, prompt string, minEcho int) string {
	text := strings.TrimLeftFunc(blob, unicode.IsSpace)
	p := strings.TrimSpace(prompt)
	if p == "" {
		return blob
	}

	n := commonPrefix(text, p)
	switch {
	case n == len(p), n == len(text), n >= minEcho:
		return strings.TrimSpace(text[n:])
	default:
		return blob
	}
}

func commonPrefix(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	// back off to a rune boundary
	for n > 0 && n < len(a) && !utf8.RuneStart(a[n]) {
		n--
	}
	return n
}

func clean(s string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

func numberedItems(blob string, th Thresholds) []string {
	locs := numberedItem.FindAllStringIndex(blob, -1)
	if len(locs) == 0 {
		return nil
	}

	var out []string
	for i, loc := range locs {
		end := len(blob)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		item := clean(blob[loc[1]:end])
		if th.keep(item) {
			out = append(out, item)
		}
	}
	return out
}

func sentences(blob string, th Thresholds) []string {
	var out []string
	text := clean(blob)
	start := 0

	for i := 0; i < len(text); i++ {
		if !isTerminal(text[i]) {
			continue
		}
		j := i
		for j+1 < len(text) && isTerminal(text[j+1]) {
			j++
		}
		if j+1 == len(text) || text[j+1] == ' ' {
			s := strings.TrimSpace(text[start : j+1])
			if th.keep(s) {
				out = append(out, s)
			}
			start = j + 1
		}
		i = j
	}
	return out
}

func isTerminal(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

func paragraphs(blob string, th Thresholds) []string {
	var out []string
	for _, p := range paragraphGap.Split(blob, -1) {
		p = clean(p)
		if th.keep(p) {
			out = append(out, p)
		}
	}
	return out
}
