// Package sections splits a raw model response into titled sections.
//
// The remote model is asked to answer either as text lines of the form
// "TITLE: content" or as a flat JSON object. Both shapes are parsed here
// without ever failing: malformed input degrades to a single placeholder
// section that carries the raw response.
package sections

import (
	"bytes"
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// FallbackPromptTitle is used when a text response contains no known title.
	FallbackPromptTitle = "Generated Prompt"
	// FallbackContentTitle is used when a JSON response cannot be decoded.
	FallbackContentTitle = "Generated Content"
)

type Mode string

const (
	ModeText Mode = "text"
	ModeJSON Mode = "json"
)

func ParseMode(value string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeText:
		return ModeText, true
	case ModeJSON:
		return ModeJSON, true
	}
	return "", false
}

type Section struct {
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
}

// Parse dispatches to ParseText or ParseJSON. Titles are ignored in JSON mode.
func Parse(raw string, mode Mode, titles []string) []Section {
	if mode == ModeJSON {
		return ParseJSON(raw)
	}
	return ParseText(raw, titles)
}

// ParseText walks raw line by line and opens a new section on every line that
// starts with one of titles followed by a colon. Matching is case-insensitive
// and anchored at line start, so a content line that happens to begin with
// "TITLE:" also opens a section.
func ParseText(raw string, titles []string) []Section {
	if raw == "" {
		return nil
	}

	matcher := titleMatcher(titles)

	var out []Section
	var current *Section

	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		if matcher != nil {
			if header := matcher.FindString(line); header != "" {
				if current != nil {
					out = append(out, *current)
				}
				current = &Section{
					Title:   strings.TrimSpace(strings.TrimSuffix(header, ":")),
					Content: strings.TrimSpace(line[len(header):]),
				}
				continue
			}
		}

		if current == nil {
			continue
		}

		trimmed := strings.TrimSpace(line)
		if current.Content == "" {
			current.Content = trimmed
		} else {
			current.Content += "\n" + trimmed
		}
	}

	if current != nil {
		out = append(out, *current)
	}

	if len(out) == 0 {
		return []Section{{Title: FallbackPromptTitle, Content: raw}}
	}
	return out
}

func titleMatcher(titles []string) *regexp.Regexp {
	quoted := make([]string, 0, len(titles))
	for _, t := range titles {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(t))
	}
	if len(quoted) == 0 {
		return nil
	}

	// Longest literal first: RE2 alternation prefers the leftmost alternative.
	sort.SliceStable(quoted, func(i, j int) bool { return len(quoted[i]) > len(quoted[j]) })

	return regexp.MustCompile(`(?i)^(` + strings.Join(quoted, "|") + `):`)
}

// ParseJSON emits one section per key of a top-level JSON object, in the
// order the keys appear in raw. A repeated key keeps its first position and
// its last value.
func ParseJSON(raw string) []Section {
	if raw == "" {
		return nil
	}

	fallback := []Section{{Title: FallbackContentTitle, Content: raw}}
	if !json.Valid([]byte(raw)) {
		return fallback
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fallback
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fallback
	}

	out := []Section{}
	seen := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fallback
		}
		key, ok := keyTok.(string)
		if !ok {
			return fallback
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return fallback
		}

		if i, ok := seen[key]; ok {
			out[i].Content = valueText(value)
			continue
		}
		seen[key] = len(out)
		out = append(out, Section{
			Title:   KeyTitle(key),
			Content: valueText(value),
		})
	}

	// closing brace; json.Valid already ruled out trailing data
	if _, err := dec.Token(); err != nil {
		return fallback
	}
	return out
}

func valueText(value json.RawMessage) string {
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		return s
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, value); err != nil {
		return string(value)
	}
	return buf.String()
}

// KeyTitle turns a snake_case schema key into a section title:
// underscores become spaces, each word is title-cased, then the whole
// result is upper-cased.
func KeyTitle(key string) string {
	words := strings.ReplaceAll(key, "_", " ")
	return strings.ToUpper(cases.Title(language.Und).String(words))
}

// PrettyJSON re-indents raw with two spaces when it is valid JSON and returns
// it unchanged otherwise. Key order is preserved.
func PrettyJSON(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || !json.Valid([]byte(trimmed)) {
		return raw
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(trimmed), "", "  "); err != nil {
		return raw
	}
	return buf.String()
}

// IsJSON reports whether raw is a syntactically valid JSON document.
func IsJSON(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	return trimmed != "" && json.Valid([]byte(trimmed))
}
