package sections

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrUnknownFormat = errors.New("unknown export format")

type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

func Formats() []Format {
	return []Format{FormatText, FormatMarkdown, FormatJSON, FormatYAML}
}

func ParseFormat(value string) (Format, error) {
	switch v := Format(strings.ToLower(strings.TrimSpace(value))); v {
	case "":
		return FormatText, nil
	case "md":
		return FormatMarkdown, nil
	case "yml":
		return FormatYAML, nil
	case FormatText, FormatMarkdown, FormatJSON, FormatYAML:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, value)
}

// JoinText renders sections as "TITLE:\ncontent" blocks separated by a blank
// line. ParseText with the same vocabulary reads this back.
func JoinText(secs []Section) string {
	blocks := make([]string, 0, len(secs))
	for _, s := range secs {
		blocks = append(blocks, s.Title+":\n"+s.Content)
	}
	return strings.Join(blocks, "\n\n")
}

// JoinMarkdown is the clipboard rendering: bold titles, blank-line separated.
func JoinMarkdown(secs []Section) string {
	blocks := make([]string, 0, len(secs))
	for _, s := range secs {
		blocks = append(blocks, "**"+s.Title+":**\n"+s.Content)
	}
	return strings.Join(blocks, "\n\n")
}

// Export renders a parsed response. The json format prefers the raw response
// when it is itself JSON so that key order and values survive untouched.
func Export(secs []Section, raw string, format Format) (string, error) {
	switch format {
	case FormatText, "":
		return JoinText(secs), nil
	case FormatMarkdown:
		return JoinMarkdown(secs), nil
	case FormatJSON:
		if IsJSON(raw) {
			return PrettyJSON(raw), nil
		}
		if secs == nil {
			secs = []Section{}
		}
		out, err := json.MarshalIndent(secs, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal sections: %w", err)
		}
		return string(out), nil
	case FormatYAML:
		if secs == nil {
			secs = []Section{}
		}
		out, err := yaml.Marshal(secs)
		if err != nil {
			return "", fmt.Errorf("marshal sections: %w", err)
		}
		return string(out), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
}
