package sections_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"prompt-studio/internal/sections"
)

var cinematicTitles = []string{
	"CONTEXT FOUNDATION", "IMMERSIVE SCENE SETUP", "NARRATIVE SUBJECT DEFINITION",
	"ENERGETIC ACTION CHOREOGRAPHY", "MECHANICAL CAMERA DIRECTION", "ATMOSPHERIC LIGHTING DESIGN",
	"TONAL AUDIO ARCHITECTURE", "INTEGRATED STYLE PALETTE", "CALIBRATED OUTPUT SPECIFICATIONS",
	"ENHANCEMENT MODIFIERS", "EMPHASIS CONTROLLER", "CONSTRAINT LIMITER", "STYLE ADAPTER",
}

func TestParseText(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		raw      string
		titles   []string
		expected []sections.Section
	}{
		{
			name:     "empty input yields no sections",
			raw:      "",
			titles:   cinematicTitles,
			expected: nil,
		},
		{
			name:   "titles in document order",
			raw:    "CONTEXT FOUNDATION: A lonely hero\nIMMERSIVE SCENE SETUP: Rainy Tokyo",
			titles: cinematicTitles,
			expected: []sections.Section{
				{Title: "CONTEXT FOUNDATION", Content: "A lonely hero"},
				{Title: "IMMERSIVE SCENE SETUP", Content: "Rainy Tokyo"},
			},
		},
		{
			name:   "continuation lines are trimmed and newline joined",
			raw:    "CONTEXT FOUNDATION: first\n   second  \n\n   \nthird\nSTYLE ADAPTER: noir",
			titles: cinematicTitles,
			expected: []sections.Section{
				{Title: "CONTEXT FOUNDATION", Content: "first\nsecond\nthird"},
				{Title: "STYLE ADAPTER", Content: "noir"},
			},
		},
		{
			name:   "leading lines before any title are dropped",
			raw:    "Here is your prompt:\n\nCONTEXT FOUNDATION: hero",
			titles: cinematicTitles,
			expected: []sections.Section{
				{Title: "CONTEXT FOUNDATION", Content: "hero"},
			},
		},
		{
			name:   "matching is case-insensitive and keeps the header as written",
			raw:    "Context Foundation:   calm\nmechanical camera direction: dolly in",
			titles: cinematicTitles,
			expected: []sections.Section{
				{Title: "Context Foundation", Content: "calm"},
				{Title: "mechanical camera direction", Content: "dolly in"},
			},
		},
		{
			name:   "header without inline content",
			raw:    "CONTEXT FOUNDATION:\nline one\nline two",
			titles: cinematicTitles,
			expected: []sections.Section{
				{Title: "CONTEXT FOUNDATION", Content: "line one\nline two"},
			},
		},
		{
			name:   "indented header is not recognized",
			raw:    "CONTEXT FOUNDATION: a\n  STYLE ADAPTER: b",
			titles: cinematicTitles,
			expected: []sections.Section{
				{Title: "CONTEXT FOUNDATION", Content: "a\nSTYLE ADAPTER: b"},
			},
		},
		{
			name:   "content line starting with a title opens a section",
			raw:    "CONTEXT FOUNDATION: a\nstyle adapter: looks like content",
			titles: cinematicTitles,
			expected: []sections.Section{
				{Title: "CONTEXT FOUNDATION", Content: "a"},
				{Title: "style adapter", Content: "looks like content"},
			},
		},
		{
			name:   "duplicate titles are kept",
			raw:    "STYLE ADAPTER: one\nSTYLE ADAPTER: two",
			titles: cinematicTitles,
			expected: []sections.Section{
				{Title: "STYLE ADAPTER", Content: "one"},
				{Title: "STYLE ADAPTER", Content: "two"},
			},
		},
		{
			name:   "longest literal title wins",
			raw:    "STYLE PALETTE: warm",
			titles: []string{"STYLE", "STYLE PALETTE"},
			expected: []sections.Section{
				{Title: "STYLE PALETTE", Content: "warm"},
			},
		},
		{
			name:   "regex metacharacters in titles are literal",
			raw:    "A+B (C): x\nAAB C: y",
			titles: []string{"A+B (C)"},
			expected: []sections.Section{
				{Title: "A+B (C)", Content: "x\nAAB C: y"},
			},
		},
		{
			name:   "carriage returns are trimmed from content",
			raw:    "CONTEXT FOUNDATION: a\r\nmore\r\n",
			titles: cinematicTitles,
			expected: []sections.Section{
				{Title: "CONTEXT FOUNDATION", Content: "a\nmore"},
			},
		},
		{
			name:   "no recognized title falls back to raw",
			raw:    "hello\nworld",
			titles: []string{"FOO"},
			expected: []sections.Section{
				{Title: sections.FallbackPromptTitle, Content: "hello\nworld"},
			},
		},
		{
			name:   "whitespace-only input falls back",
			raw:    "  \n\t\n",
			titles: cinematicTitles,
			expected: []sections.Section{
				{Title: sections.FallbackPromptTitle, Content: "  \n\t\n"},
			},
		},
		{
			name:   "empty vocabulary never matches",
			raw:    ": starts with colon",
			titles: nil,
			expected: []sections.Section{
				{Title: sections.FallbackPromptTitle, Content: ": starts with colon"},
			},
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := sections.ParseText(testCase.raw, testCase.titles)
			require.Equal(t, testCase.expected, got)
		})
	}
}

func TestParseTextIsDeterministic(t *testing.T) {
	t.Parallel()

	raw := "CONTEXT FOUNDATION: a\nb\nSTYLE ADAPTER: c"
	first := sections.ParseText(raw, cinematicTitles)
	second := sections.ParseText(raw, cinematicTitles)
	require.Equal(t, first, second)
}

func TestParseJSON(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		raw      string
		expected []sections.Section
	}{
		{
			name:     "empty input yields no sections",
			raw:      "",
			expected: nil,
		},
		{
			name: "single key",
			raw:  `{"context_foundation": "A hero's journey"}`,
			expected: []sections.Section{
				{Title: "CONTEXT FOUNDATION", Content: "A hero's journey"},
			},
		},
		{
			name: "keys keep document order",
			raw:  `{"zeta_key": "z", "alpha": "a", "mid_level_key": "m"}`,
			expected: []sections.Section{
				{Title: "ZETA KEY", Content: "z"},
				{Title: "ALPHA", Content: "a"},
				{Title: "MID LEVEL KEY", Content: "m"},
			},
		},
		{
			name: "repeated key keeps first position and last value",
			raw:  `{"a": "1", "b": "2", "a": "3"}`,
			expected: []sections.Section{
				{Title: "A", Content: "3"},
				{Title: "B", Content: "2"},
			},
		},
		{
			name: "values are opaque text",
			raw:  "{\"scene\": \"line one\\n**bold** line two\"}",
			expected: []sections.Section{
				{Title: "SCENE", Content: "line one\n**bold** line two"},
			},
		},
		{
			name: "non-string values use compact JSON",
			raw:  `{"shots": [ "wide", "close" ], "count": 3}`,
			expected: []sections.Section{
				{Title: "SHOTS", Content: `["wide","close"]`},
				{Title: "COUNT", Content: "3"},
			},
		},
		{
			name:     "empty object",
			raw:      `{}`,
			expected: []sections.Section{},
		},
		{
			name: "malformed JSON falls back to raw",
			raw:  `{"context_foundation": "unterminated`,
			expected: []sections.Section{
				{Title: sections.FallbackContentTitle, Content: `{"context_foundation": "unterminated`},
			},
		},
		{
			name: "trailing data is malformed",
			raw:  `{"a": "b"} trailing`,
			expected: []sections.Section{
				{Title: sections.FallbackContentTitle, Content: `{"a": "b"} trailing`},
			},
		},
		{
			name: "top-level array falls back",
			raw:  `["a", "b"]`,
			expected: []sections.Section{
				{Title: sections.FallbackContentTitle, Content: `["a", "b"]`},
			},
		},
		{
			name: "plain prose falls back",
			raw:  "A short cinematic prompt.",
			expected: []sections.Section{
				{Title: sections.FallbackContentTitle, Content: "A short cinematic prompt."},
			},
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := sections.ParseJSON(testCase.raw)
			require.Equal(t, testCase.expected, got)
		})
	}
}

func TestKeyTitle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "CONTEXT FOUNDATION", sections.KeyTitle("context_foundation"))
	assert.Equal(t, "OUTPUT SPECIFICATIONS", sections.KeyTitle("output_specifications"))
	assert.Equal(t, "PANEL 1", sections.KeyTitle("panel_1"))
	assert.Equal(t, "ALREADY UPPER", sections.KeyTitle("ALREADY_UPPER"))
}

func TestParseDispatchesOnMode(t *testing.T) {
	t.Parallel()

	raw := `{"style_adapter": "noir"}`

	jsonSections := sections.Parse(raw, sections.ModeJSON, cinematicTitles)
	require.Equal(t, []sections.Section{{Title: "STYLE ADAPTER", Content: "noir"}}, jsonSections)

	textSections := sections.Parse(raw, sections.ModeText, cinematicTitles)
	require.Equal(t, []sections.Section{{Title: sections.FallbackPromptTitle, Content: raw}}, textSections)
}

func TestTextRoundTrip(t *testing.T) {
	t.Parallel()

	original := sections.ParseText(
		"CONTEXT FOUNDATION: hero\nsecond line\nSTYLE ADAPTER: noir\nTONAL AUDIO ARCHITECTURE:\nrain\nthunder",
		cinematicTitles,
	)
	reparsed := sections.ParseText(sections.JoinText(original), cinematicTitles)
	require.Equal(t, original, reparsed)
}

func TestPrettyJSON(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "valid object is indented with two spaces",
			raw:      `{"b":"1","a":{"c":[1,2]}}`,
			expected: "{\n  \"b\": \"1\",\n  \"a\": {\n    \"c\": [\n      1,\n      2\n    ]\n  }\n}",
		},
		{
			name:     "surrounding whitespace is dropped",
			raw:      "\n  {\"a\": \"b\"}  \n",
			expected: "{\n  \"a\": \"b\"\n}",
		},
		{
			name:     "invalid JSON is returned unchanged",
			raw:      "not { json",
			expected: "not { json",
		},
		{
			name:     "empty stays empty",
			raw:      "",
			expected: "",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			once := sections.PrettyJSON(testCase.raw)
			require.Equal(t, testCase.expected, once)
			require.Equal(t, once, sections.PrettyJSON(once))
		})
	}
}

func TestExport(t *testing.T) {
	t.Parallel()

	secs := []sections.Section{
		{Title: "CONTEXT FOUNDATION", Content: "hero"},
		{Title: "STYLE ADAPTER", Content: "noir\ngrain"},
	}

	text, err := sections.Export(secs, "", sections.FormatText)
	require.NoError(t, err)
	assert.Equal(t, "CONTEXT FOUNDATION:\nhero\n\nSTYLE ADAPTER:\nnoir\ngrain", text)

	md, err := sections.Export(secs, "", sections.FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, "**CONTEXT FOUNDATION:**\nhero\n\n**STYLE ADAPTER:**\nnoir\ngrain", md)

	asJSON, err := sections.Export(secs, "CONTEXT FOUNDATION: hero", sections.FormatJSON)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"title":"CONTEXT FOUNDATION","content":"hero"},{"title":"STYLE ADAPTER","content":"noir\ngrain"}]`, asJSON)

	rawJSON, err := sections.Export(nil, `{"a":"b"}`, sections.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": \"b\"\n}", rawJSON)

	asYAML, err := sections.Export(secs, "", sections.FormatYAML)
	require.NoError(t, err)
	var decoded []sections.Section
	require.NoError(t, yaml.Unmarshal([]byte(asYAML), &decoded))
	assert.Equal(t, secs, decoded)

	_, err = sections.Export(secs, "", sections.Format("pdf"))
	require.ErrorIs(t, err, sections.ErrUnknownFormat)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for input, expected := range map[string]sections.Format{
		"":         sections.FormatText,
		"TEXT":     sections.FormatText,
		"md":       sections.FormatMarkdown,
		"markdown": sections.FormatMarkdown,
		"json":     sections.FormatJSON,
		"yml":      sections.FormatYAML,
	} {
		got, err := sections.ParseFormat(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, got, input)
	}

	_, err := sections.ParseFormat("docx")
	require.ErrorIs(t, err, sections.ErrUnknownFormat)
}

func TestParseCoPilot(t *testing.T) {
	t.Parallel()

	raw := `{
		"aiCoPilotEnabled": true,
		"framework": "myth",
		"originalPrompt": "a phoenix",
		"outputPrompt": "A phoenix rises over a volcanic sea.",
		"cameraSettings": {"selected_shots": ["low_angle", "crane"], "rationale": "scale"},
		"negative_prompt_analysis": {"rationale": "keep it clean", "negative_prompts": ["blur", "text"]},
		"error": null
	}`

	out, ok := sections.ParseCoPilot(raw)
	require.True(t, ok)
	assert.Equal(t, "myth", out.Framework)
	assert.Equal(t, []string{"low_angle", "crane"}, out.CameraSettings.SelectedShots)
	assert.Nil(t, out.Error)

	secs := out.Sections()
	require.Len(t, secs, 4)
	assert.Equal(t, "OUTPUT PROMPT", secs[0].Title)
	assert.Equal(t, "low_angle, crane\nscale", secs[1].Content)
	assert.Equal(t, "blur, text", secs[2].Content)

	_, ok = sections.ParseCoPilot(`{"outputPrompt": "x"}`)
	assert.False(t, ok)

	_, ok = sections.ParseCoPilot(`not json`)
	assert.False(t, ok)
}
