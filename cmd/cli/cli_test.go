package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestFrameworksCommand(t *testing.T) {
	t.Parallel()

	out, err := runCLI(t, "", "frameworks")
	require.NoError(t, err)
	assert.Contains(t, out, "cinematic")
	assert.Contains(t, out, "logo_reveal")
	assert.Equal(t, 11, strings.Count(out, "\n"))
}

func TestParseCommand(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		stdin   string
		args    []string
		want    string
		wantErr string
	}{
		{
			name:  "json from stdin as markdown",
			stdin: `{"scene":"a fox","camera":"low angle"}`,
			args:  []string{"parse", "--mode", "json", "--format", "md"},
			want:  "**SCENE:**\na fox\n\n**CAMERA:**\nlow angle\n",
		},
		{
			name:  "no titles falls back to one section",
			stdin: "just words",
			args:  []string{"parse", "-"},
			want:  "Generated Prompt:\njust words\n",
		},
		{
			name:    "unknown framework",
			args:    []string{"parse", "--framework", "noir"},
			wantErr: `unknown framework "noir"`,
		},
		{
			name:    "bad mode",
			args:    []string{"parse", "--mode", "xml"},
			wantErr: "unknown mode",
		},
		{
			name:    "bad format",
			args:    []string{"parse", "--format", "pdf"},
			wantErr: "pdf",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			out, err := runCLI(t, tc.stdin, tc.args...)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestDecodeDataURL(t *testing.T) {
	t.Parallel()

	mimeType, data, err := decodeDataURL("data:image/png;base64,QUJD")
	require.NoError(t, err)
	assert.Equal(t, "image/png", mimeType)
	assert.Equal(t, []byte("ABC"), data)
	assert.Equal(t, ".png", imageExt(mimeType))

	_, _, err = decodeDataURL("https://example.com/a.png")
	assert.Error(t, err)
	_, _, err = decodeDataURL("data:image/png,QUJD")
	assert.Error(t, err)
}

func TestGenerateRequiresSubject(t *testing.T) {
	t.Parallel()

	_, err := runCLI(t, "", "generate")
	assert.Error(t, err)
}
