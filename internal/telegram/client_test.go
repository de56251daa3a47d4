package telegram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitByBytes(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		text string
		max  int
		want []string
	}{
		{name: "fits", text: "hello", max: 10, want: []string{"hello"}},
		{name: "hard cut", text: "abcdefgh", max: 3, want: []string{"abc", "def", "gh"}},
		{name: "paragraph cut", text: "aaaa\n\nbbbb", max: 8, want: []string{"aaaa", "bbbb"}},
		{name: "multibyte", text: "ééé", max: 3, want: []string{"é", "é", "é"}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, SplitByBytes(tc.text, tc.max))
		})
	}
}

func TestSplitByBytesKeepsEverything(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("TITLE:\nsome content here\n\n", 400)
	parts := SplitByBytes(text, MaxMessageBytes)
	require.Greater(t, len(parts), 1)

	var total int
	for _, p := range parts {
		assert.LessOrEqual(t, len(p), MaxMessageBytes)
		total += len(strings.ReplaceAll(p, "\n", ""))
	}
	assert.Equal(t, len(strings.ReplaceAll(text, "\n", "")), total)
}

func TestTruncateByBytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ab", TruncateByBytes("abc", 2))
	assert.Equal(t, "é", TruncateByBytes("éé", 3))
	assert.Equal(t, "abc", TruncateByBytes("abc", 0))
}

func TestParseDataURL(t *testing.T) {
	t.Parallel()

	mimeType, data, err := parseDataURL("data:image/png;base64,QUJD")
	require.NoError(t, err)
	assert.Equal(t, "image/png", mimeType)
	assert.Equal(t, "QUJD", data)

	mimeType, data, err = parseDataURL("QUJD")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mimeType)
	assert.Equal(t, "QUJD", data)

	_, _, err = parseDataURL("data:image/png;base64")
	assert.Error(t, err)
}

func TestDetectMimeType(t *testing.T) {
	t.Parallel()

	png := []byte("\x89PNG\r\n\x1a\n0000")
	assert.Equal(t, "image/webp", detectMimeType("image/webp; charset=x", nil))
	assert.Equal(t, "image/png", detectMimeType("application/octet-stream", png))
	assert.Equal(t, "text/plain", detectMimeType("", []byte("hello")))
}
