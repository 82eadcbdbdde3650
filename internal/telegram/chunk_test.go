package telegram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitMessageLossless(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
	}{
		{"prose with newlines", "first line\nsecond line\n\nthird  paragraph with   spaces", 12},
		{"single word longer than width", "abcdefghijklmnopqrstuvwxyz", 5},
		{"trailing whitespace kept", "ends with spaces   ", 7},
		{"width wider than text", "short", 100},
		{"exactly the width", "1234567890", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := SplitMessage(tt.text, tt.width)
			require.Equal(t, tt.text, strings.Join(chunks, ""), "characters lost or reordered")
			for i, chunk := range chunks {
				require.LessOrEqual(t, len([]rune(chunk)), tt.width, "chunk %d too wide", i)
				require.NotEmpty(t, chunk)
			}
		})
	}
}

func TestSplitMessageThreeChunksAtReportWidth(t *testing.T) {
	text := strings.Repeat("a", 10000)

	chunks := SplitMessage(text, 3500)

	require.Len(t, chunks, 3)
	require.Equal(t, text, strings.Join(chunks, ""))
	for _, chunk := range chunks {
		require.LessOrEqual(t, len([]rune(chunk)), 3500)
	}
}

func TestSplitMessagePrefersWhitespaceBreaks(t *testing.T) {
	chunks := SplitMessage("aaaa bbbb cccc", 10)

	require.Equal(t, []string{"aaaa bbbb ", "cccc"}, chunks)
}

func TestSplitMessageCountsRunesNotBytes(t *testing.T) {
	// Ten two-byte runes; a byte-counting splitter would cut mid-character.
	text := strings.Repeat("я", 10)

	chunks := SplitMessage(text, 3)

	require.Equal(t, []string{"яяя", "яяя", "яяя", "я"}, chunks)
}

func TestSplitMessageEmptyText(t *testing.T) {
	require.Nil(t, SplitMessage("", 3500))
}
