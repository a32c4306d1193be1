package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitMessage_ShortTextStaysWhole(t *testing.T) {
	chunks := splitMessage("hello", 100)
	require.Len(t, chunks, 1)
	assert.Equal(t, "hello", chunks[0])
}

func TestSplitMessage_EmptyText(t *testing.T) {
	assert.Empty(t, splitMessage("", 100))
}

func TestSplitMessage_RoundTrip(t *testing.T) {
	text := strings.Repeat("раз два три\nчетыре пять ", 500)
	chunks := splitMessage(text, 100)
	require.Greater(t, len(chunks), 1)
	assert.Equal(t, text, strings.Join(chunks, ""))
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk)), 100)
		assert.NotEmpty(t, chunk)
	}
}

func TestSplitMessage_PrefersNewlineBreak(t *testing.T) {
	text := strings.Repeat("a", 90) + "\n" + strings.Repeat("b", 50)
	chunks := splitMessage(text, 100)
	require.Len(t, chunks, 2)
	assert.Equal(t, strings.Repeat("a", 90)+"\n", chunks[0])
	assert.Equal(t, strings.Repeat("b", 50), chunks[1])
}

func TestSplitMessage_FallsBackToSpace(t *testing.T) {
	text := strings.Repeat("a", 85) + " " + strings.Repeat("b", 60)
	chunks := splitMessage(text, 100)
	require.Len(t, chunks, 2)
	assert.Equal(t, strings.Repeat("a", 85)+" ", chunks[0])
	assert.Equal(t, strings.Repeat("b", 60), chunks[1])
}

func TestSplitMessage_HardCutWithoutBreaks(t *testing.T) {
	text := strings.Repeat("x", 250)
	chunks := splitMessage(text, 100)
	require.Len(t, chunks, 3)
	assert.Equal(t, text, strings.Join(chunks, ""))
	assert.Len(t, chunks[0], 100)
}

func TestSplitMessage_NeverSplitsRunes(t *testing.T) {
	text := strings.Repeat("ыэ", 150)
	chunks := splitMessage(text, 100)
	assert.Equal(t, text, strings.Join(chunks, ""))
	for _, chunk := range chunks {
		assert.True(t, strings.HasPrefix(chunk, "ы") || strings.HasPrefix(chunk, "э"))
	}
}
