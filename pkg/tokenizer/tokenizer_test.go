package tokenizer_test

import (
	"testing"

	"github.com/relforge/genmodel/pkg/tokenizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ForModel(t *testing.T) {
	tk, err := tokenizer.ForModel("gpt-4")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4", tk.Model())
	assert.Equal(t, "cl100k_base", tk.Encoding())

	// cached instance
	tk2, err := tokenizer.ForModel("gpt-4")
	require.NoError(t, err)
	assert.Same(t, tk, tk2)
}

func Test_ForModel_Fallback(t *testing.T) {
	// Unknown models fall back to cl100k_base instead of failing.
	tk, err := tokenizer.ForModel("claude-3-5-sonnet-20240620")
	require.NoError(t, err)
	assert.Equal(t, tokenizer.FallbackEncoding, tk.Encoding())

	tk, err = tokenizer.ForModel("")
	require.NoError(t, err)
	assert.Equal(t, tokenizer.FallbackEncoding, tk.Encoding())
}

func Test_CountTokens(t *testing.T) {
	tk, err := tokenizer.ForModel("gpt-4")
	require.NoError(t, err)

	assert.Equal(t, 0, tk.CountTokens(""))

	for _, text := range []string{
		"hello world",
		"a much longer sentence with punctuation, numbers 123, and symbols &^%",
		"日本語のテキスト",
	} {
		count := tk.CountTokens(text)
		assert.Positive(t, count, "text: %s", text)
		assert.Len(t, tk.Encode(text), count)
	}
}
