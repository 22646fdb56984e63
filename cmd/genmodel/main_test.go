package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ListLLMs(t *testing.T) {
	var out strings.Builder
	err := realMain([]string{"--list-llms"}, strings.NewReader(""), &out)
	require.NoError(t, err)
	assert.Equal(t, "human\nopenai\nazureopenai\nanthropic\nmistral\n", out.String())
}

func Test_NoProvider(t *testing.T) {
	var out strings.Builder
	err := realMain([]string{}, strings.NewReader("some input"), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no LLM provider selected")
}

func Test_UnknownFlag(t *testing.T) {
	var out strings.Builder
	err := realMain([]string{"--no-such-flag"}, strings.NewReader(""), &out)
	require.Error(t, err)
}

func Test_MissingInputFile(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "fakekey")

	var out strings.Builder
	err := realMain([]string{"--llm", "openai", "--input", "testdata/no-such-file.txt"},
		strings.NewReader(""), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read input")
}
