package llmutils_test

import (
	"bytes"
	"testing"

	"github.com/relforge/genmodel/pkg/llms"
	"github.com/relforge/genmodel/pkg/llmutils"
	"github.com/stretchr/testify/assert"
)

func Test_CleanJSON(t *testing.T) {
	llmOutput := "\n```json\n\n{\"city\": \"Paris\", \"country\": \"France\"}\n\n```\n\n"
	clean := llmutils.CleanJSON([]byte(llmOutput))

	expected := "{\"city\": \"Paris\", \"country\": \"France\"}"
	assert.Equal(t, expected, string(clean))

	llmOutput = "Here you go:\n```json\n\n[{\"city\": \"Paris\", \"country\": \"France\"}]\n```\n\n"
	clean = llmutils.CleanJSON([]byte(llmOutput))

	expected = "[{\"city\": \"Paris\", \"country\": \"France\"}]"
	assert.Equal(t, expected, string(clean))

	noJSON := "no json here"
	assert.Equal(t, noJSON, string(llmutils.CleanJSON([]byte(noJSON))))
}

func Test_TrimBackticks(t *testing.T) {
	expected := "{\"city\": \"Paris\", \"country\": \"France\"}"

	assert.Equal(t, expected, llmutils.TrimBackticks("\n```json\n\n{\"city\": \"Paris\", \"country\": \"France\"}\n\n```\n\n"))
	// the same
	assert.Equal(t, expected, llmutils.TrimBackticks(expected))
	assert.Equal(t, expected, llmutils.TrimBackticks("\n```\n\n{\"city\": \"Paris\", \"country\": \"France\"}\n\n```\n\n"))
}

func Test_BackticksJSON(t *testing.T) {
	json := "{\"city\": \"Paris\", \"country\": \"France\"}"
	wrapped := llmutils.BackticksJSON(json)

	expected := "\n```json\n{\"city\": \"Paris\", \"country\": \"France\"}\n```\n"
	assert.Equal(t, expected, wrapped)
}

func Test_PrintMessageContents(t *testing.T) {
	msgs := []llms.MessageContent{
		llms.TextFromParts(llms.ChatMessageTypeSystem, "you are a reviewer"),
		llms.TextFromParts(llms.ChatMessageTypeHuman, "review this patch"),
	}

	var buf bytes.Buffer
	llmutils.PrintMessageContents(&buf, msgs)
	assert.Equal(t, "SYSTEM: you are a reviewer\nHUMAN: review this patch\n", buf.String())

	assert.Equal(t, uint64(len("system")+len("you are a reviewer")+len("human")+len("review this patch")),
		llmutils.CountMessagesContentSize(msgs))
}

func Test_ToYAML(t *testing.T) {
	out := llmutils.ToYAML(map[string]string{"name": "openai"})
	assert.Equal(t, "name: openai\n", out)
}
