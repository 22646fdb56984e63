package openai

import (
	"testing"

	"github.com/relforge/genmodel/pkg/llms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_New_Validation(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_MODEL", "")

	_, err := New()
	require.ErrorIs(t, err, ErrMissingToken)

	_, err = New(WithToken("fakekey"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model is required")

	t.Setenv("OPENAI_API_ENDPOINT", "")
	_, err = New(
		WithToken("fakekey"),
		WithModel("gpt-4o-2024-05-13"),
		WithProvider(ProviderAzure),
	)
	require.ErrorIs(t, err, ErrMissingAzureEndpoint)
}

func Test_New_ProviderType(t *testing.T) {
	model, err := New(
		WithToken("fakekey"),
		WithModel("gpt-4o-2024-05-13"),
	)
	require.NoError(t, err)
	assert.Equal(t, llms.ProviderOpenAI, model.GetProviderType())
	assert.Equal(t, "gpt-4o-2024-05-13", model.GetName())

	model, err = New(
		WithToken("fakekey"),
		WithModel("gpt4o-deploy"),
		WithProvider(ProviderAzure),
		WithAzureEndpoint("https://example.openai.azure.com"),
		WithAPIVersion("2024-06-01"),
	)
	require.NoError(t, err)
	assert.Equal(t, llms.ProviderAzure, model.GetProviderType())
}

func Test_ProcessMessages(t *testing.T) {
	msgs, err := processMessages([]llms.MessageContent{
		llms.TextFromParts(llms.ChatMessageTypeSystem, "you are a reviewer"),
		llms.TextFromParts(llms.ChatMessageTypeHuman, "review this patch"),
		llms.TextFromParts(llms.ChatMessageTypeAI, "looks fine"),
		llms.MessageFromParts(llms.ChatMessageTypeTool, llms.ToolCallResponse{
			ToolCallID: "call_1",
			Name:       "search",
			Content:    "result",
		}),
	})
	require.NoError(t, err)
	assert.Len(t, msgs, 4)

	_, err = processMessages([]llms.MessageContent{
		{Role: "unknown", Parts: []llms.ContentPart{llms.TextPart("x")}},
	})
	require.ErrorIs(t, err, ErrUnsupportedMessageType)

	_, err = processMessages([]llms.MessageContent{
		llms.TextFromParts(llms.ChatMessageTypeTool, "not a tool response"),
	})
	require.ErrorIs(t, err, ErrUnsupportedContentType)
}
