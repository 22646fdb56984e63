package modeltool_test

import (
	"context"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/relforge/genmodel/pkg/llms"
	"github.com/relforge/genmodel/pkg/modeltool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModel struct {
	name     string
	response string
	err      error

	lastMessages []llms.MessageContent
}

func (m *fakeModel) GetName() string                    { return m.name }
func (m *fakeModel) GetProviderType() llms.ProviderType { return llms.ProviderOpenAI }
func (m *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	m.lastMessages = messages
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{Content: m.response, StopReason: "stop"},
		},
	}, nil
}

func Test_NewBase(t *testing.T) {
	_, err := modeltool.NewBase(nil)
	require.Error(t, err)

	base, err := modeltool.NewBase(&fakeModel{name: "gpt-4"})
	require.NoError(t, err)
	assert.Positive(t, base.CountTokens("hello world"))

	// unknown model names fall back to the default encoding
	base, err = modeltool.NewBase(&fakeModel{name: "totally-unknown-model"})
	require.NoError(t, err)
	assert.Positive(t, base.CountTokens("hello world"))
}

func Test_Generate(t *testing.T) {
	ctx := context.Background()

	model := &fakeModel{name: "gpt-4", response: "a summary"}
	base, err := modeltool.NewBase(model)
	require.NoError(t, err)

	out, err := base.Generate(ctx, []llms.MessageContent{
		llms.TextFromParts(llms.ChatMessageTypeHuman, "summarize this"),
	})
	require.NoError(t, err)
	assert.Equal(t, "a summary", out)

	model.err = errors.New("boom")
	_, err = base.Generate(ctx, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `model "gpt-4"`)
}

func Test_Generate_EmptyCompletion(t *testing.T) {
	base, err := modeltool.NewBase(&emptyModel{})
	require.NoError(t, err)

	_, err = base.Generate(context.Background(), nil)
	assert.ErrorIs(t, err, modeltool.ErrEmptyCompletion)
}

type emptyModel struct{}

func (m *emptyModel) GetName() string                    { return "gpt-4" }
func (m *emptyModel) GetProviderType() llms.ProviderType { return llms.ProviderOpenAI }
func (m *emptyModel) GenerateContent(_ context.Context, _ []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	return &llms.ContentResponse{}, nil
}

func Test_Summarizer(t *testing.T) {
	ctx := context.Background()

	model := &fakeModel{name: "gpt-4", response: "  short summary \n"}
	tool, err := modeltool.NewSummarizer(model)
	require.NoError(t, err)

	assert.Equal(t, "1.0", tool.Version())

	out, err := tool.Run(ctx, "  a very long text  ")
	require.NoError(t, err)
	assert.Equal(t, "short summary", out)

	// system prompt goes first, then the input
	require.Len(t, model.lastMessages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.lastMessages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.lastMessages[1].Role)
	assert.Equal(t, "a very long text", model.lastMessages[1].GetContent())
}

func Test_Summarizer_Truncation(t *testing.T) {
	ctx := context.Background()

	model := &fakeModel{name: "gpt-4", response: "ok"}
	tool, err := modeltool.NewSummarizer(model)
	require.NoError(t, err)
	tool.MaxInputTokens = 5

	input := strings.Repeat("the quick brown fox jumps over the lazy dog ", 20)
	_, err = tool.Run(ctx, input)
	require.NoError(t, err)

	sent := model.lastMessages[1].GetContent()
	assert.Less(t, len(sent), len(input))
	assert.LessOrEqual(t, tool.CountTokens(sent), 5)
}
