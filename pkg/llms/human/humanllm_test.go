package human_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/relforge/genmodel/pkg/llms"
	"github.com/relforge/genmodel/pkg/llms/human"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GenerateContent(t *testing.T) {
	var out bytes.Buffer
	model, err := human.New(
		human.WithInput(strings.NewReader("the patch is fine\nship it\n\nignored\n")),
		human.WithOutput(&out),
	)
	require.NoError(t, err)
	assert.Equal(t, "human", model.GetName())
	assert.Equal(t, llms.ProviderHuman, model.GetProviderType())

	resp, err := model.GenerateContent(context.Background(), []llms.MessageContent{
		llms.TextFromParts(llms.ChatMessageTypeSystem, "you are a reviewer"),
		llms.TextFromParts(llms.ChatMessageTypeHuman, "review this patch"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "the patch is fine\nship it", resp.Choices[0].Content)
	assert.Equal(t, "stop", resp.Choices[0].StopReason)

	printed := out.String()
	assert.Contains(t, printed, "SYSTEM: you are a reviewer")
	assert.Contains(t, printed, "HUMAN: review this patch")
	assert.Contains(t, printed, "Enter the reply")
}

func Test_GenerateContent_LongLine(t *testing.T) {
	// a pasted reply can be one line well past bufio's 64KiB default
	long := strings.Repeat("x", 256*1024)
	model, err := human.New(
		human.WithInput(strings.NewReader(long+"\n\n")),
		human.WithOutput(&bytes.Buffer{}),
	)
	require.NoError(t, err)

	resp, err := model.GenerateContent(context.Background(), []llms.MessageContent{
		llms.TextFromParts(llms.ChatMessageTypeHuman, "paste the log"),
	})
	require.NoError(t, err)
	assert.Equal(t, long, resp.Choices[0].Content)
}

func Test_GenerateContent_EOF(t *testing.T) {
	model, err := human.New(
		human.WithInput(strings.NewReader("only line")),
		human.WithOutput(&bytes.Buffer{}),
	)
	require.NoError(t, err)

	resp, err := model.GenerateContent(context.Background(), []llms.MessageContent{
		llms.TextFromParts(llms.ChatMessageTypeHuman, "hi"),
	})
	require.NoError(t, err)
	assert.Equal(t, "only line", resp.Choices[0].Content)
}
