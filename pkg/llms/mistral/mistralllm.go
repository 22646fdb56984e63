// Package mistral implements the llms.Model interface for the Mistral
// chat completions API.
package mistral

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/relforge/genmodel/pkg/llms"
	"github.com/relforge/genmodel/pkg/llms/mistral/internal/mistralclient"
)

var (
	ErrEmptyResponse          = errors.New("mistral: empty response")
	ErrMissingToken           = errors.New("mistral: missing API key, set it in the MISTRAL_API_KEY environment variable")
	ErrUnsupportedMessageType = errors.New("mistral: unsupported message type")
	ErrUnsupportedContentType = errors.New("mistral: unsupported content type")
)

const (
	RoleSystem    = "system"
	RoleAssistant = "assistant"
	RoleUser      = "user"
	RoleTool      = "tool"
)

// LLM is a Mistral chat model client.
type LLM struct {
	client *mistralclient.Client
}

var _ llms.Model = (*LLM)(nil)

// New returns a new Mistral LLM. The token is taken from the options or the
// MISTRAL_API_KEY environment variable.
func New(opts ...Option) (*LLM, error) {
	o := &options{
		token:   os.Getenv(tokenEnvVarName),
		model:   os.Getenv(modelEnvVarName),
		baseURL: os.Getenv(baseURLEnvVarName),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.token == "" {
		return nil, ErrMissingToken
	}
	if o.model == "" {
		return nil, errors.New("mistral: model is required")
	}

	c, err := mistralclient.New(o.model, o.token, o.baseURL, o.httpClient)
	if err != nil {
		return nil, errors.Wrap(err, "mistral: failed to create client")
	}
	return &LLM{client: c}, nil
}

// GetName implements the Model interface.
func (o *LLM) GetName() string {
	return o.client.Model
}

// GetProviderType implements the Model interface.
func (o *LLM) GetProviderType() llms.ProviderType {
	return llms.ProviderMistral
}

// GenerateContent implements the Model interface.
func (o *LLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.CallOptions{
		Model: o.client.Model,
	}
	for _, opt := range options {
		opt(&opts)
	}

	chatMsgs, err := processMessages(messages)
	if err != nil {
		return nil, err
	}

	req := &mistralclient.ChatRequest{
		Model:       opts.Model,
		Messages:    chatMsgs,
		Temperature: opts.Temperature,
		TopP:        opts.TopP,
		MaxTokens:   opts.MaxTokens,
		Stop:        opts.StopWords,
		RandomSeed:  opts.Seed,
	}
	for _, tool := range opts.Tools {
		if tool.Type != "function" || tool.Function == nil {
			return nil, errors.Errorf("mistral: tool type %q not supported", tool.Type)
		}
		req.Tools = append(req.Tools, mistralclient.Tool{
			Type: "function",
			Function: mistralclient.FunctionDefinition{
				Name:        tool.Function.Name,
				Description: tool.Function.Description,
				Parameters:  tool.Function.Parameters,
			},
		})
	}

	result, err := o.client.CreateChat(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, "mistral: failed to create chat completion")
	}
	if len(result.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	choices := make([]*llms.ContentChoice, len(result.Choices))
	for i, c := range result.Choices {
		choice := &llms.ContentChoice{
			Content:    c.Message.Content,
			StopReason: c.FinishReason,
			GenerationInfo: map[string]any{
				"PromptTokens":     result.Usage.PromptTokens,
				"CompletionTokens": result.Usage.CompletionTokens,
				"TotalTokens":      result.Usage.TotalTokens,
			},
		}
		for _, tool := range c.Message.ToolCalls {
			choice.ToolCalls = append(choice.ToolCalls, llms.ToolCall{
				ID:   tool.ID,
				Type: tool.Type,
				FunctionCall: &llms.FunctionCall{
					Name:      tool.Function.Name,
					Arguments: tool.Function.Arguments,
				},
			})
		}
		choices[i] = choice
	}
	return &llms.ContentResponse{Choices: choices}, nil
}

func processMessages(messages []llms.MessageContent) ([]mistralclient.ChatMessage, error) {
	chatMsgs := make([]mistralclient.ChatMessage, 0, len(messages))
	for _, mc := range messages {
		msg := mistralclient.ChatMessage{Content: mc.GetContent()}
		switch mc.Role {
		case llms.ChatMessageTypeSystem:
			msg.Role = RoleSystem
		case llms.ChatMessageTypeHuman, llms.ChatMessageTypeGeneric:
			msg.Role = RoleUser
		case llms.ChatMessageTypeAI:
			msg.Role = RoleAssistant
		case llms.ChatMessageTypeTool:
			if len(mc.Parts) != 1 {
				return nil, errors.Errorf("mistral: expected exactly one part for role %v, got %v", mc.Role, len(mc.Parts))
			}
			resp, ok := mc.Parts[0].(llms.ToolCallResponse)
			if !ok {
				return nil, errors.WithMessagef(ErrUnsupportedContentType, "mistral: %T for role %v", mc.Parts[0], mc.Role)
			}
			msg.Role = RoleTool
			msg.Content = resp.Content
			msg.ToolCallID = resp.ToolCallID
		default:
			return nil, errors.WithMessagef(ErrUnsupportedMessageType, "mistral: %v", mc.Role)
		}
		chatMsgs = append(chatMsgs, msg)
	}
	return chatMsgs, nil
}
