// Package openai implements the llms.Model interface over the official
// OpenAI Go SDK, covering the OpenAI API and Azure OpenAI deployments.
package openai

import (
	"context"
	"encoding/json"
	"os"

	"github.com/cockroachdb/errors"
	openaisdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/azure"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"github.com/relforge/genmodel/pkg/llms"
)

var (
	ErrEmptyResponse          = errors.New("openai: empty response")
	ErrMissingToken           = errors.New("openai: missing API key, set it in the OPENAI_API_KEY environment variable")
	ErrMissingAzureEndpoint   = errors.New("openai: missing Azure endpoint, set it in the OPENAI_API_ENDPOINT environment variable")
	ErrUnsupportedMessageType = errors.New("openai: unsupported message type")
	ErrUnsupportedContentType = errors.New("openai: unsupported content type")
)

// LLM is an OpenAI chat model client.
type LLM struct {
	client   openaisdk.Client
	model    string
	provider ProviderType
}

var _ llms.Model = (*LLM)(nil)

// New returns a new OpenAI LLM. The token is taken from the options or the
// OPENAI_API_KEY environment variable. For Azure providers the resource
// endpoint and API version are required.
func New(opts ...Option) (*LLM, error) {
	o := &options{
		token:        os.Getenv(tokenEnvVarName),
		model:        os.Getenv(modelEnvVarName),
		baseURL:      os.Getenv(baseURLEnvVarName),
		organization: os.Getenv(organizationEnvVarName),
		provider:     ProviderOpenAI,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.token == "" {
		return nil, ErrMissingToken
	}
	if o.model == "" {
		return nil, errors.New("openai: model is required")
	}

	sdkOpts := []option.RequestOption{
		option.WithAPIKey(o.token),
	}
	switch o.provider {
	case ProviderAzure, ProviderAzureAD:
		endpoint := o.azureEndpoint
		if endpoint == "" {
			endpoint = os.Getenv(azureEndpointEnvVar)
		}
		if endpoint == "" {
			return nil, ErrMissingAzureEndpoint
		}
		apiVersion := o.apiVersion
		if apiVersion == "" {
			apiVersion = os.Getenv(azureAPIVersionEnvVar)
		}
		if apiVersion == "" {
			apiVersion = DefaultAPIVersion
		}
		sdkOpts = append(sdkOpts, azure.WithEndpoint(endpoint, apiVersion))
	default:
		if o.baseURL != "" {
			sdkOpts = append(sdkOpts, option.WithBaseURL(o.baseURL))
		}
	}
	if o.organization != "" {
		sdkOpts = append(sdkOpts, option.WithOrganization(o.organization))
	}
	if o.httpClient != nil {
		sdkOpts = append(sdkOpts, option.WithHTTPClient(o.httpClient))
	}

	return &LLM{
		client:   openaisdk.NewClient(sdkOpts...),
		model:    o.model,
		provider: o.provider,
	}, nil
}

// GetName implements the Model interface.
func (o *LLM) GetName() string {
	return o.model
}

// GetProviderType implements the Model interface.
func (o *LLM) GetProviderType() llms.ProviderType {
	switch o.provider {
	case ProviderAzure:
		return llms.ProviderAzure
	case ProviderAzureAD:
		return llms.ProviderAzureAD
	default:
		return llms.ProviderOpenAI
	}
}

// GenerateContent implements the Model interface.
func (o *LLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.CallOptions{
		Model: o.model,
	}
	for _, opt := range options {
		opt(&opts)
	}

	chatMsgs, err := processMessages(messages)
	if err != nil {
		return nil, err
	}

	params := openaisdk.ChatCompletionNewParams{
		Model:    shared.ChatModel(opts.Model),
		Messages: chatMsgs,
	}
	if opts.Temperature > 0 {
		params.Temperature = openaisdk.Float(opts.Temperature)
	}
	if opts.TopP > 0 {
		params.TopP = openaisdk.Float(opts.TopP)
	}
	if opts.MaxTokens > 0 {
		params.MaxCompletionTokens = openaisdk.Int(int64(opts.MaxTokens))
	}
	if opts.Seed != 0 {
		params.Seed = openaisdk.Int(int64(opts.Seed))
	}
	if len(opts.StopWords) > 0 {
		params.Stop = openaisdk.ChatCompletionNewParamsStopUnion{
			OfStringArray: opts.StopWords,
		}
	}
	for _, tool := range opts.Tools {
		t, err := toolFromTool(tool)
		if err != nil {
			return nil, err
		}
		params.Tools = append(params.Tools, t)
	}

	result, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, errors.Wrap(err, "openai: failed to create chat completion")
	}
	if len(result.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	choices := make([]*llms.ContentChoice, len(result.Choices))
	for i, c := range result.Choices {
		choice := &llms.ContentChoice{
			Content:    c.Message.Content,
			StopReason: string(c.FinishReason),
			GenerationInfo: map[string]any{
				"PromptTokens":     result.Usage.PromptTokens,
				"CompletionTokens": result.Usage.CompletionTokens,
				"TotalTokens":      result.Usage.TotalTokens,
			},
		}
		for _, tool := range c.Message.ToolCalls {
			choice.ToolCalls = append(choice.ToolCalls, llms.ToolCall{
				ID:   tool.ID,
				Type: "function",
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

func processMessages(messages []llms.MessageContent) ([]openaisdk.ChatCompletionMessageParamUnion, error) {
	chatMsgs := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, mc := range messages {
		switch mc.Role {
		case llms.ChatMessageTypeSystem:
			chatMsgs = append(chatMsgs, openaisdk.SystemMessage(mc.GetContent()))
		case llms.ChatMessageTypeHuman, llms.ChatMessageTypeGeneric:
			chatMsgs = append(chatMsgs, openaisdk.UserMessage(mc.GetContent()))
		case llms.ChatMessageTypeAI:
			chatMsgs = append(chatMsgs, openaisdk.AssistantMessage(mc.GetContent()))
		case llms.ChatMessageTypeTool:
			if len(mc.Parts) != 1 {
				return nil, errors.Errorf("openai: expected exactly one part for role %v, got %v", mc.Role, len(mc.Parts))
			}
			resp, ok := mc.Parts[0].(llms.ToolCallResponse)
			if !ok {
				return nil, errors.WithMessagef(ErrUnsupportedContentType, "openai: %T for role %v", mc.Parts[0], mc.Role)
			}
			chatMsgs = append(chatMsgs, openaisdk.ToolMessage(resp.Content, resp.ToolCallID))
		default:
			return nil, errors.WithMessagef(ErrUnsupportedMessageType, "openai: %v", mc.Role)
		}
	}
	return chatMsgs, nil
}

func toolFromTool(t llms.Tool) (openaisdk.ChatCompletionToolUnionParam, error) {
	if t.Type != "function" || t.Function == nil {
		return openaisdk.ChatCompletionToolUnionParam{}, errors.Errorf("openai: tool type %q not supported", t.Type)
	}
	def := shared.FunctionDefinitionParam{
		Name:        t.Function.Name,
		Description: openaisdk.String(t.Function.Description),
	}
	if t.Function.Parameters != nil {
		// the SDK takes the schema as a generic map
		js, err := json.Marshal(t.Function.Parameters)
		if err != nil {
			return openaisdk.ChatCompletionToolUnionParam{}, errors.Wrap(err, "openai: failed to marshal tool parameters")
		}
		var params shared.FunctionParameters
		if err := json.Unmarshal(js, &params); err != nil {
			return openaisdk.ChatCompletionToolUnionParam{}, errors.Wrap(err, "openai: failed to convert tool parameters")
		}
		def.Parameters = params
	}
	return openaisdk.ChatCompletionFunctionTool(def), nil
}
