// Package llms defines the model abstraction shared by all providers:
// chat messages, call options, and the Model interface implemented by
// the OpenAI, Azure, Anthropic, Mistral and human-input clients.
package llms

import (
	"context"
)

// ProviderType is the type of provider.
type ProviderType string

const (
	// ProviderOpenAI is the OpenAI chat completions API.
	ProviderOpenAI ProviderType = "OPENAI"
	// ProviderAzure is the Azure OpenAI service.
	ProviderAzure ProviderType = "AZURE"
	// ProviderAzureAD is the Azure OpenAI service with AD authentication.
	ProviderAzureAD ProviderType = "AZURE_AD"
	// ProviderAnthropic is the Anthropic messages API.
	ProviderAnthropic ProviderType = "ANTHROPIC"
	// ProviderMistral is the Mistral chat completions API.
	ProviderMistral ProviderType = "MISTRAL"
	// ProviderHuman is the interactive human-input stand-in.
	ProviderHuman ProviderType = "HUMAN"
)

// Model is an interface chat models implement.
type Model interface {
	// GetName returns the configured model name, e.g. "gpt-4o-2024-05-13".
	GetName() string
	// GetProviderType returns the type of provider.
	GetProviderType() ProviderType
	// GenerateContent asks the model to generate content from a sequence of
	// messages. It's the most general interface for chat-like interactions.
	GenerateContent(ctx context.Context, messages []MessageContent, options ...CallOption) (*ContentResponse, error)
}

// Capability is a bitmask indicating supported features of an LLM provider.
type Capability uint64

const (
	// Basic text or chat generation
	CapabilityText Capability = 1 << iota

	// Structured response formats
	CapabilityJSONResponse

	// Function/tool calling
	CapabilityFunctionCalling
	CapabilityMultiToolCalling

	// Multimodal inputs
	CapabilityVision

	// System prompt support
	CapabilitySystemPrompt

	// Streaming responses
	CapabilityStreaming
)

var providerCapabilities = map[ProviderType]Capability{
	ProviderOpenAI: CapabilityText |
		CapabilityJSONResponse |
		CapabilityFunctionCalling |
		CapabilityMultiToolCalling |
		CapabilitySystemPrompt |
		CapabilityVision,

	ProviderAzure: CapabilityText |
		CapabilityJSONResponse |
		CapabilityFunctionCalling |
		CapabilityMultiToolCalling |
		CapabilitySystemPrompt,

	ProviderAzureAD: CapabilityText | CapabilitySystemPrompt,

	ProviderAnthropic: CapabilityText |
		CapabilityFunctionCalling |
		CapabilityMultiToolCalling |
		CapabilitySystemPrompt |
		CapabilityVision |
		CapabilityStreaming,

	ProviderMistral: CapabilityText |
		CapabilityJSONResponse |
		CapabilityFunctionCalling |
		CapabilitySystemPrompt,

	// The human stand-in types whatever it wants.
	ProviderHuman: CapabilityText | CapabilitySystemPrompt,
}

// ProviderCapabilities returns the capability set of a provider.
func ProviderCapabilities(pt ProviderType) Capability {
	return providerCapabilities[pt]
}

// Supports reports whether the provider supports the given capability.
func (p ProviderType) Supports(cap Capability) bool {
	return ProviderCapabilities(p)&cap != 0
}
