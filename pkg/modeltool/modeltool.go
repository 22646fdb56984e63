// Package modeltool provides the base for tools built on top of a
// generative model: prompt execution and token accounting.
package modeltool

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/relforge/genmodel/pkg/llms"
	"github.com/relforge/genmodel/pkg/tokenizer"
)

var logger = xlog.NewPackageLogger("github.com/relforge/genmodel", "modeltool")

// ErrEmptyCompletion is returned when the model produced no choices.
var ErrEmptyCompletion = errors.New("model returned an empty completion")

// Tool is a task built on top of a generative model.
type Tool interface {
	// Version returns the tool version, recorded alongside results so
	// they can be invalidated when the tool changes.
	Version() string
	// Run executes the tool on the given input and returns its output.
	Run(ctx context.Context, input string) (string, error)
}

// Base carries the model and tokenizer shared by model-backed tools.
// Embed it in a concrete tool.
type Base struct {
	model llms.Model
	tok   *tokenizer.Tokenizer
}

// NewBase returns a Base for the given model. The tokenizer is selected
// by model name, with a fallback encoding for unknown models.
func NewBase(model llms.Model) (*Base, error) {
	if model == nil {
		return nil, errors.New("model is required")
	}
	tok, err := tokenizer.ForModel(model.GetName())
	if err != nil {
		return nil, err
	}
	return &Base{model: model, tok: tok}, nil
}

// Model returns the underlying model.
func (b *Base) Model() llms.Model {
	return b.model
}

// CountTokens returns the number of tokens in the text, using the
// tokenizer for the tool's model.
func (b *Base) CountTokens(text string) int {
	return b.tok.CountTokens(text)
}

// Generate sends the messages to the model and returns the text of the
// first choice.
func (b *Base) Generate(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (string, error) {
	resp, err := b.model.GenerateContent(ctx, messages, options...)
	if err != nil {
		return "", errors.WithMessagef(err, "model %q", b.model.GetName())
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	choice := resp.Choices[0]
	logger.KV(xlog.DEBUG,
		"model", b.model.GetName(),
		"stop_reason", choice.StopReason,
		"tokens", b.tok.CountTokens(choice.Content),
	)
	return choice.Content, nil
}

// GeneratePrompt is a convenience for the common system+user exchange.
func (b *Base) GeneratePrompt(ctx context.Context, system, user string, options ...llms.CallOption) (string, error) {
	msgs := []llms.MessageContent{
		llms.TextFromParts(llms.ChatMessageTypeSystem, system),
		llms.TextFromParts(llms.ChatMessageTypeHuman, user),
	}
	return b.Generate(ctx, msgs, options...)
}
