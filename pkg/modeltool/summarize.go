package modeltool

import (
	"context"
	"strings"

	"github.com/relforge/genmodel/pkg/llms"
)

const summarizeVersion = "1.0"

const summarizeSystemPrompt = `You are an expert technical writer.
Summarize the provided text in a few short sentences.
Keep the summary factual and do not invent details.`

// Summarizer condenses a text to a short summary.
type Summarizer struct {
	*Base

	// MaxInputTokens truncates the input when positive.
	MaxInputTokens int
}

var _ Tool = (*Summarizer)(nil)

// NewSummarizer returns a summarization tool backed by the given model.
func NewSummarizer(model llms.Model) (*Summarizer, error) {
	base, err := NewBase(model)
	if err != nil {
		return nil, err
	}
	return &Summarizer{Base: base}, nil
}

func (s *Summarizer) Version() string {
	return summarizeVersion
}

func (s *Summarizer) Run(ctx context.Context, input string) (string, error) {
	input = strings.TrimSpace(input)
	if s.MaxInputTokens > 0 {
		input = s.truncate(input, s.MaxInputTokens)
	}
	out, err := s.GeneratePrompt(ctx, summarizeSystemPrompt, input)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// truncate drops tokens past the limit. Decoding positions are token
// boundaries, so the cut never splits a rune.
func (s *Summarizer) truncate(text string, maxTokens int) string {
	toks := s.tok.Encode(text)
	if len(toks) <= maxTokens {
		return text
	}
	return s.tok.Decode(toks[:maxTokens])
}
