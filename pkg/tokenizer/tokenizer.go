// Package tokenizer wraps tiktoken for token accounting. Models with no
// registered encoding fall back to cl100k_base, so counting always works.
package tokenizer

import (
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/pkoukk/tiktoken-go"
)

var logger = xlog.NewPackageLogger("github.com/relforge/genmodel", "tokenizer")

// FallbackEncoding is used when the model name has no registered encoding.
const FallbackEncoding = "cl100k_base"

// Tokenizer maps text to a sequence of integer tokens for cost and
// length accounting.
type Tokenizer struct {
	model    string
	encoding string
	enc      *tiktoken.Tiktoken
}

var (
	mu    sync.Mutex
	cache = map[string]*Tokenizer{}
)

// ForModel returns a tokenizer for the given model name. If no encoding
// is registered for the model, the cl100k_base fallback is used and the
// fallback is logged. Instances are cached per model name.
func ForModel(model string) (*Tokenizer, error) {
	mu.Lock()
	defer mu.Unlock()

	if tk, ok := cache[model]; ok {
		return tk, nil
	}

	encName := FallbackEncoding
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		logger.KV(xlog.INFO,
			"reason", "encoding_not_found",
			"model", model,
			"fallback", FallbackEncoding)
		enc, err = tiktoken.GetEncoding(FallbackEncoding)
		if err != nil {
			return nil, errors.Wrap(err, "tokenizer: failed to load fallback encoding")
		}
	} else if name, ok := tiktoken.MODEL_TO_ENCODING[model]; ok {
		encName = name
	} else {
		for prefix, name := range tiktoken.MODEL_PREFIX_TO_ENCODING {
			if strings.HasPrefix(model, prefix) {
				encName = name
				break
			}
		}
	}

	tk := &Tokenizer{
		model:    model,
		encoding: encName,
		enc:      enc,
	}
	cache[model] = tk
	return tk, nil
}

// Model returns the model name the tokenizer was created for.
func (t *Tokenizer) Model() string {
	return t.model
}

// Encoding returns the name of the encoding in use.
func (t *Tokenizer) Encoding() string {
	return t.encoding
}

// Encode returns the token IDs for the given text.
func (t *Tokenizer) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

// Decode returns the text for the given token IDs.
func (t *Tokenizer) Decode(tokens []int) string {
	return t.enc.Decode(tokens)
}

// CountTokens returns the number of tokens in the given text.
// The result is never negative.
func (t *Tokenizer) CountTokens(text string) int {
	return len(t.Encode(text))
}
