// Package human implements the llms.Model interface with an interactive
// stand-in: the conversation is printed to a writer and the "model"
// reply is typed in by a person. Useful for dry runs and for evaluating
// prompts without spending tokens.
package human

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/relforge/genmodel/pkg/llms"
	"github.com/relforge/genmodel/pkg/llmutils"
)

const ModelName = "human"

// maxReplyLineSize bounds a single reply line.
const maxReplyLineSize = 10 * 1024 * 1024

type options struct {
	input  io.Reader
	output io.Writer
}

// Option is a functional option for the human stand-in.
type Option func(*options)

// WithInput sets the reader the reply is read from. Defaults to os.Stdin.
func WithInput(r io.Reader) Option {
	return func(opts *options) {
		opts.input = r
	}
}

// WithOutput sets the writer the conversation is printed to. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(opts *options) {
		opts.output = w
	}
}

// LLM is a human-input chat model.
type LLM struct {
	in  *bufio.Scanner
	out io.Writer
}

var _ llms.Model = (*LLM)(nil)

// New returns a new human-input LLM.
func New(opts ...Option) (*LLM, error) {
	o := &options{
		input:  os.Stdin,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(o)
	}
	in := bufio.NewScanner(o.input)
	// pasted replies can exceed the default 64KiB line limit
	in.Buffer(make([]byte, 0, 64*1024), maxReplyLineSize)
	return &LLM{
		in:  in,
		out: o.output,
	}, nil
}

// GetName implements the Model interface.
func (o *LLM) GetName() string {
	return ModelName
}

// GetProviderType implements the Model interface.
func (o *LLM) GetProviderType() llms.ProviderType {
	return llms.ProviderHuman
}

// GenerateContent implements the Model interface. It prints the
// conversation and reads the reply line by line until an empty line
// or EOF.
func (o *LLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	llmutils.PrintMessageContents(o.out, messages)
	fmt.Fprintln(o.out, "Enter the reply, finish with an empty line:")

	var lines []string
	for o.in.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := o.in.Text()
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	if err := o.in.Err(); err != nil {
		return nil, errors.Wrap(err, "human: failed to read reply")
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{
				Content:    strings.Join(lines, "\n"),
				StopReason: "stop",
			},
		},
	}, nil
}
