// Command genmodel runs a model-backed tool against an input, with the
// LLM provider selected from the command line.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/redis/go-redis/v9"
	"github.com/relforge/genmodel/pkg/llmfactory"
	"github.com/relforge/genmodel/pkg/llms"
	"github.com/relforge/genmodel/pkg/modeltool"
	"github.com/relforge/genmodel/pkg/store"
	"github.com/spf13/pflag"
)

func main() {
	err := realMain(os.Args[1:], os.Stdin, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "genmodel: %v\n", err)
		os.Exit(1)
	}
}

func realMain(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := pflag.NewFlagSet("genmodel", pflag.ContinueOnError)

	listLLMs := fs.Bool("list-llms", false, "list the available LLM providers and exit")
	configFile := fs.String("config", "", "LLM providers configuration file")
	inputFile := fs.String("input", "-", "input file, - for stdin")
	redisAddr := fs.String("redis", "", "Redis address to persist results, e.g. localhost:6379")
	verbose := fs.BoolP("verbose", "v", false, "enable debug logging")

	llmFlags := llmfactory.RegisterFlags(fs)

	err := fs.Parse(args)
	if err != nil {
		return err
	}

	xlog.SetFormatter(xlog.NewStringFormatter(os.Stderr))
	if *verbose {
		xlog.SetGlobalLogLevel(xlog.DEBUG)
	} else {
		xlog.SetGlobalLogLevel(xlog.WARNING)
	}

	if *listLLMs {
		for _, name := range llmfactory.Providers() {
			fmt.Fprintln(stdout, name)
		}
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	model, err := selectModel(llmFlags, *configFile)
	if err != nil {
		return err
	}

	input, err := readInput(*inputFile, stdin)
	if err != nil {
		return err
	}

	tool, err := modeltool.NewSummarizer(model)
	if err != nil {
		return err
	}

	output, err := tool.Run(ctx, input)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, output)

	if *redisAddr != "" {
		return saveResult(ctx, *redisAddr, tool, model, input, output)
	}
	return nil
}

// selectModel prefers the --llm flag, falling back to the first entry
// of the configuration file.
func selectModel(llmFlags *llmfactory.Flags, configFile string) (llms.Model, error) {
	if llmFlags.Provider() != "" {
		return llmFlags.Create()
	}
	if configFile != "" {
		f, err := llmfactory.Load(configFile)
		if err != nil {
			return nil, err
		}
		return f.DefaultModel()
	}
	return nil, errors.New("no LLM provider selected, use --llm or --config")
}

func readInput(file string, stdin io.Reader) (string, error) {
	if file == "-" {
		bs, err := io.ReadAll(stdin)
		if err != nil {
			return "", errors.Wrap(err, "failed to read stdin")
		}
		return string(bs), nil
	}
	bs, err := os.ReadFile(file)
	if err != nil {
		return "", errors.Wrap(err, "failed to read input")
	}
	return string(bs), nil
}

func saveResult(ctx context.Context, redisAddr string, tool *modeltool.Summarizer, model llms.Model, input, output string) error {
	client := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer func() { _ = client.Close() }()

	s := store.NewRedisStore(client, "/genmodel")
	_, err := s.Save(ctx, &store.Record{
		Tool:        "summarize",
		ToolVersion: tool.Version(),
		Input:       input,
		Output:      output,
		Model:       model.GetName(),
		Metadata: map[string]any{
			"input_tokens":  tool.CountTokens(input),
			"output_tokens": tool.CountTokens(output),
		},
	})
	return err
}
