// Package llmfactory instantiates LLM clients from a static provider
// registry, a configuration file, or command line flags.
package llmfactory

import (
	"context"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/relforge/genmodel/pkg/llms"
	"github.com/relforge/genmodel/pkg/llms/anthropic"
	"github.com/relforge/genmodel/pkg/llms/human"
	"github.com/relforge/genmodel/pkg/llms/mistral"
	"github.com/relforge/genmodel/pkg/llms/openai"
	"github.com/relforge/genmodel/pkg/secrets"
)

// ErrUnknownProvider is returned when a provider name is not registered.
var ErrUnknownProvider = errors.New("unknown LLM provider")

// Default constructor parameter values.
const (
	DefaultTemperature    = 0.2
	DefaultOpenAIModel    = "gpt-4o-2024-05-13"
	DefaultAnthropicModel = "claude-3-5-sonnet-20240620"
	DefaultMistralModel   = "mistral-large-latest"
)

// Param describes one constructor parameter of a registered provider.
type Param struct {
	// Name of the parameter, e.g. "temperature".
	Name string
	// Usage is a one-line description, used for CLI flag help.
	Usage string
	// Default is the default value, rendered as a string. Empty means
	// the parameter has no default.
	Default string
}

// Values holds bound parameter values by parameter name.
type Values map[string]string

// Get returns the value for the named parameter, or its default.
func (v Values) Get(name, defaultValue string) string {
	if val := v[name]; val != "" {
		return val
	}
	return defaultValue
}

// Constructor creates a provider client from bound parameter values and
// a secret source.
type Constructor func(vals Values, sec secrets.Provider) (llms.Model, error)

// ProviderEntry is one row of the provider registry.
type ProviderEntry struct {
	// Name is the provider identifier used in configs and the --llm flag.
	Name string
	// Params are the declared constructor parameters.
	Params []Param
	// New is the constructor closure.
	New Constructor
}

var temperatureParam = Param{
	Name:    "temperature",
	Usage:   "sampling temperature",
	Default: strconv.FormatFloat(DefaultTemperature, 'f', -1, 64),
}

// registry is the explicit static table of providers. Order matters:
// it is the order parameters are rendered in CLI help and listings.
var registry = []ProviderEntry{
	{
		Name: "human",
		New:  newHumanLLM,
	},
	{
		Name: "openai",
		Params: []Param{
			{Name: "model", Usage: "model name", Default: DefaultOpenAIModel},
			temperatureParam,
		},
		New: newOpenAILLM,
	},
	{
		Name: "azureopenai",
		Params: []Param{
			{Name: "model", Usage: "deployment name"},
			{Name: "api-version", Usage: "Azure OpenAI API version"},
			temperatureParam,
		},
		New: newAzureOpenAILLM,
	},
	{
		Name: "anthropic",
		Params: []Param{
			{Name: "model", Usage: "model name", Default: DefaultAnthropicModel},
			temperatureParam,
		},
		New: newAnthropicLLM,
	},
	{
		Name: "mistral",
		Params: []Param{
			{Name: "model", Usage: "model name", Default: DefaultMistralModel},
			temperatureParam,
		},
		New: newMistralLLM,
	},
}

// Providers returns the registered provider names, in registry order.
func Providers() []string {
	names := make([]string, len(registry))
	for i, entry := range registry {
		names[i] = entry.Name
	}
	return names
}

// Lookup returns the registry entry for the given provider name.
func Lookup(name string) (*ProviderEntry, bool) {
	for i := range registry {
		if registry[i].Name == name {
			return &registry[i], true
		}
	}
	return nil, false
}

// Create instantiates the named provider with the given parameter values.
// Unknown provider names return ErrUnknownProvider.
func Create(name string, vals Values, sec secrets.Provider) (llms.Model, error) {
	entry, ok := Lookup(name)
	if !ok {
		return nil, errors.WithMessagef(ErrUnknownProvider, "%q", name)
	}
	if vals == nil {
		vals = Values{}
	}
	if sec == nil {
		sec = secrets.Env("")
	}
	return entry.New(vals, sec)
}

func newHumanLLM(_ Values, _ secrets.Provider) (llms.Model, error) {
	return human.New()
}

func newOpenAILLM(vals Values, sec secrets.Provider) (llms.Model, error) {
	token, err := sec.GetSecret("OPENAI_API_KEY")
	if err != nil {
		return nil, err
	}
	model, err := openai.New(
		openai.WithToken(token),
		openai.WithModel(vals.Get("model", DefaultOpenAIModel)),
	)
	if err != nil {
		return nil, err
	}
	return withTemperature(model, vals)
}

func newAzureOpenAILLM(vals Values, sec secrets.Provider) (llms.Model, error) {
	token, err := sec.GetSecret("OPENAI_API_KEY")
	if err != nil {
		return nil, err
	}
	endpoint, err := sec.GetSecret("OPENAI_API_ENDPOINT")
	if err != nil {
		return nil, err
	}

	deployment := vals["model"]
	if deployment == "" {
		deployment, err = sec.GetSecret("OPENAI_API_DEPLOY")
		if err != nil {
			return nil, err
		}
	}
	apiVersion := vals["api-version"]
	if apiVersion == "" {
		// optional, openai.New falls back to its default
		apiVersion, _ = sec.GetSecret("OPENAI_API_VERSION")
	}

	model, err := openai.New(
		openai.WithToken(token),
		openai.WithModel(deployment),
		openai.WithProvider(openai.ProviderAzure),
		openai.WithAzureEndpoint(endpoint),
		openai.WithAPIVersion(apiVersion),
	)
	if err != nil {
		return nil, err
	}
	return withTemperature(model, vals)
}

func newAnthropicLLM(vals Values, sec secrets.Provider) (llms.Model, error) {
	token, err := sec.GetSecret("ANTHROPIC_API_KEY")
	if err != nil {
		return nil, err
	}
	model, err := anthropic.New(
		anthropic.WithToken(token),
		anthropic.WithModel(vals.Get("model", DefaultAnthropicModel)),
	)
	if err != nil {
		return nil, err
	}
	return withTemperature(model, vals)
}

func newMistralLLM(vals Values, sec secrets.Provider) (llms.Model, error) {
	token, err := sec.GetSecret("MISTRAL_API_KEY")
	if err != nil {
		return nil, err
	}
	model, err := mistral.New(
		mistral.WithToken(token),
		mistral.WithModel(vals.Get("model", DefaultMistralModel)),
	)
	if err != nil {
		return nil, err
	}
	return withTemperature(model, vals)
}

// defaultsModel injects default call options ahead of the caller's.
type defaultsModel struct {
	llms.Model
	opts []llms.CallOption
}

func (m defaultsModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	merged := make([]llms.CallOption, 0, len(m.opts)+len(options))
	merged = append(merged, m.opts...)
	merged = append(merged, options...)
	return m.Model.GenerateContent(ctx, messages, merged...)
}

func withTemperature(model llms.Model, vals Values) (llms.Model, error) {
	raw := vals.Get("temperature", strconv.FormatFloat(DefaultTemperature, 'f', -1, 64))
	temperature, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid temperature: %q", raw)
	}
	if temperature == 0 {
		return model, nil
	}
	return defaultsModel{
		Model: model,
		opts:  []llms.CallOption{llms.WithTemperature(temperature)},
	}, nil
}
