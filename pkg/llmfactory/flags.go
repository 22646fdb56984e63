package llmfactory

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/relforge/genmodel/pkg/llms"
	"github.com/relforge/genmodel/pkg/secrets"
	"github.com/spf13/pflag"
)

// Flags holds flag bindings for provider selection and parameters.
// Register the flags before parsing, then call Create after.
type Flags struct {
	provider *string
	params   map[string]map[string]*string
}

// RegisterFlags adds the --llm flag and one --<provider>-<param> flag
// per declared parameter of every registered provider.
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{
		params: make(map[string]map[string]*string),
	}
	f.provider = fs.String("llm", "", fmt.Sprintf("LLM provider to use, one of: %v", Providers()))

	for _, entry := range registry {
		vals := make(map[string]*string, len(entry.Params))
		for _, p := range entry.Params {
			name := entry.Name + "-" + p.Name
			vals[p.Name] = fs.String(name, p.Default, p.Usage)
		}
		f.params[entry.Name] = vals
	}
	return f
}

// Provider returns the value of the --llm flag.
func (f *Flags) Provider() string {
	return *f.provider
}

// Values returns the bound parameter values for the given provider.
func (f *Flags) Values(provider string) Values {
	vals := Values{}
	for name, v := range f.params[provider] {
		if *v != "" {
			vals[name] = *v
		}
	}
	return vals
}

// Create instantiates the provider selected by the --llm flag,
// resolving tokens from the environment.
func (f *Flags) Create() (llms.Model, error) {
	return f.CreateWithSecrets(secrets.Env(""))
}

// CreateWithSecrets instantiates the selected provider with an
// explicit secret source.
func (f *Flags) CreateWithSecrets(sec secrets.Provider) (llms.Model, error) {
	provider := f.Provider()
	if provider == "" {
		return nil, errors.New("no LLM provider selected, use --llm")
	}
	return Create(provider, f.Values(provider), sec)
}
