package llmfactory

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/relforge/genmodel/pkg/llms"
	"github.com/relforge/genmodel/pkg/secrets"
)

var logger = xlog.NewPackageLogger("github.com/relforge/genmodel", "llmfactory")

// Factory creates and caches LLM clients from configuration.
type Factory interface {
	// DefaultModel returns the model for the first configured entry.
	DefaultModel() (llms.Model, error)
	// ModelByName returns the model for the named config entry.
	ModelByName(name string) (llms.Model, error)
	// ModelByProvider returns the model for the first entry using the
	// given registered provider.
	ModelByProvider(provider string) (llms.Model, error)
}

// Load returns a factory from a configuration file.
func Load(location string) (Factory, error) {
	cfg, err := LoadConfig(location)
	if err != nil {
		return nil, err
	}
	return New(cfg), nil
}

type factory struct {
	cfg     *Config
	secrets secrets.Provider

	byName     map[string]llms.Model
	byProvider map[string]llms.Model
	lock       sync.Mutex
}

// New creates a factory for the given configuration,
// resolving tokens from the environment.
func New(cfg *Config) Factory {
	return NewWithSecrets(cfg, secrets.Env(""))
}

// NewWithSecrets creates a factory with an explicit secret source.
func NewWithSecrets(cfg *Config, sec secrets.Provider) Factory {
	return &factory{
		cfg:        cfg,
		secrets:    sec,
		byName:     make(map[string]llms.Model),
		byProvider: make(map[string]llms.Model),
	}
}

// NewLLM creates a model from a provider config entry.
// It is a variable to allow tests to substitute a fake.
var NewLLM = CreateLLM

// CreateLLM creates a model from a provider config entry.
func CreateLLM(cfg *ProviderConfig, sec secrets.Provider) (llms.Model, error) {
	vals := Values{}
	for k, v := range cfg.Params {
		vals[k] = v
	}
	if cfg.Token != "" {
		sec = tokenOverride{Provider: sec, token: cfg.Token}
	}
	return Create(cfg.Provider, vals, sec)
}

// tokenOverride serves the configured token for any *_API_KEY lookup.
type tokenOverride struct {
	secrets.Provider
	token string
}

func (s tokenOverride) GetSecret(name string) (string, error) {
	if name == "OPENAI_API_KEY" || name == "ANTHROPIC_API_KEY" || name == "MISTRAL_API_KEY" {
		return s.token, nil
	}
	return s.Provider.GetSecret(name)
}

func (f *factory) DefaultModel() (llms.Model, error) {
	if len(f.cfg.Providers) == 0 {
		return nil, errors.New("no providers configured")
	}
	return f.ModelByName(f.cfg.Providers[0].Name)
}

func (f *factory) ModelByName(name string) (llms.Model, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if client, ok := f.byName[name]; ok {
		return client, nil
	}

	for _, cfg := range f.cfg.Providers {
		if cfg.Name == name {
			model, err := NewLLM(cfg, f.secrets)
			if err != nil {
				return nil, err
			}

			logger.KV(xlog.DEBUG,
				"status", "created_llm",
				"provider", cfg.Provider,
				"name", cfg.Name)

			f.byName[name] = model
			return model, nil
		}
	}
	return nil, errors.Errorf("provider not found for name: %s", name)
}

func (f *factory) ModelByProvider(provider string) (llms.Model, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if client, ok := f.byProvider[provider]; ok {
		return client, nil
	}

	for _, cfg := range f.cfg.Providers {
		if cfg.Provider == provider {
			model, err := NewLLM(cfg, f.secrets)
			if err != nil {
				return nil, err
			}

			logger.KV(xlog.DEBUG,
				"status", "created_llm",
				"provider", cfg.Provider,
				"name", cfg.Name)

			f.byProvider[provider] = model
			return model, nil
		}
	}
	return nil, errors.Errorf("provider not found: %s", provider)
}
