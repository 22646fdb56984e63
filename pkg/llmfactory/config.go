package llmfactory

import (
	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/configloader"
	"github.com/go-playground/validator/v10"
)

// Config describes the configured LLM providers.
type Config struct {
	Providers []*ProviderConfig `json:"providers" yaml:"providers" validate:"dive"`
}

// ProviderConfig describes one provider instance.
type ProviderConfig struct {
	// Name is a unique identifier of this entry.
	Name string `json:"name" yaml:"name" validate:"required"`
	// Provider is the registered provider name, e.g. "openai" or "anthropic".
	Provider string `json:"provider" yaml:"provider" validate:"required"`
	// Token overrides the token from the environment, when set.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`
	// Params are values for the provider's declared constructor
	// parameters, such as "model" and "temperature".
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
}

var validate = validator.New()

// Validate checks the configuration for unknown providers and missing fields.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.WithMessage(err, "invalid configuration")
	}
	for _, p := range c.Providers {
		if _, ok := Lookup(p.Provider); !ok {
			return errors.WithMessagef(ErrUnknownProvider, "%q in entry %q", p.Provider, p.Name)
		}
	}
	return nil
}

// LoadConfig loads and validates configuration from a file,
// expanding environment variables in values.
func LoadConfig(file string) (*Config, error) {
	cfg := new(Config)
	if file == "" {
		return cfg, nil
	}

	err := configloader.UnmarshalAndExpand(file, cfg)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
