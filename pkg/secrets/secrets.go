// Package secrets resolves named secrets such as API keys and endpoints.
// The default provider reads the process environment; tests and callers
// with a real secret store can supply their own implementation.
package secrets

import (
	"os"

	"github.com/cockroachdb/errors"
)

// ErrNotFound is returned when a secret is not present in the provider.
var ErrNotFound = errors.New("secret not found")

// Provider resolves secrets by name.
type Provider interface {
	// GetSecret returns the value of the named secret, or ErrNotFound.
	GetSecret(name string) (string, error)
}

type envProvider struct {
	prefix string
}

// Env returns a Provider backed by the process environment. An optional
// prefix is prepended to every lookup, e.g. Env("REVIEWBOT_") resolves
// "OPENAI_API_KEY" from REVIEWBOT_OPENAI_API_KEY.
func Env(prefix string) Provider {
	return envProvider{prefix: prefix}
}

func (p envProvider) GetSecret(name string) (string, error) {
	val, ok := os.LookupEnv(p.prefix + name)
	if !ok || val == "" {
		return "", errors.WithMessagef(ErrNotFound, "%s%s", p.prefix, name)
	}
	return val, nil
}

// Static returns a Provider backed by a fixed map. Intended for tests.
func Static(values map[string]string) Provider {
	return staticProvider(values)
}

type staticProvider map[string]string

func (p staticProvider) GetSecret(name string) (string, error) {
	val, ok := p[name]
	if !ok {
		return "", errors.WithMessagef(ErrNotFound, "%s", name)
	}
	return val, nil
}
