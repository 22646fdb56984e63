package mistral

import (
	"github.com/relforge/genmodel/pkg/llms/mistral/internal/mistralclient"
)

const (
	tokenEnvVarName   = "MISTRAL_API_KEY"  //nolint:gosec
	modelEnvVarName   = "MISTRAL_MODEL"    //nolint:gosec
	baseURLEnvVarName = "MISTRAL_BASE_URL" //nolint:gosec
)

type options struct {
	token      string
	model      string
	baseURL    string
	httpClient mistralclient.Doer
}

// Option is a functional option for the Mistral client.
type Option func(*options)

// WithToken passes the Mistral API token to the client. If not set, the token
// is read from the MISTRAL_API_KEY environment variable.
func WithToken(token string) Option {
	return func(opts *options) {
		opts.token = token
	}
}

// WithModel passes the Mistral model to the client. If not set, the model
// is read from the MISTRAL_MODEL environment variable.
func WithModel(model string) Option {
	return func(opts *options) {
		opts.model = model
	}
}

// WithBaseURL passes the Mistral base url to the client. If not set, the
// default https://api.mistral.ai/v1 is used.
func WithBaseURL(baseURL string) Option {
	return func(opts *options) {
		opts.baseURL = baseURL
	}
}

// WithHTTPClient allows setting a custom HTTP client.
func WithHTTPClient(client mistralclient.Doer) Option {
	return func(opts *options) {
		opts.httpClient = client
	}
}
