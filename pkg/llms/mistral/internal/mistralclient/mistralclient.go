// Package mistralclient is a minimal client for the Mistral chat
// completions API, which follows the OpenAI wire format.
package mistralclient

import (
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	DefaultBaseURL = "https://api.mistral.ai/v1"
)

// ErrEmptyResponse is returned when the Mistral API returns an empty response.
var ErrEmptyResponse = errors.New("empty response")

// Doer performs a HTTP request.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a client for the Mistral API.
type Client struct {
	Model string

	token      string
	baseURL    string
	httpClient Doer
}

// New returns a new Mistral client.
func New(model, token, baseURL string, httpClient Doer) (*Client, error) {
	if token == "" {
		return nil, errors.New("token is required")
	}
	c := &Client{
		Model:      model,
		token:      token,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}
	return c, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
}

func (c *Client) buildURL(suffix string) string {
	return c.baseURL + suffix
}

type errorMessage struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}
