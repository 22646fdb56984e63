package vectordb

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/relforge/genmodel/pkg/secrets"
)

var logger = xlog.NewPackageLogger("github.com/relforge/genmodel", "vectordb")

// Qdrant collection defaults.
const (
	DefaultVectorSize = 3072
	DefaultDistance   = "Cosine"

	scrollPageSize = 1000
)

// Doer performs HTTP requests.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type qdrantOptions struct {
	location   string
	apiKey     string
	vectorSize int
	distance   string
	httpClient Doer
}

// QdrantOption configures the Qdrant client.
type QdrantOption func(*qdrantOptions)

// WithLocation sets the Qdrant base URL.
func WithLocation(location string) QdrantOption {
	return func(o *qdrantOptions) {
		o.location = location
	}
}

// WithAPIKey sets the api-key header value.
func WithAPIKey(apiKey string) QdrantOption {
	return func(o *qdrantOptions) {
		o.apiKey = apiKey
	}
}

// WithVectorSize overrides the collection vector dimension.
func WithVectorSize(size int) QdrantOption {
	return func(o *qdrantOptions) {
		o.vectorSize = size
	}
}

// WithDistance overrides the collection distance metric.
func WithDistance(distance string) QdrantOption {
	return func(o *qdrantOptions) {
		o.distance = distance
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(client Doer) QdrantOption {
	return func(o *qdrantOptions) {
		o.httpClient = client
	}
}

// Qdrant implements VectorDB over the Qdrant REST API.
type Qdrant struct {
	collection string
	baseURL    string
	apiKey     string
	vectorSize int
	distance   string
	httpClient Doer
}

var _ VectorDB = (*Qdrant)(nil)

// NewQdrant returns a Qdrant client for the given collection. The
// location and API key are taken from the options or from the
// QDRANT_LOCATION and QDRANT_API_KEY secrets.
func NewQdrant(collection string, sec secrets.Provider, opts ...QdrantOption) (*Qdrant, error) {
	if collection == "" {
		return nil, errors.New("collection name is required")
	}
	if sec == nil {
		sec = secrets.Env("")
	}

	o := &qdrantOptions{
		vectorSize: DefaultVectorSize,
		distance:   DefaultDistance,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.location == "" {
		loc, err := sec.GetSecret("QDRANT_LOCATION")
		if err != nil {
			return nil, err
		}
		o.location = loc
	}
	if o.apiKey == "" {
		// optional for unauthenticated deployments
		o.apiKey, _ = sec.GetSecret("QDRANT_API_KEY")
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Qdrant{
		collection: collection,
		baseURL:    o.location,
		apiKey:     o.apiKey,
		vectorSize: o.vectorSize,
		distance:   o.distance,
		httpClient: o.httpClient,
	}, nil
}

// Setup creates the collection. A 409 response means the collection
// already exists and is not an error.
func (q *Qdrant) Setup(ctx context.Context) error {
	body := map[string]any{
		"vectors": map[string]any{
			"size":     q.vectorSize,
			"distance": q.distance,
		},
	}

	resp, err := q.do(ctx, http.MethodPut, q.collectionPath(""), body)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusConflict {
		logger.KV(xlog.DEBUG, "collection", q.collection, "status", "already_exists")
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return responseError(resp, "failed to create collection")
	}
	return nil
}

// Insert upserts the points, waiting for the operation to complete.
func (q *Qdrant) Insert(ctx context.Context, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	for i, p := range points {
		if len(p.Vector) != q.vectorSize {
			return errors.Errorf("point %d: vector dimension mismatch: got %d, want %d",
				i, len(p.Vector), q.vectorSize)
		}
	}

	body := map[string]any{
		"points": points,
	}
	var out struct {
		Status string `json:"status"`
	}
	err := q.doJSON(ctx, http.MethodPut, q.collectionPath("/points?wait=true"), body, &out)
	if err != nil {
		return err
	}

	logger.KV(xlog.DEBUG, "collection", q.collection, "inserted", len(points))
	return nil
}

// Search returns up to limit stored points ordered by descending score.
func (q *Qdrant) Search(ctx context.Context, query []float32, limit int) ([]PayloadScore, error) {
	if len(query) == 0 {
		return nil, errors.New("query vector is required")
	}
	if limit <= 0 {
		limit = 10
	}

	body := map[string]any{
		"vector":       query,
		"limit":        limit,
		"with_payload": true,
		"with_vector":  false,
	}
	var out struct {
		Result []PayloadScore `json:"result"`
	}
	err := q.doJSON(ctx, http.MethodPost, q.collectionPath("/points/search"), body, &out)
	if err != nil {
		return nil, err
	}
	return out.Result, nil
}

// LargestID scrolls the whole collection and returns the largest point
// ID seen, or 0 when the collection is empty. Scroll pages are ordered
// by ID, so the last point of the last page is the largest.
func (q *Qdrant) LargestID(ctx context.Context) (uint64, error) {
	var largest uint64
	var offset *uint64

	for {
		body := map[string]any{
			"limit":        scrollPageSize,
			"with_payload": false,
			"with_vector":  false,
		}
		if offset != nil {
			body["offset"] = *offset
		}

		var out struct {
			Result struct {
				Points []struct {
					ID uint64 `json:"id"`
				} `json:"points"`
				NextPageOffset *uint64 `json:"next_page_offset"`
			} `json:"result"`
		}
		err := q.doJSON(ctx, http.MethodPost, q.collectionPath("/points/scroll"), body, &out)
		if err != nil {
			return 0, err
		}

		if n := len(out.Result.Points); n > 0 {
			largest = out.Result.Points[n-1].ID
		}
		if out.Result.NextPageOffset == nil {
			return largest, nil
		}
		offset = out.Result.NextPageOffset
	}
}

func (q *Qdrant) collectionPath(suffix string) string {
	return "/collections/" + url.PathEscape(q.collection) + suffix
}

func (q *Qdrant) do(ctx context.Context, method, path string, in any) (*http.Response, error) {
	var body io.Reader
	if in != nil {
		bs, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(bs)
	}

	req, err := http.NewRequestWithContext(ctx, method, q.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if q.apiKey != "" {
		req.Header.Set("api-key", q.apiKey)
	}
	return q.httpClient.Do(req)
}

func (q *Qdrant) doJSON(ctx context.Context, method, path string, in, out any) error {
	resp, err := q.do(ctx, method, path, in)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return responseError(resp, "qdrant request failed")
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func responseError(resp *http.Response, msg string) error {
	raw, _ := io.ReadAll(resp.Body)
	return errors.Errorf("%s: status %d: %s", msg, resp.StatusCode, string(raw))
}
