package vectordb_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/relforge/genmodel/pkg/secrets"
	"github.com/relforge/genmodel/pkg/vectordb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQdrant(t *testing.T, handler http.Handler) *vectordb.Qdrant {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	q, err := vectordb.NewQdrant("reviews", secrets.Static(nil),
		vectordb.WithLocation(srv.URL),
		vectordb.WithAPIKey("test-key"),
		vectordb.WithVectorSize(4),
	)
	require.NoError(t, err)
	return q
}

func Test_NewQdrant(t *testing.T) {
	_, err := vectordb.NewQdrant("", secrets.Static(nil))
	require.Error(t, err)

	// location resolved from secrets
	q, err := vectordb.NewQdrant("reviews", secrets.Static(map[string]string{
		"QDRANT_LOCATION": "http://localhost:6333",
	}))
	require.NoError(t, err)
	require.NotNil(t, q)

	_, err = vectordb.NewQdrant("reviews", secrets.Static(nil))
	require.Error(t, err)
}

func Test_Setup(t *testing.T) {
	var gotMethod, gotPath, gotAPIKey string
	var gotBody map[string]any

	q := newQdrant(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAPIKey = r.Header.Get("api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"result":true,"status":"ok"}`))
	}))

	err := q.Setup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/collections/reviews", gotPath)
	assert.Equal(t, "test-key", gotAPIKey)

	vectors := gotBody["vectors"].(map[string]any)
	assert.Equal(t, float64(4), vectors["size"])
	assert.Equal(t, "Cosine", vectors["distance"])
}

func Test_Setup_AlreadyExists(t *testing.T) {
	q := newQdrant(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))

	// 409 means the collection exists, not a failure
	err := q.Setup(context.Background())
	require.NoError(t, err)
}

func Test_Setup_Error(t *testing.T) {
	q := newQdrant(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":{"error":"bad config"}}`))
	}))

	err := q.Setup(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create collection")
	assert.Contains(t, err.Error(), "bad config")
}

func Test_Insert(t *testing.T) {
	var gotQuery string
	var gotBody struct {
		Points []vectordb.Point `json:"points"`
	}

	q := newQdrant(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"result":{"operation_id":1,"status":"completed"},"status":"ok"}`))
	}))

	err := q.Insert(context.Background(), []vectordb.Point{
		{ID: 1, Vector: []float32{1, 0, 0, 0}, Payload: map[string]any{"comment": "nit"}},
		{ID: 2, Vector: []float32{0, 1, 0, 0}},
	})
	require.NoError(t, err)
	assert.Equal(t, "wait=true", gotQuery)
	require.Len(t, gotBody.Points, 2)
	assert.Equal(t, uint64(1), gotBody.Points[0].ID)
	assert.Equal(t, "nit", gotBody.Points[0].Payload["comment"])
}

func Test_Insert_DimensionMismatch(t *testing.T) {
	q := newQdrant(t, http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("no request expected")
	}))

	err := q.Insert(context.Background(), []vectordb.Point{
		{ID: 1, Vector: []float32{1, 0}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension mismatch")

	// empty input is a no-op
	require.NoError(t, q.Insert(context.Background(), nil))
}

func Test_Search(t *testing.T) {
	q := newQdrant(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collections/reviews/points/search", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"result": [
				{"id": 7, "score": 0.93, "payload": {"comment": "rename this"}},
				{"id": 3, "score": 0.61}
			],
			"status": "ok"
		}`))
	}))

	res, err := q.Search(context.Background(), []float32{1, 0, 0, 0}, 5)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, uint64(7), res[0].ID)
	assert.InDelta(t, 0.93, res[0].Score, 0.0001)
	assert.Equal(t, "rename this", res[0].Payload["comment"])

	_, err = q.Search(context.Background(), nil, 5)
	require.Error(t, err)
}

func Test_LargestID(t *testing.T) {
	pages := []string{
		`{"result":{"points":[{"id":1},{"id":2}],"next_page_offset":3},"status":"ok"}`,
		`{"result":{"points":[{"id":3},{"id":42}],"next_page_offset":null},"status":"ok"}`,
	}
	var call int

	q := newQdrant(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collections/reviews/points/scroll", r.URL.Path)
		require.Less(t, call, len(pages))
		_, _ = w.Write([]byte(pages[call]))
		call++
	}))

	id, err := q.LargestID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
	assert.Equal(t, 2, call)
}

func Test_LargestID_Empty(t *testing.T) {
	q := newQdrant(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"points":[],"next_page_offset":null},"status":"ok"}`))
	}))

	id, err := q.LargestID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(0), id)
}
