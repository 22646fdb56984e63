package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/relforge/genmodel/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_MemoryStore(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	ids, err := s.List(ctx, "summarize")
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = s.Get(ctx, "summarize", "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	id, err := s.Save(ctx, &store.Record{
		Tool:        "summarize",
		ToolVersion: "1.0",
		Input:       "a long text",
		Output:      "a summary",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	rec, err := s.Get(ctx, "summarize", id)
	require.NoError(t, err)
	assert.Equal(t, "a summary", rec.Output)
	assert.Equal(t, "1.0", rec.ToolVersion)
	assert.False(t, rec.CreatedAt.IsZero())

	// records are isolated per tool
	_, err = s.Get(ctx, "other", id)
	assert.ErrorIs(t, err, store.ErrNotFound)

	ids, err = s.List(ctx, "summarize")
	require.NoError(t, err)
	assert.Equal(t, []string{id}, ids)

	// mutating the returned record must not affect the stored copy
	rec.Output = "changed"
	rec2, err := s.Get(ctx, "summarize", id)
	require.NoError(t, err)
	assert.Equal(t, "a summary", rec2.Output)

	err = s.Reset(ctx, "summarize")
	require.NoError(t, err)
	_, err = s.Get(ctx, "summarize", id)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func Test_MemoryStore_Cleanup(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	oldID, err := s.Save(ctx, &store.Record{
		Tool:      "summarize",
		Output:    "old",
		CreatedAt: time.Now().Add(-48 * time.Hour),
	})
	require.NoError(t, err)

	newID, err := s.Save(ctx, &store.Record{
		Tool:   "summarize",
		Output: "new",
	})
	require.NoError(t, err)

	deleted, err := s.Cleanup(ctx, "summarize", 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), deleted)

	_, err = s.Get(ctx, "summarize", oldID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Get(ctx, "summarize", newID)
	require.NoError(t, err)
}
