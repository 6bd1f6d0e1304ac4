package remote

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/courtnote/pkg/types"
)

func TestMemoryClient_CreateFetch(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryClient(StaticUser("u1"))

	mine := &types.Group{Base: base("g1"), Title: "Serve"}
	theirs := &types.Group{Base: base("g2"), Title: "Volley"}
	theirs.UserID = "u2"
	require.NoError(t, c.CreateOrReplace(ctx, mine))
	require.NoError(t, c.CreateOrReplace(ctx, theirs))

	doc, ok := c.Document(types.KindGroup, "u1_g1")
	require.True(t, ok)
	assert.Equal(t, "Serve", doc["title"])
	assert.Equal(t, 2, c.Len(types.KindGroup))

	got, err := c.FetchAll(ctx, types.KindGroup)
	require.NoError(t, err)
	assert.Equal(t, []types.Entity{mine}, got)

	mine.Title = "Serve 2"
	require.NoError(t, c.CreateOrReplace(ctx, mine))
	got, err = c.FetchAll(ctx, types.KindGroup)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Serve 2", got[0].(*types.Group).Title)
}

func TestMemoryClient_Patch(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryClient(StaticUser("u1"))
	task := &types.Task{Base: base("t1"), GroupID: "g1", Title: "toss", Cause: "wind"}
	require.NoError(t, c.CreateOrReplace(ctx, task))

	edited := *task
	edited.Title = "lower toss"
	edited.Cause = "nerves"
	edited.UpdatedAt = t0.Add(time.Hour)
	require.NoError(t, c.Patch(ctx, &edited, []string{"title"}))

	doc, _ := c.Document(types.KindTask, "u1_t1")
	assert.Equal(t, "lower toss", doc["title"])
	assert.Equal(t, "wind", doc["cause"], "unnamed fields are untouched")
	assert.Equal(t, t0.Add(time.Hour), doc[FieldUpdatedAt])

	require.NoError(t, c.Patch(ctx, &edited, nil))
	doc, _ = c.Document(types.KindTask, "u1_t1")
	assert.Equal(t, "nerves", doc["cause"])

	missing := &types.Task{Base: base("t9")}
	assert.True(t, IsNotFound(c.Patch(ctx, missing, nil)))
}

func TestMemoryClient_Faults(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryClient(StaticUser("u1"))
	c.FailOn(OpFetchAll, types.KindNote, CodeQuotaExceeded)

	_, err := c.FetchAll(ctx, types.KindNote)
	assert.Equal(t, CodeQuotaExceeded, CodeOf(err))

	_, err = c.FetchAll(ctx, types.KindGroup)
	assert.NoError(t, err, "other kinds are unaffected")
	assert.Equal(t, 2, c.Calls(OpFetchAll))

	c.ClearFaults()
	_, err = c.FetchAll(ctx, types.KindNote)
	assert.NoError(t, err)
}

func TestMemoryClient_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewMemoryClient(StaticUser("u1"))

	err := c.CreateOrReplace(ctx, &types.Group{Base: base("g1")})
	assert.Equal(t, CodeCanceled, CodeOf(err))
	assert.Equal(t, 0, c.Len(types.KindGroup))
}

func TestMemoryClient_Concurrent(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryClient(StaticUser("u1"))

	var wg sync.WaitGroup
	for _, kind := range types.Kinds {
		wg.Add(1)
		go func(kind types.Kind) {
			defer wg.Done()
			_, err := c.FetchAll(ctx, kind)
			assert.NoError(t, err)
			assert.NoError(t, c.CreateOrReplace(ctx, &types.Group{Base: base(string(kind))}))
		}(kind)
	}
	wg.Wait()
	assert.Equal(t, len(types.Kinds), c.Len(types.KindGroup))
}
