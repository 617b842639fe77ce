package queue

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdant-labs/flora-cli/internal/model"
)

func openTestQueue(t *testing.T) *Queue {
	t.Helper()
	q, err := Open(filepath.Join(t.TempDir(), "queue.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = q.Close() })
	return q
}

func TestQueueAddFillsID(t *testing.T) {
	q := openTestQueue(t)

	added, err := q.Add(context.Background(), model.Request{Name: "tomato", Requester: "alice"})
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	assert.False(t, added.CreatedAt.IsZero())
}

func TestQueueListOrdersOldestFirst(t *testing.T) {
	q := openTestQueue(t)
	ctx := context.Background()

	for _, name := range []string{"tomato", "basil", "mint"} {
		_, err := q.Add(ctx, model.Request{Name: name})
		require.NoError(t, err)
	}

	out, err := q.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "tomato", out[0].Name)
	assert.Equal(t, "mint", out[2].Name)
}

func TestQueueListLimit(t *testing.T) {
	q := openTestQueue(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		_, err := q.Add(ctx, model.Request{Name: name})
		require.NoError(t, err)
	}

	out, err := q.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestQueueRemove(t *testing.T) {
	q := openTestQueue(t)
	ctx := context.Background()

	added, err := q.Add(ctx, model.Request{Name: "tomato"})
	require.NoError(t, err)
	require.NoError(t, q.Remove(ctx, added.ID))

	out, err := q.List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, out)
}
