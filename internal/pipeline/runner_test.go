package pipeline

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/verdant-labs/flora-cli/internal/model"
)

func TestRunBatchSequentialCounts(t *testing.T) {
	env := newTestEnv(t)

	// Both requests short-circuit as duplicates, the third fails on the
	// duplicate check itself.
	env.resolver.On("Resolve", mock.Anything, "basil").
		Return(ResolvedName{Name: "Basil"}, nil)
	env.resolver.On("Resolve", mock.Anything, "mint").
		Return(ResolvedName{Name: "Mint"}, nil)
	env.resolver.On("Resolve", mock.Anything, "sage").
		Return(ResolvedName{Name: "Sage"}, nil)

	env.store.On("FindPlantIDByName", mock.Anything, "Basil").Return("basil-id", nil)
	env.store.On("FindPlantIDByName", mock.Anything, "Mint").Return("mint-id", nil)
	env.store.On("FindPlantIDByName", mock.Anything, "Sage").Return("", eris.New("db down"))
	env.store.On("DeleteRequest", mock.Anything, mock.Anything).Return(nil)

	var order []string
	res := env.pipeline.RunBatch(context.Background(), []model.Request{
		{ID: "r1", Name: "basil"},
		{ID: "r2", Name: "mint"},
		{ID: "r3", Name: "sage"},
	}, nil, func(req model.Request, outcome Outcome) {
		order = append(order, req.Name)
	})

	assert.Equal(t, []string{"basil", "mint", "sage"}, order)
	assert.Equal(t, 3, res.Processed)
	assert.Equal(t, 2, res.Duplicates)
	assert.Equal(t, 1, res.Failed)
	assert.False(t, res.Cancelled)
}

func TestRunBatchStopsOnCancellation(t *testing.T) {
	env := newTestEnv(t)

	env.resolver.On("Resolve", mock.Anything, "basil").
		Return(ResolvedName{Name: "Basil"}, nil)
	env.store.On("FindPlantIDByName", mock.Anything, "Basil").Return("basil-id", nil)
	env.store.On("DeleteRequest", mock.Anything, mock.Anything).Return(nil)

	// The second request hits the shared cancellation signal during its
	// duplicate check.
	env.resolver.On("Resolve", mock.Anything, "mint").
		Return(ResolvedName{Name: "Mint"}, nil)
	env.store.On("FindPlantIDByName", mock.Anything, "Mint").Return("", context.Canceled)

	res := env.pipeline.RunBatch(context.Background(), []model.Request{
		{ID: "r1", Name: "basil"},
		{ID: "r2", Name: "mint"},
		{ID: "r3", Name: "sage"},
	}, nil, nil)

	// The cancelled request is never counted as failed and the third
	// request is never started.
	assert.Equal(t, 1, res.Processed)
	assert.Equal(t, 1, res.Duplicates)
	assert.Equal(t, 0, res.Failed)
	assert.True(t, res.Cancelled)
	env.resolver.AssertNotCalled(t, "Resolve", mock.Anything, "sage")
}

func TestRunBatchPreCancelled(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := env.pipeline.RunBatch(ctx, []model.Request{{ID: "r1", Name: "basil"}}, nil, nil)

	assert.Equal(t, 0, res.Processed)
	assert.True(t, res.Cancelled)
	env.resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}

func TestRunBatchEmpty(t *testing.T) {
	env := newTestEnv(t)
	res := env.pipeline.RunBatch(context.Background(), nil, nil, nil)
	assert.Equal(t, RunnerResult{}, res)
}
