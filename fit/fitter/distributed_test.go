package fitter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-pesfit/fit/preprocess"
)

func TestChunks(t *testing.T) {
	assert.Equal(t, [][2]int{{0, 3}, {3, 6}, {6, 7}}, chunks(7, 3))
	assert.Equal(t, [][2]int{{0, 1}, {1, 2}}, chunks(2, 0))
	assert.Empty(t, chunks(0, 4))
}

func TestParallelFitMatchesSequential(t *testing.T) {
	x, y, bands := synthPatch(2, 3)

	seq, err := NewPatchFitter(x, y, WithModel(gaussModel()))
	require.NoError(t, err)
	require.NoError(t, seq.SetInits(widthInits(), bands, preprocess.Range{}, 0))
	require.NoError(t, seq.SequentialFit(context.Background()))

	for _, opts := range [][]RunOption{
		{WithWorkers(3), WithChunkSize(1)},
		{WithWorkers(2)},
		{WithBackend(BackendSingles)},
	} {
		par, err := NewDistributedFitter(x, y, WithModel(gaussModel()))
		require.NoError(t, err)
		require.NoError(t, par.SetInits(widthInits(), bands, preprocess.Range{}, 0))

		done := 0
		opts = append(opts, WithProgress(func(n, total int) { done = n }))
		require.NoError(t, par.ParallelFit(context.Background(), opts...))
		assert.Equal(t, 6, done)

		require.Equal(t, seq.Table().Columns, par.Table().Columns)
		for _, col := range []string{"spec_id", "lp1_center", "lp2_center", "lp1_sigma"} {
			want, _ := seq.Table().Column(col)
			got, _ := par.Table().Column(col)
			assert.InDeltaSlice(t, want, got, 1e-12, col)
		}
	}
}

func TestParallelFitErrors(t *testing.T) {
	x, y, bands := synthPatch(1, 2)
	f, err := NewDistributedFitter(x, y, WithModel(gaussModel()))
	require.NoError(t, err)
	assert.ErrorIs(t, f.ParallelFit(context.Background()), ErrNoInits)

	require.NoError(t, f.SetInits(widthInits(), bands, preprocess.Range{}, 0))
	assert.ErrorIs(t, f.ParallelFit(context.Background(), WithBackend("dask")), ErrUnknownBackend)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, f.ParallelFit(ctx), context.Canceled)
	assert.ErrorIs(t, f.ParallelFit(ctx, WithBackend(BackendSingles)), context.Canceled)
}
