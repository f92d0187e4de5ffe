package fitter

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-pesfit/dataio"
)

// DistributedFitter fits the spectra of a patch concurrently.
type DistributedFitter struct {
	patch
}

// NewDistributedFitter prepares a parallel fitter; arguments are as for
// NewPatchFitter.
func NewDistributedFitter(x []float64, y dataio.Array, opts ...FitOption) (*DistributedFitter, error) {
	p, err := newPatch(x, y, opts)
	if err != nil {
		return nil, err
	}
	return &DistributedFitter{patch: p}, nil
}

// chunks splits 0 … n−1 into consecutive runs of at most size indices.
func chunks(n, size int) [][2]int {
	if size < 1 {
		size = 1
	}
	var out [][2]int
	for lo := 0; lo < n; lo += size {
		out = append(out, [2]int{lo, min(lo+size, n)})
	}
	return out
}

// ParallelFit fits the first nspec spectra on a pool of cfg.Workers
// goroutines, each taking cfg.ChunkSize spectra at a time. The first failed
// spectrum cancels the remaining work. Results are ordered by spec_id
// regardless of completion order.
func (f *DistributedFitter) ParallelFit(ctx context.Context, opts ...RunOption) error {
	cfg := ApplyRunOptions(opts...)
	nspec, prefixes, err := f.prepare(cfg)
	if err != nil {
		return err
	}

	results := make([]*ModelResult, nspec)
	var (
		mu   sync.Mutex
		done int
	)
	report := func() {
		if cfg.Progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		done++
		cfg.Progress(done, nspec)
	}

	switch cfg.Backend {
	case BackendSingles:
		for n := 0; n < nspec; n++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := f.fitOne(ctx, n, cfg, prefixes)
			if err != nil {
				return err
			}
			results[n] = res
			report()
		}

	case BackendGoroutines:
		chunkSize := cfg.ChunkSize
		if chunkSize <= 0 {
			chunkSize = max(1, nspec/cfg.Workers)
		}
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Workers)
		for _, span := range chunks(nspec, chunkSize) {
			g.Go(func() error {
				for n := span[0]; n < span[1]; n++ {
					if err := gctx.Err(); err != nil {
						return err
					}
					res, err := f.fitOne(gctx, n, cfg, prefixes)
					if err != nil {
						return err
					}
					results[n] = res
					report()
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}

	f.log.Debug("patch fitted", "nspec", nspec, "backend", cfg.Backend, "workers", cfg.Workers)
	return f.finish(results)
}
