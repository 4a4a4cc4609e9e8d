package worker

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Func processes one batch. The rng is owned by the call.
type Func[In, Out any] func(ctx context.Context, batch In, rng *rand.Rand) (Out, error)

// Pool runs batches on a fixed number of goroutines.
type Pool struct {
	// Workers defaults to GOMAXPROCS when not positive.
	Workers int
	// Seed is combined with each batch number to seed that batch's rng, so
	// output does not depend on scheduling.
	Seed uint64
}

// Size returns the number of goroutines Map runs.
func (p Pool) Size() int {
	if p.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return p.Workers
}

// Map runs fn over batches and returns the results in input order. first is
// the number of the first batch, used to derive its rng when a long input is
// fed through Map in windows. The first error cancels the remaining batches.
func Map[In, Out any](ctx context.Context, p Pool, first int, batches []In, fn Func[In, Out]) ([]Out, error) {
	workers := min(p.Size(), len(batches))

	results := make([]Out, len(batches))
	jobs := make(chan int, workers)
	g, ctx := errgroup.WithContext(ctx)

	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for idx := range jobs {
				n := first + idx
				rng := rand.New(rand.NewPCG(p.Seed, uint64(n)))
				out, err := fn(ctx, batches[idx], rng)
				if err != nil {
					return fmt.Errorf("batch %d: %w", n, err)
				}
				results[idx] = out
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(jobs)
		for idx := range batches {
			select {
			case jobs <- idx:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
