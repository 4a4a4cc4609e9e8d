package kmeans

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

const (
	sampleGrain   = 2048
	centroidGrain = 1
	pairGrain     = 32
)

func workerCount(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// parallelFor splits [0,n) into contiguous ranges of at least grain elements
// and runs fn on each one. It returns after every range has finished, so
// callers can treat it as a barrier between phases. Ranges never overlap.
func parallelFor(workers, n, grain int, fn func(lo, hi int)) {
	if n == 0 {
		return
	}
	chunks := min(workers, (n+grain-1)/grain)
	if chunks <= 1 {
		fn(0, n)
		return
	}
	size := (n + chunks - 1) / chunks

	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}
