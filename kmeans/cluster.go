package kmeans

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
)

// Engine selects the assignment/update implementation.
type Engine int

const (
	// Hamerly prunes distance computations with per-sample bounds.
	Hamerly Engine = iota
	// Lloyd scans every centroid for every sample.
	Lloyd
)

func (e Engine) String() string {
	switch e {
	case Hamerly:
		return "hamerly"
	case Lloyd:
		return "lloyd"
	default:
		return fmt.Sprintf("engine(%d)", int(e))
	}
}

// ParseEngine maps "hamerly" or "lloyd" to an Engine.
func ParseEngine(s string) (Engine, error) {
	switch s {
	case "hamerly":
		return Hamerly, nil
	case "lloyd":
		return Lloyd, nil
	}
	return 0, fmt.Errorf("unknown engine %q (valid engines: hamerly, lloyd)", s)
}

// Config holds the caller-owned settings of a clustering run.
type Config struct {
	// MaxIterations is the maximum number of assign/update rounds. Values
	// below 1 run a single round.
	MaxIterations int
	// Epsilon stops the run once CheckLoop between consecutive centroid sets
	// is at or below it.
	Epsilon float32
	Engine  Engine
	// Workers bounds the parallelism of each phase. Zero or less uses
	// GOMAXPROCS.
	Workers int
	// Logger receives per-iteration debug records. Nil discards them.
	Logger *slog.Logger
}

// DefaultConfig returns the settings used for gamma or linear RGB samples.
func DefaultConfig() Config {
	return Config{
		MaxIterations: 20,
		Epsilon:       0.0025,
		Engine:        Hamerly,
	}
}

// Result is the outcome of a clustering run.
type Result[C any] struct {
	Centroids []C
	// Indices holds the cluster id of every sample.
	Indices []uint8
	// Score is the CheckLoop value of the last round.
	Score      float32
	Iterations int
	Converged  bool
}

type engine interface {
	assign() int
	update(rng *rand.Rand)
	assignments() []uint8
}

// Cluster runs assignment and update rounds from the initial centroids until
// the centroids stop moving or the iteration budget is spent. The initial
// slice is copied, never modified. The context is only checked between
// rounds.
func Cluster[C Color[C]](ctx context.Context, samples, initial []C, rng *rand.Rand, cfg Config) (Result[C], error) {
	if len(initial) == 0 {
		return Result[C]{Centroids: []C{}, Indices: []uint8{}, Converged: true}, nil
	}
	if len(initial) > MaxClusters {
		return Result[C]{}, fmt.Errorf("%w: got %d", ErrClusterCount, len(initial))
	}
	if len(samples) == 0 {
		return Result[C]{}, ErrEmptySamples
	}
	for i, s := range samples {
		if !finite(s) {
			return Result[C]{}, fmt.Errorf("%w: sample %d", ErrNonFinite, i)
		}
	}
	for i, c := range initial {
		if !finite(c) {
			return Result[C]{}, fmt.Errorf("%w: centroid %d", ErrNonFinite, i)
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("engine", cfg.Engine.String(), "k", len(initial), "samples", len(samples))

	centroids := make([]C, len(initial))
	copy(centroids, initial)
	old := make([]C, len(initial))
	maxIter := max(cfg.MaxIterations, 1)
	workers := workerCount(cfg.Workers)

	var e engine
	switch cfg.Engine {
	case Lloyd:
		e = newLloyd(samples, centroids, workers)
	case Hamerly:
		e = newHamerly(samples, centroids, workers)
	default:
		return Result[C]{}, fmt.Errorf("kmeans: unknown engine %d", int(cfg.Engine))
	}

	res := Result[C]{Centroids: centroids}
	for res.Iterations < maxIter {
		if err := ctx.Err(); err != nil {
			return Result[C]{}, err
		}

		pruned := e.assign()
		copy(old, centroids)
		e.update(rng)
		res.Iterations++

		for i, c := range centroids {
			if !finite(c) {
				return Result[C]{}, fmt.Errorf("%w: centroid %d after iteration %d", ErrNonFinite, i, res.Iterations)
			}
		}

		res.Score = CheckLoop(centroids, old)
		logger.DebugContext(ctx, "kmeans iteration",
			"iteration", res.Iterations,
			"score", res.Score,
			"pruned", pruned,
		)
		if res.Score <= cfg.Epsilon {
			res.Converged = true
			break
		}
	}

	res.Indices = e.assignments()
	logger.InfoContext(ctx, "kmeans finished",
		"iterations", res.Iterations,
		"score", res.Score,
		"converged", res.Converged,
	)
	return res, nil
}

// Run seeds k centroids with k-means++ and clusters the samples from them.
// The result may hold fewer than k centroids when the samples contain fewer
// than k distinct colors.
func Run[C Color[C]](ctx context.Context, k int, samples []C, rng *rand.Rand, cfg Config) (Result[C], error) {
	centroids, err := Seed(k, rng, samples)
	if err != nil {
		return Result[C]{}, err
	}
	return Cluster(ctx, samples, centroids, rng, cfg)
}

// RunBest repeats Run and keeps the result with the lowest score.
func RunBest[C Color[C]](ctx context.Context, runs, k int, samples []C, rng *rand.Rand, cfg Config) (Result[C], error) {
	var best Result[C]
	for r := 0; r < max(runs, 1); r++ {
		res, err := Run(ctx, k, samples, rng, cfg)
		if err != nil {
			return Result[C]{}, fmt.Errorf("run %d: %w", r, err)
		}
		if r == 0 || res.Score < best.Score {
			best = res
		}
	}
	return best, nil
}
