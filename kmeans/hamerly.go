package kmeans

import (
	"math"
	"math/rand/v2"
	"sync/atomic"
)

// hamerly is Lloyd's algorithm with Hamerly's bounds.
//
// For every sample it keeps an upper bound on the distance to the assigned
// centroid and a lower bound on the distance to every other centroid. A
// sample whose upper bound is below max(lower, half[index]) cannot
// change cluster and is skipped. Bounds are true distances; scans compare
// squared differences and take the square root only when a bound is stored.
type hamerly[C Color[C]] struct {
	samples   []C
	centroids []C
	workers   int

	// per sample
	index []uint8
	upper []float32
	lower []float32

	// per centroid
	half   []float32
	deltas []float32

	part partition
}

func newHamerly[C Color[C]](samples, centroids []C, workers int) *hamerly[C] {
	n, k := len(samples), len(centroids)
	h := &hamerly[C]{
		samples:   samples,
		centroids: centroids,
		workers:   workers,
		index:     make([]uint8, n),
		upper:     make([]float32, n),
		lower:     make([]float32, n),
		half:      make([]float32, k),
		deltas:    make([]float32, k),
	}

	parallelFor(workers, n, sampleGrain, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			if k < 2 {
				h.upper[i] = distance(samples[i].Difference(centroids[0]))
				h.lower[i] = float32(math.Inf(1))
				continue
			}
			c1, min1, min2 := twoNearest(samples[i], centroids)
			h.index[i] = uint8(c1)
			h.upper[i] = distance(min1)
			h.lower[i] = distance(min2)
		}
	})
	h.computeHalfDistances()
	return h
}

// twoNearest returns the index and squared difference of the closest
// centroid and the squared difference of the second closest. It needs at
// least two centroids.
func twoNearest[C Color[C]](c C, centroids []C) (int, float32, float32) {
	c1 := 0
	min1 := c.Difference(centroids[0])
	min2 := float32(math.MaxFloat32)
	for j := 1; j < len(centroids); j++ {
		d := c.Difference(centroids[j])
		if d < min1 {
			min2 = min1
			min1 = d
			c1 = j
			continue
		}
		if d < min2 {
			min2 = d
		}
	}
	return c1, min1, min2
}

// computeHalfDistances sets half[i] to half the distance between centroid i
// and its nearest neighbour.
func (h *hamerly[C]) computeHalfDistances() {
	k := len(h.centroids)
	if k < 2 {
		for i := range h.half {
			h.half[i] = float32(math.Inf(1))
		}
		return
	}
	parallelFor(h.workers, k, pairGrain, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			best := float32(math.MaxFloat32)
			for j, cj := range h.centroids {
				if i == j {
					continue
				}
				if d := h.centroids[i].Difference(cj); d < best {
					best = d
				}
			}
			h.half[i] = distance(best) * 0.5
		}
	})
}

// assign runs the pruned assignment phase and reports how many samples were
// skipped without a full scan.
func (h *hamerly[C]) assign() int {
	var pruned atomic.Int64
	k := len(h.centroids)

	parallelFor(h.workers, len(h.samples), sampleGrain, func(lo, hi int) {
		var skipped int64
		for i := lo; i < hi; i++ {
			idx := h.index[i]
			// Strict comparisons: a sample tied with another centroid takes the
			// full scan, which resolves ties to the earliest index.
			z := max(h.half[idx], h.lower[i])
			if h.upper[i] < z {
				skipped++
				continue
			}

			h.upper[i] = distance(h.samples[i].Difference(h.centroids[idx]))
			if h.upper[i] < z {
				skipped++
				continue
			}

			if k < 2 {
				continue
			}
			c1, min1, min2 := twoNearest(h.samples[i], h.centroids)
			if uint8(c1) != idx {
				h.index[i] = uint8(c1)
				h.upper[i] = distance(min1)
			}
			h.lower[i] = distance(min2)
		}
		pruned.Add(skipped)
	})
	return int(pruned.Load())
}

// update moves the centroids, refreshes the half distances and loosens every
// bound by the movement so the invariants survive without exact distances.
func (h *hamerly[C]) update(rng *rand.Rand) {
	recalculate(&h.part, rng, h.samples, h.centroids, h.index, h.deltas, h.workers)
	h.computeHalfDistances()

	var deltaP float32
	for _, d := range h.deltas {
		deltaP = max(deltaP, d)
	}
	parallelFor(h.workers, len(h.samples), sampleGrain, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			h.upper[i] += h.deltas[h.index[i]]
			h.lower[i] -= deltaP
		}
	})
}

func (h *hamerly[C]) assignments() []uint8 { return h.index }
