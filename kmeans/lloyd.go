package kmeans

import (
	"math"
	"math/rand/v2"
)

// nearest returns the index of the closest centroid and its squared
// difference. Ties resolve to the earliest index.
func nearest[C Color[C]](c C, centroids []C) (int, float32) {
	index := 0
	best := float32(math.MaxFloat32)
	for j, cent := range centroids {
		if d := c.Difference(cent); d < best {
			best = d
			index = j
		}
	}
	return index, best
}

// NearestCentroids assigns every sample to its closest centroid by a full
// scan over centroids.
func NearestCentroids[C Color[C]](samples, centroids []C) []uint8 {
	indices := make([]uint8, len(samples))
	for i, s := range samples {
		j, _ := nearest(s, centroids)
		indices[i] = uint8(j)
	}
	return indices
}

// Recalculate replaces every centroid with the mean of the samples assigned
// to it. A centroid without members is replaced by a random color drawn from
// rng.
func Recalculate[C Color[C]](rng *rand.Rand, samples, centroids []C, indices []uint8) {
	recalculate(&partition{}, rng, samples, centroids, indices, nil, 1)
}

// partition groups sample indices by cluster id so every cluster can be
// averaged independently. Buffers are reused across iterations.
type partition struct {
	offsets []int
	order   []int32
}

func (p *partition) build(indices []uint8, k int) {
	if cap(p.offsets) < k+1 {
		p.offsets = make([]int, k+1)
	}
	p.offsets = p.offsets[:k+1]
	clear(p.offsets)
	for _, idx := range indices {
		p.offsets[int(idx)+1]++
	}
	for c := 1; c <= k; c++ {
		p.offsets[c] += p.offsets[c-1]
	}

	if cap(p.order) < len(indices) {
		p.order = make([]int32, len(indices))
	}
	p.order = p.order[:len(indices)]
	next := make([]int, k)
	copy(next, p.offsets[:k])
	for i, idx := range indices {
		p.order[next[idx]] = int32(i)
		next[idx]++
	}
}

func (p *partition) members(c int) []int32 {
	return p.order[p.offsets[c]:p.offsets[c+1]]
}

// recalculate is the update phase shared by both engines. Means are computed
// in parallel per cluster; each task writes only its own centroid and delta
// slot. Empty clusters are reseeded afterwards in id order so the draws from
// rng do not depend on scheduling. When deltas is non-nil it receives the
// distance every centroid moved.
func recalculate[C Color[C]](p *partition, rng *rand.Rand, samples, centroids []C, indices []uint8, deltas []float32, workers int) {
	k := len(centroids)
	p.build(indices, k)

	parallelFor(workers, k, centroidGrain, func(lo, hi int) {
		for c := lo; c < hi; c++ {
			members := p.members(c)
			if len(members) == 0 {
				continue
			}
			var sum [3]float64
			for _, i := range members {
				s := samples[i]
				sum[0] += float64(s[0])
				sum[1] += float64(s[1])
				sum[2] += float64(s[2])
			}
			n := float64(len(members))
			next := C{float32(sum[0] / n), float32(sum[1] / n), float32(sum[2] / n)}
			if deltas != nil {
				deltas[c] = distance(centroids[c].Difference(next))
			}
			centroids[c] = next
		}
	})

	for c := range centroids {
		if p.offsets[c] != p.offsets[c+1] {
			continue
		}
		next := centroids[c].Random(rng)
		if deltas != nil {
			deltas[c] = distance(centroids[c].Difference(next))
		}
		centroids[c] = next
	}
}

// lloyd is the standard engine: a full nearest-centroid scan followed by a
// mean update. It is the reference the accelerated engine is checked against.
type lloyd[C Color[C]] struct {
	samples   []C
	centroids []C
	indices   []uint8
	workers   int
	part      partition
}

func newLloyd[C Color[C]](samples, centroids []C, workers int) *lloyd[C] {
	return &lloyd[C]{
		samples:   samples,
		centroids: centroids,
		indices:   make([]uint8, len(samples)),
		workers:   workers,
	}
}

func (l *lloyd[C]) assign() int {
	parallelFor(l.workers, len(l.samples), sampleGrain, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			j, _ := nearest(l.samples[i], l.centroids)
			l.indices[i] = uint8(j)
		}
	})
	return 0
}

func (l *lloyd[C]) update(rng *rand.Rand) {
	recalculate(&l.part, rng, l.samples, l.centroids, l.indices, nil, l.workers)
}

func (l *lloyd[C]) assignments() []uint8 { return l.indices }
