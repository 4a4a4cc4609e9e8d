package kmeans

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// smallestNormal is the smallest positive normal float64. Weight sums below it
// mean every sample already coincides with a chosen centroid.
const smallestNormal = 0x1p-1022

// Seed picks k initial centroids from samples with k-means++.
//
// The first centroid is drawn uniformly. Each following one is drawn with
// probability proportional to the squared difference between a sample and its
// closest chosen centroid. Seeding stops early, returning fewer than k
// centroids, once every sample coincides with a chosen centroid. Every
// returned centroid is a copy of a sample.
//
// See Arthur and Vassilvitskii, "k-means++: The Advantages of Careful
// Seeding" (2007), section 2.2.
func Seed[C Color[C]](k int, rng *rand.Rand, samples []C) ([]C, error) {
	if k < 0 || k > MaxClusters {
		return nil, fmt.Errorf("%w: got %d", ErrClusterCount, k)
	}
	if k == 0 {
		return []C{}, nil
	}
	if len(samples) == 0 {
		return nil, ErrEmptySamples
	}
	for i, s := range samples {
		if !finite(s) {
			return nil, fmt.Errorf("%w: sample %d", ErrNonFinite, i)
		}
	}

	centroids := make([]C, 0, k)
	centroids = append(centroids, samples[rng.IntN(len(samples))])

	// mins tracks the squared difference to the closest chosen centroid and
	// only has to be refreshed against the newest one.
	mins := make([]float32, len(samples))
	for i := range mins {
		mins[i] = math.MaxFloat32
	}
	weights := make([]float64, len(samples))

	for len(centroids) < k {
		last := centroids[len(centroids)-1]
		for i, s := range samples {
			if d := s.Difference(last); d < mins[i] {
				mins[i] = d
			}
			weights[i] = float64(mins[i])
		}

		sum := floats.Sum(weights)
		if math.IsNaN(sum) || math.IsInf(sum, 0) {
			return nil, fmt.Errorf("%w: seeding weight sum %v", ErrNonFinite, sum)
		}
		if sum < smallestNormal {
			break
		}
		floats.Scale(1/sum, weights)

		next := int(distuv.NewCategorical(weights, rng).Rand())
		centroids = append(centroids, samples[next])
	}
	return centroids, nil
}
