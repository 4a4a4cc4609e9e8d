package kmeans

import (
	"math/rand/v2"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// uniformTriplets returns n colors spread uniformly over the triplet domain.
func uniformTriplets(rng *rand.Rand, n int) []Triplet {
	out := make([]Triplet, n)
	for i := range out {
		out[i] = Triplet{}.Random(rng)
	}
	return out
}

// blobs returns perBlob gaussian samples around every center, grouped by
// center.
func blobs(rng *rand.Rand, centers []Triplet, perBlob int, spread float64) []Triplet {
	out := make([]Triplet, 0, len(centers)*perBlob)
	for _, c := range centers {
		for i := 0; i < perBlob; i++ {
			out = append(out, Triplet{
				c[0] + float32(rng.NormFloat64()*spread),
				c[1] + float32(rng.NormFloat64()*spread),
				c[2] + float32(rng.NormFloat64()*spread),
			})
		}
	}
	return out
}

var blobCenters = []Triplet{
	{30, 30, 30},
	{220, 40, 40},
	{40, 220, 60},
	{50, 60, 210},
	{210, 210, 200},
}

func contains[C comparable](haystack []C, needle C) bool {
	for _, c := range haystack {
		if c == needle {
			return true
		}
	}
	return false
}
