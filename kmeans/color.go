package kmeans

import (
	"math"
	"math/rand/v2"
)

// MaxClusters is the hard ceiling on the number of clusters. Cluster ids are
// stored as uint8.
const MaxClusters = 256

// Color is the capability set a color representation provides to the engines.
// Every representation is a point with three channels.
type Color[C any] interface {
	~[3]float32

	// Difference returns the squared distance to other.
	Difference(other C) float32

	// Random returns a color drawn uniformly from the representation's domain.
	Random(rng *rand.Rand) C
}

// Lab is a CIE L*a*b* color with L in [0,100] and a, b in [-128,127].
type Lab [3]float32

func (c Lab) Difference(other Lab) float32 { return sqdist(c, other) }

func (Lab) Random(rng *rand.Rand) Lab {
	return Lab{
		rng.Float32() * 100,
		rng.Float32()*255 - 128,
		rng.Float32()*255 - 128,
	}
}

// RGB is a gamma encoded sRGB color with channels in [0,1].
type RGB [3]float32

func (c RGB) Difference(other RGB) float32 { return sqdist(c, other) }

func (RGB) Random(rng *rand.Rand) RGB {
	return RGB{rng.Float32(), rng.Float32(), rng.Float32()}
}

// LinearRGB is a linear light RGB color with channels in [0,1].
type LinearRGB [3]float32

func (c LinearRGB) Difference(other LinearRGB) float32 { return sqdist(c, other) }

func (LinearRGB) Random(rng *rand.Rand) LinearRGB {
	return LinearRGB{rng.Float32(), rng.Float32(), rng.Float32()}
}

// Triplet is a raw color with channels in [0,255).
type Triplet [3]float32

func (c Triplet) Difference(other Triplet) float32 { return sqdist(c, other) }

func (Triplet) Random(rng *rand.Rand) Triplet {
	return Triplet{rng.Float32() * 255, rng.Float32() * 255, rng.Float32() * 255}
}

func sqdist[C ~[3]float32](a, b C) float32 {
	d0 := a[0] - b[0]
	d1 := a[1] - b[1]
	d2 := a[2] - b[2]
	return d0*d0 + d1*d1 + d2*d2
}

// distance converts a squared difference into a true distance.
func distance(sq float32) float32 {
	return float32(math.Sqrt(float64(sq)))
}

func finite[C ~[3]float32](c C) bool {
	for _, v := range c {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// CheckLoop returns the sum of squared per-channel movement between two
// centroid sets of equal length.
func CheckLoop[C ~[3]float32](centroids, old []C) float32 {
	var score float32
	for i := range centroids {
		score += sqdist(centroids[i], old[i])
	}
	return score
}

// Quantize maps every index to its centroid. Ids past the end of centroids map
// to the last centroid.
func Quantize[C any](centroids []C, indices []uint8) []C {
	if len(centroids) == 0 {
		return nil
	}
	out := make([]C, len(indices))
	for i, idx := range indices {
		if int(idx) < len(centroids) {
			out[i] = centroids[idx]
		} else {
			out[i] = centroids[len(centroids)-1]
		}
	}
	return out
}
