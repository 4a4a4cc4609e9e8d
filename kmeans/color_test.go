package kmeans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkMetric[C Color[C]](t *testing.T) {
	t.Helper()
	rng := newRand(7)
	var zero C
	for i := 0; i < 200; i++ {
		a := zero.Random(rng)
		b := zero.Random(rng)
		assert.Zero(t, a.Difference(a))
		assert.Equal(t, a.Difference(b), b.Difference(a))
		assert.GreaterOrEqual(t, a.Difference(b), float32(0))
		if a != b {
			assert.Positive(t, a.Difference(b))
		}
	}
}

func TestDifference(t *testing.T) {
	t.Run("lab", checkMetric[Lab])
	t.Run("rgb", checkMetric[RGB])
	t.Run("linear", checkMetric[LinearRGB])
	t.Run("triplet", checkMetric[Triplet])

	assert.Equal(t, float32(3*255*255), Triplet{}.Difference(Triplet{255, 255, 255}))
	assert.Equal(t, float32(1+4+9), Lab{1, 2, 3}.Difference(Lab{0, 0, 0}))
}

func TestRandomDomain(t *testing.T) {
	rng := newRand(1)
	for i := 0; i < 1000; i++ {
		lab := Lab{}.Random(rng)
		assert.True(t, lab[0] >= 0 && lab[0] <= 100, "L out of range: %v", lab)
		assert.True(t, lab[1] >= -128 && lab[1] <= 127, "a out of range: %v", lab)
		assert.True(t, lab[2] >= -128 && lab[2] <= 127, "b out of range: %v", lab)

		rgb := RGB{}.Random(rng)
		lin := LinearRGB{}.Random(rng)
		tri := Triplet{}.Random(rng)
		for c := 0; c < 3; c++ {
			assert.True(t, rgb[c] >= 0 && rgb[c] < 1)
			assert.True(t, lin[c] >= 0 && lin[c] < 1)
			assert.True(t, tri[c] >= 0 && tri[c] < 255)
		}
	}
}

func TestCheckLoop(t *testing.T) {
	rng := newRand(3)
	a := uniformTriplets(rng, 8)
	b := uniformTriplets(rng, 8)

	assert.Zero(t, CheckLoop(a, a))
	assert.GreaterOrEqual(t, CheckLoop(a, b), float32(0))
	assert.Equal(t, CheckLoop(a, b), CheckLoop(b, a))

	moved := []RGB{{0.5, 0.5, 0.5}, {0, 0, 0}}
	old := []RGB{{0.5, 0.5, 0.0}, {0, 0.25, 0}}
	assert.InDelta(t, 0.25+0.0625, CheckLoop(moved, old), 1e-6)
}

func TestQuantize(t *testing.T) {
	centroids := []Triplet{{0, 0, 0}, {255, 255, 255}}

	out := Quantize(centroids, []uint8{1, 0, 1, 7})
	require.Len(t, out, 4)
	assert.Equal(t, []Triplet{{255, 255, 255}, {0, 0, 0}, {255, 255, 255}, {255, 255, 255}}, out)

	assert.Nil(t, Quantize([]Triplet{}, []uint8{0}))
}
