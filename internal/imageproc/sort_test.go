package imageproc

import (
	"testing"

	"colorcluster/kmeans"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopulations(t *testing.T) {
	centroids := []kmeans.RGB{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	data := Populations(centroids, []uint8{0, 0, 0, 2}, RGBCodec.Decode)

	require.Len(t, data, 3)
	assert.Equal(t, colorful.Color{R: 1}, data[0].Centroid)
	assert.Equal(t, 0.75, data[0].Percentage)
	assert.Zero(t, data[1].Percentage)
	assert.Equal(t, 0.25, data[2].Percentage)
}

func TestSortColors(t *testing.T) {
	data := []CentroidData{
		{Centroid: colorful.Color{R: 0, G: 0, B: 1}, Percentage: 0.1},       // s=1, h=240
		{Centroid: colorful.Color{R: 0.5, G: 0.5, B: 0.5}, Percentage: 0.2}, // s=0
		{Centroid: colorful.Color{R: 1, G: 0, B: 0}, Percentage: 0.3},       // s=1, h=0
		{Centroid: colorful.Color{R: 0.2, G: 0.2, B: 0.2}, Percentage: 0.4}, // s=0, darker
	}

	sorted := SortColors(data)
	require.Len(t, sorted, 4)

	assert.Equal(t, []float64{0.4, 0.2, 0.3, 0.1}, []float64{
		sorted[0].Percentage, sorted[1].Percentage, sorted[2].Percentage, sorted[3].Percentage,
	})
	assert.Equal(t, "#333333", sorted[0].Centroid.Hex())
	assert.Equal(t, "#808080", sorted[1].Centroid.Hex())
	assert.Equal(t, "#ff0000", sorted[2].Centroid.Hex())
	assert.Equal(t, "#0000ff", sorted[3].Centroid.Hex())

	// The input is left untouched.
	assert.Equal(t, 0.1, data[0].Percentage)
}

func TestDominant(t *testing.T) {
	_, ok := Dominant(nil)
	assert.False(t, ok)

	data := []CentroidData{
		{Centroid: colorful.Color{R: 1}, Percentage: 0.2},
		{Centroid: colorful.Color{G: 1}, Percentage: 0.5},
		{Centroid: colorful.Color{B: 1}, Percentage: 0.5},
	}
	dom, ok := Dominant(data)
	require.True(t, ok)
	assert.Equal(t, colorful.Color{G: 1}, dom.Centroid)
}

func TestSortColors_KeepsDominantFlag(t *testing.T) {
	data := []CentroidData{
		{Centroid: colorful.Color{R: 0.9, G: 0.1, B: 0.1}, Percentage: 0.5, Dominant: true},
		{Centroid: colorful.Color{R: 0.4, G: 0.4, B: 0.4}, Percentage: 0.5},
	}

	sorted := SortColors(data)
	require.Len(t, sorted, 2)
	assert.False(t, sorted[0].Dominant)
	assert.True(t, sorted[1].Dominant)
	assert.Equal(t, 0.5, sorted[1].Percentage)
}
