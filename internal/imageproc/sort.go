package imageproc

import (
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// CentroidData pairs a centroid with the fraction of samples assigned to it.
type CentroidData struct {
	Centroid   colorful.Color
	Percentage float64
	// Dominant is set on the one entry Analyze picked as dominant and
	// survives SortColors.
	Dominant bool
}

// Populations returns one entry per centroid, in centroid order, holding the
// fraction of indices that point at it.
func Populations[C any](centroids []C, indices []uint8, decode func(C) colorful.Color) []CentroidData {
	counts := make([]int, len(centroids))
	for _, idx := range indices {
		if int(idx) < len(counts) {
			counts[idx]++
		}
	}

	data := make([]CentroidData, len(centroids))
	for i, c := range centroids {
		data[i].Centroid = decode(c)
		if len(indices) > 0 {
			data[i].Percentage = float64(counts[i]) / float64(len(indices))
		}
	}
	return data
}

// SortColors orders colors by saturation, then hue, then luminance, all
// ascending. Each color goes through HSL and back; its percentage stays with
// it.
func SortColors(data []CentroidData) []CentroidData {
	type hsl struct {
		h, s, l  float64
		pct      float64
		dominant bool
	}
	keyed := make([]hsl, len(data))
	for i, d := range data {
		h, s, l := d.Centroid.Clamped().Hsl()
		keyed[i] = hsl{h: h, s: s, l: l, pct: d.Percentage, dominant: d.Dominant}
	}

	sort.SliceStable(keyed, func(i, j int) bool {
		a, b := keyed[i], keyed[j]
		if a.s != b.s {
			return a.s < b.s
		}
		if a.h != b.h {
			return a.h < b.h
		}
		return a.l < b.l
	})

	out := make([]CentroidData, len(keyed))
	for i, k := range keyed {
		out[i] = CentroidData{Centroid: colorful.Hsl(k.h, k.s, k.l), Percentage: k.pct, Dominant: k.dominant}
	}
	return out
}

// Dominant returns the entry with the highest percentage. Ties go to the
// earliest entry. It reports false for empty input.
func Dominant(data []CentroidData) (CentroidData, bool) {
	i := dominantIndex(data)
	if i < 0 {
		return CentroidData{}, false
	}
	return data[i], true
}

func dominantIndex(data []CentroidData) int {
	if len(data) == 0 {
		return -1
	}
	best := 0
	for i, d := range data[1:] {
		if d.Percentage > data[best].Percentage {
			best = i + 1
		}
	}
	return best
}

// sortByProportions orders entries by percentage, highest first.
func sortByProportions(data []CentroidData) {
	sort.SliceStable(data, func(i, j int) bool {
		return data[i].Percentage > data[j].Percentage
	})
}
