package imageproc

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math/rand/v2"

	"colorcluster/kmeans"
)

var (
	// ErrNoPixels is returned when an image has no pixel above the alpha
	// threshold.
	ErrNoPixels = errors.New("imageproc: no opaque pixels")

	// ErrUnknownSpace is returned by NewAnalyzer for an unsupported space name.
	ErrUnknownSpace = errors.New("imageproc: unknown color space")
)

// Options controls sampling and clustering of one image.
type Options struct {
	// K is the number of colors to extract.
	K int
	// MaxDimension scales larger images down before sampling. Zero keeps the
	// original size.
	MaxDimension int
	// SampleSize is the number of random pixels to cluster. Zero uses every
	// pixel.
	SampleSize int
	// AlphaThreshold skips pixels whose alpha is below it.
	AlphaThreshold uint8
	// Runs repeats clustering and keeps the lowest score.
	Runs int
	// Cluster is passed to the engine. A negative Epsilon is replaced by the
	// codec's default.
	Cluster kmeans.Config
}

// DefaultOptions returns settings suited to palette extraction from photos.
func DefaultOptions() Options {
	cfg := kmeans.DefaultConfig()
	cfg.Epsilon = -1
	return Options{
		K:              8,
		MaxDimension:   256,
		AlphaThreshold: 1,
		Runs:           1,
		Cluster:        cfg,
	}
}

// FrameAnalysis holds the extracted colors sorted by proportion, highest
// first. Hues are in degrees, saturations in [0,1].
type FrameAnalysis struct {
	Colors      [][3]int  `json:"colors"`
	Hex         []string  `json:"hex"`
	Proportions []float64 `json:"proportions"`
	Hues        []float64 `json:"hues"`
	Saturations []float64 `json:"saturations"`
	Dominant    string    `json:"dominant"`
	Samples     int       `json:"samples"`
	Iterations  int       `json:"iterations"`

	Data []CentroidData `json:"-"`
}

// Analyze extracts the main colors of img.
func Analyze[C kmeans.Color[C]](ctx context.Context, img image.Image, codec Codec[C], opts Options, rng *rand.Rand) (FrameAnalysis, error) {
	samples := Samples(img, codec, opts, rng)
	if len(samples) == 0 {
		return FrameAnalysis{}, ErrNoPixels
	}

	cfg := opts.Cluster
	if cfg.Epsilon < 0 {
		cfg.Epsilon = codec.Epsilon
	}
	res, err := kmeans.RunBest(ctx, opts.Runs, opts.K, samples, rng, cfg)
	if err != nil {
		return FrameAnalysis{}, fmt.Errorf("clustering %d %s samples: %w", len(samples), codec.Name, err)
	}

	data := Populations(res.Centroids, res.Indices, codec.Decode)
	sortByProportions(data)
	// Drop clusters that ended up empty after a final reseed.
	for len(data) > 0 && data[len(data)-1].Percentage == 0 {
		data = data[:len(data)-1]
	}

	if i := dominantIndex(data); i >= 0 {
		data[i].Dominant = true
	}

	fa := FrameAnalysis{
		Colors:      make([][3]int, len(data)),
		Hex:         make([]string, len(data)),
		Proportions: make([]float64, len(data)),
		Hues:        make([]float64, len(data)),
		Saturations: make([]float64, len(data)),
		Samples:     len(samples),
		Iterations:  res.Iterations,
		Data:        data,
	}
	for i, d := range data {
		c := d.Centroid.Clamped()
		r, g, b := c.RGB255()
		h, s, _ := c.Hsl()
		fa.Colors[i] = [3]int{int(r), int(g), int(b)}
		fa.Hex[i] = c.Hex()
		fa.Proportions[i] = d.Percentage
		fa.Hues[i] = h
		fa.Saturations[i] = s
	}
	if dom, ok := Dominant(data); ok {
		fa.Dominant = dom.Centroid.Clamped().Hex()
	}
	return fa, nil
}

// AnalyzeFunc is Analyze bound to a color space and options.
type AnalyzeFunc func(ctx context.Context, img image.Image, rng *rand.Rand) (FrameAnalysis, error)

// NewAnalyzer returns an AnalyzeFunc clustering in the named space.
func NewAnalyzer(space string, opts Options) (AnalyzeFunc, error) {
	switch space {
	case LabCodec.Name:
		return bind(LabCodec, opts), nil
	case RGBCodec.Name:
		return bind(RGBCodec, opts), nil
	case LinearCodec.Name:
		return bind(LinearCodec, opts), nil
	case TripletCodec.Name:
		return bind(TripletCodec, opts), nil
	}
	return nil, fmt.Errorf("%w: %q (valid spaces: %v)", ErrUnknownSpace, space, Spaces)
}

func bind[C kmeans.Color[C]](codec Codec[C], opts Options) AnalyzeFunc {
	return func(ctx context.Context, img image.Image, rng *rand.Rand) (FrameAnalysis, error) {
		return Analyze(ctx, img, codec, opts, rng)
	}
}
