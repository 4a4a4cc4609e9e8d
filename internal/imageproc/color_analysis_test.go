package imageproc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_TwoColors(t *testing.T) {
	img := split(10, 10, 6, red, blue)
	opts := DefaultOptions()
	opts.K = 2

	for _, space := range Spaces {
		t.Run(space, func(t *testing.T) {
			analyze, err := NewAnalyzer(space, opts)
			require.NoError(t, err)

			fa, err := analyze(context.Background(), img, newRand(4))
			require.NoError(t, err)

			assert.Equal(t, []string{"#ff0000", "#0000ff"}, fa.Hex)
			assert.Equal(t, [][3]int{{255, 0, 0}, {0, 0, 255}}, fa.Colors)
			assert.InDeltaSlice(t, []float64{0.6, 0.4}, fa.Proportions, 1e-9)
			assert.Equal(t, "#ff0000", fa.Dominant)
			require.Len(t, fa.Data, 2)
			assert.True(t, fa.Data[0].Dominant)
			assert.False(t, fa.Data[1].Dominant)
			assert.Equal(t, 100, fa.Samples)
			assert.Len(t, fa.Data, 2)
			assert.InDelta(t, 240, fa.Hues[1], 1e-3)
			assert.InDelta(t, 1, fa.Saturations[0], 1e-3)
		})
	}
}

func TestAnalyze_NoPixels(t *testing.T) {
	img := split(3, 3, 3, transparent, transparent)
	_, err := Analyze(context.Background(), img, LabCodec, DefaultOptions(), newRand(1))
	assert.ErrorIs(t, err, ErrNoPixels)
}

func TestAnalyze_FewerColorsThanK(t *testing.T) {
	img := split(8, 8, 8, blue, blue)
	opts := DefaultOptions()
	opts.K = 5

	fa, err := Analyze(context.Background(), img, TripletCodec, opts, newRand(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"#0000ff"}, fa.Hex)
	assert.Equal(t, []float64{1}, fa.Proportions)
}

func TestNewAnalyzer_UnknownSpace(t *testing.T) {
	_, err := NewAnalyzer("cmyk", DefaultOptions())
	assert.ErrorIs(t, err, ErrUnknownSpace)
}
