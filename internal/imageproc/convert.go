package imageproc

import (
	"fmt"
	"image"
	"image/color"
	"math/rand/v2"

	"colorcluster/kmeans"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
)

// Codec converts between go-colorful colors and one sample representation.
type Codec[C kmeans.Color[C]] struct {
	Name string
	// Epsilon is the convergence threshold that suits the channel scale.
	Epsilon float32
	Encode  func(colorful.Color) C
	Decode  func(C) colorful.Color
}

// LabCodec maps colors to CIE L*a*b* with L in [0,100].
var LabCodec = Codec[kmeans.Lab]{
	Name:    "lab",
	Epsilon: 5,
	Encode: func(c colorful.Color) kmeans.Lab {
		l, a, b := c.Lab()
		return kmeans.Lab{float32(l * 100), float32(a * 100), float32(b * 100)}
	},
	Decode: func(c kmeans.Lab) colorful.Color {
		return colorful.Lab(float64(c[0])/100, float64(c[1])/100, float64(c[2])/100)
	},
}

// RGBCodec keeps gamma encoded sRGB in [0,1].
var RGBCodec = Codec[kmeans.RGB]{
	Name:    "rgb",
	Epsilon: 0.0025,
	Encode: func(c colorful.Color) kmeans.RGB {
		return kmeans.RGB{float32(c.R), float32(c.G), float32(c.B)}
	},
	Decode: func(c kmeans.RGB) colorful.Color {
		return colorful.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2])}
	},
}

// LinearCodec maps colors to linear light RGB in [0,1].
var LinearCodec = Codec[kmeans.LinearRGB]{
	Name:    "linear",
	Epsilon: 0.0025,
	Encode: func(c colorful.Color) kmeans.LinearRGB {
		r, g, b := c.LinearRgb()
		return kmeans.LinearRGB{float32(r), float32(g), float32(b)}
	},
	Decode: func(c kmeans.LinearRGB) colorful.Color {
		return colorful.LinearRgb(float64(c[0]), float64(c[1]), float64(c[2]))
	},
}

// TripletCodec keeps sRGB scaled to [0,255].
var TripletCodec = Codec[kmeans.Triplet]{
	Name:    "triplet",
	Epsilon: 10,
	Encode: func(c colorful.Color) kmeans.Triplet {
		return kmeans.Triplet{float32(c.R * 255), float32(c.G * 255), float32(c.B * 255)}
	},
	Decode: func(c kmeans.Triplet) colorful.Color {
		return colorful.Color{R: float64(c[0]) / 255, G: float64(c[1]) / 255, B: float64(c[2]) / 255}
	},
}

// Spaces lists the names accepted by NewAnalyzer.
var Spaces = []string{LabCodec.Name, RGBCodec.Name, LinearCodec.Name, TripletCodec.Name}

// Samples converts the opaque pixels of img into samples. Images larger than
// opts.MaxDimension are scaled down first. When opts.SampleSize is positive
// and smaller than the pixel count, that many pixels are drawn at random.
func Samples[C kmeans.Color[C]](img image.Image, codec Codec[C], opts Options, rng *rand.Rand) []C {
	img = downscale(img, opts.MaxDimension)
	b := img.Bounds()

	pixels := make([]color.NRGBA, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A < opts.AlphaThreshold {
				continue
			}
			pixels = append(pixels, c)
		}
	}

	if opts.SampleSize > 0 && opts.SampleSize < len(pixels) {
		sampled := make([]color.NRGBA, opts.SampleSize)
		for i := range sampled {
			sampled[i] = pixels[rng.IntN(len(pixels))]
		}
		pixels = sampled
	}

	out := make([]C, len(pixels))
	for i, p := range pixels {
		out[i] = codec.Encode(colorful.Color{
			R: float64(p.R) / 255,
			G: float64(p.G) / 255,
			B: float64(p.B) / 255,
		})
	}
	return out
}

// downscale shrinks img so that its longest side is at most maxDim.
func downscale(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return img
	}
	scale := float64(maxDim) / float64(max(w, h))
	nw := max(1, int(float64(w)*scale+0.5))
	nh := max(1, int(float64(h)*scale+0.5))

	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// RGB24 is an image backed by packed 8-bit RGB triplets, the layout ffmpeg
// writes for -pix_fmt rgb24.
type RGB24 struct {
	Pix    []byte
	Width  int
	Height int
}

// NewRGB24 wraps a raw frame without copying it.
func NewRGB24(pix []byte, width, height int) (*RGB24, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	if len(pix) != width*height*3 {
		return nil, fmt.Errorf("frame has %d bytes, want %d for %dx%d", len(pix), width*height*3, width, height)
	}
	return &RGB24{Pix: pix, Width: width, Height: height}, nil
}

func (p *RGB24) ColorModel() color.Model { return color.NRGBAModel }

func (p *RGB24) Bounds() image.Rectangle { return image.Rect(0, 0, p.Width, p.Height) }

func (p *RGB24) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(p.Bounds())) {
		return color.NRGBA{}
	}
	i := (y*p.Width + x) * 3
	return color.NRGBA{R: p.Pix[i], G: p.Pix[i+1], B: p.Pix[i+2], A: 255}
}
