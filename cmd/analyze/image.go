package main

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math/rand/v2"
	"os"
	"text/tabwriter"

	"colorcluster/internal/imageproc"

	_ "golang.org/x/image/webp"
)

func decodeImage(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, format, nil
}

func analyzeImage(ctx context.Context, w io.Writer, path string, analyze imageproc.AnalyzeFunc, seed uint64) error {
	img, format, err := decodeImage(path)
	if err != nil {
		return err
	}

	fa, err := analyze(ctx, img, rand.New(rand.NewPCG(seed, 0)))
	if err != nil {
		return err
	}

	b := img.Bounds()
	fmt.Fprintf(w, "%s: %dx%d %s, %d samples, %d iterations\n", path, b.Dx(), b.Dy(), format, fa.Samples, fa.Iterations)
	return printPalette(w, fa)
}

// printPalette writes the colors in HSL order with their share of the
// samples and marks the dominant one.
func printPalette(w io.Writer, fa imageproc.FrameAnalysis) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COLOR\tRGB\tSHARE\t")
	for _, d := range imageproc.SortColors(fa.Data) {
		c := d.Centroid.Clamped()
		r, g, b := c.RGB255()
		mark := ""
		if d.Dominant {
			mark = "dominant"
		}
		fmt.Fprintf(tw, "%s\t%d,%d,%d\t%5.1f%%\t%s\n", c.Hex(), r, g, b, d.Percentage*100, mark)
	}
	return tw.Flush()
}
