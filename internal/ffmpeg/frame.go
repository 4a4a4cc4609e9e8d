package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strconv"
	"strings"
)

// TimeRange represents start and end time for video processing
type TimeRange struct {
	Start string
	End   string
}

// FrameOptions configures frame extraction.
type FrameOptions struct {
	URL string
	// Width and Height scale every frame. Zero keeps the source size.
	Width              int
	Height             int
	IsHDR              bool
	SampleEveryNFrames int
	TimeRange          *TimeRange
}

// tonemap converts HDR input to SDR before sampling. It needs an ffmpeg built
// with zscale.
const tonemap = "zscale=t=linear:npl=100,format=gbrpf32le,zscale=p=bt709," +
	"tonemap=tonemap=hable:desat=0:peak=100,zscale=t=bt709:m=bt709:r=tv"

// ParseTimeString converts time strings like "00:05:10" or "310.5" to seconds
func ParseTimeString(timeStr string) (float64, error) {
	if seconds, err := strconv.ParseFloat(timeStr, 64); err == nil {
		return seconds, nil
	}

	parts := strings.Split(timeStr, ":")
	if len(parts) == 3 {
		h, errH := strconv.ParseFloat(parts[0], 64)
		m, errM := strconv.ParseFloat(parts[1], 64)
		s, errS := strconv.ParseFloat(parts[2], 64)

		if errH == nil && errM == nil && errS == nil {
			return h*3600 + m*60 + s, nil
		}
	}

	return 0, fmt.Errorf("invalid time format: %s", timeStr)
}

// IsRemote reports whether url is read over http(s).
func IsRemote(url string) bool {
	u := strings.ToLower(url)
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}

// frameArgs builds the ffmpeg argument list that writes every Nth frame as
// raw rgb24 to stdout.
func frameArgs(opts FrameOptions) []string {
	args := []string{"-loglevel", "error"}

	if tr := opts.TimeRange; tr != nil {
		if tr.Start != "" {
			args = append(args, "-ss", tr.Start)
		}
		if tr.End != "" {
			var start float64
			if s, err := ParseTimeString(tr.Start); err == nil {
				start = s
			}
			if end, err := ParseTimeString(tr.End); err == nil && end > start {
				args = append(args, "-t", fmt.Sprintf("%.3f", end-start))
			}
		}
	}

	args = append(args,
		"-probesize", "32M",
		"-analyzeduration", "10M",
	)
	if IsRemote(opts.URL) {
		args = append(args,
			"-reconnect", "1",
			"-reconnect_at_eof", "1",
			"-reconnect_streamed", "1",
			"-reconnect_delay_max", "10",
		)
	}
	args = append(args, "-i", opts.URL)

	var filters []string
	if opts.IsHDR {
		filters = append(filters, tonemap)
	}
	every := max(opts.SampleEveryNFrames, 1)
	filters = append(filters, fmt.Sprintf("select=not(mod(n\\,%d))", every))
	if opts.Width > 0 && opts.Height > 0 {
		filters = append(filters, fmt.Sprintf("scale=%d:%d", opts.Width, opts.Height))
	}

	args = append(args,
		"-vf", strings.Join(filters, ","),
		"-vsync", "vfr",
		"-an",
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"pipe:1",
	)
	return args
}

// CreateFrameExtractionProcess starts ffmpeg and returns its stdout, which
// carries packed rgb24 frames, and a buffer collecting stderr.
func CreateFrameExtractionProcess(ctx context.Context, opts FrameOptions) (*exec.Cmd, io.ReadCloser, *bytes.Buffer, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, nil, nil, fmt.Errorf("ffmpeg not found in $PATH: %w", err)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", frameArgs(opts)...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error creating stdout pipe: %w", err)
	}
	stderrBuf := &bytes.Buffer{}
	cmd.Stderr = stderrBuf

	if err := cmd.Start(); err != nil {
		return nil, nil, nil, fmt.Errorf("error starting ffmpeg: %w", err)
	}
	log.Printf("FFmpeg command: %s", strings.Join(cmd.Args, " "))

	return cmd, stdout, stderrBuf, nil
}
