package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// VideoInfo describes the first video stream of an input.
type VideoInfo struct {
	Width     int
	Height    int
	Framerate float64
	IsHDR     bool
}

type probeOutput struct {
	Streams []struct {
		Width         int    `json:"width"`
		Height        int    `json:"height"`
		AvgFrameRate  string `json:"avg_frame_rate"`
		ColorTransfer string `json:"color_transfer"`
		ColorSpace    string `json:"color_space"`
		// ffprobe only emits this for streams with mastering metadata.
		MasterDisplay *json.RawMessage `json:"master_display"`
	} `json:"streams"`
}

// GetVideoInfo runs ffprobe on videoURL.
func GetVideoInfo(ctx context.Context, videoURL string) (VideoInfo, error) {
	args := []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,avg_frame_rate,color_transfer,color_space,master_display",
		"-of", "json",
		videoURL,
	}

	cmd := exec.CommandContext(ctx, "ffprobe", args...)
	output, err := cmd.Output()
	if err != nil {
		return VideoInfo{}, fmt.Errorf("ffprobe error: %w", err)
	}
	return parseProbe(output)
}

func parseProbe(output []byte) (VideoInfo, error) {
	var data probeOutput
	if err := json.Unmarshal(output, &data); err != nil {
		return VideoInfo{}, fmt.Errorf("error parsing ffprobe output: %w", err)
	}
	if len(data.Streams) == 0 {
		return VideoInfo{}, fmt.Errorf("no video streams found")
	}
	stream := data.Streams[0]

	if stream.Width <= 0 {
		return VideoInfo{}, fmt.Errorf("invalid width")
	}
	if stream.Height <= 0 {
		return VideoInfo{}, fmt.Errorf("invalid height")
	}
	framerate, err := parseFramerate(stream.AvgFrameRate)
	if err != nil {
		return VideoInfo{}, err
	}

	// Check common HDR indicators
	transfer := strings.ToLower(stream.ColorTransfer)
	hdr := strings.Contains(transfer, "smpte2084") ||
		strings.Contains(transfer, "arib-std-b67") ||
		strings.Contains(strings.ToLower(stream.ColorSpace), "bt2020") ||
		stream.MasterDisplay != nil

	return VideoInfo{
		Width:     stream.Width,
		Height:    stream.Height,
		Framerate: framerate,
		IsHDR:     hdr,
	}, nil
}

// parseFramerate accepts "24000/1001" style rationals and plain numbers.
func parseFramerate(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("invalid framerate data")
	}
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid framerate: %w", err)
		}
		return f, nil
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0, fmt.Errorf("invalid framerate format %q", s)
	}
	return n / d, nil
}
