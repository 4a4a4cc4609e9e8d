package ffmpeg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeString(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "310.5", want: 310.5},
		{in: "00:05:10", want: 310},
		{in: "01:00:00.25", want: 3600.25},
		{in: "5:10", wantErr: true},
		{in: "abc", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseTimeString(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, tt.in)
	}
}

func argValue(args []string, flag string) (string, bool) {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag {
			return args[i+1], true
		}
	}
	return "", false
}

func TestFrameArgs(t *testing.T) {
	args := frameArgs(FrameOptions{
		URL:                "in.mp4",
		Width:              64,
		Height:             36,
		SampleEveryNFrames: 12,
		TimeRange:          &TimeRange{Start: "00:00:10", End: "00:00:25.5"},
	})

	v, ok := argValue(args, "-ss")
	require.True(t, ok)
	assert.Equal(t, "00:00:10", v)

	v, ok = argValue(args, "-t")
	require.True(t, ok)
	assert.Equal(t, "15.500", v)

	v, _ = argValue(args, "-i")
	assert.Equal(t, "in.mp4", v)

	v, _ = argValue(args, "-vf")
	assert.Equal(t, `select=not(mod(n\,12)),scale=64:36`, v)

	v, _ = argValue(args, "-pix_fmt")
	assert.Equal(t, "rgb24", v)
	assert.Equal(t, "pipe:1", args[len(args)-1])
}

func TestFrameArgs_Defaults(t *testing.T) {
	args := frameArgs(FrameOptions{URL: "in.mp4", IsHDR: true})

	_, ok := argValue(args, "-ss")
	assert.False(t, ok)
	_, ok = argValue(args, "-t")
	assert.False(t, ok)

	v, _ := argValue(args, "-vf")
	assert.True(t, strings.HasPrefix(v, tonemap+","))
	assert.True(t, strings.HasSuffix(v, `select=not(mod(n\,1))`))
}

func TestFrameArgs_Remote(t *testing.T) {
	local := frameArgs(FrameOptions{URL: "in.mp4"})
	_, ok := argValue(local, "-reconnect")
	assert.False(t, ok)

	remote := frameArgs(FrameOptions{URL: "HTTPS://example.com/in.mp4"})
	v, ok := argValue(remote, "-reconnect")
	require.True(t, ok)
	assert.Equal(t, "1", v)

	assert.True(t, IsRemote("http://host/a.mkv"))
	assert.False(t, IsRemote("/videos/http.mkv"))
}

func TestFrameArgs_EndBeforeStart(t *testing.T) {
	args := frameArgs(FrameOptions{
		URL:       "in.mp4",
		TimeRange: &TimeRange{Start: "30", End: "10"},
	})
	_, ok := argValue(args, "-t")
	assert.False(t, ok)
}
