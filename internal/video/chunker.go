package video

import (
	"errors"
	"fmt"
	"io"
)

// Frame is one packed rgb24 frame.
type Frame []byte

// ReadFrames reads up to limit frames of width x height from r. A limit of
// zero or less reads until EOF. Fewer than limit frames means the stream
// ended; a trailing partial frame is an io.ErrUnexpectedEOF.
func ReadFrames(r io.Reader, width, height, limit int) ([]Frame, error) {
	frameSize := width * height * 3
	if frameSize <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}

	var frames []Frame
	for limit <= 0 || len(frames) < limit {
		frame := make(Frame, frameSize)
		if _, err := io.ReadFull(r, frame); err != nil {
			if errors.Is(err, io.EOF) {
				return frames, nil
			}
			return frames, fmt.Errorf("reading frame %d: %w", len(frames), err)
		}
		frames = append(frames, frame)
	}
	return frames, nil
}

// ChunkFrames splits frames into batches of at most chunkSize.
func ChunkFrames(frames []Frame, chunkSize int) [][]Frame {
	chunkSize = max(chunkSize, 1)
	var chunks [][]Frame
	for i := 0; i < len(frames); i += chunkSize {
		chunks = append(chunks, frames[i:min(i+chunkSize, len(frames))])
	}
	return chunks
}
