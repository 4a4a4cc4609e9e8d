package video

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"colorcluster/internal/ffmpeg"
	"colorcluster/internal/imageproc"
	"colorcluster/internal/worker"
)

// ResultsFile is written to the output directory by ProcessFrames.
const ResultsFile = "analysis_results.json"

// FrameResult stores analysis results for a processed frame
type FrameResult struct {
	FrameNumber int     `json:"frame_number"`
	Timestamp   float64 `json:"timestamp"`
	imageproc.FrameAnalysis
}

// FrameProcessor handles the video processing pipeline
type FrameProcessor struct {
	// Configuration
	VideoURL           string
	OutputDir          string
	TimeRange          *ffmpeg.TimeRange
	SampleEveryNFrames int
	// MaxDimension has ffmpeg scale frames so the longest side fits. Zero
	// keeps the source size.
	MaxDimension int
	// BatchSize is the number of frames handed to a worker at once.
	BatchSize int
	Pool      worker.Pool
	Analyze   imageproc.AnalyzeFunc

	// Internal state
	width        int
	height       int
	framerate    float64
	offset       float64
	results      []FrameResult
	resultsMutex sync.Mutex
}

// NewFrameProcessor creates a new frame processor instance
func NewFrameProcessor(videoURL, outputDir string, timeRange *ffmpeg.TimeRange, sampleEveryNFrames int, analyze imageproc.AnalyzeFunc) *FrameProcessor {
	return &FrameProcessor{
		VideoURL:           videoURL,
		OutputDir:          outputDir,
		TimeRange:          timeRange,
		SampleEveryNFrames: sampleEveryNFrames,
		MaxDimension:       256,
		BatchSize:          8,
		Analyze:            analyze,
	}
}

// scaledSize fits width x height into maxDim on the longest side.
func scaledSize(width, height, maxDim int) (int, int) {
	if maxDim <= 0 || (width <= maxDim && height <= maxDim) {
		return width, height
	}
	if width >= height {
		return maxDim, max(height*maxDim/width, 1)
	}
	return max(width*maxDim/height, 1), maxDim
}

// ProcessFrames extracts and processes frames from the video
func (fp *FrameProcessor) ProcessFrames(ctx context.Context) error {
	if !ffmpeg.IsRemote(fp.VideoURL) {
		if _, err := os.Stat(fp.VideoURL); err != nil {
			return fmt.Errorf("cannot access video file '%s': %w", fp.VideoURL, err)
		}
	}
	// Create output directory if it doesn't exist
	if err := os.MkdirAll(fp.OutputDir, 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	startTime := time.Now()

	log.Println("Getting video information...")
	info, err := ffmpeg.GetVideoInfo(ctx, fp.VideoURL)
	if err != nil {
		return fmt.Errorf("error getting video info: %w", err)
	}
	log.Printf("Video dimensions: %dx%d, Frame rate: %.3ffps", info.Width, info.Height, info.Framerate)
	if info.IsHDR {
		log.Println("HDR content detected, using HDR to SDR conversion")
	}

	fp.width, fp.height = scaledSize(info.Width, info.Height, fp.MaxDimension)
	fp.framerate = info.Framerate
	if fp.TimeRange != nil && fp.TimeRange.Start != "" {
		if fp.offset, err = ffmpeg.ParseTimeString(fp.TimeRange.Start); err != nil {
			return err
		}
	}

	opts := ffmpeg.FrameOptions{
		URL:                fp.VideoURL,
		Width:              fp.width,
		Height:             fp.height,
		IsHDR:              info.IsHDR,
		SampleEveryNFrames: fp.SampleEveryNFrames,
		TimeRange:          fp.TimeRange,
	}

	log.Printf("Starting FFmpeg process to extract every %dth frame at %dx%d...", max(fp.SampleEveryNFrames, 1), fp.width, fp.height)
	processCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmd, stdout, stderr, err := ffmpeg.CreateFrameExtractionProcess(processCtx, opts)
	if err != nil {
		return fmt.Errorf("error creating FFmpeg process: %w", err)
	}

	log.Println("Processing frames...")
	count, streamErr := fp.processStream(processCtx, stdout)
	if streamErr != nil {
		// Stop ffmpeg so Wait does not block on a full pipe.
		cancel()
	}
	waitErr := cmd.Wait()

	if streamErr != nil {
		return streamErr
	}
	if waitErr != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("ffmpeg failed: %w: %s", waitErr, msg)
		}
		return fmt.Errorf("ffmpeg failed: %w", waitErr)
	}

	resultsFile, err := fp.writeResults()
	if err != nil {
		return err
	}

	log.Printf("Processing complete! Analyzed %d frames in %.2f seconds", count, time.Since(startTime).Seconds())
	log.Printf("Results saved to %s", resultsFile)
	return nil
}

// processStream reads rgb24 frames of the processor's size from r and
// analyzes them one window of batches at a time.
func (fp *FrameProcessor) processStream(ctx context.Context, r io.Reader) (int, error) {
	if fp.Analyze == nil {
		return 0, fmt.Errorf("no analyzer configured")
	}
	batchSize := max(fp.BatchSize, 1)
	window := fp.window()

	count, batchNum := 0, 0
	for {
		frames, err := ReadFrames(r, fp.width, fp.height, window)
		if err != nil {
			return count, err
		}
		if len(frames) == 0 {
			return count, nil
		}

		batches := ChunkFrames(frames, batchSize)
		base := count
		out, err := worker.Map(ctx, fp.Pool, batchNum, batches, fp.analyzeBatch)
		if err != nil {
			return count, err
		}

		results := make([]FrameResult, 0, len(frames))
		for _, batch := range out {
			for _, fa := range batch {
				results = append(results, fp.frameResult(base+len(results), fa))
			}
		}
		fp.resultsMutex.Lock()
		fp.results = append(fp.results, results...)
		fp.resultsMutex.Unlock()

		count += len(frames)
		batchNum += len(batches)
		log.Printf("Processed %d frames...", count)

		if len(frames) < window {
			return count, nil
		}
	}
}

// window is the number of frames read per round: one batch for every worker.
func (fp *FrameProcessor) window() int {
	return max(fp.BatchSize, 1) * fp.Pool.Size()
}

func (fp *FrameProcessor) analyzeBatch(ctx context.Context, batch []Frame, rng *rand.Rand) ([]imageproc.FrameAnalysis, error) {
	res := make([]imageproc.FrameAnalysis, 0, len(batch))
	for _, f := range batch {
		img, err := imageproc.NewRGB24(f, fp.width, fp.height)
		if err != nil {
			return nil, err
		}
		fa, err := fp.Analyze(ctx, img, rng)
		if err != nil {
			return nil, err
		}
		res = append(res, fa)
	}
	return res, nil
}

// frameResult places the idx-th extracted frame on the source timeline.
func (fp *FrameProcessor) frameResult(idx int, fa imageproc.FrameAnalysis) FrameResult {
	frameNum := idx * max(fp.SampleEveryNFrames, 1)
	var ts float64
	if fp.framerate > 0 {
		ts = fp.offset + float64(frameNum)/fp.framerate
	}
	return FrameResult{
		FrameNumber:   frameNum,
		Timestamp:     ts,
		FrameAnalysis: fa,
	}
}

func (fp *FrameProcessor) writeResults() (string, error) {
	resultsFile := filepath.Join(fp.OutputDir, ResultsFile)

	fp.resultsMutex.Lock()
	data, err := json.MarshalIndent(fp.results, "", "  ")
	fp.resultsMutex.Unlock()
	if err != nil {
		return "", fmt.Errorf("error marshaling results: %w", err)
	}

	if err := os.WriteFile(resultsFile, data, 0644); err != nil {
		return "", fmt.Errorf("error writing results file: %w", err)
	}
	return resultsFile, nil
}

// GetResults returns a copy of the current analysis results
func (fp *FrameProcessor) GetResults() []FrameResult {
	fp.resultsMutex.Lock()
	defer fp.resultsMutex.Unlock()

	resultsCopy := make([]FrameResult, len(fp.results))
	copy(resultsCopy, fp.results)
	return resultsCopy
}
