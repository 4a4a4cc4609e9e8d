package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"colorcluster/internal/ffmpeg"
	"colorcluster/internal/imageproc"
	"colorcluster/internal/video"
	"colorcluster/internal/worker"
	"colorcluster/kmeans"
)

func main() {
	// Define command line flags
	imagePath := flag.String("image", "", "Path to an image file (png, jpeg, gif, webp)")
	videoPath := flag.String("video", "", "Path to video file (local or URL)")
	outputDir := flag.String("output", "./results", "Directory to save video analysis results")
	k := flag.Int("k", 8, "Number of colors to extract")
	space := flag.String("space", "lab", fmt.Sprintf("Color space to cluster in %v", imageproc.Spaces))
	engine := flag.String("engine", kmeans.Hamerly.String(), "Clustering engine (hamerly or lloyd)")
	maxIter := flag.Int("max-iter", 20, "Maximum clustering iterations")
	epsilon := flag.Float64("epsilon", -1, "Convergence threshold (negative uses the color space default)")
	runs := flag.Int("runs", 1, "Clustering runs per image, keeping the best")
	seed := flag.Uint64("seed", 0, "Random seed")
	pixels := flag.Int("pixels", 5000, "Number of random pixels to sample per image (0 uses all)")
	maxDim := flag.Int("max-dim", 256, "Scale images so the longest side is at most this (0 disables)")
	alpha := flag.Int("alpha", 1, "Skip pixels with alpha below this value")
	workers := flag.Int("workers", 0, "Worker goroutines (0 uses GOMAXPROCS)")
	startTime := flag.String("start", "", "Start time (format: HH:MM:SS)")
	endTime := flag.String("end", "", "End time (format: HH:MM:SS)")
	sampleRate := flag.Int("sample-rate", 5, "Process every Nth frame")
	verbose := flag.Bool("v", false, "Log clustering progress")

	flag.Parse()

	// Validate required arguments
	if (*imagePath == "") == (*videoPath == "") {
		fmt.Fprintf(os.Stderr, "Error: exactly one of -image or -video is required\n")
		flag.Usage()
		os.Exit(1)
	}

	eng, err := kmeans.ParseEngine(*engine)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	if *alpha < 0 || *alpha > 255 {
		log.Fatalf("Error: -alpha must be in [0,255], got %d", *alpha)
	}

	opts := imageproc.DefaultOptions()
	opts.K = *k
	opts.MaxDimension = *maxDim
	opts.SampleSize = *pixels
	opts.AlphaThreshold = uint8(*alpha)
	opts.Runs = *runs
	opts.Cluster.Engine = eng
	opts.Cluster.MaxIterations = *maxIter
	opts.Cluster.Epsilon = float32(*epsilon)
	opts.Cluster.Workers = *workers
	if *verbose {
		opts.Cluster.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	analyze, err := imageproc.NewAnalyzer(*space, opts)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	// Create a context that can be canceled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle termination signals
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signalChan
		log.Println("Received termination signal, shutting down...")
		cancel()
	}()

	if *imagePath != "" {
		if err := analyzeImage(ctx, os.Stdout, *imagePath, analyze, *seed); err != nil {
			log.Fatalf("Error analyzing image: %v", err)
		}
		return
	}

	// Setup time range if specified
	var timeRange *ffmpeg.TimeRange
	if *startTime != "" || *endTime != "" {
		timeRange = &ffmpeg.TimeRange{
			Start: *startTime,
			End:   *endTime,
		}
	}

	processor := video.NewFrameProcessor(*videoPath, *outputDir, timeRange, *sampleRate, analyze)
	processor.MaxDimension = *maxDim
	processor.Pool = worker.Pool{Workers: *workers, Seed: *seed}

	log.Printf("Starting analysis of %s", *videoPath)
	if err := processor.ProcessFrames(ctx); err != nil {
		log.Fatalf("Error processing video: %v", err)
	}

	results := processor.GetResults()
	log.Printf("Analysis complete. Processed %d frames.", len(results))
	if len(results) > 0 {
		first := results[0]
		log.Printf("First frame analysis:")
		log.Printf("  Frame number: %d", first.FrameNumber)
		log.Printf("  Timestamp: %.2fs", first.Timestamp)
		log.Printf("  Dominant color: %s", first.Dominant)
	}
}
