package kmeans

import "errors"

var (
	// ErrEmptySamples is returned when clusters are requested from an empty
	// sample buffer.
	ErrEmptySamples = errors.New("kmeans: empty sample buffer")

	// ErrClusterCount is returned when the number of clusters is negative or
	// exceeds MaxClusters.
	ErrClusterCount = errors.New("kmeans: cluster count out of range [0,256]")

	// ErrNonFinite is returned when a sample, seeding weight or centroid is NaN
	// or infinite.
	ErrNonFinite = errors.New("kmeans: non-finite value")
)
