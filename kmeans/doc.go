// Package kmeans clusters color samples into k representative colors.
//
// Seed picks initial centroids with k-means++. Cluster then alternates
// assignment and update rounds until the centroids settle, either with the
// plain Lloyd engine or with the Hamerly engine, which keeps per-sample
// distance bounds and skips most distance computations. Both engines produce
// the same centroids and assignments for the same inputs and generator.
//
// Colors are three-channel points. Lab, RGB, LinearRGB and Triplet implement
// the Color constraint; any other ~[3]float32 type with Difference and Random
// methods works with the same engines.
//
// At most MaxClusters (256) clusters are supported because cluster ids are
// stored as uint8.
package kmeans
