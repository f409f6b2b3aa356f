// Package kmeans implements stepwise k-means clustering over 2-D points.
//
// Centroid seeding supports random sampling, farthest-first traversal,
// distance-weighted KMeans++ and manual placement. Step performs exactly one
// assign/update iteration so callers can observe every intermediate state.
package kmeans
