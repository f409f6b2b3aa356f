// Package snapshot serializes the current state of a clustering session.
//
// A snapshot holds exactly one state (dataset, centroids, labels, step
// counter and converged flag); it is not a history. The binary layout is
//
//	magic "KMSS" | version u8 | compression u8 | codec name len u8 | codec name
//	| uncompressed size u32 | compressed size u32 (0 = stored) | payload
//
// with little-endian integers. The payload is the codec-encoded Document,
// optionally compressed with LZ4 or ZSTD.
package snapshot
