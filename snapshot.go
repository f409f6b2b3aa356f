package kmeanstep

import (
	"context"
	"slices"

	"github.com/hupe1980/kmeanstep/internal/kmeans"
	"github.com/hupe1980/kmeanstep/snapshot"
)

// Snapshot serializes the current session state: dataset, k, method,
// centroids, labels, step counter and converged flag.
//
//	data, _ := s.Snapshot(func(o *snapshot.Options) {
//	    o.Compression = snapshot.CompressionZSTD
//	})
func (s *Session) Snapshot(optFns ...func(*snapshot.Options)) ([]byte, error) {
	s.mu.Lock()
	doc := &snapshot.Document{
		K:          s.k,
		Method:     int(s.method),
		Points:     slices.Clone(s.points),
		Centroids:  slices.Clone(s.centroids),
		Assignment: slices.Clone(s.assignment),
		Step:       s.step,
		Converged:  s.converged,
		Shift:      s.shift,
	}
	s.mu.Unlock()

	return snapshot.Encode(doc, optFns...)
}

// Restore replaces the whole session state with a snapshot. A run in
// progress stops at its next suspension point.
func (s *Session) Restore(data []byte) error {
	doc, err := snapshot.Decode(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.k = doc.K
	s.method = Method(doc.Method)
	s.points = doc.Points
	s.centroids = doc.Centroids
	s.assignment = doc.Assignment
	s.members = nil
	if len(doc.Assignment) > 0 {
		s.members = kmeans.Members(doc.Assignment, len(doc.Centroids))
	}
	s.step = doc.Step
	s.converged = doc.Converged
	s.shift = doc.Shift
	s.epoch++

	s.logger.LogReset(context.Background(), "restore")
	return nil
}
