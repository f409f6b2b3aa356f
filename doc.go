// Package kmeanstep provides an interactive, stepwise k-means clustering
// engine for 2-D points.
//
// A Session owns one dataset together with the chosen initialization method
// and cluster count, and exposes every iteration so a presentation layer can
// observe (and render) convergence as it happens.
//
// # Quick Start
//
//	s := kmeanstep.New(
//	    kmeanstep.WithSeed(42),
//	    kmeanstep.WithK(3),
//	    kmeanstep.WithMethod(kmeanstep.MethodKMeansPlusPlus),
//	)
//	s.LoadDataset(points)
//	if _, err := s.Initialize(ctx); err != nil {
//	    return err
//	}
//	for st, err := range s.Run(ctx) {
//	    if err != nil {
//	        return err
//	    }
//	    render(st.Points, st.Centroids, st.Assignment)
//	}
//
// # Initialization Methods
//
//   - MethodRandom: k distinct dataset points drawn uniformly.
//   - MethodFarthestFirst: one random seed, then repeatedly the point farthest
//     from all chosen centroids.
//   - MethodKMeansPlusPlus: one random seed, then points sampled with
//     probability proportional to their distance (linear, not squared) to the
//     nearest chosen centroid.
//   - MethodManual: centroids are placed with AddManualCentroid until k exist.
//
// # Session Lifecycle
//
// Loading a dataset, selecting a method or changing k discards centroids,
// labels and progress. Reset does the same but keeps the configuration.
// Step performs one assign/update iteration; once the centroids move less
// than the tolerance (1e-4 by default) the session is converged and further
// steps are no-ops.
//
// # Randomness
//
// Each session owns its random generator. Use WithSeed for reproducible
// initialization, or WithRand to inject a custom source.
package kmeanstep
