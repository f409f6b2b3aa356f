package kmeanstep

import (
	"context"
	"fmt"
	"iter"
	"time"
)

// Run drives the session to convergence, yielding the state after every
// completed step.
//
// The sequence ends when a step converges, when there is nothing to step
// (no centroids, or already converged), or when the consumer stops
// iterating. Cancelling ctx, or resetting/re-initializing the session while
// the consumer holds a yielded state, ends it as well; no further step is
// applied and the session keeps the last completed state.
//
// A context error is yielded once before the sequence ends. If the
// iteration cap is exceeded, ErrConvergenceNotReached is yielded the same way.
// While Run is iterating, Step fails with ErrSessionBusy.
//
//	for st, err := range s.Run(ctx) {
//	    if err != nil {
//	        return err
//	    }
//	    render(st)
//	}
func (s *Session) Run(ctx context.Context) iter.Seq2[State, error] {
	return func(yield func(State, error) bool) {
		if !s.lease.TryAcquire(1) {
			yield(s.State(), ErrSessionBusy)
			return
		}
		defer s.lease.Release(1)

		start := time.Now()
		var (
			steps     int
			converged bool
			runErr    error
		)
		defer func() {
			s.metrics.RecordRun(steps, time.Since(start), runErr)
			s.logger.LogRun(ctx, steps, converged, runErr)
		}()

		epoch := s.currentEpoch()
		for {
			if err := ctx.Err(); err != nil {
				runErr = err
				yield(s.State(), err)
				return
			}
			if s.maxIter > 0 && steps >= s.maxIter {
				runErr = fmt.Errorf("%w: stopped after %d steps", ErrConvergenceNotReached, steps)
				yield(s.State(), runErr)
				return
			}

			st, ok := s.advanceFrom(ctx, epoch)
			if !ok {
				return
			}
			steps++
			converged = st.Converged

			if !yield(st, nil) || st.Converged {
				return
			}
		}
	}
}

func (s *Session) currentEpoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// advanceFrom steps the session only if it has not been reset since epoch.
func (s *Session) advanceFrom(ctx context.Context, epoch uint64) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch || !s.advanceLocked(ctx) {
		return State{}, false
	}
	return s.stateLocked(), true
}
