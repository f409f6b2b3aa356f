// Command kmeansviz runs a stepwise k-means session on a synthetic dataset,
// pacing the steps like an animation and rendering every step as a scatter
// chart.
//
//	kmeansviz -k 4 -method kmeans++ -pace 2 -out steps.html
//	kmeansviz -k 2 -method manual -centroids "2,2;8,8" -snapshot final.kms
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/kmeanstep"
	"github.com/hupe1980/kmeanstep/dataset"
	"github.com/hupe1980/kmeanstep/geometry"
	"github.com/hupe1980/kmeanstep/snapshot"
)

var (
	numPoints   = flag.Int("n", dataset.DefaultSize, "number of random points")
	seed        = flag.Int64("seed", time.Now().UnixNano(), "random seed for dataset and initialization")
	k           = flag.Int("k", kmeanstep.DefaultK, "number of clusters")
	methodName  = flag.String("method", "random", "initialization method: random, farthest-first, kmeans++, manual")
	centroids   = flag.String("centroids", "", `manual centroids as "x,y;x,y;..."`)
	pace        = flag.Float64("pace", 2, "steps per second (0 disables pacing)")
	maxIter     = flag.Int("max-iter", kmeanstep.DefaultMaxIterations, "iteration cap")
	tolerance   = flag.Float64("tolerance", 1e-4, "centroid movement below which a step converges")
	out         = flag.String("out", "", "write an HTML page with one chart per step")
	snapPath    = flag.String("snapshot", "", "write a snapshot of the final state")
	compression = flag.String("compression", "zstd", "snapshot compression: none, lz4, zstd")
	verbose     = flag.Bool("v", false, "verbose output")
	logJSON     = flag.Bool("log-json", false, "log as JSON")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "kmeansviz:", err)
		os.Exit(1)
	}
}

func run() error {
	if *numPoints < 0 {
		return fmt.Errorf("invalid -n %d: must not be negative", *numPoints)
	}
	if *tolerance <= 0 {
		return fmt.Errorf("invalid -tolerance %g: must be positive", *tolerance)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := kmeanstep.NewTextLogger(level)
	if *logJSON {
		logger = kmeanstep.NewJSONLogger(level)
	}

	method, err := kmeanstep.ParseMethod(*methodName)
	if err != nil {
		return err
	}
	comp, err := snapshot.ParseCompression(*compression)
	if err != nil {
		return err
	}

	s := kmeanstep.New(
		kmeanstep.WithSeed(*seed),
		kmeanstep.WithK(*k),
		kmeanstep.WithMethod(method),
		kmeanstep.WithMaxIterations(*maxIter),
		kmeanstep.WithTolerance(*tolerance),
		kmeanstep.WithLogger(logger),
	)
	s.LoadDataset(dataset.NewRNG(*seed).Uniform(*numPoints, dataset.DefaultMin, dataset.DefaultMax))

	if method == kmeanstep.MethodManual {
		points, err := parsePoints(*centroids)
		if err != nil {
			return err
		}
		for _, p := range points {
			s.AddManualCentroid(p)
		}
		if !s.Ready() {
			return fmt.Errorf("manual mode needs %d distinct centroids, %d still missing", s.K(), s.RemainingManual())
		}
	}

	if _, err := s.Initialize(ctx); err != nil {
		return err
	}

	states, err := animate(ctx, s, pace2limiter(*pace), logger)
	if err != nil && !errors.Is(err, kmeanstep.ErrConvergenceNotReached) {
		return err
	}

	last := states[len(states)-1]
	if last.Converged {
		fmt.Printf("converged in %d steps\n", last.Step)
	} else {
		fmt.Printf("stopped after %d steps without converging\n", last.Step)
	}

	if *out != "" {
		if err := writeFile(*out, func(f *os.File) error { return renderSteps(f, states) }); err != nil {
			return err
		}
	}
	if *snapPath != "" {
		data, err := s.Snapshot(func(o *snapshot.Options) { o.Compression = comp })
		if err != nil {
			return err
		}
		if err := os.WriteFile(*snapPath, data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// animate collects the initial state and every step of a run. Between steps
// it waits on limiter, if set.
func animate(ctx context.Context, s *kmeanstep.Session, limiter *rate.Limiter, logger *kmeanstep.Logger) ([]kmeanstep.State, error) {
	states := []kmeanstep.State{s.State()}

	for st, err := range s.Run(ctx) {
		if err != nil {
			logger.WarnContext(ctx, "run interrupted", "error", err)
			return states, err
		}
		states = append(states, st)
		logger.InfoContext(ctx, "step", "step", st.Step, "shift", st.Shift, "converged", st.Converged)

		if limiter != nil && !st.Converged {
			if err := limiter.Wait(ctx); err != nil {
				return states, err
			}
		}
	}
	return states, nil
}

func pace2limiter(stepsPerSecond float64) *rate.Limiter {
	if stepsPerSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(stepsPerSecond), 1)
}

// parsePoints parses "x,y;x,y".
func parsePoints(s string) ([]geometry.Point, error) {
	var points []geometry.Point
	for _, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		xs, ys, ok := strings.Cut(pair, ",")
		if !ok {
			return nil, fmt.Errorf("invalid point %q: want x,y", pair)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid point %q: %w", pair, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid point %q: %w", pair, err)
		}
		points = append(points, geometry.Pt(x, y))
	}
	return points, nil
}

func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
