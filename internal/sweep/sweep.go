// Package sweep grid-searches the slope and wind calibration of the combined
// rule against a scenario's ground-truth footprint.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vincenzocorso/forest-fire-simulation/internal/data"
	"github.com/vincenzocorso/forest-fire-simulation/internal/score"
	"github.com/vincenzocorso/forest-fire-simulation/internal/sims/wildfire"
)

// ErrNoTruth is returned when the scenario carries no burned mask to score
// against.
var ErrNoTruth = errors.New("sweep: scenario has no burned mask")

// Point is one calibration candidate.
type Point struct {
	Alpha float64
	C1    float64
	C2    float64
}

func (p Point) String() string {
	return fmt.Sprintf("alpha=%g c1=%g c2=%g", p.Alpha, p.C1, p.C2)
}

// Space lists the values tried for each parameter.
type Space struct {
	Alpha []float64
	C1    []float64
	C2    []float64
}

// DefaultSpace is the calibration grid used for the published runs.
func DefaultSpace() Space {
	wind := []float64{0.125, 0.25, 0.5, 0.75, 1.5}
	return Space{
		Alpha: []float64{30, 45, 60, 75, 90},
		C1:    wind,
		C2:    append([]float64(nil), wind...),
	}
}

// Points enumerates the cartesian product in alpha, c1, c2 order.
func (s Space) Points() []Point {
	out := make([]Point, 0, len(s.Alpha)*len(s.C1)*len(s.C2))
	for _, a := range s.Alpha {
		for _, c1 := range s.C1 {
			for _, c2 := range s.C2 {
				out = append(out, Point{Alpha: a, C1: c1, C2: c2})
			}
		}
	}
	return out
}

// Result is the best score a point reached within the step budget.
type Result struct {
	Point
	Best     score.Result
	BestStep int
	Elapsed  time.Duration
	Err      error
}

// Runner evaluates points concurrently, one model per point.
type Runner struct {
	// Base is copied for every point; Alpha, C1 and C2 are overwritten.
	Base   wildfire.Config
	Inputs wildfire.Inputs
	Rain   data.RainSource
	Steps  int
	// Workers bounds the number of models alive at once. Each model steps
	// sequentially.
	Workers int

	Log logrus.FieldLogger
}

// Run evaluates every point and returns the results in the order of points,
// tagged with a fresh sweep ID. A point that fails carries its error in
// Result.Err; Run itself only fails on a missing mask or a cancelled ctx.
func (r *Runner) Run(ctx context.Context, points []Point) (string, []Result, error) {
	if r.Inputs.Burned == nil {
		return "", nil, ErrNoTruth
	}
	log := r.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	id := uuid.NewString()
	log = log.WithField("sweep", id)
	log.WithFields(logrus.Fields{"points": len(points), "workers": workers, "steps": r.Steps}).Info("sweep started")

	type job struct {
		idx int
		p   Point
	}
	jobs := make(chan job)
	results := make([]Result, len(points))
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				res := r.evaluate(j.p)
				results[j.idx] = res
				entry := log.WithFields(logrus.Fields{
					"alpha": j.p.Alpha, "c1": j.p.C1, "c2": j.p.C2,
					"f1": res.Best.F1, "step": res.BestStep, "elapsed": res.Elapsed.Round(time.Millisecond),
				})
				if res.Err != nil {
					entry.WithError(res.Err).Warn("point failed")
					continue
				}
				entry.Debug("point done")
			}
		}()
	}

	start := time.Now()
	var err error
feed:
	for i, p := range points {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case jobs <- job{idx: i, p: p}:
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	if err != nil {
		return id, nil, err
	}

	if best, ok := Best(results); ok {
		log.WithFields(logrus.Fields{
			"best":    best.Point.String(),
			"f1":      best.Best.F1,
			"step":    best.BestStep,
			"elapsed": time.Since(start).Round(time.Millisecond),
		}).Info("sweep finished")
	}
	return id, results, nil
}

func (r *Runner) evaluate(p Point) Result {
	start := time.Now()
	res := Result{Point: p}
	cfg := r.Base
	cfg.Workers = 1
	cfg.Params.Alpha = p.Alpha
	cfg.Params.C1 = p.C1
	cfg.Params.C2 = p.C2
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	cfg.Log = quiet

	m, err := wildfire.NewModel(cfg, r.Inputs, r.Rain)
	if err != nil {
		res.Err = err
		return res
	}
	defer m.Close()

	for step := 0; step < r.Steps; step++ {
		met, err := m.Advance()
		if err != nil {
			res.Err = err
			break
		}
		if met.Score != nil && met.Score.F1 > res.Best.F1 {
			res.Best = *met.Score
			res.BestStep = met.Step
		}
	}
	res.Elapsed = time.Since(start)
	return res
}

// Best returns the successful result with the highest F1. Ties keep the
// earlier point.
func Best(results []Result) (Result, bool) {
	var best Result
	found := false
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if !found || r.Best.F1 > best.Best.F1 {
			best = r
			found = true
		}
	}
	return best, found
}

// Ranked returns the successful results sorted by descending F1.
func Ranked(results []Result) []Result {
	out := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Err == nil {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Best.F1 > out[j].Best.F1 })
	return out
}

// WriteLog appends one line per result to w.
func WriteLog(w io.Writer, id string, results []Result) error {
	for _, r := range results {
		var err error
		if r.Err != nil {
			_, err = fmt.Fprintf(w, "%s %s error=%q\n", id, r.Point, r.Err)
		} else {
			_, err = fmt.Fprintf(w, "%s %s step=%d %s\n", id, r.Point, r.BestStep, r.Best)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
