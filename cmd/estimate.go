package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/urfave/cli"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/montecarlo"
)

// EstimatePi compares uniform and stratified estimates of pi, optionally
// writing the convergence trace as CSV
func EstimatePi(ctx *cli.Context) error {
	setupLogging(ctx)

	sqrtN := ctx.Int("sqrt-n")
	if sqrtN <= 0 {
		return fmt.Errorf("sqrt-n must be positive, got %d", sqrtN)
	}
	sampler := core.NewSeededSampler(ctx.Int64("seed"))

	var trace func(montecarlo.PiEstimate)
	if path := ctx.String("csv"); path != "" {
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create trace file: %w", err)
		}
		defer file.Close()

		w := csv.NewWriter(file)
		defer w.Flush()
		var writeErr error
		trace, writeErr = piTrace(w)
		if writeErr != nil {
			return writeErr
		}
		logger.Infof("writing convergence trace to %s", path)
	}

	result := montecarlo.EstimatePi(sqrtN, sampler, trace)
	fmt.Fprintf(ctx.App.Writer, "Regular estimate of pi: %.12f\n", result.Regular)
	fmt.Fprintf(ctx.App.Writer, "Stratified estimate of pi: %.12f\n", result.Stratified)
	return nil
}

// piTrace writes the CSV header and returns a progress callback appending one row per report
func piTrace(w *csv.Writer) (func(montecarlo.PiEstimate), error) {
	if err := w.Write([]string{"samples", "regular", "stratified"}); err != nil {
		return nil, err
	}
	return func(e montecarlo.PiEstimate) {
		if err := w.Write([]string{
			strconv.Itoa(e.Samples),
			strconv.FormatFloat(e.Regular, 'f', 12, 64),
			strconv.FormatFloat(e.Stratified, 'f', 12, 64),
		}); err != nil {
			logger.Warningf("trace write failed: %v", err)
		}
	}, nil
}

// EstimateIntegral estimates the integral of x² over [0,2] with uniform and importance sampling
func EstimateIntegral(ctx *cli.Context) error {
	setupLogging(ctx)

	n := ctx.Int("n")
	if n <= 0 {
		return fmt.Errorf("n must be positive, got %d", n)
	}
	seed := ctx.Int64("seed")

	uniform := montecarlo.Integrate(n, core.NewSeededSampler(seed), montecarlo.UniformICD, montecarlo.UniformPDF, montecarlo.Square)
	importance := montecarlo.Integrate(n, core.NewSeededSampler(seed), montecarlo.SquareICD, montecarlo.SquarePDF, montecarlo.Square)

	writeIntegral(ctx.App.Writer, n, uniform, importance)
	return nil
}

func writeIntegral(w io.Writer, n int, uniform, importance float64) {
	fmt.Fprintf(w, "N = %d, exact I = %.12f\n", n, 8.0/3.0)
	fmt.Fprintf(w, "Uniform I = %.12f\n", uniform)
	fmt.Fprintf(w, "Importance I = %.12f\n", importance)
}
