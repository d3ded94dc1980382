// SPDX-License-Identifier: MIT

package hmm

import (
	"log/slog"
	"math"
	"runtime"
)

const (
	// DefaultTolerance is the allowed |Σ row − 1| for a distribution.
	DefaultTolerance = 1e-8

	// DefaultProbabilityFloor replaces a zero likelihood or denominator before division.
	DefaultProbabilityFloor = 1e-12
)

// Options configures model validation and the algorithms of this package.
//
// Tolerance            – max |Σ − 1| accepted for T rows, E rows and π. Must be ≥ 0.
// ProbabilityFloor     – value substituted for a zero likelihood. Must be > 0.
// ConvergenceTolerance – BaumWelch stops once |ln P_k − ln P_{k−1}| < tol.
//
//	0 disables early exit (fixed iteration count).
//
// Logger               – structured logger for training progress; discards by default.
// Workers              – goroutine limit for EvaluateAll/DecodeAll. Must be ≥ 1.
type Options struct {
	Tolerance            float64
	ProbabilityFloor     float64
	ConvergenceTolerance float64
	Logger               *slog.Logger
	Workers              int
}

// Option represents a functional option for configuring the hmm algorithms.
type Option func(*Options)

// DefaultOptions returns an Options struct initialized with sensible defaults.
//
// Defaults:
//   - Tolerance:            DefaultTolerance (1e-8).
//   - ProbabilityFloor:     DefaultProbabilityFloor (1e-12).
//   - ConvergenceTolerance: 0 (run every requested iteration).
//   - Logger:               a logger that discards every record.
//   - Workers:              runtime.GOMAXPROCS(0).
func DefaultOptions() Options {
	return Options{
		Tolerance:            DefaultTolerance,
		ProbabilityFloor:     DefaultProbabilityFloor,
		ConvergenceTolerance: 0,
		Logger:               slog.New(slog.DiscardHandler),
		Workers:              runtime.GOMAXPROCS(0),
	}
}

// WithTolerance sets the distribution sum tolerance.
// Panics if tol is negative or NaN.
func WithTolerance(tol float64) Option {
	return func(o *Options) {
		if tol < 0 || math.IsNaN(tol) {
			panic("hmm: tolerance must be >= 0")
		}
		o.Tolerance = tol
	}
}

// WithProbabilityFloor sets the value used in place of a zero likelihood.
// Panics unless floor is finite and > 0.
func WithProbabilityFloor(floor float64) Option {
	return func(o *Options) {
		if !(floor > 0) || math.IsInf(floor, 0) {
			panic("hmm: probability floor must be > 0")
		}
		o.ProbabilityFloor = floor
	}
}

// WithConvergence enables early exit in BaumWelch once the log-likelihood
// changes by less than tol between iterations. Panics if tol is negative or NaN.
func WithConvergence(tol float64) Option {
	return func(o *Options) {
		if tol < 0 || math.IsNaN(tol) {
			panic("hmm: convergence tolerance must be >= 0")
		}
		o.ConvergenceTolerance = tol
	}
}

// WithLogger routes training progress to l. A nil logger restores the discarding default.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l == nil {
			l = slog.New(slog.DiscardHandler)
		}
		o.Logger = l
	}
}

// WithWorkers bounds the goroutines used by EvaluateAll and DecodeAll.
// Panics if n < 1.
func WithWorkers(n int) Option {
	return func(o *Options) {
		if n < 1 {
			panic("hmm: workers must be >= 1")
		}
		o.Workers = n
	}
}

// applyOptions folds opts over DefaultOptions.
func applyOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	return o
}
