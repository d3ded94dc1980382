// SPDX-License-Identifier: MIT

package hmm

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Decoding is the Viterbi result for one sequence.
type Decoding struct {
	Path        []int
	Probability float64
}

// EvaluateAll computes the Forward likelihood of every sequence concurrently.
// Results keep the order of seqs.
//
// Implementation:
//   - Stage 1: validate the model once.
//   - Stage 2: one errgroup task per sequence, at most Options.Workers in flight.
//     The first failure cancels the remaining tasks.
//
// Errors:
//   - Model validation errors; per-sequence errors are prefixed with the sequence index.
//   - ctx.Err() when the context is cancelled before all tasks ran.
func EvaluateAll(ctx context.Context, m *Model, seqs [][]int, opts ...Option) ([]float64, error) {
	out := make([]float64, len(seqs))
	err := runAll(ctx, m, seqs, opts, func(i int, p float64, _ []int) {
		out[i] = p
	}, false)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}

	return out, nil
}

// DecodeAll computes the Viterbi path of every sequence concurrently.
// Results keep the order of seqs.
func DecodeAll(ctx context.Context, m *Model, seqs [][]int, opts ...Option) ([]Decoding, error) {
	out := make([]Decoding, len(seqs))
	err := runAll(ctx, m, seqs, opts, func(i int, p float64, path []int) {
		out[i] = Decoding{Path: path, Probability: p}
	}, true)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	return out, nil
}

// runAll fans seqs out over an errgroup. Each task writes only its own index.
func runAll(ctx context.Context, m *Model, seqs [][]int, opts []Option,
	store func(i int, p float64, path []int), decode bool) error {
	o := applyOptions(opts)
	if err := m.validate(o); err != nil {
		return err
	}
	emit := m.emissionColumns()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Workers)
	for i, seq := range seqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := ValidateObservations(seq, m.Symbols()); err != nil {
				return fmt.Errorf("sequence %d: %w", i, err)
			}
			if decode {
				path, p, err := viterbi(m, seq, emit)
				if err != nil {
					return fmt.Errorf("sequence %d: %w", i, err)
				}
				store(i, p, path)

				return nil
			}
			p, _, err := forward(m, seq, emit)
			if err != nil {
				return fmt.Errorf("sequence %d: %w", i, err)
			}
			store(i, p, nil)

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	o.Logger.Debug("batch finished", "sequences", len(seqs), "decode", decode, "workers", o.Workers)

	return nil
}
