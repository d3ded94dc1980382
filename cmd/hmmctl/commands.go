// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/lvmarkov/hmm"
	"github.com/katalvlaran/lvmarkov/internal/modelfile"
	"github.com/katalvlaran/lvmarkov/markov"
	"github.com/katalvlaran/lvmarkov/matrix"
	"github.com/spf13/cobra"
)

func newForwardCmd(a *app) *cobra.Command {
	var seq int
	cmd := &cobra.Command{
		Use:   "forward",
		Short: "Likelihood and forward table of one observation sequence",
		RunE: func(cmd *cobra.Command, _ []string) error {
			obs, err := a.sequence(seq)
			if err != nil {
				return err
			}
			p, fwd, err := hmm.Forward(a.model, obs)
			if err != nil {
				return err
			}
			printTable(cmd, p, fwd)

			return nil
		},
	}
	cmd.Flags().IntVar(&seq, "seq", 0, "index of the observation sequence")

	return cmd
}

func newBackwardCmd(a *app) *cobra.Command {
	var seq int
	cmd := &cobra.Command{
		Use:   "backward",
		Short: "Likelihood and backward table of one observation sequence",
		RunE: func(cmd *cobra.Command, _ []string) error {
			obs, err := a.sequence(seq)
			if err != nil {
				return err
			}
			p, bwd, err := hmm.Backward(a.model, obs)
			if err != nil {
				return err
			}
			printTable(cmd, p, bwd)

			return nil
		},
	}
	cmd.Flags().IntVar(&seq, "seq", 0, "index of the observation sequence")

	return cmd
}

func newViterbiCmd(a *app) *cobra.Command {
	var seq int
	cmd := &cobra.Command{
		Use:   "viterbi",
		Short: "Most likely hidden state path of one observation sequence",
		RunE: func(cmd *cobra.Command, _ []string) error {
			obs, err := a.sequence(seq)
			if err != nil {
				return err
			}
			path, p, err := hmm.Viterbi(a.model, obs)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "path: %s\n", strings.Join(a.labels(path), " "))
			fmt.Fprintf(out, "probability: %.6g\n", p)

			return nil
		},
	}
	cmd.Flags().IntVar(&seq, "seq", 0, "index of the observation sequence")

	return cmd
}

func newEvaluateCmd(a *app) *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Forward likelihood of every observation sequence",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ps, err := hmm.EvaluateAll(cmd.Context(), a.model, a.doc.Observations, batchOptions(a, workers)...)
			if err != nil {
				return err
			}
			for i, p := range ps {
				fmt.Fprintf(cmd.OutOrStdout(), "seq %d: %.6g\n", i, p)
			}

			return nil
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent sequences (0 = GOMAXPROCS)")

	return cmd
}

func newDecodeCmd(a *app) *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Viterbi path of every observation sequence",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := hmm.DecodeAll(cmd.Context(), a.model, a.doc.Observations, batchOptions(a, workers)...)
			if err != nil {
				return err
			}
			for i, d := range ds {
				fmt.Fprintf(cmd.OutOrStdout(), "seq %d: %s (%.6g)\n", i, strings.Join(a.labels(d.Path), " "), d.Probability)
			}

			return nil
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent sequences (0 = GOMAXPROCS)")

	return cmd
}

func newTrainCmd(a *app) *cobra.Command {
	var (
		seq        int
		iterations int
		tolerance  float64
		out        string
	)
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Re-estimate the model with Baum-Welch on one observation sequence",
		RunE: func(cmd *cobra.Command, _ []string) error {
			obs, err := a.sequence(seq)
			if err != nil {
				return err
			}
			if tolerance < 0 {
				return fmt.Errorf("--tolerance must be >= 0, got %g", tolerance)
			}
			res, err := hmm.BaumWelch(a.model, obs, iterations,
				hmm.WithConvergence(tolerance),
				hmm.WithLogger(a.logger),
			)
			if err != nil {
				return err
			}

			doc := modelfile.FromModel(res.Model, a.doc)
			if out != "" {
				if err = doc.Save(out); err != nil {
					return err
				}
				a.logger.Info("trained model written", "path", out)
			} else {
				data, err := doc.Marshal()
				if err != nil {
					return err
				}
				if _, err = cmd.OutOrStdout().Write(data); err != nil {
					return err
				}
			}
			if n := len(res.LogLikelihoods); n > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "iterations: %d converged: %t loglik: %.6f\n",
					res.Iterations, res.Converged, res.LogLikelihoods[n-1])
			}

			return nil
		},
	}
	cmd.Flags().IntVar(&seq, "seq", 0, "index of the training sequence")
	cmd.Flags().IntVar(&iterations, "iterations", 100, "maximum Baum-Welch iterations")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 0, "stop once the log-likelihood changes by less than this (0 = run all iterations)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the trained model here instead of stdout")

	return cmd
}

func newChainCmd(a *app) *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "chain",
		Short: "Inspect the hidden transition matrix as a Markov chain",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tr := a.model.Transition()
			out := cmd.OutOrStdout()

			dist, err := markov.Distribution(tr, a.model.Initial(), steps)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "distribution after %d steps: %s\n", steps, formatVec(dist))

			pi, err := markov.Stationary(tr)
			switch {
			case errors.Is(err, markov.ErrNotRegular):
				fmt.Fprintln(out, "stationary: chain is not regular")
			case err != nil:
				return err
			default:
				fmt.Fprintf(out, "stationary: %s\n", formatVec(pi))
			}

			absorbing, err := markov.IsAbsorbing(tr)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "absorbing: %t\n", absorbing)

			return nil
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 1, "number of transitions from the initial distribution")

	return cmd
}

// batchOptions wires the logger and an optional worker limit.
func batchOptions(a *app, workers int) []hmm.Option {
	opts := []hmm.Option{hmm.WithLogger(a.logger)}
	if workers > 0 {
		opts = append(opts, hmm.WithWorkers(workers))
	}

	return opts
}

func printTable(cmd *cobra.Command, p float64, table *matrix.Dense) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "likelihood: %.6g\n", p)
	fmt.Fprint(out, table)
}

func formatVec(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%.6f", x)
	}

	return "[" + strings.Join(parts, " ") + "]"
}
