// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/katalvlaran/lvmarkov/hmm"
	"github.com/katalvlaran/lvmarkov/internal/modelfile"
	"github.com/spf13/cobra"
)

// app is the state shared by all subcommands once the model file is loaded.
type app struct {
	modelPath    string
	logLevel     string
	sumTolerance float64

	logger *slog.Logger
	doc    *modelfile.Document
	model  *hmm.Model
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "hmmctl",
		Short:         "Evaluate, decode and train discrete Hidden Markov Models",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&a.modelPath, "model", "m", "model.yaml", "path to the YAML model file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().Float64Var(&a.sumTolerance, "sum-tolerance", hmm.DefaultTolerance,
		"allowed |row sum - 1| when loading the model")

	root.AddCommand(
		newForwardCmd(a),
		newBackwardCmd(a),
		newViterbiCmd(a),
		newEvaluateCmd(a),
		newDecodeCmd(a),
		newTrainCmd(a),
		newChainCmd(a),
	)

	return root
}

// load configures logging and reads the model file.
func (a *app) load(cmd *cobra.Command) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(a.logLevel)); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))
	if a.sumTolerance < 0 || math.IsNaN(a.sumTolerance) {
		return fmt.Errorf("--sum-tolerance must be >= 0, got %g", a.sumTolerance)
	}

	doc, err := modelfile.Load(a.modelPath)
	if err != nil {
		return err
	}
	m, err := doc.Model(hmm.WithTolerance(a.sumTolerance))
	if err != nil {
		return err
	}
	a.doc, a.model = doc, m
	a.logger.Debug("model loaded",
		"path", a.modelPath,
		"states", m.States(),
		"symbols", m.Symbols(),
		"sequences", len(doc.Observations),
	)

	return nil
}

// sequence returns observation sequence i of the loaded document.
func (a *app) sequence(i int) ([]int, error) {
	return a.doc.Sequence(i)
}

// labels maps a state path to state labels.
func (a *app) labels(path []int) []string {
	out := make([]string, len(path))
	for t, s := range path {
		out[t] = a.doc.StateLabel(s)
	}

	return out
}
