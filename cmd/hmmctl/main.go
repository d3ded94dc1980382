// SPDX-License-Identifier: MIT

// Command hmmctl evaluates, decodes and trains discrete HMMs described by a
// YAML model file, and inspects the hidden chain as a plain Markov chain.
//
// Usage:
//
//	hmmctl --model model.yaml forward --seq 0
//	hmmctl --model model.yaml viterbi
//	hmmctl --model model.yaml evaluate --workers 4
//	hmmctl --model model.yaml train --iterations 200 --tolerance 1e-9 --out trained.yaml
//	hmmctl --model model.yaml chain --steps 10
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "hmmctl:", err)
		stop()
		os.Exit(1)
	}
}
