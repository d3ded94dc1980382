// SPDX-License-Identifier: MIT

// Package hmm implements inference and learning for discrete Hidden Markov
// Models over dense matrices from the matrix package.
//
// 🚀 What is an HMM?
//
//	A process moves between N hidden states according to a transition
//	matrix T (N×N) and, at each step, emits one of M symbols according to
//	an emission matrix E (N×M). The first state is drawn from π (length N).
//	Only the emitted symbols are observed.
//
// ✨ Key features:
//   - Forward:    likelihood P(O | model) plus the N×T forward table.
//   - Backward:   the N×T backward table; agrees with Forward on P.
//   - Viterbi:    most likely hidden path; ties go to the lowest state index.
//   - Posteriors: per-step state posteriors (gamma) and transition posteriors (xi).
//   - BaumWelch:  EM re-estimation of (T, E, π) on one sequence, optional early exit.
//   - Sample:     draw synthetic (states, symbols) sequences from a model.
//   - EvaluateAll / DecodeAll: concurrent Forward / Viterbi over many sequences.
//
// ⚙️ Usage:
//
//	import "github.com/katalvlaran/lvmarkov/hmm"
//
//	m, err := hmm.NewModel(
//	    [][]float64{{0.7, 0.3}, {0.4, 0.6}}, // transition
//	    [][]float64{{0.9, 0.1}, {0.2, 0.8}}, // emission
//	    []float64{0.6, 0.4},                 // initial
//	)
//	p, fwd, err := hmm.Forward(m, []int{0, 1})
//	path, best, err := hmm.Viterbi(m, []int{0, 1})
//	tr, err := hmm.BaumWelch(m, []int{0, 1, 0}, 50, hmm.WithConvergence(1e-9))
//
// Numeric policy:
//
//	Forward, Backward and Viterbi report raw linear-space tables, so their P
//	underflows to 0 on long sequences. Posteriors and BaumWelch normalize each
//	time step instead and carry ln P, which stays finite for any possible
//	sequence. An impossible sequence is a legitimate outcome: its zero mass is
//	floored (WithProbabilityFloor) before any division and never reported as
//	an error.
//
// Performance:
//
//   - Forward/Backward: O(N²·T) time, O(N·T) memory.
//   - Viterbi:          O(N²·T) time, O(N·T) memory (trellis + back-pointers).
//   - BaumWelch:        O(k·N²·T) for k iterations.
package hmm
