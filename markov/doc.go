// SPDX-License-Identifier: MIT

// Package markov provides utilities for finite, time-homogeneous Markov
// chains given by a row-stochastic transition matrix P.
//
// ✨ Key features:
//   - Distribution: the state distribution s·Pᵗ after t steps.
//   - Stationary:   the steady state π = π·P of a regular chain.
//   - IsAbsorbing:  whether every state can reach an absorbing state.
//
// ⚙️ Usage:
//
//	import "github.com/katalvlaran/lvmarkov/markov"
//
//	p, _ := matrix.NewDenseFrom([][]float64{{0.9, 0.1}, {0.5, 0.5}})
//	s, err := markov.Distribution(p, []float64{1, 0}, 3)
//	pi, err := markov.Stationary(p)
//
// Performance:
//
//   - Distribution: O(n³·log t).
//   - Stationary:   O(n⁵) worst case for the regularity check, O(n³) for the solve.
//   - IsAbsorbing:  O(n³) worst case.
package markov
