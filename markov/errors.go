// SPDX-License-Identifier: MIT

package markov

import "errors"

// Sentinel errors returned by the markov package.
var (
	// ErrShape indicates a nil or non-square P, or a state vector of the wrong length.
	ErrShape = errors.New("markov: shape mismatch")

	// ErrNotStochastic indicates a row of P, or s, that is not a probability distribution.
	ErrNotStochastic = errors.New("markov: not a stochastic matrix")

	// ErrNotRegular indicates that no power P^k with k ≤ n² is strictly positive.
	ErrNotRegular = errors.New("markov: chain is not regular")

	// ErrBadSteps indicates a negative step count.
	ErrBadSteps = errors.New("markov: steps must be >= 0")
)
