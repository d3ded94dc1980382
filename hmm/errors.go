// SPDX-License-Identifier: MIT

package hmm

import "errors"

// Sentinel errors returned by the hmm package. Every operation wraps them with
// context via %w; callers match them with errors.Is.
var (
	// ErrShapeMismatch indicates that T, E, π or O have inconsistent dimensions.
	ErrShapeMismatch = errors.New("hmm: shape mismatch")

	// ErrInvalidDistribution indicates a row of T or E, or π, that is not a
	// probability distribution (entries outside [0,1], non-finite, or a sum
	// farther than the tolerance from 1).
	ErrInvalidDistribution = errors.New("hmm: invalid probability distribution")

	// ErrInvalidIndex indicates an observation symbol outside [0, M).
	ErrInvalidIndex = errors.New("hmm: observation symbol out of range")

	// ErrInvalidParameter indicates a malformed argument such as a negative
	// iteration count or a nil random source.
	ErrInvalidParameter = errors.New("hmm: invalid parameter")

	// ErrNilModel indicates that a nil *Model was passed.
	ErrNilModel = errors.New("hmm: model is nil")
)
