// SPDX-License-Identifier: MIT

// Package matrix provides the dense linear-algebra primitives used by the
// probabilistic models in this module (hmm, markov).
//
// What & Why:
//
//	The Matrix interface provides a uniform abstraction over two-dimensional mutable
//	arrays of float64 values. Dense is the concrete row-major implementation with
//	flat storage; every kernel has a fast path for *Dense and a bounds-checked
//	fallback for any other Matrix.
//
// Kernels:
//
//   - Mul, MatVec, VecMat: products used by forward/backward recursions and chain powers.
//   - Hadamard, Scale, Transpose: elementwise and structural helpers.
//   - LU, Inverse: Doolittle factorization without pivoting (deterministic), used to
//     solve the steady-state system of a regular Markov chain.
//   - Pow: repeated multiplication for P^t.
//   - RowSums, AllClose: stochastic-row checks and tolerance comparisons.
//
// Complexity:
//
//	Rows() and Cols() run in O(1) time.
//	At() and Set() perform bounds checking in O(1) time, returning an error on invalid indices.
//	Clone() performs a deep copy in O(rows*cols) time, allocating new storage.
//
// Errors:
//
//	All failures are sentinel errors from errors.go, wrapped with an operation tag
//	("Mul: matrix: dimension mismatch"); match them with errors.Is.
package matrix
