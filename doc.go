// SPDX-License-Identifier: MIT

// Package lvmarkov is an in-memory toolkit for discrete Hidden Markov Models
// and the Markov chains underneath them.
//
// 🚀 What is lvmarkov?
//
//	A small, dependency-light library that brings together:
//		• Dense matrices: row-major storage, products, powers, LU & inverse
//		• HMM inference: Forward, Backward, Viterbi, state posteriors
//		• HMM learning: Baum-Welch re-estimation with optional early exit
//		• Batch inference: concurrent likelihoods and decodings
//		• Markov chains: n-step distributions, steady states, absorption
//
// ✨ Why choose lvmarkov?
//
//   - Beginner-friendly – minimal API, clear, intuitive naming
//   - Deterministic – fixed loop orders, documented tie-breaking
//   - Fail-fast – sentinel errors, validated once at every entry point
//   - Pure Go – no cgo
//
// Everything is organized under a few subpackages:
//
//	matrix/             — Dense type, validators and linear-algebra kernels
//	hmm/                — Model, Forward, Backward, Viterbi, Posteriors, BaumWelch, Sample
//	markov/             — Distribution, Stationary, IsAbsorbing
//	internal/modelfile/ — YAML model documents
//	cmd/hmmctl/         — command-line front end
//
// Quick example:
//
//	m, _ := hmm.NewModel(
//	    [][]float64{{0.7, 0.3}, {0.4, 0.6}},
//	    [][]float64{{0.9, 0.1}, {0.2, 0.8}},
//	    []float64{0.6, 0.4},
//	)
//	path, p, _ := hmm.Viterbi(m, []int{0, 1}) // [0 1], 0.1296
//
//	go get github.com/katalvlaran/lvmarkov
package lvmarkov
