// SPDX-License-Identifier: MIT

package hmm

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/lvmarkov/matrix"
	"gonum.org/v1/gonum/floats"
)

// Model is a discrete HMM parameterized by (T, E, π).
//
//   - transition: N×N, row i is the distribution of the next state given state i.
//   - emission:   N×M, row i is the distribution of the emitted symbol given state i.
//   - initial:    length N, the distribution of the first state.
//
// A Model is immutable through its public API; accessors return copies.
// It remembers the Tolerance it was accepted under, and later validation
// never applies a stricter one.
// Algorithms in this package only read it, so one Model may be shared by
// concurrent callers.
type Model struct {
	transition *matrix.Dense
	emission   *matrix.Dense
	initial    []float64
	tolerance  float64
}

// NewModel builds and validates a Model from nested row slices. The inputs are copied.
//
// Errors:
//   - ErrShapeMismatch for empty, ragged or inconsistent dimensions.
//   - ErrInvalidDistribution for non-finite values or rows that are not distributions.
func NewModel(transition, emission [][]float64, initial []float64, opts ...Option) (*Model, error) {
	t, err := matrix.NewDenseFrom(transition)
	if err != nil {
		return nil, ingestError("transition", err)
	}
	e, err := matrix.NewDenseFrom(emission)
	if err != nil {
		return nil, ingestError("emission", err)
	}
	o := applyOptions(opts)
	m := &Model{transition: t, emission: e, initial: append([]float64(nil), initial...), tolerance: o.Tolerance}
	if err = m.validate(o); err != nil {
		return nil, err
	}

	return m, nil
}

// FromMatrices builds and validates a Model from any Matrix implementations.
// The inputs are copied into private *matrix.Dense storage.
func FromMatrices(transition, emission matrix.Matrix, initial []float64, opts ...Option) (*Model, error) {
	if err := matrix.ValidateNotNil(transition); err != nil {
		return nil, fmt.Errorf("%w: transition: %w", ErrShapeMismatch, err)
	}
	if err := matrix.ValidateNotNil(emission); err != nil {
		return nil, fmt.Errorf("%w: emission: %w", ErrShapeMismatch, err)
	}
	t, err := matrix.Scale(transition, 1)
	if err != nil {
		return nil, fmt.Errorf("%w: transition: %w", ErrShapeMismatch, err)
	}
	e, err := matrix.Scale(emission, 1)
	if err != nil {
		return nil, fmt.Errorf("%w: emission: %w", ErrShapeMismatch, err)
	}
	o := applyOptions(opts)
	m := &Model{transition: t, emission: e, initial: append([]float64(nil), initial...), tolerance: o.Tolerance}
	if err = m.validate(o); err != nil {
		return nil, err
	}

	return m, nil
}

// ingestError maps a matrix construction failure onto the hmm taxonomy.
func ingestError(what string, err error) error {
	if errors.Is(err, matrix.ErrNaNInf) {
		return fmt.Errorf("%w: %s: %w", ErrInvalidDistribution, what, err)
	}

	return fmt.Errorf("%w: %s: %w", ErrShapeMismatch, what, err)
}

// States returns N, the number of hidden states.
func (m *Model) States() int { return m.transition.Rows() }

// Symbols returns M, the size of the observation alphabet.
func (m *Model) Symbols() int { return m.emission.Cols() }

// Transition returns a copy of the N×N transition matrix.
func (m *Model) Transition() *matrix.Dense { return m.transition.CloneDense() }

// Emission returns a copy of the N×M emission matrix.
func (m *Model) Emission() *matrix.Dense { return m.emission.CloneDense() }

// Initial returns a copy of the initial distribution.
func (m *Model) Initial() []float64 { return append([]float64(nil), m.initial...) }

// Clone returns a deep copy of the model.
func (m *Model) Clone() *Model {
	return &Model{
		transition: m.transition.CloneDense(),
		emission:   m.emission.CloneDense(),
		initial:    append([]float64(nil), m.initial...),
		tolerance:  m.tolerance,
	}
}

// Validate checks shapes and distributions of the model.
//
// Implementation:
//   - Stage 1: nil guard; T square with N ≥ 1; E has N rows; len(π) == N.
//   - Stage 2: every row of T and E, and π, is a distribution within the larger
//     of Options.Tolerance and the tolerance the model was built with.
//
// Errors:
//   - ErrNilModel, ErrShapeMismatch, ErrInvalidDistribution.
//
// Complexity:
//   - Time O(N·(N+M)), Space O(1).
func (m *Model) Validate(opts ...Option) error {
	return m.validate(applyOptions(opts))
}

func (m *Model) validate(o Options) error {
	if m == nil || m.transition == nil || m.emission == nil {
		return ErrNilModel
	}
	tol := math.Max(o.Tolerance, m.tolerance)
	n := m.transition.Rows()
	if m.transition.Cols() != n {
		return fmt.Errorf("%w: transition is %dx%d, want square", ErrShapeMismatch, n, m.transition.Cols())
	}
	if m.emission.Rows() != n {
		return fmt.Errorf("%w: emission has %d rows, want %d", ErrShapeMismatch, m.emission.Rows(), n)
	}
	if len(m.initial) != n {
		return fmt.Errorf("%w: initial has length %d, want %d", ErrShapeMismatch, len(m.initial), n)
	}

	var i int
	var row []float64
	for i = 0; i < n; i++ {
		row, _ = m.transition.RowView(i)
		if err := checkDistribution(row, tol); err != nil {
			return fmt.Errorf("%w: transition row %d: %v", ErrInvalidDistribution, i, err)
		}
		row, _ = m.emission.RowView(i)
		if err := checkDistribution(row, tol); err != nil {
			return fmt.Errorf("%w: emission row %d: %v", ErrInvalidDistribution, i, err)
		}
	}
	if err := checkDistribution(m.initial, tol); err != nil {
		return fmt.Errorf("%w: initial: %v", ErrInvalidDistribution, err)
	}

	return nil
}

// checkDistribution reports why p is not a probability vector, or nil.
func checkDistribution(p []float64, tol float64) error {
	for k, v := range p {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("entry %d = %g outside [0,1]", k, v)
		}
	}
	if s := floats.Sum(p); math.Abs(s-1) > tol {
		return fmt.Errorf("sums to %g", s)
	}

	return nil
}

// ValidateObservations checks that obs is a non-empty sequence of symbols in [0, symbols).
//
// Errors:
//   - ErrShapeMismatch for an empty sequence.
//   - ErrInvalidIndex for the first symbol outside [0, symbols).
func ValidateObservations(obs []int, symbols int) error {
	if len(obs) == 0 {
		return fmt.Errorf("%w: observation sequence is empty", ErrShapeMismatch)
	}
	for t, k := range obs {
		if k < 0 || k >= symbols {
			return fmt.Errorf("%w: obs[%d] = %d, alphabet size %d", ErrInvalidIndex, t, k, symbols)
		}
	}

	return nil
}

// validateInputs is the single entry check shared by every public operation.
func validateInputs(m *Model, obs []int, o Options) error {
	if err := m.validate(o); err != nil {
		return err
	}

	return ValidateObservations(obs, m.Symbols())
}

// emissionColumns returns E[:,k] for every symbol k, so the recursions read
// one contiguous vector per time step.
func (m *Model) emissionColumns() [][]float64 {
	cols := make([][]float64, m.emission.Cols())
	for k := range cols {
		cols[k], _ = m.emission.Col(k)
	}

	return cols
}
