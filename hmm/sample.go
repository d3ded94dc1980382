// SPDX-License-Identifier: MIT

package hmm

import (
	"fmt"
	"math/rand"
)

// Sample draws a hidden state path and its emitted symbols of the given length.
// The draw is fully determined by rng, so a seeded source reproduces sequences.
//
// Errors:
//   - ErrInvalidParameter when length < 1 or rng is nil.
//   - Model validation errors (opts apply as in Model.Validate).
//
// Complexity: Time O(length·(N+M)).
func Sample(m *Model, length int, rng *rand.Rand, opts ...Option) (states, obs []int, err error) {
	if length < 1 {
		return nil, nil, fmt.Errorf("sample: %w: length = %d", ErrInvalidParameter, length)
	}
	if rng == nil {
		return nil, nil, fmt.Errorf("sample: %w: nil random source", ErrInvalidParameter)
	}
	if err = m.Validate(opts...); err != nil {
		return nil, nil, fmt.Errorf("sample: %w", err)
	}

	states = make([]int, length)
	obs = make([]int, length)
	var row []float64
	state := draw(m.initial, rng)
	for t := 0; t < length; t++ {
		if t > 0 {
			row, _ = m.transition.RowView(state)
			state = draw(row, rng)
		}
		states[t] = state
		row, _ = m.emission.RowView(state)
		obs[t] = draw(row, rng)
	}

	return states, obs, nil
}

// draw picks an index from the categorical distribution p.
// Rounding slack at the top end goes to the last index with positive mass.
func draw(p []float64, rng *rand.Rand) int {
	u := rng.Float64()
	last := 0
	acc := 0.0
	for k, v := range p {
		if v <= 0 {
			continue
		}
		acc += v
		last = k
		if u < acc {
			return k
		}
	}

	return last
}
