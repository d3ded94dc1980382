// SPDX-License-Identifier: MIT

// Package modelfile reads and writes HMM model documents in YAML.
//
// A document carries the parameters (transition, emission, initial), optional
// state and symbol labels, and optional observation sequences:
//
//	states: [rainy, sunny]
//	symbols: [walk, shop, clean]
//	transition: [[0.7, 0.3], [0.4, 0.6]]
//	emission:   [[0.1, 0.4, 0.5], [0.6, 0.3, 0.1]]
//	initial:    [0.6, 0.4]
//	observations:
//	  - [0, 1, 2]
//
// Documents are schema-checked with struct tags before any conversion; the
// probabilistic checks (row sums, shapes) are left to hmm.Model.Validate.
package modelfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/katalvlaran/lvmarkov/hmm"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidDocument indicates a document that fails schema validation.
	ErrInvalidDocument = errors.New("modelfile: invalid document")

	// ErrNoSequence indicates a requested observation sequence that does not exist.
	ErrNoSequence = errors.New("modelfile: no such observation sequence")
)

// docValidate is the shared validator instance for documents.
var docValidate = validator.New()

// Document is the YAML form of a model plus its observation sequences.
type Document struct {
	States       []string    `yaml:"states,omitempty" validate:"omitempty,dive,required"`
	Symbols      []string    `yaml:"symbols,omitempty" validate:"omitempty,dive,required"`
	Transition   [][]float64 `yaml:"transition" validate:"required,min=1,dive,min=1,dive,gte=0,lte=1"`
	Emission     [][]float64 `yaml:"emission" validate:"required,min=1,dive,min=1,dive,gte=0,lte=1"`
	Initial      []float64   `yaml:"initial" validate:"required,min=1,dive,gte=0,lte=1"`
	Observations [][]int     `yaml:"observations,omitempty" validate:"omitempty,dive,min=1,dive,gte=0"`
}

// Load reads and validates the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("modelfile: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return doc, nil
}

// Parse decodes and validates a YAML document. Unknown keys are rejected.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return &doc, nil
}

// Validate runs the schema checks and the label-count checks.
func (d *Document) Validate() error {
	if err := docValidate.Struct(d); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if len(d.States) > 0 && len(d.States) != len(d.Transition) {
		return fmt.Errorf("%w: %d state labels for %d states", ErrInvalidDocument, len(d.States), len(d.Transition))
	}
	if len(d.Symbols) > 0 && len(d.Symbols) != len(d.Emission[0]) {
		return fmt.Errorf("%w: %d symbol labels for %d symbols", ErrInvalidDocument, len(d.Symbols), len(d.Emission[0]))
	}

	return nil
}

// Model converts the document into a validated hmm.Model.
func (d *Document) Model(opts ...hmm.Option) (*hmm.Model, error) {
	m, err := hmm.NewModel(d.Transition, d.Emission, d.Initial, opts...)
	if err != nil {
		return nil, fmt.Errorf("modelfile: %w", err)
	}

	return m, nil
}

// Sequence returns observation sequence i.
func (d *Document) Sequence(i int) ([]int, error) {
	if i < 0 || i >= len(d.Observations) {
		return nil, fmt.Errorf("%w: index %d, document has %d", ErrNoSequence, i, len(d.Observations))
	}

	return d.Observations[i], nil
}

// StateLabel returns the label of state i, or its index when unlabeled.
func (d *Document) StateLabel(i int) string {
	if i >= 0 && i < len(d.States) {
		return d.States[i]
	}

	return strconv.Itoa(i)
}

// FromModel builds a document from m, carrying over labels and observations of base.
// base may be nil.
func FromModel(m *hmm.Model, base *Document) *Document {
	doc := &Document{
		Transition: m.Transition().ToSlices(),
		Emission:   m.Emission().ToSlices(),
		Initial:    m.Initial(),
	}
	if base != nil {
		doc.States = base.States
		doc.Symbols = base.Symbols
		doc.Observations = base.Observations
	}

	return doc
}

// Marshal encodes the document as YAML.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("modelfile: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("modelfile: %w", err)
	}

	return buf.Bytes(), nil
}

// Save writes the document to path.
func (d *Document) Save(path string) error {
	data, err := d.Marshal()
	if err != nil {
		return err
	}
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("modelfile: %w", err)
	}

	return nil
}
