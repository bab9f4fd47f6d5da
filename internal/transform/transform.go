// Package transform implements the derived-metric computation over the raw
// event log. It augments every row with delivery sequencing, calendar fields,
// chase arithmetic, phase classification, a pressure index, boolean flags,
// and cleaned text values.
//
// The steps form a fixed, ordered chain; order matters because later steps
// read columns produced by earlier ones (pressure reads the required run
// rate, flags read pre-clean wicket text). The chain is pure: it mutates the
// dataset in place and touches no storage.
package transform

import (
	"fmt"
	"strings"

	"ipldw/internal/dataset"
)

// Step is a single transformation applied to the whole dataset.
type Step interface {
	// Name identifies the step in logs and wrapped errors.
	Name() string

	// Apply mutates ds in place. A returned error aborts the chain.
	Apply(ds *dataset.Dataset) error
}

// Chain is an ordered list of steps.
type Chain []Step

// Apply runs each step in order, stopping at the first error.
func (c Chain) Apply(ds *dataset.Dataset) error {
	for _, s := range c {
		if err := s.Apply(ds); err != nil {
			return fmt.Errorf("transform %s: %w", s.Name(), err)
		}
	}
	return nil
}

// Pipeline returns the canonical transformation chain. Sequencing runs first
// so every later step can rely on chronological row order; cleaning runs last
// so the flags step still sees raw wicket text.
func Pipeline() Chain {
	return Chain{
		Sequence{},
		Calendar{},
		GameState{},
		Phases{},
		Pressure{},
		Flags{},
		Clean{},
	}
}

// SchemaError reports input columns required by the transformer that the
// source dataset does not carry. It is fatal: without the ordering columns no
// downstream invariant holds.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("dataset missing required columns: %s", strings.Join(e.Missing, ", "))
}
