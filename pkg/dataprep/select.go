package dataprep

import (
	"fmt"
	"slices"

	"tabprep/pkg/core"
)

// SelectorConfig holds the construction parameters of a PositionalSelector.
type SelectorConfig struct {
	// Positions are column indices; negative values count from the last column.
	Positions []int `koanf:"positions" yaml:"positions" json:"positions"`
}

// PositionalSelector projects a frame onto a fixed list of columns.
type PositionalSelector[T any] struct {
	positions []int
}

func NewPositionalSelector[T any](cfg SelectorConfig) *PositionalSelector[T] {
	return &PositionalSelector[T]{positions: slices.Clone(cfg.Positions)}
}

// Params returns the construction parameters.
func (s *PositionalSelector[T]) Params() SelectorConfig {
	return SelectorConfig{Positions: slices.Clone(s.positions)}
}

// Clone returns an independent selector with the same parameters.
func (s *PositionalSelector[T]) Clone() *PositionalSelector[T] {
	return NewPositionalSelector[T](s.Params())
}

// Fit is a no-op; the selector learns nothing.
func (s *PositionalSelector[T]) Fit(*core.Frame[T]) error { return nil }

// Transform returns the configured columns, in configuration order.
func (s *PositionalSelector[T]) Transform(X *core.Frame[T]) (*core.Frame[T], error) {
	cols, err := s.resolve(X.C)
	if err != nil {
		return nil, err
	}

	out := core.NewFrame[T](X.R, len(cols))
	for i := 0; i < X.R; i++ {
		for j, idx := range cols {
			out.Set(i, j, X.At(i, idx))
		}
	}
	return out, nil
}

// FeatureNames selects the header names the same way Transform selects columns.
func (s *PositionalSelector[T]) FeatureNames(in []string) ([]string, error) {
	cols, err := s.resolve(len(in))
	if err != nil {
		return nil, err
	}
	out := make([]string, len(cols))
	for j, idx := range cols {
		out[j] = in[idx]
	}
	return out, nil
}

// resolve maps positions to absolute column indices for a frame of n columns.
func (s *PositionalSelector[T]) resolve(n int) ([]int, error) {
	cols := make([]int, len(s.positions))
	for j, p := range s.positions {
		idx := p
		if idx < 0 {
			idx += n
		}
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("position %d with %d columns: %w", p, n, ErrColumnOutOfRange)
		}
		cols[j] = idx
	}
	return cols, nil
}
