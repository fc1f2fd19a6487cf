package dataprep

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"tabprep/pkg/core"
	"tabprep/pkg/logger"
)

// Vocabulary is the learned category set of one column: the distinct values
// in ascending order, and each value's position in that order.
type Vocabulary[T cmp.Ordered] struct {
	Categories []T
	Index      map[T]int
}

func newVocabulary[T cmp.Ordered](col []T) Vocabulary[T] {
	cats := slices.Clone(col)
	slices.Sort(cats)
	// cmp.Compare treats NaNs as equal, so a float column keeps a single NaN.
	cats = slices.CompactFunc(cats, func(a, b T) bool { return cmp.Compare(a, b) == 0 })
	idx := make(map[T]int, len(cats))
	for i, v := range cats {
		idx[v] = i
	}
	return Vocabulary[T]{Categories: cats, Index: idx}
}

// EncoderOption functional config
type EncoderOption func(*encoderOptions)

type encoderOptions struct {
	onUnknown func(column, count int)
}

// WithUnknownObserver registers fn to be told, per column and per Transform
// call, how many values were missing from the fitted vocabulary.
func WithUnknownObserver(fn func(column, count int)) EncoderOption {
	return func(o *encoderOptions) { o.onUnknown = fn }
}

// SimpleOneHotEncoder expands each categorical column into a block of 0/1
// indicator columns, one per category seen during Fit.
//
// A fitted encoder is safe for concurrent Transform calls. Fit replaces the
// learned state and must not race with other calls.
type SimpleOneHotEncoder[T cmp.Ordered] struct {
	opts  encoderOptions
	vocab []Vocabulary[T] // nil until fitted
}

func NewSimpleOneHotEncoder[T cmp.Ordered](opts ...EncoderOption) *SimpleOneHotEncoder[T] {
	e := &SimpleOneHotEncoder[T]{}
	for _, o := range opts {
		o(&e.opts)
	}
	return e
}

// Fit learns one sorted vocabulary per column. Any previous state is discarded.
func (e *SimpleOneHotEncoder[T]) Fit(X *core.Frame[T]) error {
	vocab := make([]Vocabulary[T], X.C)
	total := 0
	for c := range X.C {
		vocab[c] = newVocabulary(X.Col(c))
		total += len(vocab[c].Categories)
	}
	e.vocab = vocab

	logger.Debug("fitted one-hot encoder", "rows", X.R, "columns", X.C, "features", total)
	return nil
}

// Transform emits the indicator blocks for each column, in column order.
// Values absent from a column's vocabulary leave that row's block all zero.
func (e *SimpleOneHotEncoder[T]) Transform(X *core.Frame[T]) (*core.Frame[int8], error) {
	if e.vocab == nil {
		return nil, ErrNotFitted
	}
	if X.C != len(e.vocab) {
		return nil, fmt.Errorf("got %d columns, fitted on %d: %w", X.C, len(e.vocab), ErrColumnMismatch)
	}
	if X.C == 0 {
		return core.NewFrame[int8](X.R, 0), nil
	}

	blocks := make([]*core.Frame[int8], X.C)
	for c, v := range e.vocab {
		block := core.NewFrame[int8](X.R, len(v.Categories))
		unknown := 0
		for i := 0; i < X.R; i++ {
			if k, ok := v.Index[X.At(i, c)]; ok {
				block.Set(i, k, 1)
			} else {
				unknown++
			}
		}
		if unknown > 0 && e.opts.onUnknown != nil {
			e.opts.onUnknown(c, unknown)
		}
		blocks[c] = block
	}
	return core.HStack(blocks...)
}

// Fitted reports whether Fit has been called.
func (e *SimpleOneHotEncoder[T]) Fitted() bool { return e.vocab != nil }

// NumColumns is the number of input columns seen at fit time.
func (e *SimpleOneHotEncoder[T]) NumColumns() int { return len(e.vocab) }

// NumFeatures is the width of Transform's output.
func (e *SimpleOneHotEncoder[T]) NumFeatures() int {
	n := 0
	for _, v := range e.vocab {
		n += len(v.Categories)
	}
	return n
}

// Categories returns the sorted categories learned for column c.
func (e *SimpleOneHotEncoder[T]) Categories(c int) ([]T, error) {
	if err := e.checkColumn(c); err != nil {
		return nil, err
	}
	return slices.Clone(e.vocab[c].Categories), nil
}

// Mapping returns a copy of the value-to-index map learned for column c.
func (e *SimpleOneHotEncoder[T]) Mapping(c int) (map[T]int, error) {
	if err := e.checkColumn(c); err != nil {
		return nil, err
	}
	return maps.Clone(e.vocab[c].Index), nil
}

// FeatureNames names every output column <input>_<category>. Input names
// default to x0, x1, ... when in is nil.
func (e *SimpleOneHotEncoder[T]) FeatureNames(in []string) ([]string, error) {
	if e.vocab == nil {
		return nil, ErrNotFitted
	}
	if in != nil && len(in) != len(e.vocab) {
		return nil, fmt.Errorf("got %d names, fitted on %d columns: %w", len(in), len(e.vocab), ErrColumnMismatch)
	}
	out := make([]string, 0, e.NumFeatures())
	for c, v := range e.vocab {
		base := fmt.Sprintf("x%d", c)
		if in != nil {
			base = in[c]
		}
		for _, cat := range v.Categories {
			out = append(out, fmt.Sprintf("%s_%v", base, cat))
		}
	}
	return out, nil
}

func (e *SimpleOneHotEncoder[T]) checkColumn(c int) error {
	if e.vocab == nil {
		return ErrNotFitted
	}
	if c < 0 || c >= len(e.vocab) {
		return fmt.Errorf("column %d with %d columns: %w", c, len(e.vocab), ErrColumnOutOfRange)
	}
	return nil
}
