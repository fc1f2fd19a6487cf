// Package dataprep provides the column transformers that sit between raw
// tables and model inputs: positional selection, whitespace stripping and
// one-hot encoding.
package dataprep

import "tabprep/pkg/core"

// Transformer is the fit/transform pattern shared by every preprocessing step.
// Fit learns parameters from training data (or nothing); Transform maps a
// frame through what Fit learned.
type Transformer[In, Out any] interface {
	Fit(X *core.Frame[In]) error
	Transform(X *core.Frame[In]) (*core.Frame[Out], error)
}

// FeatureNamer is implemented by steps that can tell how input column names
// map to output column names.
type FeatureNamer interface {
	FeatureNames(in []string) ([]string, error)
}

// FitTransform fits t on X and returns the transformed X.
func FitTransform[In, Out any](t Transformer[In, Out], X *core.Frame[In]) (*core.Frame[Out], error) {
	if err := t.Fit(X); err != nil {
		return nil, err
	}
	return t.Transform(X)
}
