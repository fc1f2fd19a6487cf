package pipeline

import (
	"fmt"

	"tabprep/pkg/dataprep"
)

// Schema describes the columns leaving a pipeline.
type Schema struct {
	FeatureNames []string
}

// PositionalNames returns x0 .. x(n-1), used when a table has no header.
func PositionalNames(n int) []string {
	out := make([]string, n)
	for i := range n {
		out[i] = fmt.Sprintf("x%d", i)
	}
	return out
}

// Schema propagates input column names through every step. It must be called
// after Fit, since the final step may only know its output after learning.
func (p *Pipeline[Out]) Schema(in []string) (Schema, error) {
	names := in
	for i, s := range p.all() {
		namer, ok := s.(dataprep.FeatureNamer)
		if !ok {
			return Schema{}, fmt.Errorf("step %d (%s) does not name its features", i, StepName(s))
		}
		var err error
		if names, err = namer.FeatureNames(names); err != nil {
			return Schema{}, fmt.Errorf("step %d (%s) feature names: %w", i, StepName(s), err)
		}
	}
	return Schema{FeatureNames: names}, nil
}

func (p *Pipeline[Out]) all() []any {
	out := make([]any, 0, p.Len())
	for _, s := range p.steps {
		out = append(out, s)
	}
	return append(out, p.final)
}
