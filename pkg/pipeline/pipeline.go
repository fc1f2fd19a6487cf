// Package pipeline chains string-table transformers ahead of a final step.
package pipeline

import (
	"fmt"
	"time"

	"tabprep/pkg/core"
	"tabprep/pkg/dataprep"
	"tabprep/pkg/logger"
)

// Step is a transformer that keeps cells as strings, such as a selector or a stripper.
type Step = dataprep.Transformer[string, string]

// Observer receives the duration of every fit or transform call of a named step.
type Observer func(step, phase string, rows int, took time.Duration)

// Pipeline chains multiple transformers. The final step may change the cell type.
type Pipeline[Out any] struct {
	steps    []Step
	final    dataprep.Transformer[string, Out]
	observer Observer
}

func NewPipeline[Out any](final dataprep.Transformer[string, Out], steps ...Step) *Pipeline[Out] {
	return &Pipeline[Out]{steps: steps, final: final}
}

// Observe installs an observer for step timings.
func (p *Pipeline[Out]) Observe(o Observer) { p.observer = o }

// Len is the number of steps including the final one.
func (p *Pipeline[Out]) Len() int { return len(p.steps) + 1 }

// Fit fits each step on the output of the previous one.
func (p *Pipeline[Out]) Fit(X *core.Frame[string]) error {
	for i, step := range p.steps {
		if err := p.timed(i, step, "fit", X.R, func() error { return step.Fit(X) }); err != nil {
			return err
		}
		var err error
		if X, err = p.apply(i, step, X); err != nil {
			return err
		}
	}
	n := len(p.steps)
	return p.timed(n, p.final, "fit", X.R, func() error { return p.final.Fit(X) })
}

// Transform runs X through every step.
func (p *Pipeline[Out]) Transform(X *core.Frame[string]) (*core.Frame[Out], error) {
	for i, step := range p.steps {
		var err error
		if X, err = p.apply(i, step, X); err != nil {
			return nil, err
		}
	}
	var out *core.Frame[Out]
	n := len(p.steps)
	err := p.timed(n, p.final, "transform", X.R, func() error {
		var err error
		out, err = p.final.Transform(X)
		return err
	})
	return out, err
}

func (p *Pipeline[Out]) apply(i int, step Step, X *core.Frame[string]) (*core.Frame[string], error) {
	var out *core.Frame[string]
	err := p.timed(i, step, "transform", X.R, func() error {
		var err error
		out, err = step.Transform(X)
		return err
	})
	return out, err
}

func (p *Pipeline[Out]) timed(i int, step any, phase string, rows int, fn func() error) error {
	name := StepName(step)
	start := time.Now()
	err := fn()
	took := time.Since(start)
	if err != nil {
		return fmt.Errorf("step %d (%s) %s: %w", i, name, phase, err)
	}
	logger.WithStep(name, i).Debug("step done", "phase", phase, "rows", rows, "duration", took)
	if p.observer != nil {
		p.observer(name, phase, rows, took)
	}
	return nil
}

// StepName returns a short label for a known transformer type.
func StepName(step any) string {
	switch step.(type) {
	case *dataprep.PositionalSelector[string]:
		return "select"
	case *dataprep.StripString:
		return "strip"
	case *dataprep.SimpleOneHotEncoder[string]:
		return "onehot"
	}
	return fmt.Sprintf("%T", step)
}
