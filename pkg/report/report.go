// Package report summarizes what a one-hot encoder learned and how the
// encoded data distributes over the learned categories.
package report

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"tabprep/pkg/core"
	"tabprep/pkg/dataprep"
)

// Category is one learned value and its indicator column statistics.
type Category struct {
	Value     string  `yaml:"value" json:"value"`
	Index     int     `yaml:"index" json:"index"`
	Count     int     `yaml:"count" json:"count"`
	Frequency float64 `yaml:"frequency" json:"frequency"`
}

// Column is the vocabulary of one encoder input column.
type Column struct {
	Name       string     `yaml:"name" json:"name"`
	Categories []Category `yaml:"categories" json:"categories"`
	// Unmatched counts rows whose block is all zero.
	Unmatched int `yaml:"unmatched" json:"unmatched"`
}

// Summary is the full report.
type Summary struct {
	Rows     int      `yaml:"rows" json:"rows"`
	Features int      `yaml:"features" json:"features"`
	Columns  []Column `yaml:"columns" json:"columns"`
}

// Summarize describes enc and the distribution of encoded, which must be the
// output of enc.Transform. names are the encoder's input column names; nil
// means x0, x1, ...
func Summarize(enc *dataprep.SimpleOneHotEncoder[string], encoded *core.Frame[int8], names []string) (Summary, error) {
	if !enc.Fitted() {
		return Summary{}, dataprep.ErrNotFitted
	}
	if encoded.C != enc.NumFeatures() {
		return Summary{}, fmt.Errorf("encoded frame has %d columns, encoder emits %d: %w",
			encoded.C, enc.NumFeatures(), dataprep.ErrColumnMismatch)
	}
	if names != nil && len(names) != enc.NumColumns() {
		return Summary{}, fmt.Errorf("got %d names for %d columns: %w", len(names), enc.NumColumns(), dataprep.ErrColumnMismatch)
	}

	s := Summary{Rows: encoded.R, Features: encoded.C}
	dense := core.ToDense(encoded)

	off := 0
	for c := range enc.NumColumns() {
		cats, err := enc.Categories(c)
		if err != nil {
			return Summary{}, err
		}
		col := Column{Name: fmt.Sprintf("x%d", c), Categories: make([]Category, len(cats))}
		if names != nil {
			col.Name = names[c]
		}

		matched := 0
		for k, v := range cats {
			cat := Category{Value: v, Index: k}
			if dense != nil {
				ind := mat.Col(nil, off+k, dense)
				cat.Frequency = stat.Mean(ind, nil)
				cat.Count = int(mat.Sum(dense.ColView(off + k)))
			}
			matched += cat.Count
			col.Categories[k] = cat
		}
		col.Unmatched = encoded.R - matched
		s.Columns = append(s.Columns, col)
		off += len(cats)
	}
	return s, nil
}

// WriteYAML renders the summary as YAML.
func WriteYAML(w io.Writer, s Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

// WriteJSON renders the summary as indented JSON.
func WriteJSON(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
