package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"strconv"
	"strings"

	"tabprep/pkg/core"
	"tabprep/pkg/data"
	"tabprep/pkg/dataprep"
	"tabprep/pkg/pipeline"
	"tabprep/pkg/report"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//
// ---------------------- CLI FLAGS DOCUMENTATION ----------------------
//
// --input     : Path to input CSV file. Default = Employee.csv
// --header    : First record holds column names
// --columns   : Comma separated positions of the categorical columns, e.g. "1,3,-1"
// --preview   : Number of encoded rows to print
// --plot      : Path of the PNG bar chart of category frequencies
//
// Example:
//   go run main.go --input Employee.csv --columns 1,3 --plot categories.png
//
// ---------------------------------------------------------------------
//

func parsePositions(s string) ([]int, error) {
	var out []int
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		p, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("bad position %q: %w", f, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// previewEncoded prints the first n encoded rows under their feature names.
func previewEncoded(names []string, X *core.Frame[int8], n int) {
	n = min(n, X.R)
	for _, h := range names {
		fmt.Printf("%-12s", h)
	}
	fmt.Println()
	for i := range n {
		for _, v := range X.Row(i) {
			fmt.Printf("%-12d", v)
		}
		fmt.Println()
	}
}

// plotFrequencies draws one bar per learned category.
func plotFrequencies(s report.Summary, filename string) error {
	var vals plotter.Values
	var labels []string
	for _, col := range s.Columns {
		for _, cat := range col.Categories {
			vals = append(vals, cat.Frequency)
			labels = append(labels, col.Name+"="+cat.Value)
		}
	}

	p := plot.New()
	p.Title.Text = "Category Frequencies"
	p.Y.Label.Text = "Share of rows"

	bars, err := plotter.NewBarChart(vals, vg.Points(18))
	if err != nil {
		return err
	}
	bars.Color = color.RGBA{R: 50, G: 50, B: 255, A: 255}
	p.Add(bars)
	p.NominalX(labels...)

	width := vg.Length(len(vals)+2) * vg.Centimeter
	return p.Save(max(width, 10*vg.Centimeter), 10*vg.Centimeter, filename)
}

func main() {
	inputPath := flag.String("input", "Employee.csv", "Path to input CSV file")
	header := flag.Bool("header", true, "First record holds column names")
	columns := flag.String("columns", "0", "Comma separated positions of categorical columns")
	previewRows := flag.Int("preview", 5, "Number of encoded rows to print")
	plotPath := flag.String("plot", "", "Save a bar chart of category frequencies to this PNG")
	flag.Parse()

	positions, err := parsePositions(*columns)
	if err != nil {
		log.Fatalf("Error parsing columns: %v", err)
	}

	tbl, err := data.ReadCSVFile(*inputPath, data.Options{Header: *header})
	if err != nil {
		log.Fatalf("Error reading CSV file: %v", err)
	}
	fmt.Printf("Loaded raw data: %d rows, %d columns\n", tbl.Frame.R, tbl.Frame.C)

	enc := dataprep.NewSimpleOneHotEncoder[string]()
	p := pipeline.NewPipeline[int8](enc,
		dataprep.NewPositionalSelector[string](dataprep.SelectorConfig{Positions: positions}),
		dataprep.NewStripString(),
	)
	if err := p.Fit(tbl.Frame); err != nil {
		log.Fatalf("Error fitting pipeline: %v", err)
	}
	X, err := p.Transform(tbl.Frame)
	if err != nil {
		log.Fatalf("Error encoding: %v", err)
	}

	names := tbl.Headers
	if names == nil {
		names = pipeline.PositionalNames(tbl.Frame.C)
	}
	schema, err := p.Schema(names)
	if err != nil {
		log.Fatalf("Error naming features: %v", err)
	}
	fmt.Printf("After encoding: %d samples, %d features\n\n", X.R, X.C)
	previewEncoded(schema.FeatureNames, X, *previewRows)

	if *plotPath == "" {
		return
	}
	selected, err := dataprep.NewPositionalSelector[string](dataprep.SelectorConfig{Positions: positions}).FeatureNames(names)
	if err != nil {
		log.Fatalf("Error naming columns: %v", err)
	}
	summary, err := report.Summarize(enc, X, selected)
	if err != nil {
		log.Fatalf("Error summarizing: %v", err)
	}
	if err := plotFrequencies(summary, *plotPath); err != nil {
		log.Fatalf("Error saving plot: %v", err)
	}
	fmt.Println("Saved category plot to", *plotPath)
}
