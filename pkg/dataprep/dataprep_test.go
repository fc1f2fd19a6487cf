package dataprep

import (
	"math"
	"testing"

	"golang.org/x/text/unicode/norm"
	"gotest.tools/v3/assert"

	"tabprep/pkg/core"
)

// =============================================================================
// PositionalSelector
// =============================================================================

func TestPositionalSelector_Transform(t *testing.T) {
	X := core.MustFromRows([][]string{
		{"a", "b", "c"},
		{"d", "e", "f"},
	})

	tests := []struct {
		name      string
		positions []int
		want      [][]string
	}{
		{name: "subset in order", positions: []int{0, 2}, want: [][]string{{"a", "c"}, {"d", "f"}}},
		{name: "reordered", positions: []int{2, 0}, want: [][]string{{"c", "a"}, {"f", "d"}}},
		{name: "duplicates", positions: []int{1, 1}, want: [][]string{{"b", "b"}, {"e", "e"}}},
		{name: "negative counts from end", positions: []int{-1}, want: [][]string{{"c"}, {"f"}}},
		{name: "empty selection", positions: nil, want: [][]string{{}, {}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewPositionalSelector[string](SelectorConfig{Positions: tt.positions})
			out, err := FitTransform[string, string](s, X)
			assert.NilError(t, err)
			assert.DeepEqual(t, out.ToRows(), tt.want)
		})
	}
}

func TestPositionalSelector_OutOfRange(t *testing.T) {
	X := core.MustFromRows([][]int{{1, 2}, {3, 4}})
	for _, p := range []int{2, -3, 100} {
		s := NewPositionalSelector[int](SelectorConfig{Positions: []int{0, p}})
		_, err := s.Transform(X)
		assert.ErrorIs(t, err, ErrColumnOutOfRange)
	}
}

func TestPositionalSelector_ParamsAreCopied(t *testing.T) {
	pos := []int{0, 1}
	s := NewPositionalSelector[string](SelectorConfig{Positions: pos})
	pos[0] = 5

	assert.DeepEqual(t, s.Params().Positions, []int{0, 1})

	c := s.Clone()
	p := c.Params()
	p.Positions[1] = 9
	assert.DeepEqual(t, c.Params().Positions, []int{0, 1})
}

func TestPositionalSelector_FeatureNames(t *testing.T) {
	s := NewPositionalSelector[string](SelectorConfig{Positions: []int{2, 0}})
	names, err := s.FeatureNames([]string{"age", "city", "plan"})
	assert.NilError(t, err)
	assert.DeepEqual(t, names, []string{"plan", "age"})
}

// =============================================================================
// StripString
// =============================================================================

func TestStripString_Transform(t *testing.T) {
	X := core.MustFromRows([][]string{
		{"  a ", "b"},
		{"\tc\n", " d e "},
	})
	s := NewStripString()
	out, err := FitTransform[string, string](s, X)
	assert.NilError(t, err)
	assert.DeepEqual(t, out.ToRows(), [][]string{{"a", "b"}, {"c", "d e"}})

	// input untouched
	assert.Equal(t, X.At(0, 0), "  a ")

	again, err := s.Transform(out)
	assert.NilError(t, err)
	assert.DeepEqual(t, again.ToRows(), out.ToRows())
}

func TestStripString_Cells(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "ascii spaces", in: " \t a b \r\n", want: "a b"},
		{name: "information separators", in: "\x1ca\x1f", want: "a"},
		{name: "all separators", in: "\x1c\x1d\x1e\x1fz\x1e", want: "z"},
		{name: "unicode spaces", in: "\u00a0\u2003x\u3000", want: "x"},
		{name: "only whitespace", in: " \x1d ", want: ""},
		{name: "inner separator kept", in: "a\x1cb", want: "a\x1cb"},
	}

	s := NewStripString()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := s.Transform(core.MustFromRows([][]string{{tt.in}}))
			assert.NilError(t, err)
			assert.Equal(t, out.At(0, 0), tt.want)
		})
	}
}

func TestStripString_Normalization(t *testing.T) {
	// "e" followed by a combining acute accent composes to U+00E9 under NFC.
	X := core.MustFromRows([][]string{{" e\u0301 "}})
	s := NewStripString(WithNormalization(norm.NFC))
	out, err := s.Transform(X)
	assert.NilError(t, err)
	assert.Equal(t, out.At(0, 0), "\u00e9")
}

func TestParseNormForm(t *testing.T) {
	_, ok, err := ParseNormForm("")
	assert.NilError(t, err)
	assert.Assert(t, !ok)

	f, ok, err := ParseNormForm("nfkc")
	assert.NilError(t, err)
	assert.Assert(t, ok)
	assert.Equal(t, f, norm.NFKC)

	_, _, err = ParseNormForm("NFX")
	assert.ErrorContains(t, err, "unknown normalization form")
}

func TestStripString_StripAny(t *testing.T) {
	s := NewStripString()

	out, err := s.StripAny(core.MustFromRows([][]any{{" x ", "y "}}))
	assert.NilError(t, err)
	assert.DeepEqual(t, out.ToRows(), [][]string{{"x", "y"}})

	_, err = s.StripAny(core.MustFromRows([][]any{{"x", 3}}))
	assert.ErrorIs(t, err, ErrNotString)
	assert.ErrorContains(t, err, "cell (0, 1)")
}

// =============================================================================
// SimpleOneHotEncoder
// =============================================================================

func column(vals ...string) *core.Frame[string] {
	f := core.NewFrame[string](len(vals), 1)
	for i, v := range vals {
		f.Set(i, 0, v)
	}
	return f
}

func TestSimpleOneHotEncoder_SingleColumn(t *testing.T) {
	e := NewSimpleOneHotEncoder[string]()
	assert.NilError(t, e.Fit(column("b", "a", "a", "c")))

	m, err := e.Mapping(0)
	assert.NilError(t, err)
	assert.DeepEqual(t, m, map[string]int{"a": 0, "b": 1, "c": 2})

	out, err := e.Transform(column("a", "b", "z"))
	assert.NilError(t, err)
	assert.DeepEqual(t, out.ToRows(), [][]int8{{1, 0, 0}, {0, 1, 0}, {0, 0, 0}})
}

func TestSimpleOneHotEncoder_RoundTrip(t *testing.T) {
	X := core.MustFromRows([][]string{
		{"b", "x"},
		{"a", "y"},
		{"a", "x"},
	})
	e := NewSimpleOneHotEncoder[string]()
	out, err := FitTransform[string, int8](e, X)
	assert.NilError(t, err)

	m0, _ := e.Mapping(0)
	m1, _ := e.Mapping(1)
	assert.DeepEqual(t, m0, map[string]int{"a": 0, "b": 1})
	assert.DeepEqual(t, m1, map[string]int{"x": 0, "y": 1})

	// blocks: [col0_a, col0_b, col1_x, col1_y]
	assert.DeepEqual(t, out.ToRows(), [][]int8{
		{0, 1, 1, 0},
		{1, 0, 0, 1},
		{1, 0, 1, 0},
	})
	assert.Equal(t, out.C, e.NumFeatures())

	names, err := e.FeatureNames([]string{"grade", "flag"})
	assert.NilError(t, err)
	assert.DeepEqual(t, names, []string{"grade_a", "grade_b", "flag_x", "flag_y"})
}

func TestSimpleOneHotEncoder_BlockWidths(t *testing.T) {
	X := core.MustFromRows([][]string{
		{"p", "1"},
		{"q", "2"},
		{"r", "1"},
		{"p", "3"},
	})
	e := NewSimpleOneHotEncoder[string]()
	out, err := FitTransform[string, int8](e, X)
	assert.NilError(t, err)
	assert.Equal(t, out.C, 3+3)
	assert.Equal(t, out.R, 4)

	// every row has exactly one hot bit per block
	for i := range out.R {
		row := out.Row(i)
		var left, right int
		for _, v := range row[:3] {
			left += int(v)
		}
		for _, v := range row[3:] {
			right += int(v)
		}
		assert.Equal(t, left, 1)
		assert.Equal(t, right, 1)
	}
}

func TestSimpleOneHotEncoder_NaturalOrder(t *testing.T) {
	X := core.MustFromRows([][]int{{10}, {2}, {33}, {2}})
	e := NewSimpleOneHotEncoder[int]()
	assert.NilError(t, e.Fit(X))

	cats, err := e.Categories(0)
	assert.NilError(t, err)
	assert.DeepEqual(t, cats, []int{2, 10, 33})

	names, err := e.FeatureNames(nil)
	assert.NilError(t, err)
	assert.DeepEqual(t, names, []string{"x0_2", "x0_10", "x0_33"})
}

func TestSimpleOneHotEncoder_NaNIsOneCategory(t *testing.T) {
	nan := math.NaN()
	e := NewSimpleOneHotEncoder[float64]()
	assert.NilError(t, e.Fit(core.MustFromRows([][]float64{{nan}, {1}, {nan}})))
	assert.Equal(t, e.NumFeatures(), 2)

	cats, err := e.Categories(0)
	assert.NilError(t, err)
	assert.Equal(t, len(cats), 2)
	assert.Assert(t, math.IsNaN(cats[0]))
	assert.Equal(t, cats[1], 1.0)

	// NaN never matches a lookup, so its rows stay all zero
	out, err := e.Transform(core.MustFromRows([][]float64{{1}, {nan}}))
	assert.NilError(t, err)
	assert.DeepEqual(t, out.ToRows(), [][]int8{{0, 1}, {0, 0}})
}

func TestSimpleOneHotEncoder_EdgeCases(t *testing.T) {
	t.Run("zero rows", func(t *testing.T) {
		e := NewSimpleOneHotEncoder[string]()
		assert.NilError(t, e.Fit(core.NewFrame[string](0, 2)))
		assert.Assert(t, e.Fitted())
		m, err := e.Mapping(1)
		assert.NilError(t, err)
		assert.Equal(t, len(m), 0)

		out, err := e.Transform(core.MustFromRows([][]string{{"a", "b"}}))
		assert.NilError(t, err)
		assert.Equal(t, out.R, 1)
		assert.Equal(t, out.C, 0)
	})

	t.Run("single value", func(t *testing.T) {
		e := NewSimpleOneHotEncoder[string]()
		assert.NilError(t, e.Fit(column("k", "k")))
		m, _ := e.Mapping(0)
		assert.DeepEqual(t, m, map[string]int{"k": 0})
	})

	t.Run("zero columns", func(t *testing.T) {
		e := NewSimpleOneHotEncoder[string]()
		assert.NilError(t, e.Fit(core.NewFrame[string](3, 0)))
		out, err := e.Transform(core.NewFrame[string](3, 0))
		assert.NilError(t, err)
		assert.Equal(t, out.R, 3)
		assert.Equal(t, out.C, 0)
	})
}

func TestSimpleOneHotEncoder_NotFitted(t *testing.T) {
	e := NewSimpleOneHotEncoder[string]()
	assert.Assert(t, !e.Fitted())

	_, err := e.Transform(column("a"))
	assert.ErrorIs(t, err, ErrNotFitted)

	_, err = e.Categories(0)
	assert.ErrorIs(t, err, ErrNotFitted)

	_, err = e.FeatureNames(nil)
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestSimpleOneHotEncoder_ColumnMismatch(t *testing.T) {
	e := NewSimpleOneHotEncoder[string]()
	assert.NilError(t, e.Fit(column("a", "b")))

	_, err := e.Transform(core.MustFromRows([][]string{{"a", "b"}}))
	assert.ErrorIs(t, err, ErrColumnMismatch)

	_, err = e.Mapping(1)
	assert.ErrorIs(t, err, ErrColumnOutOfRange)
}

func TestSimpleOneHotEncoder_RefitResets(t *testing.T) {
	e := NewSimpleOneHotEncoder[string]()
	assert.NilError(t, e.Fit(core.MustFromRows([][]string{{"a", "x"}, {"b", "y"}})))
	assert.NilError(t, e.Fit(column("q", "p")))

	assert.Equal(t, e.NumColumns(), 1)
	m, _ := e.Mapping(0)
	assert.DeepEqual(t, m, map[string]int{"p": 0, "q": 1})

	out, err := e.Transform(column("a", "p"))
	assert.NilError(t, err)
	assert.DeepEqual(t, out.ToRows(), [][]int8{{0, 0}, {1, 0}})
}

func TestSimpleOneHotEncoder_UnknownObserver(t *testing.T) {
	seen := map[int]int{}
	e := NewSimpleOneHotEncoder[string](WithUnknownObserver(func(col, n int) { seen[col] += n }))
	assert.NilError(t, e.Fit(core.MustFromRows([][]string{{"a", "x"}})))

	_, err := e.Transform(core.MustFromRows([][]string{
		{"a", "y"},
		{"b", "z"},
		{"a", "x"},
	}))
	assert.NilError(t, err)
	assert.DeepEqual(t, seen, map[int]int{0: 1, 1: 2})
}

func TestSimpleOneHotEncoder_MappingIsCopy(t *testing.T) {
	e := NewSimpleOneHotEncoder[string]()
	assert.NilError(t, e.Fit(column("a")))
	m, _ := e.Mapping(0)
	m["zz"] = 7
	again, _ := e.Mapping(0)
	assert.DeepEqual(t, again, map[string]int{"a": 0})
}
