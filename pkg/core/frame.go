package core

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrRagged is returned when nested rows have different lengths.
	ErrRagged = errors.New("ragged rows")
	// ErrRowMismatch is returned when frames stacked side by side disagree on row count.
	ErrRowMismatch = errors.New("row count mismatch")
)

// Frame is a dense row-major table. Column semantics are positional.
// Cols is kept even when there are no rows.
type Frame[T any] struct {
	R, C int
	Data []T
}

// Number is the set of cell types that can be lifted into a gonum matrix.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// NewFrame allocates a zero-valued frame.
func NewFrame[T any](r, c int) *Frame[T] {
	return &Frame[T]{R: r, C: c, Data: make([]T, r*c)}
}

// FromRows creates a Frame from a nested slice (copies data).
func FromRows[T any](rows [][]T) (*Frame[T], error) {
	r := len(rows)
	if r == 0 {
		return &Frame[T]{}, nil
	}

	c := len(rows[0])
	f := NewFrame[T](r, c)
	for i, row := range rows {
		if len(row) != c {
			return nil, fmt.Errorf("row %d has %d columns, want %d: %w", i, len(row), c, ErrRagged)
		}
		copy(f.Data[i*c:(i+1)*c], row)
	}
	return f, nil
}

// MustFromRows is FromRows for literals in tests and examples; it panics on ragged input.
func MustFromRows[T any](rows [][]T) *Frame[T] {
	f, err := FromRows(rows)
	if err != nil {
		panic(err)
	}
	return f
}

// Shape returns (rows, cols).
func (f *Frame[T]) Shape() (int, int) { return f.R, f.C }

// At returns element (i, j)
func (f *Frame[T]) At(i, j int) T { return f.Data[i*f.C+j] }

// Set sets element (i, j)
func (f *Frame[T]) Set(i, j int, v T) { f.Data[i*f.C+j] = v }

// Row returns a copy of row i.
func (f *Frame[T]) Row(i int) []T {
	out := make([]T, f.C)
	copy(out, f.Data[i*f.C:(i+1)*f.C])
	return out
}

// Col returns a copy of column j.
func (f *Frame[T]) Col(j int) []T {
	out := make([]T, f.R)
	for i := 0; i < f.R; i++ {
		out[i] = f.Data[i*f.C+j]
	}
	return out
}

// ToRows copies the frame back into a nested slice.
func (f *Frame[T]) ToRows() [][]T {
	out := make([][]T, f.R)
	for i := range f.R {
		out[i] = f.Row(i)
	}
	return out
}

// Clone deep copies the frame.
func (f *Frame[T]) Clone() *Frame[T] {
	n := &Frame[T]{R: f.R, C: f.C, Data: make([]T, len(f.Data))}
	copy(n.Data, f.Data)
	return n
}

// Apply applies fn element-wise in place.
func (f *Frame[T]) Apply(fn func(T) T) {
	for i := range f.Data {
		f.Data[i] = fn(f.Data[i])
	}
}

// MapFrame applies fn element-wise into a new frame of the same shape.
// The first error stops the walk and is returned with the cell position.
func MapFrame[T, U any](f *Frame[T], fn func(T) (U, error)) (*Frame[U], error) {
	out := NewFrame[U](f.R, f.C)
	for k, v := range f.Data {
		u, err := fn(v)
		if err != nil {
			return nil, fmt.Errorf("cell (%d, %d): %w", k/f.C, k%f.C, err)
		}
		out.Data[k] = u
	}
	return out, nil
}

// HStack concatenates frames column-wise, left to right.
func HStack[T any](frames ...*Frame[T]) (*Frame[T], error) {
	if len(frames) == 0 {
		return &Frame[T]{}, nil
	}

	r, c := frames[0].R, 0
	for k, f := range frames {
		if f.R != r {
			return nil, fmt.Errorf("frame %d has %d rows, want %d: %w", k, f.R, r, ErrRowMismatch)
		}
		c += f.C
	}

	out := NewFrame[T](r, c)
	off := 0
	for _, f := range frames {
		for i := 0; i < r; i++ {
			copy(out.Data[i*c+off:i*c+off+f.C], f.Data[i*f.C:(i+1)*f.C])
		}
		off += f.C
	}
	return out, nil
}

// ToDense lifts a numeric frame into a gonum matrix.
// gonum has no zero-sized matrices, so an empty frame yields nil.
func ToDense[T Number](f *Frame[T]) *mat.Dense {
	if f.R == 0 || f.C == 0 {
		return nil
	}
	data := make([]float64, len(f.Data))
	for i, v := range f.Data {
		data[i] = float64(v)
	}
	return mat.NewDense(f.R, f.C, data)
}
