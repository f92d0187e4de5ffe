package dataio

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Array is a dense row-major n-dimensional array of float64.
type Array struct {
	Shape []int
	Data  []float64
}

// NewArray returns a zero-filled array.
func NewArray(shape ...int) Array {
	n := 1
	for _, d := range shape {
		n *= d
	}
	s := make([]int, len(shape))
	copy(s, shape)
	return Array{Shape: s, Data: make([]float64, n)}
}

// Vector wraps a 1-D slice without copying.
func Vector(v []float64) Array {
	return Array{Shape: []int{len(v)}, Data: v}
}

// FromRows stacks equal-length rows into a 2-D array.
func FromRows(rows [][]float64) (Array, error) {
	if len(rows) == 0 {
		return Array{}, ErrEmptyArray
	}
	n := len(rows[0])
	a := NewArray(len(rows), n)
	for i, r := range rows {
		if len(r) != n {
			return Array{}, fmt.Errorf("%w: row %d has %d elements, want %d", ErrRagged, i, len(r), n)
		}
		copy(a.Data[i*n:], r)
	}
	return a, nil
}

// NDim returns the number of dimensions.
func (a Array) NDim() int { return len(a.Shape) }

// Size returns the number of elements.
func (a Array) Size() int { return len(a.Data) }

// Len returns the length of the last axis.
func (a Array) Len() int {
	if len(a.Shape) == 0 {
		return 0
	}
	return a.Shape[len(a.Shape)-1]
}

// Rows returns the product of all leading dimensions.
func (a Array) Rows() int {
	if len(a.Shape) == 0 {
		return 0
	}
	n := 1
	for _, d := range a.Shape[:len(a.Shape)-1] {
		n *= d
	}
	return n
}

// Row returns row i of the array viewed as Rows() × Len(). The slice aliases
// the array data.
func (a Array) Row(i int) []float64 {
	n := a.Len()
	return a.Data[i*n : (i+1)*n]
}

// At returns the element at the given index.
func (a Array) At(idx ...int) float64 {
	off := 0
	for i, v := range idx {
		off = off*a.Shape[i] + v
	}
	return a.Data[off]
}

// Reshape returns a view with a new shape of the same size.
func (a Array) Reshape(shape ...int) (Array, error) {
	n := 1
	for _, d := range shape {
		n *= d
	}
	if n != len(a.Data) {
		return Array{}, fmt.Errorf("%w: cannot reshape %v into %v", ErrShape, a.Shape, shape)
	}
	s := make([]int, len(shape))
	copy(s, shape)
	return Array{Shape: s, Data: a.Data}, nil
}

// Clone returns a deep copy.
func (a Array) Clone() Array {
	out := Array{Shape: make([]int, len(a.Shape)), Data: make([]float64, len(a.Data))}
	copy(out.Shape, a.Shape)
	copy(out.Data, a.Data)
	return out
}

// UnmarshalJSON decodes nested JSON lists.
func (a *Array) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out, err := fromNested(raw)
	if err != nil {
		return err
	}
	*a = out
	return nil
}

// MarshalJSON encodes the array as nested lists.
func (a Array) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.nested())
}

// UnmarshalYAML decodes nested YAML sequences.
func (a *Array) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	out, err := fromNested(raw)
	if err != nil {
		return err
	}
	*a = out
	return nil
}

// MarshalYAML encodes the array as nested sequences.
func (a Array) MarshalYAML() (any, error) {
	return a.nested(), nil
}

func (a Array) nested() any {
	if len(a.Shape) == 0 {
		if len(a.Data) == 1 {
			return a.Data[0]
		}
		return []float64{}
	}
	var build func(dim, off int) any
	build = func(dim, off int) any {
		if dim == len(a.Shape)-1 {
			return a.Data[off : off+a.Shape[dim]]
		}
		stride := 1
		for _, d := range a.Shape[dim+1:] {
			stride *= d
		}
		out := make([]any, a.Shape[dim])
		for i := range out {
			out[i] = build(dim+1, off+i*stride)
		}
		return out
	}
	return build(0, 0)
}

func fromNested(raw any) (Array, error) {
	var shape []int
	probe := raw
	for {
		list, ok := probe.([]any)
		if !ok {
			break
		}
		shape = append(shape, len(list))
		if len(list) == 0 {
			break
		}
		probe = list[0]
	}

	a := Array{Shape: shape}
	var walk func(v any, dim int) error
	walk = func(v any, dim int) error {
		if dim == len(shape) {
			f, ok := number(v)
			if !ok {
				return fmt.Errorf("%w: non-numeric element %v", ErrShape, v)
			}
			a.Data = append(a.Data, f)
			return nil
		}
		list, ok := v.([]any)
		if !ok || len(list) != shape[dim] {
			return fmt.Errorf("%w: axis %d", ErrRagged, dim)
		}
		for _, item := range list {
			if err := walk(item, dim+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(raw, 0); err != nil {
		return Array{}, err
	}
	return a, nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case nil:
		return 0, false
	}
	return 0, false
}
