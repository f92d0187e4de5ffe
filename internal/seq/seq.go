// Package seq holds small generic slice helpers shared by the model and
// fitting layers.
package seq

import (
	"errors"
	"fmt"
)

// ErrLengthMismatch is returned by Riffle for inputs of unequal length.
var ErrLengthMismatch = errors.New("seq: length mismatch")

// Riffle interleaves equal-length slices: the first element of each, then
// the second of each, and so on.
func Riffle[T any](arrs ...[]T) ([]T, error) {
	if len(arrs) == 0 {
		return nil, nil
	}
	n := len(arrs[0])
	for i, a := range arrs {
		if len(a) != n {
			return nil, fmt.Errorf("%w: input %d has %d elements, want %d", ErrLengthMismatch, i, len(a), n)
		}
	}
	out := make([]T, 0, n*len(arrs))
	for j := 0; j < n; j++ {
		for _, a := range arrs {
			out = append(out, a[j])
		}
	}
	return out, nil
}
