package preprocess

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-pesfit/internal/seq"
)

// Riffle interleaves equal-length slices: the first element of each, then
// the second of each, and so on. Unequal lengths give ErrLengthMismatch.
func Riffle[T any](arrs ...[]T) ([]T, error) {
	out, err := seq.Riffle(arrs...)
	if errors.Is(err, seq.ErrLengthMismatch) {
		return nil, fmt.Errorf("%w: %w", ErrLengthMismatch, err)
	}
	return out, err
}
