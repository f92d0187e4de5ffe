package metrics

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-pesfit/dataio"
)

// RMSE returns the Euclidean norm of result - truth over all elements.
// It is not divided by the element count.
func RMSE(result, truth dataio.Array) (float64, error) {
	if err := sameShape(result, truth); err != nil {
		return 0, err
	}
	return floats.Distance(result.Data, truth.Data, 2), nil
}

// Instability returns the population variance of result - truth.
func Instability(result, truth dataio.Array) (float64, error) {
	if err := sameShape(result, truth); err != nil {
		return 0, err
	}
	_, variance := diffMoments(result.Data, truth.Data)
	return variance, nil
}

// diffMoments returns the mean and population variance of a - b in a single
// Welford pass.
func diffMoments(a, b []float64) (mean, variance float64) {
	if len(a) == 0 {
		return 0, 0
	}
	var m2 float64
	for i := range a {
		x := a[i] - b[i]
		delta := x - mean
		mean += delta / float64(i+1)
		m2 += delta * (x - mean)
	}
	return mean, m2 / float64(len(a))
}

func sameShape(a, b dataio.Array) error {
	if a.Size() == 0 {
		return ErrNoData
	}
	if len(a.Shape) != len(b.Shape) || a.Size() != b.Size() {
		return fmt.Errorf("%w: %v vs %v", ErrShapeMismatch, a.Shape, b.Shape)
	}
	for i := range a.Shape {
		if a.Shape[i] != b.Shape[i] {
			return fmt.Errorf("%w: %v vs %v", ErrShapeMismatch, a.Shape, b.Shape)
		}
	}
	return nil
}
