package minimize

import (
	"math"

	"github.com/cwbudde/algo-pesfit/fit/params"
)

// bound maps one free parameter between its external value and the
// unconstrained internal variable seen by the optimiser.
type bound struct {
	min, max float64
	kind     boundKind
}

type boundKind int

const (
	unbounded boundKind = iota
	lowerOnly
	upperOnly
	bothBounds
)

func newBound(p *params.Parameter) bound {
	lo, hi := !math.IsInf(p.Min, -1), !math.IsInf(p.Max, 1)
	b := bound{min: p.Min, max: p.Max}
	switch {
	case lo && hi:
		b.kind = bothBounds
	case lo:
		b.kind = lowerOnly
	case hi:
		b.kind = upperOnly
	}
	return b
}

// internal converts an external value, clipped into the bounds first.
func (b bound) internal(v float64) float64 {
	switch b.kind {
	case bothBounds:
		v = math.Min(math.Max(v, b.min), b.max)
		if b.max == b.min {
			return 0
		}
		return math.Asin(2*(v-b.min)/(b.max-b.min) - 1)
	case lowerOnly:
		v = math.Max(v, b.min)
		d := v - b.min + 1
		return math.Sqrt(d*d - 1)
	case upperOnly:
		v = math.Min(v, b.max)
		d := b.max - v + 1
		return math.Sqrt(d*d - 1)
	}
	return v
}

// external converts an internal value back into the bounded range.
func (b bound) external(u float64) float64 {
	switch b.kind {
	case bothBounds:
		return b.min + (math.Sin(u)+1)*(b.max-b.min)/2
	case lowerOnly:
		return b.min - 1 + math.Sqrt(u*u+1)
	case upperOnly:
		return b.max + 1 - math.Sqrt(u*u+1)
	}
	return u
}

// scale is d external / d internal, used to map the covariance.
func (b bound) scale(u float64) float64 {
	switch b.kind {
	case bothBounds:
		return math.Cos(u) * (b.max - b.min) / 2
	case lowerOnly:
		return u / math.Sqrt(u*u+1)
	case upperOnly:
		return -u / math.Sqrt(u*u+1)
	}
	return 1
}
