package minimize

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-pesfit/fit/params"
)

// Result holds the outcome of a minimisation.
type Result struct {
	Method  Method
	Params  *params.Params
	Success bool
	Message string

	// InitValues are the starting values after clipping into bounds.
	InitValues map[string]float64
	// VarNames are the free parameters in covariance order.
	VarNames []string
	Residual []float64
	Covar    *mat.SymDense

	Nfev     int
	Ndata    int
	Nvarys   int
	Nfree    int
	Chisqr   float64
	Redchi   float64
	AIC      float64
	BIC      float64
	Rsquared float64
}

func (r *Result) computeStats(data []float64) {
	r.Ndata = len(r.Residual)
	r.Nvarys = len(r.VarNames)
	r.Nfree = r.Ndata - r.Nvarys

	r.Chisqr = 0
	for _, v := range r.Residual {
		r.Chisqr += v * v
	}
	r.Redchi = r.Chisqr / float64(max(1, r.Nfree))

	n := float64(r.Ndata)
	neg2LogLikel := n * math.Log(math.Max(r.Chisqr, 1e-250)/n)
	r.AIC = neg2LogLikel + 2*float64(r.Nvarys)
	r.BIC = neg2LogLikel + math.Log(n)*float64(r.Nvarys)

	r.Rsquared = math.NaN()
	if len(data) == r.Ndata && r.Ndata > 0 {
		var mean float64
		for _, v := range data {
			mean += v
		}
		mean /= n
		var sst float64
		for _, v := range data {
			sst += (v - mean) * (v - mean)
		}
		if sst > 0 {
			r.Rsquared = 1 - r.Chisqr/sst
		}
	}
}

// Attr returns a fit statistic by its short name: chisqr, redchi,
// aic, bic, rsquared, nfev, ndata, nvarys or nfree.
func (r *Result) Attr(name string) (float64, error) {
	switch strings.ToLower(name) {
	case "chisqr":
		return r.Chisqr, nil
	case "redchi":
		return r.Redchi, nil
	case "aic":
		return r.AIC, nil
	case "bic":
		return r.BIC, nil
	case "rsquared":
		return r.Rsquared, nil
	case "nfev":
		return float64(r.Nfev), nil
	case "ndata":
		return float64(r.Ndata), nil
	case "nvarys":
		return float64(r.Nvarys), nil
	case "nfree":
		return float64(r.Nfree), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAttr, name)
}

// Correl returns the correlation coefficient between two free parameters.
// ok is false when either is not free or no covariance is available.
func (r *Result) Correl(a, b string) (c float64, ok bool) {
	if r.Covar == nil {
		return 0, false
	}
	i, j := r.varIndex(a), r.varIndex(b)
	if i < 0 || j < 0 {
		return 0, false
	}
	den := math.Sqrt(r.Covar.At(i, i) * r.Covar.At(j, j))
	if den == 0 {
		return 0, false
	}
	return r.Covar.At(i, j) / den, true
}

func (r *Result) varIndex(name string) int {
	for i, v := range r.VarNames {
		if v == name {
			return i
		}
	}
	return -1
}
