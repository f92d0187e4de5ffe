package minimize

import (
	"context"
	"fmt"
	"math"

	"github.com/maorshutman/lm"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/cwbudde/algo-pesfit/fit/params"
)

// Residual writes data − model for the current parameter values into dst.
type Residual func(dst []float64, p *params.Params)

func unknownMethod(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownMethod, name)
}

// problem couples the residual with the free-parameter mapping.
type problem struct {
	ctx      context.Context
	residual Residual
	pars     *params.Params
	free     []*params.Parameter
	bounds   []bound
	n        int

	nfev    int
	nanSeen bool
	scratch []float64
}

// apply writes internal values u into the free parameters.
func (pr *problem) apply(u []float64) {
	for i, par := range pr.free {
		par.Value = pr.bounds[i].external(u[i])
	}
	pr.pars.Resolve()
}

// eval fills dst with the residual at u. After cancellation or a NaN it
// returns a zero residual so that the optimiser stops at the next
// convergence check.
func (pr *problem) eval(dst, u []float64) {
	if pr.ctx.Err() != nil || pr.nanSeen {
		clear(dst)
		return
	}
	pr.nfev++
	pr.apply(u)
	pr.residual(dst, pr.pars)
	for _, v := range dst {
		if math.IsNaN(v) {
			pr.nanSeen = true
			clear(dst)
			return
		}
	}
}

func (pr *problem) sumSquares(u []float64) float64 {
	pr.eval(pr.scratch, u)
	var s float64
	for _, v := range pr.scratch {
		s += v * v
	}
	return s
}

// Minimize fits the free parameters of p so that the sum of squares of the
// n-point residual is minimal. p itself is not modified; the best-fit values
// are in Result.Params.
func Minimize(ctx context.Context, residual Residual, n int, p *params.Params, opts ...Option) (*Result, error) {
	if n <= 0 {
		return nil, ErrNoData
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pars := p.Clone()
	for _, par := range pars.All() {
		if par.Free() {
			par.Clip()
		}
	}
	pars.Resolve()

	pr := &problem{
		ctx:      ctx,
		residual: residual,
		pars:     pars,
		free:     pars.Free(),
		n:        n,
		scratch:  make([]float64, n),
	}
	pr.bounds = make([]bound, len(pr.free))
	u0 := make([]float64, len(pr.free))
	for i, par := range pr.free {
		pr.bounds[i] = newBound(par)
		u0[i] = pr.bounds[i].internal(par.Value)
	}

	res := &Result{
		Method:     cfg.method,
		InitValues: pars.Values(),
		VarNames:   make([]string, len(pr.free)),
	}
	for i, par := range pr.free {
		res.VarNames[i] = par.Name
	}

	var (
		best []float64
		err  error
	)
	if len(pr.free) == 0 {
		best = u0
		res.Success = true
		res.Message = "no free parameters"
	} else {
		switch cfg.method {
		case MethodLeastSq:
			best, err = pr.leastsq(u0, cfg, res)
		case MethodNelder:
			best, err = pr.gonum(u0, cfg, res, &optimize.NelderMead{}, false)
		case MethodLBFGSB:
			best, err = pr.gonum(u0, cfg, res, &optimize.LBFGS{}, true)
		default:
			return nil, unknownMethod(string(cfg.method))
		}
		if err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Residual = make([]float64, n)
	pr.eval(res.Residual, best)
	if pr.nanSeen {
		return nil, ErrNaN
	}
	res.Nfev = pr.nfev
	res.Params = pars
	res.computeStats(cfg.data)
	pr.covariance(best, res, cfg.scaleCovar)
	return res, nil
}

func (pr *problem) leastsq(u0 []float64, cfg config, res *Result) ([]float64, error) {
	f := func(dst, u []float64) { pr.eval(dst, u) }
	jacobian := lm.NumJac{Func: f}

	toBeSolved := lm.LMProblem{
		Dim:        len(u0),
		Size:       pr.n,
		Func:       f,
		Jac:        jacobian.Jac,
		InitParams: append([]float64(nil), u0...),
		Tau:        1e-6,
		Eps1:       cfg.tol,
		Eps2:       cfg.tol,
	}
	results, err := lm.LM(toBeSolved, &lm.Settings{Iterations: cfg.maxIter, ObjectiveTol: 1e-16})
	if ctxErr := pr.ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if pr.nanSeen {
		return nil, ErrNaN
	}
	if err != nil {
		return nil, fmt.Errorf("minimize: levenberg-marquardt: %w", err)
	}
	res.Success = true
	res.Message = "Fit succeeded."
	return results.X, nil
}

func (pr *problem) gonum(u0 []float64, cfg config, res *Result, method optimize.Method, withGrad bool) ([]float64, error) {
	prob := optimize.Problem{
		Func: pr.sumSquares,
		Status: func() (optimize.Status, error) {
			if err := pr.ctx.Err(); err != nil {
				return optimize.Failure, err
			}
			return optimize.NotTerminated, nil
		},
	}
	if withGrad {
		prob.Grad = func(grad, u []float64) {
			fd.Gradient(grad, pr.sumSquares, u, &fd.Settings{Formula: fd.Central})
		}
	}
	settings := &optimize.Settings{
		MajorIterations: cfg.maxIter,
		FuncEvaluations: 200 * cfg.maxIter,
		Converger: &optimize.FunctionConverge{
			Absolute:   cfg.tol * cfg.tol,
			Relative:   cfg.tol,
			Iterations: 100,
		},
	}
	result, err := optimize.Minimize(prob, append([]float64(nil), u0...), settings, method)
	if ctxErr := pr.ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if pr.nanSeen {
		return nil, ErrNaN
	}
	if result == nil {
		if err == nil {
			return nil, fmt.Errorf("minimize: %s returned no result", cfg.method)
		}
		return nil, fmt.Errorf("minimize: %s: %w", cfg.method, err)
	}
	res.Message = result.Status.String()
	res.Success = err == nil && result.Status != optimize.Failure
	if err != nil {
		res.Message = err.Error()
	}
	return result.X, nil
}

// covariance estimates the parameter covariance from J^T·J at u, where J is
// the Jacobian of the residual with respect to the internal variables.
func (pr *problem) covariance(u []float64, res *Result, scale bool) {
	k := len(u)
	for _, par := range pr.pars.All() {
		par.Stderr = math.NaN()
	}
	if k == 0 || res.Nfree <= 0 {
		return
	}

	f := func(dst, x []float64) { pr.eval(dst, x) }
	jacobian := lm.NumJac{Func: f}
	jac := mat.NewDense(pr.n, k, nil)
	jacobian.Jac(jac, u)
	pr.apply(u)

	// Scale columns so the covariance comes out in external units.
	grad := make([]float64, k)
	for i := range u {
		grad[i] = pr.bounds[i].scale(u[i])
	}

	var jtj mat.SymDense
	jtj.SymOuterK(1, jac.T())
	var chol mat.Cholesky
	if ok := chol.Factorize(&jtj); !ok {
		res.Message += " Could not estimate error-bars."
		return
	}
	var inv mat.SymDense
	if err := chol.InverseTo(&inv); err != nil {
		res.Message += " Could not estimate error-bars."
		return
	}

	factor := 1.0
	if scale {
		factor = res.Redchi
	}
	covar := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			covar.SetSym(i, j, inv.At(i, j)*grad[i]*grad[j]*factor)
		}
	}
	res.Covar = covar
	for i, par := range pr.free {
		par.Stderr = math.Sqrt(math.Abs(covar.At(i, i)))
	}
	// Mirrored parameters inherit the uncertainty of their source.
	for _, par := range pr.pars.All() {
		if par.Expr == "" {
			continue
		}
		if src, ok := pr.pars.Get(par.Expr); ok {
			par.Stderr = src.Stderr
		}
	}
}
