package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-pesfit/fit/fitter"
)

type correlation struct {
	a, b string
	c    float64
}

// Write renders res as a text report.
func Write(w io.Writer, res *fitter.ModelResult, opts ...Option) error {
	if res == nil || res.Result == nil {
		return ErrNilResult
	}
	cfg := applyOptions(opts)

	var b strings.Builder
	if res.Model != nil {
		fmt.Fprintf(&b, "[[Model]]\n    %s\n", res.Model)
	}
	writeStats(&b, res)
	if err := writeVariables(&b, res, cfg); err != nil {
		return err
	}
	if cfg.correl {
		writeCorrelations(&b, res, cfg.minCorrel)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// String returns the report as a string.
func String(res *fitter.ModelResult, opts ...Option) (string, error) {
	var b strings.Builder
	if err := Write(&b, res, opts...); err != nil {
		return "", err
	}
	return b.String(), nil
}

// PrintFitResult appends the report of res to the file at path, followed
// by a blank line. An empty path prints to standard output.
func PrintFitResult(path string, res *fitter.ModelResult, opts ...Option) error {
	if path == "" {
		return Write(os.Stdout, res, opts...)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	if err := Write(f, res, opts...); err != nil {
		return err
	}
	if _, err := io.WriteString(f, "\n"); err != nil {
		return err
	}
	return f.Close()
}

func writeStats(b *strings.Builder, res *fitter.ModelResult) {
	r := res.Result
	b.WriteString("[[Fit Statistics]]\n")
	fmt.Fprintf(b, "    # fitting method   = %s\n", r.Method)
	fmt.Fprintf(b, "    # function evals   = %d\n", r.Nfev)
	fmt.Fprintf(b, "    # data points      = %d\n", r.Ndata)
	fmt.Fprintf(b, "    # variables        = %d\n", r.Nvarys)
	fmt.Fprintf(b, "    chi-square         = %s\n", gformat(r.Chisqr))
	fmt.Fprintf(b, "    reduced chi-square = %s\n", gformat(r.Redchi))
	fmt.Fprintf(b, "    Akaike info crit   = %s\n", gformat(r.AIC))
	fmt.Fprintf(b, "    Bayesian info crit = %s\n", gformat(r.BIC))
	if !math.IsNaN(r.Rsquared) {
		fmt.Fprintf(b, "    R-squared          = %s\n", gformat(r.Rsquared))
	}
	if !r.Success {
		fmt.Fprintf(b, "##  Warning: %s\n", r.Message)
	}
}

func writeVariables(b *strings.Builder, res *fitter.ModelResult, cfg config) error {
	b.WriteString("[[Variables]]\n")
	tw := tabwriter.NewWriter(b, 0, 0, 1, ' ', 0)
	for _, par := range res.Params.All() {
		var line string
		switch {
		case par.Expr != "":
			line = fmt.Sprintf("%s == '%s'", gformat(par.Value), par.Expr)
		case !par.Vary:
			line = fmt.Sprintf("%s (fixed)", gformat(par.Value))
		default:
			line = gformat(par.Value)
			if s := par.Stderr; !math.IsNaN(s) && s > 0 {
				line += " +/- " + gformat(s)
				if par.Value != 0 {
					line += fmt.Sprintf(" (%.2f%%)", math.Abs(100*s/par.Value))
				}
			}
			if init, ok := res.InitValues[par.Name]; ok {
				line += fmt.Sprintf(" (init = %s)", gformat(init))
			}
		}
		if _, err := fmt.Fprintf(tw, "    %s:\t%s\n", par.Name, line); err != nil {
			return err
		}
	}
	if cfg.derived && res.Model != nil {
		for _, d := range res.Derived() {
			if _, err := fmt.Fprintf(tw, "    %s:\t%s (derived)\n", d.Name, gformat(d.Value)); err != nil {
				return err
			}
		}
	}
	return tw.Flush()
}

func writeCorrelations(b *strings.Builder, res *fitter.ModelResult, minCorrel float64) {
	var cs []correlation
	names := res.VarNames
	for i := range names {
		for j := i + 1; j < len(names); j++ {
			c, ok := res.Correl(names[i], names[j])
			if ok && math.Abs(c) >= minCorrel {
				cs = append(cs, correlation{names[i], names[j], c})
			}
		}
	}
	if len(cs) == 0 {
		return
	}
	sort.SliceStable(cs, func(i, j int) bool { return math.Abs(cs[i].c) > math.Abs(cs[j].c) })

	fmt.Fprintf(b, "[[Correlations]] (unreported correlations are < %.3f)\n", minCorrel)
	labels := make([]string, len(cs))
	width := 0
	for i, c := range cs {
		labels[i] = fmt.Sprintf("C(%s, %s)", c.a, c.b)
		width = max(width, len(labels[i]))
	}
	for i, c := range cs {
		fmt.Fprintf(b, "    %-*s = %+.4f\n", width, labels[i], c.c)
	}
}

// gformat prints v with seven significant digits.
func gformat(v float64) string {
	return fmt.Sprintf("%.7g", v)
}
