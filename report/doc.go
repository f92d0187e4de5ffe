// Package report renders fit results as text reports and figures.
//
// [Write] produces a plain-text report with [[Model]], [[Fit Statistics]],
// [[Variables]] and [[Correlations]] sections. [PlotFitResult] draws the
// data, the best fit and the model components; [PlotBandPath] draws an
// energy-momentum cut with high-symmetry point labels. Figures are
// gonum/plot plots and can be saved as PNG, SVG or PDF by file extension.
package report
