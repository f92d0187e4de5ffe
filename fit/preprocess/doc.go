// Package preprocess prepares energy distribution curves for fitting.
//
// It selects energy ranges, removes per-spectrum baselines, normalises
// intensities and smooths spectra with an FFT Gaussian convolution.
package preprocess
