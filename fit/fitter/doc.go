// Package fitter fits multi-peak lineshape models to photoemission line
// spectra, one spectrum at a time or across a whole data patch.
//
// [PointwiseFit] fits a single energy distribution curve. [PatchFitter]
// runs it sequentially over every spectrum of a patch, seeding each fit
// with per-spectrum band positions; [DistributedFitter] does the same on a
// bounded pool of goroutines. [InteractiveFitter] supports manual fitting
// at coarse anchor points and interpolates the outcome onto the full grid.
//
// Fit outcomes are collected in a [dataio.Table] with one row per spectrum
// keyed by spec_id.
package fitter
