// Package align estimates temporal alignments between a reference signal
// and a transformed copy, inverts them into reconstructions, and scores
// reconstruction fidelity.
//
// Two estimators are provided: a fast rigid-shift estimator based on
// FFT cross-correlation (EstimateSkew) and a non-linear aligner based on
// dynamic time warping (EstimateDTW). Reconstruct inverts either result,
// and Fidelity computes Pearson correlation and mean squared error.
package align
