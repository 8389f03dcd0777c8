// Package stft provides short-time Fourier analysis of real-valued signals.
//
// The package slices a signal into overlapping windowed frames and returns
// one-sided magnitude or power spectra per frame. Framing is centered: the
// signal is zero-padded by half a frame on each side, so frame i is centered
// on sample i*hop and any non-empty input yields at least one frame.
package stft
