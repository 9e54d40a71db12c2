// Package spectrum computes the frequency-domain view of a demand series.
//
// [Compute] takes the discrete Fourier transform of a value sequence and maps
// each bin index to calendar-relative frequency in cycles per year, assuming
// the fixed 10-minute cadence of the ESIOS demand indicator. Only magnitudes
// are retained.
//
// The DFT itself runs on an algo-fft plan of the exact input length. Should
// the plan refuse a length, Bluestein's chirp-z construction over a
// power-of-two plan takes over.
package spectrum
