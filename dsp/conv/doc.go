// Package conv provides the sliding dot products used by the smoothing
// filters.
//
// Two strategies are available:
//
//   - Direct: one SIMD dot product per output sample, O(N*M). Exact zeros on
//     all-zero input regions, which matters for sign-change detection.
//   - Overlap-add (OLA): FFT-based block convolution, O(N log B) per block.
//     Faster for long kernels, at the cost of rounding noise in every output.
//
// # Usage
//
//	y, err := conv.CorrelateValid(signal, kernel, conv.MethodDirect)
//
// For repeated convolution with the same kernel, create a reusable convolver:
//
//	c, err := conv.NewOverlapAdd(kernel, blockSize)
//	y, err := c.CorrelateValid(signal)
package conv
