// Package savgol implements Savitzky–Golay smoothing and differentiation.
//
// A [Kernel] holds the least-squares weights for one (window, degree,
// derivative order) triple. The weights depend only on these three integers,
// so a kernel is designed once and applied to any number of sequences:
//
//	k, err := savgol.Design(151, 1, 0)
//	smoothed, err := k.Apply(scores, conv.MethodDirect)
//
// Every output index is defined. Interior samples use the centred kernel;
// the first and last (window-1)/2 samples evaluate a single polynomial
// fitted to the first (last) window of input, so a polynomial of degree
// <= degree passes through the filter unchanged at every index.
//
// [Smoother] bundles the value and first-derivative kernels used by peak
// detection.
package savgol
