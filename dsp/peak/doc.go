// Package peak finds and merges local maxima of a smoothed score track.
//
// Detection runs in three steps over a primary track:
//
//  1. The track is smoothed with a Savitzky–Golay filter and differentiated.
//  2. Every index i in [2q, n-1-2q] where the derivative goes from >= 0 to
//     < 0 is a candidate; the candidate moves to the maximum of the
//     smoothed track within ±q of i (q = (window-1)/2).
//  3. A candidate is admitted when the smoothed primary value and both
//     auxiliary values at that index exceed their thresholds (strictly).
//
// [Merge] then collapses admitted peaks that lie within a fixed distance of
// a stronger one.
package peak
