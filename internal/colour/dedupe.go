package colour

import "github.com/lucasb-eyer/go-colorful"

// Dedupe filters centroids down to visually distinct colours. It walks
// the centroids in input order and accepts a candidate only when its
// Euclidean RGB distance to every already-accepted colour is at least
// tolerance; rejected candidates are discarded outright, never merged
// or averaged, so the first-seen colour of a near-duplicate group wins.
//
// A tolerance of zero accepts every centroid, since no distance can be
// negative. The scan is O(n²) in the centroid count, which is bounded
// by the configured maximum palette size.
func Dedupe(centroids []colorful.Color, tolerance float64) []colorful.Color {
	accepted := make([]colorful.Color, 0, len(centroids))
	for _, candidate := range centroids {
		unique := true
		for _, existing := range accepted {
			if candidate.DistanceRgb(existing) < tolerance {
				unique = false
				break
			}
		}
		if unique {
			accepted = append(accepted, candidate)
		}
	}
	return accepted
}
