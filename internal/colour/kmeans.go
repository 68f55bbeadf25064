package colour

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
)

// KMeans clusters colour samples into k representative centroids using
// k-means with k-means++ initialisation. All randomness comes from a
// locally seeded source, so output is deterministic for a given
// (samples, k, seed, attempts) tuple regardless of what else the
// process does with math/rand.
type KMeans struct {
	maxIterations int
	convergence   float64
	attempts      int
	seed          int64
}

// NewKMeans creates a clusterer with the given seed and number of
// independent initialisation attempts.
func NewKMeans(seed int64, attempts int) *KMeans {
	if attempts < 1 {
		attempts = 1
	}
	return &KMeans{
		maxIterations: 50,
		convergence:   1e-4, // average centroid movement, in [0,1] colour space
		attempts:      attempts,
		seed:          seed,
	}
}

// Cluster partitions samples into count groups and returns each group's
// mean colour. Centroid order is the internal cluster order of the best
// attempt; it is deterministic for a fixed seed but not sorted by any
// visual property.
//
// Fails with ErrInsufficientSamples when fewer samples exist than
// requested clusters. When the samples contain at most count distinct
// colours, clustering is degenerate and the distinct colours are
// returned directly in first-seen order.
func (k *KMeans) Cluster(samples []colorful.Color, count int) ([]colorful.Color, error) {
	if count < 1 {
		return nil, fmt.Errorf("cluster count must be at least 1, got %d", count)
	}
	if len(samples) < count {
		return nil, fmt.Errorf("%w: %d samples for %d clusters",
			ErrInsufficientSamples, len(samples), count)
	}

	distinct := distinctColours(samples)
	if len(distinct) <= count {
		return distinct, nil
	}

	rng := rand.New(rand.NewSource(k.seed))

	var best []colorful.Color
	bestInertia := math.MaxFloat64
	for a := 0; a < k.attempts; a++ {
		centroids, inertia := k.run(samples, count, rng)
		if inertia < bestInertia {
			bestInertia = inertia
			best = centroids
		}
	}
	return best, nil
}

// distinctColours returns the unique colours of samples in first-seen
// order.
func distinctColours(samples []colorful.Color) []colorful.Color {
	seen := make(map[colorful.Color]struct{}, len(samples))
	distinct := make([]colorful.Color, 0, len(samples))
	for _, c := range samples {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		distinct = append(distinct, c)
	}
	return distinct
}

// run performs one full k-means pass and reports the resulting
// centroids with their within-cluster sum of squared distances.
func (k *KMeans) run(samples []colorful.Color, count int, rng *rand.Rand) ([]colorful.Color, float64) {
	centroids := initialCentroids(samples, count, rng)
	assignments := make([]int, len(samples))

	for it := 0; it < k.maxIterations; it++ {
		for i, s := range samples {
			assignments[i] = nearestCentroid(s, centroids)
		}

		next := recalculateCentroids(samples, assignments, count, rng)

		movement := 0.0
		for i := range centroids {
			movement += centroids[i].DistanceRgb(next[i])
		}
		centroids = next

		if movement/float64(count) < k.convergence {
			break
		}
	}

	// Final assignment pass so inertia reflects the returned centroids.
	inertia := 0.0
	for _, s := range samples {
		d := s.DistanceRgb(centroids[nearestCentroid(s, centroids)])
		inertia += d * d
	}
	return centroids, inertia
}

// initialCentroids picks starting centroids with the k-means++ scheme:
// the first uniformly at random, each subsequent one with probability
// proportional to its squared distance from the nearest chosen centroid.
func initialCentroids(samples []colorful.Color, count int, rng *rand.Rand) []colorful.Color {
	centroids := make([]colorful.Color, 0, count)
	centroids = append(centroids, samples[rng.Intn(len(samples))])

	distances := make([]float64, len(samples))
	for len(centroids) < count {
		total := 0.0
		for i, s := range samples {
			minDist := math.MaxFloat64
			for _, c := range centroids {
				if d := s.DistanceRgb(c); d < minDist {
					minDist = d
				}
			}
			distances[i] = minDist * minDist
			total += distances[i]
		}

		if total == 0 {
			// Every remaining sample coincides with a centroid; callers
			// filter this case out via the distinct-colour shortcut, but
			// guard against it regardless.
			centroids = append(centroids, samples[rng.Intn(len(samples))])
			continue
		}

		target := rng.Float64() * total
		cumulative := 0.0
		for i, d := range distances {
			cumulative += d
			if cumulative >= target {
				centroids = append(centroids, samples[i])
				break
			}
		}
	}
	return centroids
}

// nearestCentroid returns the index of the centroid closest to c.
func nearestCentroid(c colorful.Color, centroids []colorful.Color) int {
	minDist := math.MaxFloat64
	nearest := 0
	for i, centroid := range centroids {
		if d := c.DistanceRgb(centroid); d < minDist {
			minDist = d
			nearest = i
		}
	}
	return nearest
}

// recalculateCentroids moves each centroid to the mean of its assigned
// samples. Empty clusters are reseeded from a random sample.
func recalculateCentroids(samples []colorful.Color, assignments []int, count int, rng *rand.Rand) []colorful.Color {
	sums := make([]colorful.Color, count)
	counts := make([]int, count)
	for i, s := range samples {
		cluster := assignments[i]
		sums[cluster].R += s.R
		sums[cluster].G += s.G
		sums[cluster].B += s.B
		counts[cluster]++
	}

	centroids := make([]colorful.Color, count)
	for i := 0; i < count; i++ {
		if counts[i] == 0 {
			centroids[i] = samples[rng.Intn(len(samples))]
			continue
		}
		n := float64(counts[i])
		centroids[i] = colorful.Color{
			R: sums[i].R / n,
			G: sums[i].G / n,
			B: sums[i].B / n,
		}
	}
	return centroids
}
