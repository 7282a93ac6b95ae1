package stats

import (
	"slices"

	"github.com/harsight/harsight/internal/models"
)

func Compute(durations []float64) models.Distribution {
	if len(durations) == 0 {
		return models.Distribution{}
	}

	sorted := make([]float64, len(durations))
	copy(sorted, durations)
	slices.Sort(sorted)

	var sum float64
	for _, d := range sorted {
		sum += d
	}

	return models.Distribution{
		P50: Percentile(sorted, 50),
		P90: Percentile(sorted, 90),
		P95: Percentile(sorted, 95),
		P99: Percentile(sorted, 99),
		Min: sorted[0],
		Max: sorted[len(sorted)-1],
		Avg: sum / float64(len(sorted)),
	}
}

// Percentile expects durations sorted ascending.
func Percentile(durations []float64, p int) float64 {
	if len(durations) == 0 {
		return 0
	}

	idx := (len(durations) * p / 100)
	if idx >= len(durations) {
		idx = len(durations) - 1
	}

	return durations[idx]
}
