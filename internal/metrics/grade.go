package metrics

import (
	"github.com/harsight/harsight/internal/config"
	"github.com/harsight/harsight/internal/models"
)

// gradeValue maps a metric onto its grade bands. A value exactly on a
// band boundary takes the worse grade, so the bands read as "strictly
// under N is still the better grade".
func gradeValue(v float64, bands config.GradeBands) models.Grade {
	switch {
	case v < bands.Good:
		return models.GradeGood
	case v < bands.Fair:
		return models.GradeFair
	case v < bands.Poor:
		return models.GradePoor
	default:
		return models.GradeCritical
	}
}

func gradeOptional(v *float64, bands config.GradeBands) models.Grade {
	if v == nil {
		return models.GradeUnknown
	}
	return gradeValue(*v, bands)
}
