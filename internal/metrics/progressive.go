package metrics

import (
	"github.com/harsight/harsight/internal/config"
	"github.com/harsight/harsight/internal/models"
)

// progressiveLoading buckets entries by when they started relative to
// the navigation milestones: critical within the DOM-ready window,
// important before the load event, deferred after it. Without a
// recorded load event the analysis is unavailable.
func progressiveLoading(b *models.Breakdown, cfg config.ProgressiveConfig) models.ProgressiveReport {
	if b.Page.LoadMs == nil {
		return models.ProgressiveReport{Reason: "capture does not record the page load event"}
	}

	load := *b.Page.LoadMs
	domReady := 0.0
	if b.Page.DOMReadyMs != nil {
		domReady = *b.Page.DOMReadyMs
	}

	report := models.ProgressiveReport{Available: true}

	var totalBytes int64
	for _, e := range b.Entries {
		totalBytes += e.Size

		var bucket *models.LoadBucket
		switch {
		case e.StartOffsetMs < domReady:
			bucket = &report.Critical
		case e.StartOffsetMs < load:
			bucket = &report.Important
		default:
			bucket = &report.Deferred
		}
		bucket.Count++
		bucket.TotalBytes += e.Size
		if at := e.CompleteAtMs(); at > bucket.CompleteAtMs {
			bucket.CompleteAtMs = at
		}
	}

	score := 100.0
	if totalBytes > 0 {
		score = 100 - float64(report.Deferred.TotalBytes)/float64(totalBytes)*100
	}
	report.Score = int(score)

	switch {
	case report.Score >= cfg.GoodScore:
		report.Rating = models.RatingGood
	case report.Score >= cfg.FairScore:
		report.Rating = models.RatingNeedsImprovement
	default:
		report.Rating = models.RatingPoor
	}

	return report
}
