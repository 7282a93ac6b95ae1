package metrics

import (
	"github.com/harsight/harsight/internal/config"
	"github.com/harsight/harsight/internal/models"
)

// webVitals approximates the Core Web Vitals from capture timing alone.
// Real vitals need a rendering browser; these are network-side
// estimates and are labelled as such in the report.
func webVitals(b *models.Breakdown, cfg config.VitalsConfig) models.WebVitalsReport {
	return models.WebVitalsReport{
		Approximated: true,
		LCP:          estimateLCP(b, cfg),
		FID:          estimateFID(b, cfg),
		CLS:          estimateCLS(b, cfg),
	}
}

// estimateLCP treats the largest image or document finishing before the
// load event as the likely LCP element. Ties fall to the earliest
// completion.
func estimateLCP(b *models.Breakdown, cfg config.VitalsConfig) models.LCPEstimate {
	var best *models.Entry
	for i := range b.Entries {
		e := &b.Entries[i]
		if e.ResourceType != models.ResourceImage && e.ResourceType != models.ResourceDocument {
			continue
		}
		if e.Failed() || e.Size <= 0 {
			continue
		}
		if b.Page.LoadMs != nil && e.CompleteAtMs() > *b.Page.LoadMs {
			continue
		}
		if best == nil ||
			e.Size > best.Size ||
			(e.Size == best.Size && e.CompleteAtMs() < best.CompleteAtMs()) {
			best = e
		}
	}

	if best == nil {
		return models.LCPEstimate{}
	}

	t := best.CompleteAtMs()
	return models.LCPEstimate{
		Available: true,
		URL:       best.URL,
		TimeMs:    t,
		Rating:    rate(t, cfg.LCPGoodMs, cfg.LCPPoorMs),
	}
}

// estimateFID models input delay as a fixed parse cost per script that
// finished before DOM-ready, on top of a small base.
func estimateFID(b *models.Breakdown, cfg config.VitalsConfig) models.FIDEstimate {
	scripts := 0
	for _, e := range b.Entries {
		if e.ResourceType != models.ResourceScript || e.Failed() {
			continue
		}
		if b.Page.DOMReadyMs != nil && e.CompleteAtMs() > *b.Page.DOMReadyMs {
			continue
		}
		scripts++
	}

	est := cfg.FIDBaseMs + cfg.FIDPerScript*float64(scripts)
	return models.FIDEstimate{
		EstimateMs: est,
		Rating:     rate(est, cfg.FIDGoodMs, cfg.FIDPoorMs),
	}
}

// estimateCLS charges a small shift cost for each font or image that
// arrived after DOM-ready, since late media is what usually moves
// layout.
func estimateCLS(b *models.Breakdown, cfg config.VitalsConfig) models.CLSEstimate {
	domReady := 0.0
	if b.Page.DOMReadyMs != nil {
		domReady = *b.Page.DOMReadyMs
	}

	value := 0.0
	for _, e := range b.Entries {
		if e.Failed() || e.CompleteAtMs() <= domReady {
			continue
		}
		switch e.ResourceType {
		case models.ResourceFont:
			value += 0.02
		case models.ResourceImage:
			value += 0.01
		}
	}
	if value > 0.5 {
		value = 0.5
	}

	return models.CLSEstimate{
		Value:  value,
		Rating: rate(value, cfg.CLSGood, cfg.CLSPoor),
	}
}

// rate maps a value onto the good / needs-improvement / poor bands.
// Landing exactly on the good bound already falls out of it, matching
// how the load-time grade bands treat their boundaries.
func rate(v, good, poor float64) models.Rating {
	switch {
	case v < good:
		return models.RatingGood
	case v <= poor:
		return models.RatingNeedsImprovement
	default:
		return models.RatingPoor
	}
}
