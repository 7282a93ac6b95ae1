package metrics

import (
	"fmt"

	"github.com/harsight/harsight/internal/config"
	"github.com/harsight/harsight/internal/models"
)

// recommendations derives advice from the already-computed report
// sections, so every message is backed by a number the report shows.
func recommendations(r *models.MetricsReport, cfg config.Thresholds) []models.Recommendation {
	recs := []models.Recommendation{}

	add := func(severity, category, format string, args ...any) {
		recs = append(recs, models.Recommendation{
			Severity: severity,
			Category: category,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	if n := r.Issues.VerySlowRequests; n > cfg.Recommend.VerySlowLimit {
		add("high", "timing", "%d requests took over %.0fms; investigate the slowest entries first", n, cfg.Timing.VerySlowMs)
	}
	if n := r.Issues.FailedRequests; n > 0 {
		add("high", "errors", "%d requests failed; fix broken resources before tuning performance", n)
	}
	if r.Summary.PageLoadSec != nil && *r.Summary.PageLoadSec > cfg.Grading.PageLoadSec.Fair {
		add("high", "timing", "page load took %.1fs; aim for under %.0fs", *r.Summary.PageLoadSec, cfg.Grading.PageLoadSec.Good)
	}
	if r.Summary.DOMReadySec != nil && *r.Summary.DOMReadySec > cfg.Grading.DOMReadySec.Good {
		add("medium", "timing", "DOM ready took %.1fs; reduce render-blocking work in the document head", *r.Summary.DOMReadySec)
	}
	if n := r.Summary.TotalRequests; n > cfg.Recommend.RequestLimit {
		add("medium", "requests", "%d requests on one page; consolidate or lazy-load resources", n)
	}
	for _, t := range r.ResourceTypes {
		if t.Type == models.ResourceScript && t.Count > cfg.Recommend.ScriptFileLimit {
			add("medium", "resources", "%d separate script files; bundling would cut connection overhead", t.Count)
		}
	}
	if r.Savings.TotalBytes > cfg.Recommend.SavingsMinBytes {
		add("medium", "size", "%.1f KB recoverable through caching and compression headers", float64(r.Savings.TotalBytes)/1024)
	}
	if len(r.ThirdParty.HighImpact) > 0 {
		add("medium", "third-party", "%d third-party domains exceed the impact thresholds; audit whether each earns its cost", len(r.ThirdParty.HighImpact))
	}

	return recs
}
