// Package metrics turns a capture breakdown into the full heuristic
// performance report: grades, timing analysis, critical path,
// progressive loading, approximated vitals, third-party impact,
// savings, and recommendations.
package metrics

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/harsight/harsight/internal/config"
	"github.com/harsight/harsight/internal/models"
)

const topListSize = 5

// Analyze computes the report for one breakdown. It is deterministic:
// the same breakdown and thresholds always produce the same report,
// with the meta section left empty for Stamp to fill.
func Analyze(b *models.Breakdown, cfg config.Thresholds) *models.MetricsReport {
	r := &models.MetricsReport{
		Summary:       performanceSummary(b, cfg),
		Timing:        timingBuckets(b.Entries, cfg.Timing),
		Network:       networkTiming(b, cfg.Timing),
		ResourceTypes: b.ResourceTypes,
		CriticalPath:  criticalPath(b, cfg.CriticalPath),
		Progressive:   progressiveLoading(b, cfg.Progressive),
		WebVitals:     webVitals(b, cfg.Vitals),
		ThirdParty:    thirdParty(b, cfg.ThirdParty),
		Savings:       potentialSavings(b, cfg.Savings),
	}

	r.Issues = criticalIssues(b, cfg)
	r.LargestAssets = sampleBySize(b.Entries, topListSize)
	r.SlowestRequests = slowestRequests(b.Entries, topListSize)
	r.FailedRequests = failedRequests(b.Entries)
	r.Recommendations = recommendations(r, cfg)

	return r
}

// Stamp fills the report's identity fields. Kept apart from Analyze so
// analysis itself stays a pure function of its input.
func Stamp(r *models.MetricsReport, source string) {
	r.Meta = models.ReportMeta{
		ReportID:    uuid.NewString(),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Source:      source,
	}
}

func performanceSummary(b *models.Breakdown, cfg config.Thresholds) models.PerformanceSummary {
	s := models.PerformanceSummary{
		PageURL:       b.Page.URL,
		Title:         b.Page.Title,
		TotalRequests: b.Totals.Requests,
		TotalBytes:    b.Totals.TotalBytes,
		DOMReadySec:   msToSec(b.Page.DOMReadyMs),
		PageLoadSec:   msToSec(b.Page.LoadMs),
	}
	s.Grade = gradeOptional(s.PageLoadSec, cfg.Grading.PageLoadSec)
	s.DOMReadyGrade = gradeOptional(s.DOMReadySec, cfg.Grading.DOMReadySec)
	s.RequestCountGrade = gradeValue(float64(s.TotalRequests), cfg.Grading.RequestCount)
	return s
}

func criticalIssues(b *models.Breakdown, cfg config.Thresholds) models.CriticalIssues {
	issues := models.CriticalIssues{
		VerySlowRequests:  b.Totals.Slow,
		FailedRequests:    b.Totals.Failed,
		ExcessiveRequests: b.Totals.Requests > int(cfg.Grading.RequestCount.Good),
	}
	for _, e := range b.Entries {
		if e.TimeMs > cfg.Timing.MediumUnderMs && e.TimeMs <= cfg.Timing.VerySlowMs {
			issues.SlowRequests++
		}
	}
	return issues
}

func slowestRequests(entries []models.Entry, limit int) []models.AssetRef {
	sorted := make([]models.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TimeMs > sorted[j].TimeMs
	})

	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make([]models.AssetRef, 0, len(sorted))
	for _, e := range sorted {
		out = append(out, models.AssetRef{
			URL:       e.URL,
			Type:      e.ResourceType,
			SizeBytes: e.Size,
			TimeMs:    models.Known(e.TimeMs),
		})
	}
	return out
}

func failedRequests(entries []models.Entry) []models.FailedRequest {
	out := []models.FailedRequest{}
	for _, e := range entries {
		if e.Failed() {
			out = append(out, models.FailedRequest{URL: e.URL, Status: e.Status})
		}
	}
	return out
}

func msToSec(ms *float64) *float64 {
	if ms == nil {
		return nil
	}
	sec := *ms / 1000
	return &sec
}
