// Package compare diffs two analyzed captures of the same page. It
// works on breakdowns and reports that the other engines already
// produced; it never re-analyzes raw captures.
package compare

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/harsight/harsight/internal/config"
	"github.com/harsight/harsight/internal/models"
)

// Run is one side of a comparison.
type Run struct {
	Label     string
	Breakdown *models.Breakdown
	Report    *models.MetricsReport
}

// Compare diffs base against target. Deterministic apart from Meta,
// which Stamp fills separately; swapping the sides negates every KPI
// delta and swaps added with removed.
func Compare(base, target Run, cfg config.Thresholds) *models.ComparisonReport {
	r := &models.ComparisonReport{
		Meta: models.ComparisonMeta{
			BaseLabel:   base.Label,
			TargetLabel: target.Label,
		},
	}

	r.KPIs = kpiDeltas(base, target, cfg.Comparison)
	r.GradeChange = gradeChange(base.Report, target.Report)
	r.Resources = resourceDeltas(base.Breakdown, target.Breakdown, cfg.Comparison)
	r.ResourceTypes = typeDeltas(base.Breakdown, target.Breakdown)
	r.Failed = failedComparison(base.Breakdown, target.Breakdown)
	r.Regressions, r.Improvements = findings(r, cfg.Comparison)
	r.Status = overallStatus(r)

	return r
}

// Stamp fills the comparison's identity fields, kept out of Compare so
// the diff itself stays a pure function of its inputs.
func Stamp(r *models.ComparisonReport) {
	r.Meta.ComparisonID = uuid.NewString()
	r.Meta.ComparedAt = time.Now().UTC().Format(time.RFC3339)
}

func kpiDeltas(base, target Run, cfg config.ComparisonConfig) []models.KPIDelta {
	deltas := []models.KPIDelta{
		kpi("page_load_sec", base.Report.Summary.PageLoadSec, target.Report.Summary.PageLoadSec, cfg),
		kpi("dom_ready_sec", base.Report.Summary.DOMReadySec, target.Report.Summary.DOMReadySec, cfg),
		kpiInt("total_requests", base.Breakdown.Totals.Requests, target.Breakdown.Totals.Requests, cfg),
		kpiFloat("total_bytes", float64(base.Breakdown.Totals.TotalBytes), float64(target.Breakdown.Totals.TotalBytes), cfg),
		kpiInt("failed_requests", base.Breakdown.Totals.Failed, target.Breakdown.Totals.Failed, cfg),
		kpiInt("slow_requests", base.Breakdown.Totals.Slow, target.Breakdown.Totals.Slow, cfg),
		kpiFloat("avg_request_time_ms", base.Report.Network.Durations.Avg, target.Report.Network.Durations.Avg, cfg),
		kpiFloat("max_request_time_ms", base.Report.Network.Durations.Max, target.Report.Network.Durations.Max, cfg),
	}
	return deltas
}

func kpiInt(name string, base, target int, cfg config.ComparisonConfig) models.KPIDelta {
	return kpiFloat(name, float64(base), float64(target), cfg)
}

func kpiFloat(name string, base, target float64, cfg config.ComparisonConfig) models.KPIDelta {
	return kpi(name, &base, &target, cfg)
}

func kpi(name string, base, target *float64, cfg config.ComparisonConfig) models.KPIDelta {
	d := models.KPIDelta{Name: name, Base: base, Target: target}

	if base == nil || target == nil {
		d.Direction = models.DirectionNotComparable
		return d
	}

	d.Absolute = *target - *base
	if *base != 0 {
		p := d.Absolute / *base * 100
		d.Percent = &p
	}

	switch {
	case math.Abs(d.Absolute) <= cfg.DirectionEpsilon:
		d.Direction = models.DirectionUnchanged
	case d.Absolute > 0:
		d.Direction = models.DirectionIncreased
	default:
		d.Direction = models.DirectionDecreased
	}
	return d
}

func gradeChange(base, target *models.MetricsReport) models.GradeChange {
	b, t := base.Summary.Grade, target.Summary.Grade
	return models.GradeChange{
		Base:     b,
		Target:   t,
		Improved: models.GradeRank(t) < models.GradeRank(b),
	}
}

// resourceDeltas computes set differences keyed by URL. When a URL
// appears more than once in a capture its first entry represents it.
func resourceDeltas(base, target *models.Breakdown, cfg config.ComparisonConfig) models.ResourceDeltas {
	baseByURL := entriesByURL(base.Entries)
	targetByURL := entriesByURL(target.Entries)

	deltas := models.ResourceDeltas{
		Added:    []models.ResourceRef{},
		Removed:  []models.ResourceRef{},
		Modified: []models.ModifiedResource{},
	}

	for url, te := range targetByURL {
		if _, ok := baseByURL[url]; !ok {
			deltas.Added = append(deltas.Added, resourceRef(te))
		}
	}
	for url, be := range baseByURL {
		te, ok := targetByURL[url]
		if !ok {
			deltas.Removed = append(deltas.Removed, resourceRef(be))
			continue
		}
		if m, changed := diffResource(be, te, cfg); changed {
			deltas.Modified = append(deltas.Modified, m)
		} else {
			deltas.Counts.Unchanged++
		}
	}

	sort.Slice(deltas.Added, func(i, j int) bool { return deltas.Added[i].URL < deltas.Added[j].URL })
	sort.Slice(deltas.Removed, func(i, j int) bool { return deltas.Removed[i].URL < deltas.Removed[j].URL })
	sort.Slice(deltas.Modified, func(i, j int) bool { return deltas.Modified[i].URL < deltas.Modified[j].URL })

	deltas.Counts.Added = len(deltas.Added)
	deltas.Counts.Removed = len(deltas.Removed)
	deltas.Counts.Modified = len(deltas.Modified)

	return deltas
}

func entriesByURL(entries []models.Entry) map[string]models.Entry {
	m := make(map[string]models.Entry, len(entries))
	for _, e := range entries {
		if _, ok := m[e.URL]; !ok {
			m[e.URL] = e
		}
	}
	return m
}

func resourceRef(e models.Entry) models.ResourceRef {
	return models.ResourceRef{
		URL:       e.URL,
		Domain:    e.Domain,
		Type:      e.ResourceType,
		SizeBytes: e.Size,
		TimeMs:    models.Known(e.TimeMs),
	}
}

func diffResource(be, te models.Entry, cfg config.ComparisonConfig) (models.ModifiedResource, bool) {
	m := models.ModifiedResource{
		URL:           be.URL,
		Type:          te.ResourceType,
		BaseSize:      be.Size,
		TargetSize:    te.Size,
		SizeDelta:     te.Size - be.Size,
		BaseTimeMs:    models.Known(be.TimeMs),
		TargetTimeMs:  models.Known(te.TimeMs),
		StatusChanged: be.Status != te.Status,
		BaseStatus:    be.Status,
		TargetStatus:  te.Status,
	}
	m.TimeDeltaMs = m.TargetTimeMs - m.BaseTimeMs

	changed := m.StatusChanged ||
		significant(float64(m.SizeDelta), float64(be.Size), float64(te.Size), cfg.SizeTolerancePct, float64(cfg.SizeToleranceBytes)) ||
		significant(m.TimeDeltaMs, m.BaseTimeMs, m.TargetTimeMs, cfg.TimeTolerancePct, cfg.TimeToleranceMs)

	return m, changed
}

// significant reports whether delta clears both the relative and the
// absolute tolerance, so tiny harmless fluctuations never count. The
// relative check runs against the smaller side so the verdict does not
// depend on which capture is the base.
func significant(delta, base, target, tolerancePct, toleranceAbs float64) bool {
	if math.Abs(delta) <= toleranceAbs {
		return false
	}
	denom := math.Min(math.Abs(base), math.Abs(target))
	if denom == 0 {
		return true
	}
	return math.Abs(delta)/denom*100 > tolerancePct
}

func typeDeltas(base, target *models.Breakdown) []models.TypeDelta {
	order := []models.ResourceType{}
	seen := map[models.ResourceType]bool{}
	for _, s := range base.ResourceTypes {
		order = append(order, s.Type)
		seen[s.Type] = true
	}
	for _, s := range target.ResourceTypes {
		if !seen[s.Type] {
			order = append(order, s.Type)
			seen[s.Type] = true
		}
	}

	deltas := make([]models.TypeDelta, 0, len(order))
	for _, t := range order {
		bs, _ := base.TypeStats(t)
		ts, _ := target.TypeStats(t)
		deltas = append(deltas, models.TypeDelta{
			Type:        t,
			BaseCount:   bs.Count,
			TargetCount: ts.Count,
			CountDelta:  ts.Count - bs.Count,
			BytesDelta:  ts.TotalBytes - bs.TotalBytes,
			TimeDeltaMs: ts.TotalTimeMs - bs.TotalTimeMs,
		})
	}
	return deltas
}

func failedComparison(base, target *models.Breakdown) models.FailedComparison {
	baseFailed := failedURLs(base.Entries)
	targetFailed := failedURLs(target.Entries)

	fc := models.FailedComparison{
		NewlyFailed:  []string{},
		Fixed:        []string{},
		StillFailing: []string{},
	}
	for url := range targetFailed {
		if baseFailed[url] {
			fc.StillFailing = append(fc.StillFailing, url)
		} else {
			fc.NewlyFailed = append(fc.NewlyFailed, url)
		}
	}
	for url := range baseFailed {
		if !targetFailed[url] {
			fc.Fixed = append(fc.Fixed, url)
		}
	}

	sort.Strings(fc.NewlyFailed)
	sort.Strings(fc.Fixed)
	sort.Strings(fc.StillFailing)

	return fc
}

func failedURLs(entries []models.Entry) map[string]bool {
	m := map[string]bool{}
	for _, e := range entries {
		if e.Failed() {
			m[e.URL] = true
		}
	}
	return m
}

func findings(r *models.ComparisonReport, cfg config.ComparisonConfig) (regressions, improvements []models.Finding) {
	regressions = []models.Finding{}
	improvements = []models.Finding{}

	for _, k := range r.KPIs {
		switch k.Name {
		case "page_load_sec":
			if k.Percent == nil {
				continue
			}
			if *k.Percent > cfg.LoadRegressionPct {
				regressions = append(regressions, finding(k.Name, "high",
					"page load slowed by %.1f%%", *k.Percent))
			} else if *k.Percent < -cfg.LoadRegressionPct {
				improvements = append(improvements, finding(k.Name, "high",
					"page load sped up by %.1f%%", -*k.Percent))
			}
		case "total_requests":
			if int(k.Absolute) > cfg.RequestRegression {
				regressions = append(regressions, finding(k.Name, "medium",
					"request count grew by %d", int(k.Absolute)))
			} else if int(-k.Absolute) > cfg.RequestRegression {
				improvements = append(improvements, finding(k.Name, "medium",
					"request count shrank by %d", int(-k.Absolute)))
			}
		case "total_bytes":
			if int64(k.Absolute) > cfg.SizeRegressionBytes {
				regressions = append(regressions, finding(k.Name, "medium",
					"page weight grew by %.1f KB", k.Absolute/1024))
			} else if int64(-k.Absolute) > cfg.SizeRegressionBytes {
				improvements = append(improvements, finding(k.Name, "medium",
					"page weight shrank by %.1f KB", -k.Absolute/1024))
			}
		}
	}

	if n := len(r.Failed.NewlyFailed); n > 0 {
		regressions = append(regressions, finding("failed_requests", "high",
			"%d requests that previously succeeded now fail", n))
	}
	if n := len(r.Failed.Fixed); n > 0 {
		improvements = append(improvements, finding("failed_requests", "medium",
			"%d previously failing requests now succeed", n))
	}
	if r.GradeChange.Improved {
		improvements = append(improvements, finding("performance_grade", "medium",
			"grade improved from %s to %s", r.GradeChange.Base, r.GradeChange.Target))
	} else if models.GradeRank(r.GradeChange.Target) > models.GradeRank(r.GradeChange.Base) {
		regressions = append(regressions, finding("performance_grade", "high",
			"grade dropped from %s to %s", r.GradeChange.Base, r.GradeChange.Target))
	}

	return regressions, improvements
}

func finding(metric, severity, format string, args ...any) models.Finding {
	return models.Finding{
		Metric:      metric,
		Severity:    severity,
		Description: fmt.Sprintf(format, args...),
	}
}

// overallStatus: any flagged regression marks the whole comparison
// regressed, even when improvements exist alongside it. Mixed is
// reserved for captures that changed without tripping either list.
func overallStatus(r *models.ComparisonReport) string {
	switch {
	case len(r.Regressions) > 0:
		return models.StatusRegressed
	case len(r.Improvements) > 0:
		return models.StatusImproved
	case hasChanges(r):
		return models.StatusMixed
	default:
		return models.StatusUnchanged
	}
}

func hasChanges(r *models.ComparisonReport) bool {
	if r.Resources.Counts.Added > 0 || r.Resources.Counts.Removed > 0 || r.Resources.Counts.Modified > 0 {
		return true
	}
	for _, k := range r.KPIs {
		if k.Direction == models.DirectionIncreased || k.Direction == models.DirectionDecreased {
			return true
		}
	}
	return false
}
