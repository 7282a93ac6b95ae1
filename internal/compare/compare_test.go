package compare

import (
	"testing"
	"time"

	"github.com/harsight/harsight/internal/breakdown"
	"github.com/harsight/harsight/internal/config"
	"github.com/harsight/harsight/internal/har"
	"github.com/harsight/harsight/internal/metrics"
	"github.com/harsight/harsight/internal/models"
)

var navStart = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

func f64(v float64) *float64 { return &v }

func entry(url, mime string, status int, size int64, timeMs float64) har.Entry {
	return har.Entry{
		StartedDateTime: navStart,
		Time:            timeMs,
		Request:         har.Request{Method: "GET", URL: url},
		Response: har.Response{
			Status:  status,
			Content: har.Content{Size: size, MimeType: mime},
		},
		Timings: har.Timings{Wait: f64(timeMs)},
	}
}

func run(t *testing.T, label string, loadMs float64, entries ...har.Entry) Run {
	t.Helper()
	cfg := config.Default()
	f := &har.File{Log: &har.Log{
		Pages: []har.Page{{
			StartedDateTime: navStart,
			ID:              "page_1",
			PageTimings:     har.PageTimings{OnContentLoad: f64(loadMs / 2), OnLoad: f64(loadMs)},
		}},
		Entries: entries,
	}}

	b, err := breakdown.Build(f, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return Run{Label: label, Breakdown: b, Report: metrics.Analyze(b, cfg)}
}

func kpiByName(t *testing.T, r *models.ComparisonReport, name string) models.KPIDelta {
	t.Helper()
	for _, k := range r.KPIs {
		if k.Name == name {
			return k
		}
	}
	t.Fatalf("missing KPI %s", name)
	return models.KPIDelta{}
}

func TestCompareRemovedScript(t *testing.T) {
	cfg := config.Default()

	doc := entry("https://shop.example/", "text/html", 200, 10000, 300)
	bundle := entry("https://shop.example/bundle.js", "application/javascript", 200, 500*1024, 800)

	base := run(t, "before", 3000, doc, bundle)
	target := run(t, "after", 2500, doc)

	r := Compare(base, target, cfg)

	if r.Resources.Counts.Removed != 1 || len(r.Resources.Removed) != 1 {
		t.Fatalf("expected exactly one removed resource, got %+v", r.Resources.Counts)
	}
	if r.Resources.Removed[0].URL != "https://shop.example/bundle.js" {
		t.Errorf("expected bundle.js removed, got %s", r.Resources.Removed[0].URL)
	}
	if r.Resources.Counts.Added != 0 || r.Resources.Counts.Unchanged != 1 {
		t.Errorf("expected 0 added / 1 unchanged, got %+v", r.Resources.Counts)
	}

	bytes := kpiByName(t, r, "total_bytes")
	if bytes.Absolute != -500*1024 {
		t.Errorf("expected -512000 byte change, got %f", bytes.Absolute)
	}
	if bytes.Direction != models.DirectionDecreased {
		t.Errorf("expected decreased direction, got %s", bytes.Direction)
	}

	load := kpiByName(t, r, "page_load_sec")
	if load.Direction != models.DirectionDecreased {
		t.Errorf("expected page load to decrease, got %s", load.Direction)
	}

	// Load dropped by over 10% and nothing regressed.
	if r.Status != models.StatusImproved {
		t.Errorf("expected improved status, got %s", r.Status)
	}

	for _, td := range r.ResourceTypes {
		if td.Type == models.ResourceScript && td.CountDelta != -1 {
			t.Errorf("expected script count delta -1, got %d", td.CountDelta)
		}
	}
}

func TestCompareSymmetry(t *testing.T) {
	cfg := config.Default()

	doc := entry("https://shop.example/", "text/html", 200, 10000, 300)
	bundle := entry("https://shop.example/bundle.js", "application/javascript", 200, 500*1024, 800)
	pixel := entry("https://cdn.tracker.net/pixel.png", "image/png", 200, 400, 90)

	a := run(t, "a", 3000, doc, bundle)
	b := run(t, "b", 4000, doc, pixel)

	forward := Compare(a, b, cfg)
	backward := Compare(b, a, cfg)

	for i, fk := range forward.KPIs {
		bk := backward.KPIs[i]
		if fk.Name != bk.Name {
			t.Fatalf("KPI order differs: %s vs %s", fk.Name, bk.Name)
		}
		if fk.Absolute != -bk.Absolute {
			t.Errorf("%s: expected %f to negate to %f", fk.Name, fk.Absolute, bk.Absolute)
		}
	}

	if len(forward.Resources.Added) != len(backward.Resources.Removed) ||
		len(forward.Resources.Removed) != len(backward.Resources.Added) {
		t.Errorf("expected added/removed to swap when sides swap")
	}
	if forward.Resources.Counts.Modified != backward.Resources.Counts.Modified {
		t.Errorf("expected modified count to be symmetric")
	}
	if forward.Resources.Counts.Unchanged != backward.Resources.Counts.Unchanged {
		t.Errorf("expected unchanged count to be symmetric")
	}
}

func TestCompareIdenticalCaptures(t *testing.T) {
	cfg := config.Default()

	doc := entry("https://shop.example/", "text/html", 200, 10000, 300)
	js := entry("https://shop.example/app.js", "application/javascript", 200, 2000, 150)

	a := run(t, "a", 2000, doc, js)
	b := run(t, "b", 2000, doc, js)

	r := Compare(a, b, cfg)

	for _, k := range r.KPIs {
		if k.Direction != models.DirectionUnchanged {
			t.Errorf("%s: expected unchanged, got %s", k.Name, k.Direction)
		}
	}
	if r.Resources.Counts.Modified != 0 || r.Resources.Counts.Unchanged != 2 {
		t.Errorf("expected all resources unchanged, got %+v", r.Resources.Counts)
	}
	if r.Status != models.StatusUnchanged {
		t.Errorf("expected unchanged status, got %s", r.Status)
	}
}

func TestCompareFailedRequests(t *testing.T) {
	cfg := config.Default()

	doc := entry("https://shop.example/", "text/html", 200, 10000, 300)
	okImg := entry("https://shop.example/a.png", "image/png", 200, 500, 100)
	brokenImg := entry("https://shop.example/a.png", "image/png", 404, 0, 100)
	stillBroken := entry("https://shop.example/b.css", "text/css", 500, 0, 80)

	base := run(t, "before", 2000, doc, okImg, stillBroken)
	target := run(t, "after", 2000, doc, brokenImg, stillBroken)

	r := Compare(base, target, cfg)

	if len(r.Failed.NewlyFailed) != 1 || r.Failed.NewlyFailed[0] != "https://shop.example/a.png" {
		t.Errorf("expected a.png newly failed, got %v", r.Failed.NewlyFailed)
	}
	if len(r.Failed.StillFailing) != 1 || r.Failed.StillFailing[0] != "https://shop.example/b.css" {
		t.Errorf("expected b.css still failing, got %v", r.Failed.StillFailing)
	}
	if len(r.Failed.Fixed) != 0 {
		t.Errorf("expected no fixed requests, got %v", r.Failed.Fixed)
	}
	if r.Status != models.StatusRegressed {
		t.Errorf("expected regressed status, got %s", r.Status)
	}
}

func TestCompareRegressionOutweighsImprovement(t *testing.T) {
	cfg := config.Default()

	doc := entry("https://shop.example/", "text/html", 200, 10000, 300)
	brokenImg := entry("https://shop.example/a.png", "image/png", 404, 0, 100)
	okImg := entry("https://shop.example/a.png", "image/png", 200, 500, 100)

	// The image got fixed, but the page load slowed from 2s to 3s.
	base := run(t, "before", 2000, doc, brokenImg)
	target := run(t, "after", 3000, doc, okImg)

	r := Compare(base, target, cfg)

	if len(r.Regressions) == 0 {
		t.Fatal("expected the load slowdown to be flagged as a regression")
	}
	if len(r.Improvements) == 0 {
		t.Fatal("expected the fixed request to be flagged as an improvement")
	}
	if r.Status != models.StatusRegressed {
		t.Errorf("expected any regression to mark the comparison regressed, got %s", r.Status)
	}
}

func TestCompareModifiedSetSymmetric(t *testing.T) {
	cfg := config.Default()

	// The size delta clears 5% of the smaller capture but not 5% of the
	// larger one, so the verdict must not depend on which side is base.
	small := entry("https://shop.example/app.js", "application/javascript", 200, 20000, 500)
	large := entry("https://shop.example/app.js", "application/javascript", 200, 21040, 500)

	a := run(t, "a", 2000, small)
	b := run(t, "b", 2000, large)

	forward := Compare(a, b, cfg)
	backward := Compare(b, a, cfg)

	if forward.Resources.Counts.Modified != 1 {
		t.Errorf("expected 1 modified resource, got %d", forward.Resources.Counts.Modified)
	}
	if forward.Resources.Counts.Modified != backward.Resources.Counts.Modified {
		t.Errorf("expected modified detection to be symmetric, got %d vs %d",
			forward.Resources.Counts.Modified, backward.Resources.Counts.Modified)
	}
}

func TestCompareToleranceIgnoresJitter(t *testing.T) {
	cfg := config.Default()

	base := run(t, "a", 2000, entry("https://shop.example/app.js", "application/javascript", 200, 100000, 500))
	target := run(t, "b", 2000, entry("https://shop.example/app.js", "application/javascript", 200, 100500, 505))

	r := Compare(base, target, cfg)

	if r.Resources.Counts.Modified != 0 {
		t.Errorf("expected sub-tolerance changes to be ignored, got %d modified", r.Resources.Counts.Modified)
	}
	if r.Resources.Counts.Unchanged != 1 {
		t.Errorf("expected 1 unchanged, got %d", r.Resources.Counts.Unchanged)
	}
	// Bytes still crept up, so the comparison changed without tripping
	// either findings list.
	if r.Status != models.StatusMixed {
		t.Errorf("expected mixed status for unflagged drift, got %s", r.Status)
	}
}

func TestCompareStamp(t *testing.T) {
	cfg := config.Default()
	a := run(t, "a", 2000, entry("https://shop.example/", "text/html", 200, 1000, 100))
	b := run(t, "b", 2000, entry("https://shop.example/", "text/html", 200, 1000, 100))

	r := Compare(a, b, cfg)
	if r.Meta.ComparisonID != "" {
		t.Error("expected comparison to leave meta ID empty until stamped")
	}
	if r.Meta.BaseLabel != "a" || r.Meta.TargetLabel != "b" {
		t.Errorf("expected labels a/b, got %s/%s", r.Meta.BaseLabel, r.Meta.TargetLabel)
	}

	Stamp(r)
	if r.Meta.ComparisonID == "" || r.Meta.ComparedAt == "" {
		t.Error("expected stamp to fill comparison identity")
	}
}
