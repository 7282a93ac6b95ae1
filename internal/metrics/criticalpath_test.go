package metrics

import (
	"testing"

	"github.com/harsight/harsight/internal/config"
	"github.com/harsight/harsight/internal/models"
)

const testDocument = `<!doctype html>
<html>
<head>
  <link rel="stylesheet" href="/css/main.css">
  <link rel="preconnect" href="https://fonts.gstatic.com">
  <script src="/js/vendor.js"></script>
  <script src="/js/analytics.js" async></script>
  <script src="/js/app.js" defer></script>
  <script src="/js/widget.mjs" type="module"></script>
</head>
<body>
  <script src="/js/body.js"></script>
</body>
</html>`

func pathBreakdown() *models.Breakdown {
	return &models.Breakdown{
		Page: models.PageMetadata{URL: "https://shop.example/", Domain: "shop.example"},
		Entries: []models.Entry{
			{Index: 0, URL: "https://shop.example/", Status: 200, ResourceType: models.ResourceDocument, TimeMs: 200},
			{Index: 1, URL: "https://shop.example/css/main.css", Status: 200, ResourceType: models.ResourceStylesheet, Size: 30000, TimeMs: 150, StartOffsetMs: 220},
			{Index: 2, URL: "https://shop.example/js/vendor.js", Status: 200, ResourceType: models.ResourceScript, Size: 120000, TimeMs: 600, StartOffsetMs: 240},
			{Index: 3, URL: "https://shop.example/js/app.js", Status: 200, ResourceType: models.ResourceScript, Size: 50000, TimeMs: 300, StartOffsetMs: 260},
		},
		DocumentHTML: testDocument,
		DocumentURL:  "https://shop.example/",
	}
}

func TestCriticalPath(t *testing.T) {
	cfg := config.Default().CriticalPath
	r := criticalPath(pathBreakdown(), cfg)

	if !r.Available {
		t.Fatalf("expected critical path analysis, got reason %q", r.Reason)
	}

	// Only head references without async/defer/module block rendering:
	// main.css and vendor.js.
	if r.CSSCount != 1 || r.JSCount != 1 {
		t.Errorf("expected 1 css and 1 js blocking resource, got %d css / %d js", r.CSSCount, r.JSCount)
	}
	if len(r.Blocking) != 2 {
		t.Fatalf("expected 2 blocking resources, got %d", len(r.Blocking))
	}

	// The list mirrors the document head: the stylesheet link comes
	// before the script, whatever their relative impact.
	if r.Blocking[0].URL != "https://shop.example/css/main.css" {
		t.Errorf("expected main.css first in document order, got %s", r.Blocking[0].URL)
	}

	vendor := r.Blocking[1]
	if vendor.URL != "https://shop.example/js/vendor.js" {
		t.Errorf("expected vendor.js second in document order, got %s", vendor.URL)
	}
	if !vendor.FoundInCapture {
		t.Error("expected vendor.js to correlate with a captured entry")
	}
	if vendor.Priority != models.PriorityHigh {
		t.Errorf("expected high priority for the dominant blocker, got %s", vendor.Priority)
	}
	if vendor.ImpactScore <= r.Blocking[0].ImpactScore {
		t.Errorf("expected vendor.js to outscore main.css, got %f vs %f",
			vendor.ImpactScore, r.Blocking[0].ImpactScore)
	}

	// vendor.js finished at 240 + 600.
	if r.PathTimeMs != 840 {
		t.Errorf("expected path time 840ms, got %f", r.PathTimeMs)
	}
}

func TestCriticalPathUnavailableWithoutDocument(t *testing.T) {
	b := pathBreakdown()
	b.DocumentHTML = ""

	r := criticalPath(b, config.Default().CriticalPath)
	if r.Available {
		t.Error("expected analysis to degrade without a document body")
	}
	if r.Reason == "" {
		t.Error("expected a reason for the degraded analysis")
	}
}

func TestCriticalPathUncapturedReference(t *testing.T) {
	b := pathBreakdown()
	b.Entries = b.Entries[:2]

	r := criticalPath(b, config.Default().CriticalPath)
	if !r.Available {
		t.Fatal("expected analysis to remain available")
	}

	var vendor *models.BlockingResource
	for i := range r.Blocking {
		if r.Blocking[i].Type == models.ResourceScript {
			vendor = &r.Blocking[i]
		}
	}
	if vendor == nil {
		t.Fatal("expected the script reference to still be reported")
	}
	if vendor.FoundInCapture {
		t.Error("expected the script to be marked as not captured")
	}
	if vendor.Priority != models.PriorityLow {
		t.Errorf("expected low priority for an uncaptured reference, got %s", vendor.Priority)
	}
}
