package breakdown

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/harsight/harsight/internal/config"
	"github.com/harsight/harsight/internal/har"
	"github.com/harsight/harsight/internal/models"
)

func f64(v float64) *float64 { return &v }

func testCapture() *har.File {
	navStart := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	html := "<html><head><title>shop</title></head><body>hi</body></html>"
	encoded := base64.StdEncoding.EncodeToString([]byte(html))

	return &har.File{Log: &har.Log{
		Version: "1.2",
		Pages: []har.Page{{
			StartedDateTime: navStart,
			ID:              "page_1",
			Title:           "shop",
			PageTimings:     har.PageTimings{OnContentLoad: f64(1200), OnLoad: f64(2500)},
		}},
		Entries: []har.Entry{
			{
				StartedDateTime: navStart,
				Time:            300,
				Request:         har.Request{Method: "GET", URL: "https://shop.example/"},
				Response: har.Response{
					Status: 200,
					Headers: []har.NameValuePair{
						{Name: "Content-Type", Value: "text/html"},
						{Name: "Cache-Control", Value: "no-cache"},
					},
					Content: har.Content{Size: 4096, MimeType: "text/html", Text: encoded, Encoding: "base64"},
				},
				Timings: har.Timings{DNS: f64(12), Connect: f64(40), SSL: f64(25), Wait: f64(200), Receive: f64(23)},
			},
			{
				StartedDateTime: navStart.Add(400 * time.Millisecond),
				Time:            150,
				Request:         har.Request{Method: "GET", URL: "https://shop.example/app.js"},
				Response: har.Response{
					Status:  200,
					Content: har.Content{Size: 2048, MimeType: "application/javascript"},
				},
				Timings: har.Timings{Blocked: f64(-1), Wait: f64(120), Receive: f64(30)},
			},
			{
				StartedDateTime: navStart.Add(600 * time.Millisecond),
				Time:            1200,
				Request:         har.Request{Method: "GET", URL: "https://cdn.tracker.net/pixel.png"},
				Response: har.Response{
					Status:  404,
					Content: har.Content{Size: -1, MimeType: "image/png"},
					BodySize: 512,
				},
				Timings: har.Timings{Wait: f64(1100), Receive: f64(100)},
			},
		},
	}}
}

func TestBuild(t *testing.T) {
	b, err := Build(testCapture(), config.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("totals", func(t *testing.T) {
		if b.Totals.Requests != 3 {
			t.Errorf("expected 3 requests, got %d", b.Totals.Requests)
		}
		if b.Totals.TotalBytes != 4096+2048+512 {
			t.Errorf("expected %d bytes, got %d", 4096+2048+512, b.Totals.TotalBytes)
		}
		if b.Totals.Failed != 1 {
			t.Errorf("expected 1 failed request, got %d", b.Totals.Failed)
		}
		if b.Totals.Slow != 1 {
			t.Errorf("expected 1 slow request, got %d", b.Totals.Slow)
		}
	})

	t.Run("buckets sum to totals", func(t *testing.T) {
		var typeCount int
		var typeBytes int64
		for _, s := range b.ResourceTypes {
			typeCount += s.Count
			typeBytes += s.TotalBytes
		}
		if typeCount != b.Totals.Requests || typeBytes != b.Totals.TotalBytes {
			t.Errorf("type buckets sum to %d requests / %d bytes, totals say %d / %d",
				typeCount, typeBytes, b.Totals.Requests, b.Totals.TotalBytes)
		}

		var domainCount int
		var domainBytes int64
		for _, d := range b.Domains {
			domainCount += d.Count
			domainBytes += d.TotalBytes
		}
		if domainCount != b.Totals.Requests || domainBytes != b.Totals.TotalBytes {
			t.Errorf("domain buckets sum to %d requests / %d bytes, totals say %d / %d",
				domainCount, domainBytes, b.Totals.Requests, b.Totals.TotalBytes)
		}
	})

	t.Run("page metadata", func(t *testing.T) {
		if b.Page.URL != "https://shop.example/" {
			t.Errorf("expected page URL https://shop.example/, got %s", b.Page.URL)
		}
		if b.Page.Domain != "shop.example" {
			t.Errorf("expected page domain shop.example, got %s", b.Page.Domain)
		}
		if b.Page.DOMReadyMs == nil || *b.Page.DOMReadyMs != 1200 {
			t.Errorf("expected DOM ready 1200, got %v", b.Page.DOMReadyMs)
		}
		if b.Page.LoadMs == nil || *b.Page.LoadMs != 2500 {
			t.Errorf("expected load 2500, got %v", b.Page.LoadMs)
		}
	})

	t.Run("entry conversion", func(t *testing.T) {
		js := b.Entries[1]
		if js.ResourceType != models.ResourceScript {
			t.Errorf("expected script, got %s", js.ResourceType)
		}
		if js.StartOffsetMs != 400 {
			t.Errorf("expected offset 400, got %f", js.StartOffsetMs)
		}
		if js.Timings.Blocked != models.UnknownTiming {
			t.Errorf("expected blocked to stay unknown, got %f", js.Timings.Blocked)
		}
		if js.Timings.DNS != models.UnknownTiming {
			t.Errorf("expected absent dns to be unknown, got %f", js.Timings.DNS)
		}
		if sum := js.Timings.KnownSum(); sum != 150 {
			t.Errorf("expected known phase sum 150, got %f", sum)
		}
	})

	t.Run("failed entry uses body size", func(t *testing.T) {
		px := b.Entries[2]
		if !px.Failed() {
			t.Error("expected 404 entry to count as failed")
		}
		if px.Size != 512 {
			t.Errorf("expected size fallback to bodySize 512, got %d", px.Size)
		}
	})

	t.Run("response headers lowercased", func(t *testing.T) {
		doc := b.Entries[0]
		if doc.ResponseHeaders.Get("cache-control") != "no-cache" {
			t.Errorf("expected cache-control header, got %q", doc.ResponseHeaders.Get("cache-control"))
		}
		if !doc.ResponseHeaders.Has("Content-Type") {
			t.Error("expected case-insensitive header lookup")
		}
	})

	t.Run("document body attached", func(t *testing.T) {
		if b.DocumentURL != "https://shop.example/" {
			t.Errorf("expected document URL https://shop.example/, got %s", b.DocumentURL)
		}
		if b.DocumentHTML == "" || b.DocumentHTML[:6] != "<html>" {
			t.Errorf("expected decoded HTML body, got %q", b.DocumentHTML)
		}
	})
}

func TestBuildEmptyCapture(t *testing.T) {
	b, err := Build(&har.File{Log: &har.Log{Entries: []har.Entry{}}}, config.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if b.Totals.Requests != 0 {
		t.Errorf("expected 0 requests, got %d", b.Totals.Requests)
	}
	if len(b.ResourceTypes) != 0 || len(b.Domains) != 0 {
		t.Errorf("expected empty buckets, got %d types and %d domains", len(b.ResourceTypes), len(b.Domains))
	}
	if b.Page.DOMReadyMs != nil || b.Page.LoadMs != nil {
		t.Error("expected nil page milestones for a capture without pages")
	}
}

func TestBuildNilCapture(t *testing.T) {
	if _, err := Build(nil, config.Default()); err == nil {
		t.Fatal("expected error for nil capture")
	}
}
