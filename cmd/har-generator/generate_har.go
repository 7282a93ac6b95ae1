package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/harsight/harsight/internal/har"
)

// Generates a synthetic HAR capture with a realistic resource mix, for
// exercising the analyzer without a browser export at hand.
func main() {
	output := flag.String("output", "test_capture.har", "Output file path")
	count := flag.Int("count", 40, "Number of entries to generate")
	seed := flag.Int64("seed", 0, "Random seed (0 = time-based)")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	file, err := os.Create(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	navStart := time.Now().UTC().Truncate(time.Second)

	entryTypes := []struct {
		weight int
		gen    func(*rand.Rand, time.Time, float64) har.Entry
	}{
		{30, generateImage},
		{25, generateScript},
		{15, generateStylesheet},
		{15, generateAPICall},
		{10, generateThirdPartyTag},
		{5, generateFailure},
	}

	totalWeight := 0
	for _, et := range entryTypes {
		totalWeight += et.weight
	}

	entries := []har.Entry{generateDocument(rng, navStart)}
	offset := 150.0

	for i := 1; i < *count; i++ {
		roll := rng.Intn(totalWeight)
		cumulative := 0

		for _, et := range entryTypes {
			cumulative += et.weight
			if roll < cumulative {
				entries = append(entries, et.gen(rng, navStart, offset))
				break
			}
		}

		offset += float64(rng.Intn(120))
	}

	onContentLoad := offset * 0.6
	onLoad := offset * 1.1

	capture := har.File{Log: &har.Log{
		Version: "1.2",
		Creator: har.Creator{Name: "har-generator", Version: "1.0"},
		Pages: []har.Page{{
			StartedDateTime: navStart,
			ID:              "page_1",
			Title:           "https://shop.example/",
			PageTimings: har.PageTimings{
				OnContentLoad: &onContentLoad,
				OnLoad:        &onLoad,
			},
		}},
		Entries: entries,
	}}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(capture); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write capture: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated %d entries to %s (seed %d)\n", len(entries), *output, *seed)
}

func baseEntry(start time.Time, offsetMs, timeMs float64) har.Entry {
	wait := timeMs * 0.8
	receive := timeMs * 0.2
	return har.Entry{
		Pageref:         "page_1",
		StartedDateTime: start.Add(time.Duration(offsetMs) * time.Millisecond),
		Time:            timeMs,
		Timings:         har.Timings{Wait: &wait, Receive: &receive},
	}
}

func generateDocument(rng *rand.Rand, start time.Time) har.Entry {
	e := baseEntry(start, 0, float64(200+rng.Intn(400)))
	e.Request = har.Request{Method: "GET", URL: "https://shop.example/"}
	e.Response = har.Response{
		Status: 200,
		Headers: []har.NameValuePair{
			{Name: "Content-Type", Value: "text/html"},
		},
		Content: har.Content{
			Size:     int64(20000 + rng.Intn(60000)),
			MimeType: "text/html",
			Text:     `<html><head><link rel="stylesheet" href="/assets/main.css"><script src="/assets/vendor.js"></script></head><body></body></html>`,
		},
	}
	return e
}

func generateImage(rng *rand.Rand, start time.Time, offsetMs float64) har.Entry {
	e := baseEntry(start, offsetMs, float64(50+rng.Intn(300)))
	e.Request = har.Request{Method: "GET", URL: fmt.Sprintf("https://shop.example/img/product-%d.jpg", rng.Intn(500))}
	e.Response = har.Response{
		Status:  200,
		Content: har.Content{Size: int64(5000 + rng.Intn(200000)), MimeType: "image/jpeg"},
	}
	return e
}

func generateScript(rng *rand.Rand, start time.Time, offsetMs float64) har.Entry {
	name := []string{"vendor", "app", "chunk-common", "polyfills"}[rng.Intn(4)]
	e := baseEntry(start, offsetMs, float64(80+rng.Intn(500)))
	e.Request = har.Request{Method: "GET", URL: fmt.Sprintf("https://shop.example/assets/%s.js", name)}
	e.Response = har.Response{
		Status: 200,
		Headers: []har.NameValuePair{
			{Name: "Content-Encoding", Value: "gzip"},
			{Name: "Cache-Control", Value: "max-age=31536000"},
		},
		Content: har.Content{Size: int64(10000 + rng.Intn(300000)), MimeType: "application/javascript"},
	}
	return e
}

func generateStylesheet(rng *rand.Rand, start time.Time, offsetMs float64) har.Entry {
	e := baseEntry(start, offsetMs, float64(40+rng.Intn(200)))
	e.Request = har.Request{Method: "GET", URL: "https://shop.example/assets/main.css"}
	e.Response = har.Response{
		Status:  200,
		Content: har.Content{Size: int64(8000 + rng.Intn(40000)), MimeType: "text/css"},
	}
	return e
}

func generateAPICall(rng *rand.Rand, start time.Time, offsetMs float64) har.Entry {
	e := baseEntry(start, offsetMs, float64(100+rng.Intn(800)))
	e.Request = har.Request{Method: "GET", URL: fmt.Sprintf("https://shop.example/api/products?page=%d", rng.Intn(10))}
	e.Response = har.Response{
		Status:  200,
		Content: har.Content{Size: int64(1000 + rng.Intn(50000)), MimeType: "application/json"},
	}
	e.ResourceType = "xhr"
	return e
}

func generateThirdPartyTag(rng *rand.Rand, start time.Time, offsetMs float64) har.Entry {
	host := []string{
		"www.google-analytics.com",
		"connect.facebook.net",
		"cdn.jsdelivr.net",
		"fonts.gstatic.com",
	}[rng.Intn(4)]

	e := baseEntry(start, offsetMs, float64(150+rng.Intn(1500)))
	e.Request = har.Request{Method: "GET", URL: fmt.Sprintf("https://%s/tag.js", host)}
	e.Response = har.Response{
		Status:  200,
		Content: har.Content{Size: int64(2000 + rng.Intn(80000)), MimeType: "application/javascript"},
	}
	return e
}

func generateFailure(rng *rand.Rand, start time.Time, offsetMs float64) har.Entry {
	e := baseEntry(start, offsetMs, float64(30+rng.Intn(150)))
	e.Request = har.Request{Method: "GET", URL: fmt.Sprintf("https://shop.example/img/missing-%d.png", rng.Intn(100))}
	e.Response = har.Response{
		Status:     404,
		StatusText: "Not Found",
		Content:    har.Content{Size: 0, MimeType: "text/html"},
	}
	return e
}
