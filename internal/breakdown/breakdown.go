// Package breakdown flattens a decoded HAR capture into the aggregate
// view the analysis engines consume: classified entries, per-type and
// per-domain buckets, and capture-wide totals.
package breakdown

import (
	"encoding/base64"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/harsight/harsight/internal/config"
	"github.com/harsight/harsight/internal/har"
	"github.com/harsight/harsight/internal/models"
)

// maxDocumentBytes caps how much of the main document body is retained
// for head inspection. Anything a render-blocking reference could live
// in fits comfortably below this.
const maxDocumentBytes = 1 << 20

// Build derives the aggregate breakdown for a decoded capture. The
// capture itself is not referenced by the result, so callers can drop
// it once Build returns.
func Build(f *har.File, cfg config.Thresholds) (*models.Breakdown, error) {
	if f == nil || f.Log == nil {
		return nil, errors.New("nil capture")
	}

	b := &models.Breakdown{
		Entries:       make([]models.Entry, 0, len(f.Log.Entries)),
		ResourceTypes: []models.ResourceTypeStats{},
		Domains:       []models.DomainStats{},
	}

	navStart := navigationStart(f.Log)

	typeIndex := map[models.ResourceType]int{}
	domainIndex := map[string]int{}

	for i, raw := range f.Log.Entries {
		e := convertEntry(i, raw, navStart)
		b.Entries = append(b.Entries, e)

		ti, ok := typeIndex[e.ResourceType]
		if !ok {
			ti = len(b.ResourceTypes)
			typeIndex[e.ResourceType] = ti
			b.ResourceTypes = append(b.ResourceTypes, models.ResourceTypeStats{Type: e.ResourceType})
		}
		b.ResourceTypes[ti].Count++
		b.ResourceTypes[ti].TotalBytes += e.Size
		b.ResourceTypes[ti].TotalTimeMs += models.Known(e.TimeMs)

		di, ok := domainIndex[e.Domain]
		if !ok {
			di = len(b.Domains)
			domainIndex[e.Domain] = di
			b.Domains = append(b.Domains, models.DomainStats{Domain: e.Domain})
		}
		b.Domains[di].Count++
		b.Domains[di].TotalBytes += e.Size
		b.Domains[di].TotalTimeMs += models.Known(e.TimeMs)
		b.Domains[di].EntryIndexes = append(b.Domains[di].EntryIndexes, i)

		b.Totals.Requests++
		b.Totals.TotalBytes += e.Size
		b.Totals.TotalTimeMs += models.Known(e.TimeMs)
		if e.Failed() {
			b.Totals.Failed++
		}
		if e.TimeMs > cfg.Timing.VerySlowMs {
			b.Totals.Slow++
		}
	}

	b.Page = pageMetadata(f.Log, b.Entries, navStart)
	attachDocument(f.Log, b)

	return b, nil
}

func navigationStart(log *har.Log) time.Time {
	if len(log.Pages) > 0 && !log.Pages[0].StartedDateTime.IsZero() {
		return log.Pages[0].StartedDateTime
	}
	if len(log.Entries) > 0 {
		return log.Entries[0].StartedDateTime
	}
	return time.Time{}
}

func convertEntry(index int, raw har.Entry, navStart time.Time) models.Entry {
	size := raw.Response.Content.Size
	if size <= 0 {
		size = raw.Response.BodySize
	}
	if size < 0 {
		size = 0
	}

	offset := 0.0
	if !navStart.IsZero() && !raw.StartedDateTime.IsZero() {
		offset = float64(raw.StartedDateTime.Sub(navStart)) / float64(time.Millisecond)
		if offset < 0 {
			offset = 0
		}
	}

	mimeType := raw.Response.Content.MimeType

	return models.Entry{
		Index:           index,
		URL:             raw.Request.URL,
		Domain:          domainOf(raw.Request.URL),
		Method:          raw.Request.Method,
		Status:          raw.Response.Status,
		StatusText:      raw.Response.StatusText,
		MimeType:        mimeType,
		ResourceType:    Classify(raw.Request.URL, mimeType, raw.ResourceType),
		Size:            size,
		HeadersSize:     max(raw.Response.HeadersSize, 0),
		TimeMs:          raw.Time,
		StartOffsetMs:   offset,
		StartedAt:       raw.StartedDateTime,
		Timings:         convertTimings(raw.Timings),
		RequestHeaders:  headerMap(raw.Request.Headers),
		ResponseHeaders: headerMap(raw.Response.Headers),
	}
}

func convertTimings(t har.Timings) models.PhaseTimings {
	return models.PhaseTimings{
		Blocked: phase(t.Blocked),
		DNS:     phase(t.DNS),
		Connect: phase(t.Connect),
		SSL:     phase(t.SSL),
		Send:    phase(t.Send),
		Wait:    phase(t.Wait),
		Receive: phase(t.Receive),
	}
}

func phase(v *float64) float64 {
	if v == nil || *v < 0 {
		return models.UnknownTiming
	}
	return *v
}

func headerMap(pairs []har.NameValuePair) models.Headers {
	if len(pairs) == 0 {
		return nil
	}
	h := make(models.Headers, len(pairs))
	for _, p := range pairs {
		h[strings.ToLower(p.Name)] = p.Value
	}
	return h
}

func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

func pageMetadata(log *har.Log, entries []models.Entry, navStart time.Time) models.PageMetadata {
	meta := models.PageMetadata{CapturedAt: navStart}

	if len(log.Pages) > 0 {
		p := log.Pages[0]
		meta.Title = p.Title
		meta.DOMReadyMs = positiveOffset(p.PageTimings.OnContentLoad)
		meta.LoadMs = positiveOffset(p.PageTimings.OnLoad)
	}

	for _, e := range entries {
		if e.ResourceType == models.ResourceDocument {
			meta.URL = e.URL
			break
		}
	}
	if meta.URL == "" && len(entries) > 0 {
		meta.URL = entries[0].URL
	}
	meta.Domain = domainOf(meta.URL)

	return meta
}

func positiveOffset(v *float64) *float64 {
	if v == nil || *v <= 0 {
		return nil
	}
	out := *v
	return &out
}

// attachDocument picks the main HTML document body so later stages can
// inspect its head without the raw capture. Largest successful GET
// document wins; bodies over maxDocumentBytes are truncated.
func attachDocument(log *har.Log, b *models.Breakdown) {
	bestLen := 0
	for i, e := range b.Entries {
		if e.ResourceType != models.ResourceDocument || e.Status != 200 {
			continue
		}
		if !strings.EqualFold(e.Method, "GET") {
			continue
		}

		content := log.Entries[i].Response.Content
		text := content.Text
		if text == "" {
			continue
		}
		if strings.EqualFold(content.Encoding, "base64") {
			decoded, err := base64.StdEncoding.DecodeString(text)
			if err != nil {
				continue
			}
			text = string(decoded)
		}

		if len(text) > bestLen {
			bestLen = len(text)
			if len(text) > maxDocumentBytes {
				text = text[:maxDocumentBytes]
			}
			b.DocumentHTML = text
			b.DocumentURL = e.URL
		}
	}
}
