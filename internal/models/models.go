package models

import (
	"strings"
	"time"
)

// UnknownTiming is the sentinel for a phase timing the capture did not
// record. It is preserved on the entry for inspection but never enters
// aggregate sums.
const UnknownTiming = -1

type ResourceType string

const (
	ResourceDocument   ResourceType = "document"
	ResourceScript     ResourceType = "script"
	ResourceStylesheet ResourceType = "stylesheet"
	ResourceImage      ResourceType = "image"
	ResourceFont       ResourceType = "font"
	ResourceMedia      ResourceType = "media"
	ResourceXHR        ResourceType = "xhr"
	ResourceOther      ResourceType = "other"
)

// Headers holds header values keyed by lowercased name.
type Headers map[string]string

func (h Headers) Get(name string) string {
	if h == nil {
		return ""
	}
	return h[strings.ToLower(name)]
}

func (h Headers) Has(name string) bool {
	if h == nil {
		return false
	}
	_, ok := h[strings.ToLower(name)]
	return ok
}

// PhaseTimings are per-phase durations in milliseconds. Phases the
// capture did not record hold UnknownTiming.
type PhaseTimings struct {
	Blocked float64 `json:"blocked"`
	DNS     float64 `json:"dns"`
	Connect float64 `json:"connect"`
	SSL     float64 `json:"ssl"`
	Send    float64 `json:"send"`
	Wait    float64 `json:"wait"`
	Receive float64 `json:"receive"`
}

// Known normalizes a phase value for aggregation: unknown and negative
// values contribute 0.
func Known(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func (t PhaseTimings) KnownSum() float64 {
	return Known(t.Blocked) + Known(t.DNS) + Known(t.Connect) + Known(t.SSL) +
		Known(t.Send) + Known(t.Wait) + Known(t.Receive)
}

// Entry is one HTTP transaction of a capture, immutable after parse.
type Entry struct {
	Index           int          `json:"index"`
	URL             string       `json:"url"`
	Domain          string       `json:"domain"`
	Method          string       `json:"method"`
	Status          int          `json:"status"`
	StatusText      string       `json:"status_text,omitempty"`
	MimeType        string       `json:"mime_type,omitempty"`
	ResourceType    ResourceType `json:"resource_type"`
	Size            int64        `json:"size"`
	HeadersSize     int64        `json:"headers_size"`
	TimeMs          float64      `json:"time_ms"`
	StartOffsetMs   float64      `json:"start_offset_ms"`
	StartedAt       time.Time    `json:"started_at"`
	Timings         PhaseTimings `json:"timings"`
	RequestHeaders  Headers      `json:"request_headers,omitempty"`
	ResponseHeaders Headers      `json:"response_headers,omitempty"`
}

func (e Entry) Failed() bool {
	return e.Status == 0 || e.Status >= 400
}

// CompleteAtMs is the offset at which the transaction finished,
// relative to navigation start.
func (e Entry) CompleteAtMs() float64 {
	return e.StartOffsetMs + Known(e.TimeMs)
}

// PageMetadata holds navigation-level timestamps for one capture.
// DOMReadyMs and LoadMs are nil when the capture did not record them.
type PageMetadata struct {
	URL        string    `json:"url"`
	Title      string    `json:"title,omitempty"`
	Domain     string    `json:"domain"`
	CapturedAt time.Time `json:"captured_at"`
	DOMReadyMs *float64  `json:"dom_ready_ms"`
	LoadMs     *float64  `json:"load_ms"`
}

type ResourceTypeStats struct {
	Type        ResourceType `json:"type"`
	Count       int          `json:"count"`
	TotalBytes  int64        `json:"total_bytes"`
	TotalTimeMs float64      `json:"total_time_ms"`
}

type DomainStats struct {
	Domain      string  `json:"domain"`
	Count       int     `json:"count"`
	TotalBytes  int64   `json:"total_bytes"`
	TotalTimeMs float64 `json:"total_time_ms"`
	// EntryIndexes point into Breakdown.Entries, in appearance order.
	EntryIndexes []int `json:"entry_indexes"`
}

type Totals struct {
	Requests    int     `json:"total_requests"`
	TotalBytes  int64   `json:"total_bytes"`
	TotalTimeMs float64 `json:"total_time_ms"`
	Failed      int     `json:"failed_count"`
	Slow        int     `json:"slow_count"`
}

// Breakdown is the aggregate view of all entries for one capture,
// read-only once built. Resource-type and domain buckets keep
// insertion order for reproducible output.
type Breakdown struct {
	Page          PageMetadata        `json:"page"`
	Entries       []Entry             `json:"entries"`
	ResourceTypes []ResourceTypeStats `json:"resource_types"`
	Domains       []DomainStats       `json:"domains"`
	Totals        Totals              `json:"totals"`

	// DocumentHTML carries the main HTML document body when the capture
	// recorded one; empty means critical-path analysis is unavailable.
	DocumentHTML string `json:"-"`
	DocumentURL  string `json:"document_url,omitempty"`
}

func (b *Breakdown) TypeStats(t ResourceType) (ResourceTypeStats, bool) {
	for _, s := range b.ResourceTypes {
		if s.Type == t {
			return s, true
		}
	}
	return ResourceTypeStats{}, false
}

func (b *Breakdown) DomainEntries(domain string) []Entry {
	for _, d := range b.Domains {
		if d.Domain != domain {
			continue
		}
		entries := make([]Entry, 0, len(d.EntryIndexes))
		for _, i := range d.EntryIndexes {
			entries = append(entries, b.Entries[i])
		}
		return entries
	}
	return nil
}
