package metrics

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/harsight/harsight/internal/config"
	"github.com/harsight/harsight/internal/models"
)

var (
	headPattern   = regexp.MustCompile(`(?is)<head[^>]*>(.*?)</head>`)
	linkPattern   = regexp.MustCompile(`(?is)<link\b[^>]*>`)
	scriptPattern = regexp.MustCompile(`(?is)<script\b[^>]*\bsrc\s*=\s*["']([^"']+)["'][^>]*>`)
	relPattern    = regexp.MustCompile(`(?i)\brel\s*=\s*["']?stylesheet["']?`)
	hrefPattern   = regexp.MustCompile(`(?i)\bhref\s*=\s*["']([^"']+)["']`)
)

// criticalPath identifies render-blocking references in the document
// head and correlates them back to captured entries. Without a document
// body the analysis degrades to unavailable rather than guessing.
func criticalPath(b *models.Breakdown, cfg config.CriticalPathConfig) models.CriticalPathReport {
	if b.DocumentHTML == "" {
		return models.CriticalPathReport{
			Reason:   "capture does not include the document body",
			Blocking: []models.BlockingResource{},
		}
	}

	refs := blockingRefs(b.DocumentHTML)
	report := models.CriticalPathReport{
		Available:   true,
		DocumentURL: b.DocumentURL,
		Blocking:    make([]models.BlockingResource, 0, len(refs)),
	}

	base, _ := url.Parse(b.DocumentURL)

	var maxTime float64
	var maxSize int64
	for _, ref := range refs {
		r := models.BlockingResource{URL: ref.url, Type: ref.kind}

		if e, ok := matchEntry(b.Entries, resolveRef(base, ref.url)); ok {
			r.URL = e.URL
			r.SizeBytes = e.Size
			r.TimeMs = models.Known(e.TimeMs)
			r.Status = e.Status
			r.FoundInCapture = true
			if r.TimeMs > maxTime {
				maxTime = r.TimeMs
			}
			if r.SizeBytes > maxSize {
				maxSize = r.SizeBytes
			}
			if c := e.CompleteAtMs(); c > report.PathTimeMs {
				report.PathTimeMs = c
			}
		}

		if ref.kind == models.ResourceStylesheet {
			report.CSSCount++
		} else {
			report.JSCount++
		}
		report.Blocking = append(report.Blocking, r)
	}

	for i := range report.Blocking {
		r := &report.Blocking[i]
		if !r.FoundInCapture {
			r.Priority = models.PriorityLow
			continue
		}
		score := 0.0
		if maxTime > 0 {
			score = r.TimeMs / maxTime * 70
		}
		if maxSize > 0 && r.SizeBytes == maxSize {
			score += 30
		}
		r.ImpactScore = score
		switch {
		case score >= cfg.HighPriorityScore:
			r.Priority = models.PriorityHigh
		case score >= cfg.MediumPriorityScore:
			r.Priority = models.PriorityMedium
		default:
			r.Priority = models.PriorityLow
		}
	}

	// Blocking keeps document order: the list mirrors how the browser
	// encounters the references, with impact expressed per item.
	return report
}

type blockingRef struct {
	url  string
	kind models.ResourceType
}

func blockingRefs(html string) []blockingRef {
	head := html
	if m := headPattern.FindStringSubmatch(html); m != nil {
		head = m[1]
	}

	var refs []blockingRef
	seen := map[string]bool{}

	for _, tag := range linkPattern.FindAllString(head, -1) {
		if !relPattern.MatchString(tag) {
			continue
		}
		m := hrefPattern.FindStringSubmatch(tag)
		if m == nil || seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		refs = append(refs, blockingRef{url: m[1], kind: models.ResourceStylesheet})
	}

	for _, m := range scriptPattern.FindAllStringSubmatch(head, -1) {
		tag := m[0]
		if nonBlockingScript(tag) {
			continue
		}
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		refs = append(refs, blockingRef{url: m[1], kind: models.ResourceScript})
	}

	return refs
}

var (
	asyncPattern  = regexp.MustCompile(`(?i)\basync\b`)
	deferPattern  = regexp.MustCompile(`(?i)\bdefer\b`)
	modulePattern = regexp.MustCompile(`(?i)\btype\s*=\s*["']?module["']?`)
)

// Module scripts are deferred by default, so they never block parsing.
func nonBlockingScript(tag string) bool {
	return asyncPattern.MatchString(tag) ||
		deferPattern.MatchString(tag) ||
		modulePattern.MatchString(tag)
}

func resolveRef(base *url.URL, ref string) string {
	if base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

// matchEntry finds the captured entry for a document reference: exact
// URL first, then suffix and substring matches to cover references the
// document writes relative or query-stripped.
func matchEntry(entries []models.Entry, ref string) (models.Entry, bool) {
	for _, e := range entries {
		if e.URL == ref {
			return e, true
		}
	}
	for _, e := range entries {
		if strings.HasSuffix(e.URL, ref) || strings.Contains(e.URL, ref) {
			return e, true
		}
	}
	return models.Entry{}, false
}
