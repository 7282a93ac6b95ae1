package metrics

import (
	"sort"
	"strconv"
	"strings"

	"github.com/harsight/harsight/internal/config"
	"github.com/harsight/harsight/internal/models"
)

// potentialSavings sums byte savings over the complete qualifying entry
// sets. The sample lists are bounded for display; the totals never are.
func potentialSavings(b *models.Breakdown, cfg config.SavingsConfig) models.SavingsReport {
	report := models.SavingsReport{
		NoCacheSample:      []models.AssetRef{},
		UncompressedSample: []models.AssetRef{},
	}

	var noCache, uncompressed []models.Entry

	for _, e := range b.Entries {
		if e.Failed() {
			continue
		}

		if compressible(e, cfg) {
			uncompressed = append(uncompressed, e)
			report.UncompressedCount++
			report.CompressionBytes += int64(float64(e.Size) * cfg.CompressionRatio)
		}

		if !strings.EqualFold(e.Method, "GET") || e.Status != 200 || e.Size <= 0 {
			continue
		}
		switch cacheability(e, cfg) {
		case cacheNone:
			noCache = append(noCache, e)
			report.NoCacheCount++
			report.CachingBytes += e.Size
		case cacheShort:
			report.ShortCacheCount++
			report.CachingBytes += e.Size
		}
	}

	report.TotalBytes = report.CachingBytes + report.CompressionBytes
	report.NoCacheSample = sampleBySize(noCache, cfg.SampleSize)
	report.UncompressedSample = sampleBySize(uncompressed, cfg.SampleSize)

	return report
}

func compressible(e models.Entry, cfg config.SavingsConfig) bool {
	if e.Size <= cfg.CompressibleMinBytes {
		return false
	}
	if e.ResponseHeaders.Has("content-encoding") {
		return false
	}
	switch e.ResourceType {
	case models.ResourceScript, models.ResourceStylesheet, models.ResourceDocument, models.ResourceXHR:
		return true
	}
	return strings.HasPrefix(strings.ToLower(e.MimeType), "text/")
}

type cacheClass int

const (
	cacheOK cacheClass = iota
	cacheNone
	cacheShort
)

func cacheability(e models.Entry, cfg config.SavingsConfig) cacheClass {
	cc := strings.ToLower(e.ResponseHeaders.Get("cache-control"))

	if cc == "" {
		if e.ResponseHeaders.Has("expires") {
			return cacheOK
		}
		return cacheNone
	}
	if strings.Contains(cc, "no-store") || strings.Contains(cc, "no-cache") {
		return cacheNone
	}

	if age, ok := maxAge(cc); ok && age < cfg.ShortCacheMaxAgeSec {
		return cacheShort
	}
	return cacheOK
}

func maxAge(cacheControl string) (int, bool) {
	for _, directive := range strings.Split(cacheControl, ",") {
		directive = strings.TrimSpace(directive)
		if !strings.HasPrefix(directive, "max-age=") {
			continue
		}
		age, err := strconv.Atoi(strings.TrimPrefix(directive, "max-age="))
		if err != nil {
			return 0, false
		}
		return age, true
	}
	return 0, false
}

func sampleBySize(entries []models.Entry, limit int) []models.AssetRef {
	sorted := make([]models.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Size > sorted[j].Size
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
