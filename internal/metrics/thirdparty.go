package metrics

import (
	"sort"
	"strings"

	"github.com/harsight/harsight/internal/config"
	"github.com/harsight/harsight/internal/models"
)

// categoryKeywords maps well-known vendor substrings onto categories.
// Order matters: the first matching group wins, so the more specific
// groups sit above the generic ones.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"analytics", []string{"google-analytics", "googletagmanager", "segment", "mixpanel", "hotjar", "amplitude", "analytics"}},
	{"advertising", []string{"doubleclick", "adsystem", "adservice", "criteo", "taboola", "outbrain", "ads"}},
	{"social", []string{"facebook", "twitter", "linkedin", "instagram", "pinterest", "tiktok"}},
	{"fonts", []string{"fonts.googleapis", "fonts.gstatic", "typekit", "fonts"}},
	{"maps", []string{"maps.googleapis", "mapbox", "maps"}},
	{"performance", []string{"newrelic", "datadoghq", "sentry", "bugsnag", "speedcurve"}},
	{"security", []string{"recaptcha", "captcha", "imperva", "cloudflareinsights"}},
	{"cdn", []string{"cloudfront", "akamai", "fastly", "cloudflare", "jsdelivr", "unpkg", "cdn"}},
}

func categorize(domain string) string {
	d := strings.ToLower(domain)
	for _, group := range categoryKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(d, kw) {
				return group.category
			}
		}
	}
	return "other"
}

// firstParty reports whether domain belongs to the page's own origin,
// including its subdomains.
func firstParty(domain, pageDomain string) bool {
	if pageDomain == "" {
		return false
	}
	return domain == pageDomain || strings.HasSuffix(domain, "."+pageDomain)
}

// thirdParty aggregates every domain other than the page's own. The
// high-impact list holds all domains over threshold, not a display
// subset.
func thirdParty(b *models.Breakdown, cfg config.ThirdPartyConfig) models.ThirdPartyReport {
	report := models.ThirdPartyReport{
		PageDomain: b.Page.Domain,
		Domains:    []models.DomainImpact{},
		Categories: []models.CategoryImpact{},
		HighImpact: []models.DomainImpact{},
	}

	for _, d := range b.Domains {
		if d.Domain == "" || firstParty(d.Domain, b.Page.Domain) {
			continue
		}

		impact := models.DomainImpact{
			Domain:      d.Domain,
			Category:    categorize(d.Domain),
			Requests:    d.Count,
			TotalBytes:  d.TotalBytes,
			TotalTimeMs: d.TotalTimeMs,
		}
		for _, i := range d.EntryIndexes {
			e := b.Entries[i]
			if e.TimeMs > cfg.BlockingMs {
				impact.BlockingRequests++
			}
			if e.Failed() {
				impact.FailedRequests++
			}
		}
		if impact.Requests > 0 {
			impact.AvgTimeMs = impact.TotalTimeMs / float64(impact.Requests)
		}

		report.Domains = append(report.Domains, impact)
	}

	report.TotalDomains = len(report.Domains)

	sort.SliceStable(report.Domains, func(i, j int) bool {
		return report.Domains[i].TotalTimeMs > report.Domains[j].TotalTimeMs
	})

	catIndex := map[string]int{}
	for _, d := range report.Domains {
		ci, ok := catIndex[d.Category]
		if !ok {
			ci = len(report.Categories)
			catIndex[d.Category] = ci
			report.Categories = append(report.Categories, models.CategoryImpact{Category: d.Category})
		}
		report.Categories[ci].Domains++
		report.Categories[ci].Requests += d.Requests
		report.Categories[ci].BlockingRequests += d.BlockingRequests
		report.Categories[ci].TotalTimeMs += d.TotalTimeMs

		if d.TotalTimeMs > cfg.HighImpactTimeMs || d.TotalBytes > cfg.HighImpactBytes {
			report.HighImpact = append(report.HighImpact, d)
		}
	}

	sort.SliceStable(report.Categories, func(i, j int) bool {
		return report.Categories[i].TotalTimeMs > report.Categories[j].TotalTimeMs
	})

	return report
}
