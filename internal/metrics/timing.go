package metrics

import (
	"sort"

	"github.com/harsight/harsight/internal/config"
	"github.com/harsight/harsight/internal/models"
	"github.com/harsight/harsight/internal/stats"
)

func timingBuckets(entries []models.Entry, cfg config.TimingConfig) models.TimingBuckets {
	var b models.TimingBuckets

	for _, e := range entries {
		t := models.Known(e.TimeMs)
		switch {
		case t < cfg.FastUnderMs:
			b.Fast.Count++
		case t < cfg.MediumUnderMs:
			b.Medium.Count++
		case t < cfg.VerySlowMs:
			b.Slow.Count++
		default:
			b.VerySlow.Count++
		}
	}

	total := len(entries)
	b.Fast.Percent = pct(b.Fast.Count, total)
	b.Medium.Percent = pct(b.Medium.Count, total)
	b.Slow.Percent = pct(b.Slow.Count, total)
	b.VerySlow.Percent = pct(b.VerySlow.Count, total)

	return b
}

func networkTiming(b *models.Breakdown, cfg config.TimingConfig) models.NetworkTiming {
	nt := models.NetworkTiming{
		SlowDNS: []models.PhaseSample{},
		SlowSSL: []models.PhaseSample{},
	}

	var dns, ssl, connect []float64
	durations := make([]float64, 0, len(b.Entries))

	for _, e := range b.Entries {
		durations = append(durations, models.Known(e.TimeMs))

		if v := e.Timings.DNS; v >= 0 {
			dns = append(dns, v)
			if v > cfg.SlowDNSMs {
				nt.SlowDNS = append(nt.SlowDNS, models.PhaseSample{URL: e.URL, Domain: e.Domain, TimeMs: v})
			}
		}
		if v := e.Timings.SSL; v >= 0 {
			ssl = append(ssl, v)
			if v > cfg.SlowSSLMs {
				nt.SlowSSL = append(nt.SlowSSL, models.PhaseSample{URL: e.URL, Domain: e.Domain, TimeMs: v})
			}
		}
		if v := e.Timings.Connect; v >= 0 {
			connect = append(connect, v)
		}

		// Browsers report connect as absent or near-zero on a pooled
		// connection, so both count as reuse.
		if e.Timings.Connect < cfg.ReusedConnMs {
			nt.ReusedConnections++
		} else {
			nt.NewConnections++
		}
	}

	nt.AvgDNSMs = average(dns)
	nt.AvgSSLMs = average(ssl)
	nt.AvgConnectMs = average(connect)
	nt.ConnectionReusePct = pct(nt.ReusedConnections, len(b.Entries))
	nt.Durations = stats.Compute(durations)
	nt.Domains = domainTimings(b)

	sortSamplesDesc(nt.SlowDNS)
	sortSamplesDesc(nt.SlowSSL)

	return nt
}

func domainTimings(b *models.Breakdown) []models.DomainTiming {
	out := make([]models.DomainTiming, 0, len(b.Domains))

	for _, d := range b.Domains {
		dt := models.DomainTiming{
			Domain:      d.Domain,
			Requests:    d.Count,
			TotalTimeMs: d.TotalTimeMs,
		}

		var dns, ssl, connect []float64
		for _, i := range d.EntryIndexes {
			t := b.Entries[i].Timings
			if t.DNS >= 0 {
				dns = append(dns, t.DNS)
			}
			if t.SSL >= 0 {
				ssl = append(ssl, t.SSL)
			}
			if t.Connect >= 0 {
				connect = append(connect, t.Connect)
			}
		}
		if v := average(dns); v != nil {
			dt.AvgDNSMs = *v
		}
		if v := average(ssl); v != nil {
			dt.AvgSSLMs = *v
		}
		if v := average(connect); v != nil {
			dt.AvgConnectMs = *v
		}

		out = append(out, dt)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalTimeMs > out[j].TotalTimeMs
	})

	return out
}

func sortSamplesDesc(samples []models.PhaseSample) {
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].TimeMs > samples[j].TimeMs
	})
}

func average(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	avg := sum / float64(len(values))
	return &avg
}

func pct(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}
