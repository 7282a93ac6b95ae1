package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/harsight/harsight/internal/models"
)

const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
	ColorBold   = "\033[1m"
)

func WriteJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func WriteJSONFile(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	return WriteJSON(file, v)
}

// PrintSummary renders the report for a terminal. Every number comes
// straight from the report; nothing is recomputed here.
func PrintSummary(r *models.MetricsReport, summaryOnly bool) {
	fmt.Println(ColorBold + "==== Performance Summary ====" + ColorReset)

	if r.Summary.PageURL != "" {
		fmt.Printf("Page: %s%s%s\n", ColorCyan, r.Summary.PageURL, ColorReset)
	}
	fmt.Printf("Grade: %s\n", coloredGrade(r.Summary.Grade))
	fmt.Printf("Requests: %d  Size: %s  Failed: %s%d%s\n",
		r.Summary.TotalRequests, formatBytes(r.Summary.TotalBytes),
		failColor(len(r.FailedRequests)), len(r.FailedRequests), ColorReset)

	if r.Summary.PageLoadSec != nil {
		fmt.Printf("Page load: %.2fs\n", *r.Summary.PageLoadSec)
	}
	if r.Summary.DOMReadySec != nil {
		fmt.Printf("DOM ready: %.2fs (%s)\n", *r.Summary.DOMReadySec, r.Summary.DOMReadyGrade)
	}

	if summaryOnly {
		return
	}

	fmt.Println("\nRequest timing:")
	printBucket("fast", r.Timing.Fast)
	printBucket("medium", r.Timing.Medium)
	printBucket("slow", r.Timing.Slow)
	printBucket("very slow", r.Timing.VerySlow)

	d := r.Network.Durations
	fmt.Println("\nDurations (ms):")
	fmt.Printf("  min: %.0f  avg: %.0f  p50: %.0f  p90: %.0f  p95: %.0f  p99: %.0f  max: %.0f\n",
		d.Min, d.Avg, d.P50, d.P90, d.P95, d.P99, d.Max)

	if r.CriticalPath.Available {
		fmt.Printf("\nCritical path: %d blocking resources (%d css, %d js), %.0fms\n",
			len(r.CriticalPath.Blocking), r.CriticalPath.CSSCount, r.CriticalPath.JSCount, r.CriticalPath.PathTimeMs)
	}
	if r.Progressive.Available {
		fmt.Printf("Progressive loading: score %d (%s)\n", r.Progressive.Score, r.Progressive.Rating)
	}
	if r.ThirdParty.TotalDomains > 0 {
		fmt.Printf("Third-party: %d domains, %d high impact\n",
			r.ThirdParty.TotalDomains, len(r.ThirdParty.HighImpact))
	}
	if r.Savings.TotalBytes > 0 {
		fmt.Printf("Potential savings: %s\n", formatBytes(r.Savings.TotalBytes))
	}

	if len(r.SlowestRequests) > 0 {
		fmt.Println("\nSlowest requests:")
		for _, a := range r.SlowestRequests {
			fmt.Printf("  %s%.0fms%s  %s\n", ColorYellow, a.TimeMs, ColorReset, a.URL)
		}
	}
	if len(r.LargestAssets) > 0 {
		fmt.Println("\nLargest assets:")
		for _, a := range r.LargestAssets {
			fmt.Printf("  %s  %s\n", formatBytes(a.SizeBytes), a.URL)
		}
	}
	if len(r.FailedRequests) > 0 {
		fmt.Println("\nFailed requests:")
		for _, f := range r.FailedRequests {
			fmt.Printf("  %s%d%s  %s\n", ColorRed, f.Status, ColorReset, f.URL)
		}
	}

	if len(r.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for _, rec := range r.Recommendations {
			fmt.Printf("  [%s%s%s] %s\n", severityColor(rec.Severity), rec.Severity, ColorReset, rec.Message)
		}
	}
}

func PrintComparison(r *models.ComparisonReport) {
	fmt.Println(ColorBold + "==== Comparison ====" + ColorReset)
	fmt.Printf("%s -> %s\n", r.Meta.BaseLabel, r.Meta.TargetLabel)
	fmt.Printf("Status: %s\n", coloredStatus(r.Status))
	fmt.Printf("Grade: %s -> %s\n", coloredGrade(r.GradeChange.Base), coloredGrade(r.GradeChange.Target))

	fmt.Println("\nKPIs:")
	for _, k := range r.KPIs {
		if k.Direction == models.DirectionNotComparable {
			fmt.Printf("  %-22s not comparable\n", k.Name)
			continue
		}
		line := fmt.Sprintf("  %-22s %+.2f", k.Name, k.Absolute)
		if k.Percent != nil {
			line += fmt.Sprintf(" (%+.1f%%)", *k.Percent)
		}
		fmt.Printf("%s %s\n", line, k.Direction)
	}

	c := r.Resources.Counts
	fmt.Printf("\nResources: %s+%d%s added, %s-%d%s removed, %d modified, %d unchanged\n",
		ColorYellow, c.Added, ColorReset, ColorCyan, c.Removed, ColorReset, c.Modified, c.Unchanged)

	printFindings("Regressions", r.Regressions, ColorRed)
	printFindings("Improvements", r.Improvements, ColorGreen)
}

func printFindings(title string, findings []models.Finding, color string) {
	if len(findings) == 0 {
		return
	}
	fmt.Printf("\n%s:\n", title)
	for _, f := range findings {
		fmt.Printf("  %s[%s]%s %s\n", color, f.Severity, ColorReset, f.Description)
	}
}

func printBucket(name string, b models.BucketShare) {
	fmt.Printf("  %-10s %4d (%.1f%%)\n", name, b.Count, b.Percent)
}

func coloredGrade(g models.Grade) string {
	switch g {
	case models.GradeGood:
		return ColorGreen + string(g) + ColorReset
	case models.GradeFair:
		return ColorYellow + string(g) + ColorReset
	case models.GradePoor, models.GradeCritical:
		return ColorRed + string(g) + ColorReset
	default:
		return string(g)
	}
}

func coloredStatus(status string) string {
	switch status {
	case models.StatusImproved:
		return ColorGreen + status + ColorReset
	case models.StatusRegressed:
		return ColorRed + status + ColorReset
	case models.StatusMixed:
		return ColorYellow + status + ColorReset
	default:
		return status
	}
}

func severityColor(severity string) string {
	if severity == "high" {
		return ColorRed
	}
	return ColorYellow
}

func failColor(failed int) string {
	if failed > 0 {
		return ColorRed
	}
	return ColorGreen
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
