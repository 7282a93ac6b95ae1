package models

type Grade string

const (
	GradeGood     Grade = "GOOD"
	GradeFair     Grade = "FAIR"
	GradePoor     Grade = "POOR"
	GradeCritical Grade = "CRITICAL"
	GradeUnknown  Grade = "UNKNOWN"
)

// GradeRank orders grades from best to worst. Unknown ranks last.
func GradeRank(g Grade) int {
	switch g {
	case GradeGood:
		return 0
	case GradeFair:
		return 1
	case GradePoor:
		return 2
	case GradeCritical:
		return 3
	default:
		return 4
	}
}

type Rating string

const (
	RatingGood             Rating = "good"
	RatingNeedsImprovement Rating = "needs-improvement"
	RatingPoor             Rating = "poor"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ReportMeta is stamped by the caller after analysis; it is the only
// part of a report that is not a pure function of the input.
type ReportMeta struct {
	ReportID    string `json:"report_id,omitempty"`
	GeneratedAt string `json:"generated_at,omitempty"`
	Source      string `json:"source,omitempty"`
}

type PerformanceSummary struct {
	PageURL           string   `json:"page_url,omitempty"`
	Title             string   `json:"title,omitempty"`
	TotalRequests     int      `json:"total_requests"`
	TotalBytes        int64    `json:"total_bytes"`
	DOMReadySec       *float64 `json:"dom_ready_sec"`
	PageLoadSec       *float64 `json:"page_load_sec"`
	Grade             Grade    `json:"performance_grade"`
	DOMReadyGrade     Grade    `json:"dom_ready_grade"`
	RequestCountGrade Grade    `json:"request_count_grade"`
}

type CriticalIssues struct {
	VerySlowRequests  int  `json:"very_slow_requests"`
	SlowRequests      int  `json:"slow_requests"`
	FailedRequests    int  `json:"failed_requests"`
	ExcessiveRequests bool `json:"excessive_requests"`
}

type BucketShare struct {
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

type TimingBuckets struct {
	Fast     BucketShare `json:"fast"`
	Medium   BucketShare `json:"medium"`
	Slow     BucketShare `json:"slow"`
	VerySlow BucketShare `json:"very_slow"`
}

// Distribution summarizes a set of durations in milliseconds.
type Distribution struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
	P50 float64 `json:"p50"`
	P90 float64 `json:"p90"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
}

type PhaseSample struct {
	URL    string  `json:"url"`
	Domain string  `json:"domain"`
	TimeMs float64 `json:"time_ms"`
}

type DomainTiming struct {
	Domain       string  `json:"domain"`
	Requests     int     `json:"requests"`
	AvgDNSMs     float64 `json:"avg_dns_ms"`
	AvgSSLMs     float64 `json:"avg_ssl_ms"`
	AvgConnectMs float64 `json:"avg_connect_ms"`
	TotalTimeMs  float64 `json:"total_time_ms"`
}

// NetworkTiming reports phase-level timing analysis. Averages are nil
// when no entry carried a known value for that phase.
type NetworkTiming struct {
	AvgDNSMs           *float64       `json:"avg_dns_ms"`
	AvgSSLMs           *float64       `json:"avg_ssl_ms"`
	AvgConnectMs       *float64       `json:"avg_connect_ms"`
	SlowDNS            []PhaseSample  `json:"slow_dns_resolutions"`
	SlowSSL            []PhaseSample  `json:"slow_ssl_handshakes"`
	ReusedConnections  int            `json:"reused_connections"`
	NewConnections     int            `json:"new_connections"`
	ConnectionReusePct float64        `json:"connection_reuse_pct"`
	Durations          Distribution   `json:"duration_distribution"`
	Domains            []DomainTiming `json:"domains"`
}

type BlockingResource struct {
	URL            string       `json:"url"`
	Type           ResourceType `json:"type"`
	SizeBytes      int64        `json:"size_bytes"`
	TimeMs         float64      `json:"time_ms"`
	Status         int          `json:"status,omitempty"`
	FoundInCapture bool         `json:"found_in_capture"`
	ImpactScore    float64      `json:"impact_score"`
	Priority       Priority     `json:"priority"`
}

type CriticalPathReport struct {
	Available   bool               `json:"available"`
	Reason      string             `json:"reason,omitempty"`
	DocumentURL string             `json:"document_url,omitempty"`
	Blocking    []BlockingResource `json:"blocking_resources"`
	CSSCount    int                `json:"css_blocking_count"`
	JSCount     int                `json:"js_blocking_count"`
	PathTimeMs  float64            `json:"critical_path_time_ms"`
}

type LoadBucket struct {
	Count        int     `json:"count"`
	TotalBytes   int64   `json:"total_bytes"`
	CompleteAtMs float64 `json:"complete_at_ms"`
}

type ProgressiveReport struct {
	Available bool       `json:"available"`
	Reason    string     `json:"reason,omitempty"`
	Critical  LoadBucket `json:"critical"`
	Important LoadBucket `json:"important"`
	Deferred  LoadBucket `json:"deferred"`
	Score     int        `json:"score"`
	Rating    Rating     `json:"rating"`
}

type LCPEstimate struct {
	Available bool    `json:"available"`
	URL       string  `json:"url,omitempty"`
	TimeMs    float64 `json:"time_ms"`
	Rating    Rating  `json:"rating"`
}

type FIDEstimate struct {
	EstimateMs float64 `json:"estimate_ms"`
	Rating     Rating  `json:"rating"`
}

type CLSEstimate struct {
	Value  float64 `json:"value"`
	Rating Rating  `json:"rating"`
}

// WebVitalsReport holds navigation-timing approximations of the Core
// Web Vitals. These are heuristics over capture data, never measured
// browser values; Approximated is always true.
type WebVitalsReport struct {
	Approximated bool        `json:"approximated"`
	LCP          LCPEstimate `json:"lcp"`
	FID          FIDEstimate `json:"fid"`
	CLS          CLSEstimate `json:"cls"`
}

type DomainImpact struct {
	Domain           string  `json:"domain"`
	Category         string  `json:"category"`
	Requests         int     `json:"requests"`
	BlockingRequests int     `json:"blocking_requests"`
	FailedRequests   int     `json:"failed_requests"`
	TotalBytes       int64   `json:"total_bytes"`
	TotalTimeMs      float64 `json:"total_time_ms"`
	AvgTimeMs        float64 `json:"avg_time_ms"`
}

type CategoryImpact struct {
	Category         string  `json:"category"`
	Domains          int     `json:"domains"`
	Requests         int     `json:"requests"`
	BlockingRequests int     `json:"blocking_requests"`
	TotalTimeMs      float64 `json:"total_time_ms"`
}

// ThirdPartyReport aggregates every domain other than the page's own.
// HighImpact holds the complete set of domains over threshold, never a
// display-truncated subset.
type ThirdPartyReport struct {
	PageDomain   string           `json:"page_domain"`
	TotalDomains int              `json:"total_third_party_domains"`
	Domains      []DomainImpact   `json:"domains"`
	Categories   []CategoryImpact `json:"categories"`
	HighImpact   []DomainImpact   `json:"high_impact_domains"`
}

type AssetRef struct {
	URL       string       `json:"url"`
	Type      ResourceType `json:"type"`
	SizeBytes int64        `json:"size_bytes"`
	TimeMs    float64      `json:"time_ms"`
}

// SavingsReport sums potential byte savings over the complete
// qualifying entry sets. The *Sample fields are bounded display
// subsets and never feed the totals.
type SavingsReport struct {
	CachingBytes       int64      `json:"caching_savings_bytes"`
	CompressionBytes   int64      `json:"compression_savings_bytes"`
	TotalBytes         int64      `json:"total_potential_savings_bytes"`
	NoCacheCount       int        `json:"no_cache_count"`
	ShortCacheCount    int        `json:"short_cache_count"`
	UncompressedCount  int        `json:"uncompressed_count"`
	NoCacheSample      []AssetRef `json:"no_cache_sample"`
	UncompressedSample []AssetRef `json:"uncompressed_sample"`
}

type FailedRequest struct {
	URL    string `json:"url"`
	Status int    `json:"status"`
}

type Recommendation struct {
	Severity string `json:"severity"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

// MetricsReport is the canonical machine-readable analysis of one
// Breakdown. Field names and shapes are a stable contract; renderers
// consume these values verbatim and never recompute them.
type MetricsReport struct {
	Meta            ReportMeta          `json:"meta"`
	Summary         PerformanceSummary  `json:"performance_summary"`
	Issues          CriticalIssues      `json:"critical_issues"`
	Timing          TimingBuckets       `json:"request_timing"`
	Network         NetworkTiming       `json:"network_timing"`
	ResourceTypes   []ResourceTypeStats `json:"resource_breakdown"`
	CriticalPath    CriticalPathReport  `json:"critical_path"`
	Progressive     ProgressiveReport   `json:"progressive_loading"`
	WebVitals       WebVitalsReport     `json:"web_vitals"`
	ThirdParty      ThirdPartyReport    `json:"third_party"`
	Savings         SavingsReport       `json:"savings"`
	LargestAssets   []AssetRef          `json:"largest_assets"`
	SlowestRequests []AssetRef          `json:"slowest_requests"`
	FailedRequests  []FailedRequest     `json:"failed_requests"`
	Recommendations []Recommendation    `json:"recommendations"`
}
