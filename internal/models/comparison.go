package models

const (
	DirectionIncreased     = "increased"
	DirectionDecreased     = "decreased"
	DirectionUnchanged     = "unchanged"
	DirectionNotComparable = "not_comparable"
)

const (
	StatusImproved  = "improved"
	StatusRegressed = "regressed"
	StatusMixed     = "mixed"
	StatusUnchanged = "unchanged"
)

type ComparisonMeta struct {
	ComparisonID string `json:"comparison_id,omitempty"`
	ComparedAt   string `json:"compared_at,omitempty"`
	BaseLabel    string `json:"base_label"`
	TargetLabel  string `json:"target_label"`
}

// KPIDelta is the change in one scalar metric between two captures.
// Base/Target are nil when that side could not supply the metric, in
// which case Direction is "not_comparable".
type KPIDelta struct {
	Name      string   `json:"name"`
	Base      *float64 `json:"base"`
	Target    *float64 `json:"target"`
	Absolute  float64  `json:"absolute_change"`
	Percent   *float64 `json:"percent_change"`
	Direction string   `json:"direction"`
}

type ResourceRef struct {
	URL       string       `json:"url"`
	Domain    string       `json:"domain"`
	Type      ResourceType `json:"resource_type"`
	SizeBytes int64        `json:"size_bytes"`
	TimeMs    float64      `json:"time_ms"`
}

type ModifiedResource struct {
	URL           string       `json:"url"`
	Type          ResourceType `json:"resource_type"`
	BaseSize      int64        `json:"base_size"`
	TargetSize    int64        `json:"target_size"`
	SizeDelta     int64        `json:"size_delta"`
	BaseTimeMs    float64      `json:"base_time_ms"`
	TargetTimeMs  float64      `json:"target_time_ms"`
	TimeDeltaMs   float64      `json:"time_delta_ms"`
	StatusChanged bool         `json:"status_changed"`
	BaseStatus    int          `json:"base_status,omitempty"`
	TargetStatus  int          `json:"target_status,omitempty"`
}

type DeltaCounts struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Modified  int `json:"modified"`
	Unchanged int `json:"unchanged"`
}

type ResourceDeltas struct {
	Added    []ResourceRef      `json:"added"`
	Removed  []ResourceRef      `json:"removed"`
	Modified []ModifiedResource `json:"modified"`
	Counts   DeltaCounts        `json:"counts"`
}

type TypeDelta struct {
	Type        ResourceType `json:"type"`
	BaseCount   int          `json:"base_count"`
	TargetCount int          `json:"target_count"`
	CountDelta  int          `json:"count_delta"`
	BytesDelta  int64        `json:"bytes_delta"`
	TimeDeltaMs float64      `json:"time_delta_ms"`
}

type FailedComparison struct {
	NewlyFailed  []string `json:"newly_failed"`
	Fixed        []string `json:"fixed"`
	StillFailing []string `json:"still_failing"`
}

type GradeChange struct {
	Base     Grade `json:"base"`
	Target   Grade `json:"target"`
	Improved bool  `json:"improved"`
}

type Finding struct {
	Metric      string `json:"metric"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

// ComparisonReport diffs two captures. Identical inputs always yield
// identical reports apart from Meta, which is excluded from all
// comparison logic.
type ComparisonReport struct {
	Meta          ComparisonMeta   `json:"meta"`
	KPIs          []KPIDelta       `json:"kpi_deltas"`
	GradeChange   GradeChange      `json:"grade_change"`
	Resources     ResourceDeltas   `json:"resource_deltas"`
	ResourceTypes []TypeDelta      `json:"resource_type_deltas"`
	Failed        FailedComparison `json:"failed_requests"`
	Regressions   []Finding        `json:"regressions"`
	Improvements  []Finding        `json:"improvements"`
	Status        string           `json:"overall_status"`
}
