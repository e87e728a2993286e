package types

// Scan types supported by the platform
const (
	ScanTypeQuick         = "quick"
	ScanTypeComprehensive = "comprehensive"
	ScanTypeCustom        = "custom"
)

// Scan lifecycle states. A scan only ever moves forward:
// pending -> running -> completed | failed
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Severity labels. These are stored as plain strings, and the
// vulnerability listing is ordered by this literal label
// (critical < high < low < medium in lexicographic order).
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// SurfaceKind tells where a payload can be injected on the target page
type SurfaceKind string

const (
	SurfaceFormInput    SurfaceKind = "form_input"
	SurfaceURLParameter SurfaceKind = "url_parameter"
)

// Surface is an injectable input point found by the crawler
type Surface struct {
	Kind      SurfaceKind `json:"kind"`
	Endpoint  string      `json:"endpoint"`
	Parameter string      `json:"parameter"`
}

// SeverityCounts holds the per-severity tally of a scan
type SeverityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// Total returns the sum of all severity buckets
func (c SeverityCounts) Total() int {
	return c.Critical + c.High + c.Medium + c.Low
}

// Add increments the bucket matching the given severity label
func (c *SeverityCounts) Add(severity string) {
	switch severity {
	case SeverityCritical:
		c.Critical++
	case SeverityHigh:
		c.High++
	case SeverityMedium:
		c.Medium++
	case SeverityLow:
		c.Low++
	}
}
