package models

import "time"

// ScanRequest is the immutable record of a requested scan.
// Stored once at intake and never updated.
type ScanRequest struct {
	ID             string     `gorm:"primaryKey" json:"id"`
	TargetURL      string     `json:"target_url"`
	ScanType       string     `json:"scan_type"` // quick, comprehensive, custom
	CustomPayloads StringList `gorm:"type:text" json:"custom_payloads,omitempty"`
	IncludeForms   bool       `json:"include_forms"`
	IncludeURLs    bool       `json:"include_urls"`
	MaxDepth       int        `json:"max_depth"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ScanResult tracks the lifecycle and outcome of a scan. One per
// ScanRequest, joined on ScanID. All mutation goes through the state
// machine, never through ad hoc updates.
type ScanResult struct {
	ID                   string     `gorm:"primaryKey" json:"id"`
	ScanID               string     `gorm:"index" json:"scan_id"`
	Status               string     `json:"status"` // pending, running, completed, failed
	TotalVulnerabilities int        `json:"total_vulnerabilities"`
	CriticalCount        int        `json:"critical_count"`
	HighCount            int        `json:"high_count"`
	MediumCount          int        `json:"medium_count"`
	LowCount             int        `json:"low_count"`
	AIRiskScore          *float64   `json:"ai_risk_score,omitempty"`
	AIExecutiveSummary   *string    `json:"ai_executive_summary,omitempty"`
	ScanDuration         *float64   `json:"scan_duration,omitempty"` // seconds
	StartedAt            *time.Time `json:"started_at,omitempty"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
}
