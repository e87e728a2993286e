package models

import "time"

// Vulnerability is a candidate finding produced by the injection
// tester and enriched with oracle narratives. Immutable after insert,
// except the FalsePositive flag which analysts flip during triage.
type Vulnerability struct {
	ID                    string    `gorm:"primaryKey" json:"id"`
	ScanID                string    `gorm:"index" json:"scan_id"`
	VulnerabilityType     string    `json:"vulnerability_type"` // XSS_form_input, XSS_url_parameter
	Severity              string    `gorm:"index" json:"severity"`
	Endpoint              string    `json:"endpoint"`
	Parameter             string    `json:"parameter"`
	Payload               string    `json:"payload"`
	Evidence              string    `json:"evidence"`
	AISummary             *string   `json:"ai_summary,omitempty"`
	RemediationSuggestion *string   `json:"remediation_suggestion,omitempty"`
	FalsePositive         bool      `json:"false_positive"`
	CreatedAt             time.Time `json:"created_at"`
}
