// Package analysis turns raw findings into narratives by prompting
// the text-generation oracle under different personas.
package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pynezz/gungnir/internal/database/models"
	"github.com/pynezz/gungnir/internal/oracle"
	"github.com/pynezz/gungnir/internal/util"
	"github.com/pynezz/gungnir/pkg/types"
)

// Fixed texts substituted when an oracle call fails or is skipped
const (
	FallbackSummary     = "AI analysis failed - manual review required"
	FallbackRemediation = "Apply standard XSS prevention techniques: input validation, output encoding, CSP headers"
	FallbackExecutive   = "AI executive summary unavailable - manual review required"
	NoFindingsSummary   = "No XSS vulnerabilities detected in the target application."
)

// Enricher obtains per-finding and per-scan narratives from the oracle
type Enricher struct {
	gen oracle.Generator
}

func NewEnricher(gen oracle.Generator) *Enricher {
	return &Enricher{gen: gen}
}

// EnrichVulnerability fills in AISummary and RemediationSuggestion via
// two independent oracle calls, both scoped to a session keyed by the
// vulnerability id. Each call's failure is caught here and replaced by
// the fixed fallback for that field only; enrichment never fails a
// scan.
func (e *Enricher) EnrichVulnerability(ctx context.Context, vuln *models.Vulnerability) {
	analysisPrompt := fmt.Sprintf(`Analyze this XSS vulnerability:

Type: %s
Severity: %s
Endpoint: %s
Parameter: %s
Payload: %s
Evidence: %s

Provide a technical summary (2-3 sentences) explaining the vulnerability and its potential impact.`,
		vuln.VulnerabilityType, vuln.Severity, vuln.Endpoint, vuln.Parameter, vuln.Payload, vuln.Evidence)

	summary, err := e.gen.Generate(ctx, oracle.TechnicalAnalyst, analysisPrompt, "vuln_analysis_"+vuln.ID)
	if err != nil {
		util.PrintWarning("Technical analysis fell back for " + vuln.ID + ": " + err.Error())
		summary = FallbackSummary
	}
	vuln.AISummary = &summary

	remediationPrompt := fmt.Sprintf(`Provide specific remediation guidance for this XSS vulnerability:

Type: %s
Parameter: %s
Payload: %s

Provide concrete code examples and security best practices to fix this issue.
Focus on input validation, output encoding, and CSP implementation.`,
		vuln.VulnerabilityType, vuln.Parameter, vuln.Payload)

	remediation, err := e.gen.Generate(ctx, oracle.RemediationSpecialist, remediationPrompt, "remediation_"+vuln.ID)
	if err != nil {
		util.PrintWarning("Remediation suggestion fell back for " + vuln.ID + ": " + err.Error())
		remediation = FallbackRemediation
	}
	vuln.RemediationSuggestion = &remediation
}

// ExecutiveSummary produces the scan-level narrative. With zero
// findings the fixed sentence is returned and no oracle call is made.
// A failed call falls back to fixed text rather than failing the scan.
func (e *Enricher) ExecutiveSummary(ctx context.Context, scanID, targetURL string, counts types.SeverityCounts) string {
	if counts.Total() == 0 {
		return NoFindingsSummary
	}

	prompt := fmt.Sprintf(`Generate an executive summary for this XSS security scan:

Target: %s
Total Vulnerabilities: %d
Critical: %d, High: %d, Medium: %d, Low: %d

Provide a 2-3 sentence executive summary focusing on business risk and priority actions.`,
		targetURL, counts.Total(), counts.Critical, counts.High, counts.Medium, counts.Low)

	summary, err := e.gen.Generate(ctx, oracle.ExecutiveReporter, prompt, "executive_summary_"+scanID)
	if err != nil {
		util.PrintWarning("Executive summary fell back for scan " + scanID + ": " + err.Error())
		return FallbackExecutive
	}
	return summary
}

// Triage asks the oracle to rank a batch of findings. The narrative is
// returned to the caller as-is and never persisted. Unlike enrichment,
// a failure here propagates: there is no partial result worth keeping.
func (e *Enricher) Triage(ctx context.Context, vulns []models.Vulnerability, extraContext string) (string, error) {
	if extraContext == "" {
		extraContext = "No additional context provided"
	}

	var lines []string
	for _, v := range vulns {
		lines = append(lines, fmt.Sprintf("ID: %s, Type: %s, Severity: %s, Endpoint: %s, Parameter: %s",
			v.ID, v.VulnerabilityType, v.Severity, v.Endpoint, v.Parameter))
	}

	prompt := fmt.Sprintf(`Perform triage analysis on these %d XSS vulnerabilities:

%s

Context: %s

Provide:
1. Priority ranking (1-%d)
2. Recommended remediation order
3. Business impact assessment
4. Quick-win vs. long-term fixes

Format as JSON with vulnerability IDs and priority scores.`,
		len(vulns), strings.Join(lines, "\n"), extraContext, len(vulns))

	return e.gen.Generate(ctx, oracle.TechnicalAnalyst, prompt, "triage_"+uuid.NewString())
}

// NLPQuery answers a natural language question about the stored
// findings. contextJSON is a pre-serialized summary of recent data.
func (e *Enricher) NLPQuery(ctx context.Context, query, sessionID, contextJSON string) (string, error) {
	prompt := fmt.Sprintf(`User Query: %s

Available Vulnerability Data Context:
%s

Please provide a helpful response to the user's question about XSS vulnerabilities, scans, and security insights.
If specific data is requested, explain what information is available and provide relevant insights.`,
		query, contextJSON)

	return e.gen.Generate(ctx, oracle.TechnicalAnalyst, prompt, sessionID)
}
