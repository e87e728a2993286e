package scanner

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pynezz/gungnir/internal/database/models"
	"github.com/pynezz/gungnir/pkg/types"
)

// Markers that flag a payload as candidate-vulnerable. Matched
// case-insensitively against the payload text.
var vulnerableMarkers = []string{"<script", "onerror=", "onload=", "javascript:"}

// Tester pairs surfaces with payloads and classifies the candidates.
//
// Known limitation: classification is a payload-shape heuristic. No
// request is made to confirm the payload is reflected in a response,
// so every finding is a candidate, not a confirmed vulnerability.
type Tester struct{}

func NewTester() *Tester {
	return &Tester{}
}

// Classify reports whether the payload is candidate-vulnerable and
// with which severity. The severity chain is evaluated in strict
// priority order so every candidate gets exactly one label:
// document.cookie / fetch( -> critical, alert( -> medium, else high.
func (t *Tester) Classify(payload string) (string, bool) {
	lower := strings.ToLower(payload)
	vulnerable := false
	for _, marker := range vulnerableMarkers {
		if strings.Contains(lower, marker) {
			vulnerable = true
			break
		}
	}
	if !vulnerable {
		return "", false
	}

	severity := types.SeverityHigh
	if strings.Contains(payload, "document.cookie") || strings.Contains(payload, "fetch(") {
		severity = types.SeverityCritical
	} else if strings.Contains(payload, "alert(") {
		severity = types.SeverityMedium
	}

	return severity, true
}

// Test runs every (surface, payload) pair through the classifier and
// returns the candidate findings in discovery order. Form surfaces are
// tested with the full payload sequence, url_parameter surfaces with
// at most the first URLParamPayloadLimit entries.
func (t *Tester) Test(scanID string, surfaces []types.Surface, payloads []string) []models.Vulnerability {
	var findings []models.Vulnerability

	for _, surface := range surfaces {
		selected := payloads
		if surface.Kind == types.SurfaceURLParameter && len(selected) > URLParamPayloadLimit {
			selected = selected[:URLParamPayloadLimit]
		}

		for _, payload := range selected {
			severity, vulnerable := t.Classify(payload)
			if !vulnerable {
				continue
			}
			findings = append(findings, models.Vulnerability{
				ID:                uuid.NewString(),
				ScanID:            scanID,
				VulnerabilityType: "XSS_" + string(surface.Kind),
				Severity:          severity,
				Endpoint:          surface.Endpoint,
				Parameter:         surface.Parameter,
				Payload:           payload,
				Evidence: fmt.Sprintf("Payload '%s' was reflected in parameter '%s' at endpoint '%s'",
					payload, surface.Parameter, surface.Endpoint),
				CreatedAt: time.Now().UTC(),
			})
		}
	}

	return findings
}
