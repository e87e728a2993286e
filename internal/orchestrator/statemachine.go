package orchestrator

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pynezz/gungnir/internal/database"
	"github.com/pynezz/gungnir/internal/database/models"
	"github.com/pynezz/gungnir/pkg/types"
)

// MaxRiskScore caps the saturating risk scale
const MaxRiskScore = 10.0

// StateMachine owns every ScanResult mutation. The four named
// transitions are the only way a result changes, and each update is
// guarded on the expected previous status so a terminal state can
// never be re-entered and no transition can run twice.
type StateMachine struct {
	results *database.DataStore[models.ScanResult]
}

func NewStateMachine(results *database.DataStore[models.ScanResult]) *StateMachine {
	return &StateMachine{results: results}
}

// Completion carries everything the completed transition persists
type Completion struct {
	Counts           types.SeverityCounts
	ExecutiveSummary string
	Duration         float64 // seconds
}

// CreatePending inserts the initial pending result at intake
func (m *StateMachine) CreatePending(scanID string) (models.ScanResult, error) {
	result := models.ScanResult{
		ID:     uuid.NewString(),
		ScanID: scanID,
		Status: types.StatusPending,
	}
	if err := m.results.Insert(result); err != nil {
		return models.ScanResult{}, err
	}
	return result, nil
}

// MarkRunning records pending -> running with the start timestamp
func (m *StateMachine) MarkRunning(scanID string, startedAt time.Time) error {
	return m.transition(scanID, types.StatusPending, map[string]interface{}{
		"status":     types.StatusRunning,
		"started_at": startedAt,
	})
}

// MarkCompleted records running -> completed and persists the counts,
// the saturating risk score min(10, total*2), the executive summary,
// the wall-clock duration and the completion timestamp.
func (m *StateMachine) MarkCompleted(scanID string, c Completion) error {
	total := c.Counts.Total()
	riskScore := float64(total) * 2.0
	if riskScore > MaxRiskScore {
		riskScore = MaxRiskScore
	}

	return m.transition(scanID, types.StatusRunning, map[string]interface{}{
		"status":                types.StatusCompleted,
		"total_vulnerabilities": total,
		"critical_count":        c.Counts.Critical,
		"high_count":            c.Counts.High,
		"medium_count":          c.Counts.Medium,
		"low_count":             c.Counts.Low,
		"ai_risk_score":         riskScore,
		"ai_executive_summary":  c.ExecutiveSummary,
		"scan_duration":         c.Duration,
		"completed_at":          time.Now().UTC(),
	})
}

// MarkFailed records running -> failed. Count fields are left as they
// are; already persisted vulnerabilities are retained.
func (m *StateMachine) MarkFailed(scanID string) error {
	return m.transition(scanID, types.StatusRunning, map[string]interface{}{
		"status":       types.StatusFailed,
		"completed_at": time.Now().UTC(),
	})
}

func (m *StateMachine) transition(scanID, fromStatus string, patch map[string]interface{}) error {
	rows, err := m.results.UpdateFields(map[string]interface{}{
		"scan_id": scanID,
		"status":  fromStatus,
	}, patch)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("scan %s: no %s result to transition to %v", scanID, fromStatus, patch["status"])
	}
	return nil
}
