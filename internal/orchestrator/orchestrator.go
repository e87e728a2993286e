// Package orchestrator drives the scan pipeline: crawl, payload
// selection, injection testing, enrichment, aggregation, and the scan
// lifecycle state machine around it all.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pynezz/gungnir/internal/analysis"
	"github.com/pynezz/gungnir/internal/database/models"
	"github.com/pynezz/gungnir/internal/database/stores"
	"github.com/pynezz/gungnir/internal/scanner"
	"github.com/pynezz/gungnir/internal/util"
	"github.com/pynezz/gungnir/pkg/types"
)

const jobQueueSize = 100

// Orchestrator owns the scan task queue and exposes the service
// surface the API layer calls into. One orchestration instance owns
// one scan id at a time; distinct scans share nothing but the store.
type Orchestrator struct {
	stores   *stores.Stores
	crawler  *scanner.Crawler
	selector *scanner.Selector
	tester   *scanner.Tester
	enricher *analysis.Enricher
	sm       *StateMachine

	workers int
	jobs    chan models.ScanRequest
	wg      sync.WaitGroup
}

func New(st *stores.Stores, crawler *scanner.Crawler, selector *scanner.Selector, enricher *analysis.Enricher, workers int) *Orchestrator {
	if workers < 1 {
		workers = 1
	}
	return &Orchestrator{
		stores:   st,
		crawler:  crawler,
		selector: selector,
		tester:   scanner.NewTester(),
		enricher: enricher,
		sm:       NewStateMachine(st.ResultStore),
		workers:  workers,
		jobs:     make(chan models.ScanRequest, jobQueueSize),
	}
}

// Start spins up the scan workers. They drain the queue until Stop is
// called or the context is cancelled.
func (o *Orchestrator) Start(ctx context.Context) {
	for i := 0; i < o.workers; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case req, ok := <-o.jobs:
					if !ok {
						return
					}
					o.run(ctx, req)
				}
			}
		}()
	}
}

// Stop closes the queue and waits for in-flight scans to settle
func (o *Orchestrator) Stop() {
	close(o.jobs)
	o.wg.Wait()
}

// SubmitRequest is the intake shape for a new scan
type SubmitRequest struct {
	TargetURL      string   `json:"target_url"`
	ScanType       string   `json:"scan_type"`
	CustomPayloads []string `json:"custom_payloads,omitempty"`
	IncludeForms   *bool    `json:"include_forms,omitempty"`
	IncludeURLs    *bool    `json:"include_urls,omitempty"`
	MaxDepth       *int     `json:"max_depth,omitempty"`
}

// Submit validates the request, persists the scan record and its
// pending result, and schedules orchestration. It returns as soon as
// the scan is queued; callers poll GetStatus for progress.
func (o *Orchestrator) Submit(req SubmitRequest) (models.ScanRequest, error) {
	if err := validate(req); err != nil {
		return models.ScanRequest{}, err
	}

	scan := models.ScanRequest{
		ID:             uuid.NewString(),
		TargetURL:      req.TargetURL,
		ScanType:       req.ScanType,
		CustomPayloads: req.CustomPayloads,
		IncludeForms:   true,
		IncludeURLs:    true,
		MaxDepth:       3,
		CreatedAt:      time.Now().UTC(),
	}
	if req.ScanType == "" {
		scan.ScanType = types.ScanTypeComprehensive
	}
	if req.IncludeForms != nil {
		scan.IncludeForms = *req.IncludeForms
	}
	if req.IncludeURLs != nil {
		scan.IncludeURLs = *req.IncludeURLs
	}
	if req.MaxDepth != nil {
		scan.MaxDepth = *req.MaxDepth
	}

	if err := o.stores.ScanStore.Insert(scan); err != nil {
		return models.ScanRequest{}, err
	}
	if _, err := o.sm.CreatePending(scan.ID); err != nil {
		return models.ScanRequest{}, err
	}

	o.jobs <- scan

	util.PrintInfo("Queued scan " + scan.ID + " for " + scan.TargetURL)
	return scan, nil
}

func validate(req SubmitRequest) error {
	parsed, err := url.Parse(req.TargetURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf("%w: target_url must be an absolute http(s) URL", types.ErrValidation)
	}

	switch req.ScanType {
	case "", types.ScanTypeQuick, types.ScanTypeComprehensive:
	case types.ScanTypeCustom:
		// An empty list is allowed and yields a completed scan with
		// zero findings; a missing list is rejected.
		if req.CustomPayloads == nil {
			return fmt.Errorf("%w: custom_payloads required for custom scans", types.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown scan_type %q", types.ErrValidation, req.ScanType)
	}

	return nil
}

// run executes the pipeline for one scan. Every stage-local failure is
// already absorbed inside its stage; whatever still escapes marks the
// scan failed.
func (o *Orchestrator) run(ctx context.Context, req models.ScanRequest) {
	startedAt := time.Now().UTC()
	if err := o.sm.MarkRunning(req.ID, startedAt); err != nil {
		util.PrintError("Scan " + req.ID + ": " + err.Error())
		return
	}

	if err := o.scan(ctx, req, startedAt); err != nil {
		util.PrintError(err.Error())
		if err := o.sm.MarkFailed(req.ID); err != nil {
			util.PrintError("Scan " + req.ID + ": " + err.Error())
		}
		return
	}

	util.PrintSuccess("Scan " + req.ID + " completed")
}

func (o *Orchestrator) scan(ctx context.Context, req models.ScanRequest, startedAt time.Time) error {
	surfaces := o.crawler.Crawl(ctx, req.TargetURL, req.IncludeForms, req.IncludeURLs)
	payloads := o.selector.Select(req.ScanType, req.CustomPayloads)
	findings := o.tester.Test(req.ID, surfaces, payloads)

	// Findings are enriched and persisted strictly in discovery order.
	// Insert failures are not stage-local: they fail the scan, but the
	// vulnerabilities stored before the failure are kept.
	var counts types.SeverityCounts
	for i := range findings {
		o.enricher.EnrichVulnerability(ctx, &findings[i])
		if err := o.stores.VulnStore.Insert(findings[i]); err != nil {
			return &types.OrchestrationError{ScanID: req.ID, Stage: "persist", Err: err}
		}
		counts.Add(findings[i].Severity)
	}

	summary := o.enricher.ExecutiveSummary(ctx, req.ID, req.TargetURL, counts)

	if err := o.sm.MarkCompleted(req.ID, Completion{
		Counts:           counts,
		ExecutiveSummary: summary,
		Duration:         time.Since(startedAt).Seconds(),
	}); err != nil {
		return &types.OrchestrationError{ScanID: req.ID, Stage: "finalize", Err: err}
	}

	return nil
}

// GetStatus returns the scan result for polling
func (o *Orchestrator) GetStatus(scanID string) (*models.ScanResult, error) {
	return o.stores.ResultStore.FindOne(map[string]interface{}{"scan_id": scanID})
}

// ListScans returns the most recent scan requests, newest first
func (o *Orchestrator) ListScans() ([]models.ScanRequest, error) {
	return o.stores.ScanStore.FindMany(nil, "created_at desc", 100)
}

// ListVulnerabilities returns a scan's findings ordered by the literal
// severity label (critical < high < low < medium, lexicographic)
func (o *Orchestrator) ListVulnerabilities(scanID string) ([]models.Vulnerability, error) {
	return o.stores.VulnStore.FindMany(map[string]interface{}{"scan_id": scanID}, "severity asc", 1000)
}

// SetFalsePositive flips the triage flag on a finding
func (o *Orchestrator) SetFalsePositive(vulnID string, falsePositive bool) error {
	rows, err := o.stores.VulnStore.UpdateFields(
		map[string]interface{}{"id": vulnID},
		map[string]interface{}{"false_positive": falsePositive},
	)
	if err != nil {
		return err
	}
	if rows == 0 {
		return types.ErrNotFound
	}
	return nil
}

// Triage fetches the requested findings and returns the oracle's
// priority narrative. Stateless: nothing is persisted.
func (o *Orchestrator) Triage(ctx context.Context, vulnIDs []string, extraContext string) (string, int, error) {
	var vulns []models.Vulnerability
	for _, id := range vulnIDs {
		vuln, err := o.stores.VulnStore.FindOne(map[string]interface{}{"id": id})
		if err == types.ErrNotFound {
			continue
		}
		if err != nil {
			return "", 0, err
		}
		vulns = append(vulns, *vuln)
	}

	if len(vulns) == 0 {
		return "", 0, types.ErrNotFound
	}

	narrative, err := o.enricher.Triage(ctx, vulns, extraContext)
	if err != nil {
		return "", 0, err
	}
	return narrative, len(vulns), nil
}

// NLPQuery answers a natural language question over recent findings
func (o *Orchestrator) NLPQuery(ctx context.Context, query, sessionID string) (string, map[string]interface{}, error) {
	recentVulns, err := o.stores.VulnStore.FindMany(nil, "created_at desc", 50)
	if err != nil {
		return "", nil, err
	}
	recentScans, err := o.stores.ResultStore.FindMany(
		map[string]interface{}{"status": types.StatusCompleted}, "completed_at desc", 20)
	if err != nil {
		return "", nil, err
	}

	var severities types.SeverityCounts
	typeSet := map[string]bool{}
	var endpoints []string
	for i, v := range recentVulns {
		severities.Add(v.Severity)
		typeSet[v.VulnerabilityType] = true
		if i < 10 {
			endpoint := v.Endpoint
			if len(endpoint) > 50 {
				endpoint = endpoint[:50] + "..."
			}
			endpoints = append(endpoints, endpoint)
		}
	}
	vulnTypes := make([]string, 0, len(typeSet))
	for t := range typeSet {
		vulnTypes = append(vulnTypes, t)
	}

	contextData := map[string]interface{}{
		"recent_vulnerabilities": len(recentVulns),
		"vulnerability_types":    vulnTypes,
		"severity_distribution":  severities,
		"recent_scans":           len(recentScans),
		"common_endpoints":       endpoints,
	}

	contextJSON, err := json.MarshalIndent(contextData, "", "  ")
	if err != nil {
		return "", nil, err
	}

	response, err := o.enricher.NLPQuery(ctx, query, sessionID, string(contextJSON))
	if err != nil {
		return "", nil, err
	}
	return response, contextData, nil
}

// DashboardStats is the read-only projection for the dashboard
type DashboardStats struct {
	TotalScans           int64                `json:"total_scans"`
	CompletedScans       int64                `json:"completed_scans"`
	TotalVulnerabilities int64                `json:"total_vulnerabilities"`
	SeverityDistribution types.SeverityCounts `json:"severity_distribution"`
	RecentScans          []models.ScanResult  `json:"recent_scans"`
}

// Stats aggregates counts across all scans
func (o *Orchestrator) Stats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.TotalScans, err = o.stores.ScanStore.Count(nil); err != nil {
		return nil, err
	}
	if stats.CompletedScans, err = o.stores.ResultStore.Count(map[string]interface{}{"status": types.StatusCompleted}); err != nil {
		return nil, err
	}
	if stats.TotalVulnerabilities, err = o.stores.VulnStore.Count(nil); err != nil {
		return nil, err
	}

	for severity, target := range map[string]*int{
		types.SeverityCritical: &stats.SeverityDistribution.Critical,
		types.SeverityHigh:     &stats.SeverityDistribution.High,
		types.SeverityMedium:   &stats.SeverityDistribution.Medium,
		types.SeverityLow:      &stats.SeverityDistribution.Low,
	} {
		count, err := o.stores.VulnStore.Count(map[string]interface{}{"severity": severity})
		if err != nil {
			return nil, err
		}
		*target = int(count)
	}

	recent, err := o.stores.ResultStore.FindMany(
		map[string]interface{}{"status": types.StatusCompleted}, "completed_at desc", 5)
	if err != nil {
		return nil, err
	}
	stats.RecentScans = recent

	return stats, nil
}
