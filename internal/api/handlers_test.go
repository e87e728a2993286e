package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pynezz/gungnir/internal/analysis"
	"github.com/pynezz/gungnir/internal/config"
	"github.com/pynezz/gungnir/internal/database"
	"github.com/pynezz/gungnir/internal/database/models"
	"github.com/pynezz/gungnir/internal/database/stores"
	"github.com/pynezz/gungnir/internal/oracle"
	"github.com/pynezz/gungnir/internal/orchestrator"
	"github.com/pynezz/gungnir/internal/scanner"
	"github.com/pynezz/gungnir/pkg/types"
)

type stubGen struct{}

func (stubGen) Generate(ctx context.Context, persona oracle.Persona, prompt, sessionID string) (string, error) {
	return "stub narrative", nil
}

func newTestApp(t *testing.T, authKey string) (*fiber.App, *stores.Stores) {
	t.Helper()

	db, err := database.InitDB(filepath.Join(t.TempDir(), "gungnir_test.db"))
	require.NoError(t, err)
	st, err := stores.New(db)
	require.NoError(t, err)

	orch := orchestratorForTest(st)

	cfg := &config.Cfg{}
	if authKey != "" {
		cfg.Auth.Enabled = true
		cfg.Auth.APIKey = authKey
	}

	app, err := NewServer(cfg, orch)
	require.NoError(t, err)
	return app, st
}

func orchestratorForTest(st *stores.Stores) *orchestrator.Orchestrator {
	return orchestrator.New(st,
		scanner.NewCrawler(2*time.Second),
		scanner.NewSelector(scanner.DefaultCatalogs()),
		analysis.NewEnricher(stubGen{}),
		1,
	)
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestIndex(t *testing.T) {
	app, _ := newTestApp(t, "")

	resp := doJSON(t, app, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateScanAccepted(t *testing.T) {
	app, st := newTestApp(t, "")

	resp := doJSON(t, app, http.MethodPost, "/api/scans", fiber.Map{
		"target_url": "https://target.test",
	})
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	var scan models.ScanRequest
	decodeBody(t, resp, &scan)
	assert.NotEmpty(t, scan.ID)
	assert.Equal(t, types.ScanTypeComprehensive, scan.ScanType)

	// Intake persists the scan and its pending result immediately
	result, err := st.ResultStore.FindOne(map[string]interface{}{"scan_id": scan.ID})
	require.NoError(t, err)
	assert.Equal(t, types.StatusPending, result.Status)
}

func TestCreateScanValidation(t *testing.T) {
	app, _ := newTestApp(t, "")

	resp := doJSON(t, app, http.MethodPost, "/api/scans", fiber.Map{
		"target_url": "not a url",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/scans", fiber.Map{
		"target_url": "https://target.test",
		"scan_type":  "custom",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestCreateScanMalformedBody(t *testing.T) {
	app, _ := newTestApp(t, "")

	req := httptest.NewRequest(http.MethodPost, "/api/scans", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListScans(t *testing.T) {
	app, _ := newTestApp(t, "")

	resp := doJSON(t, app, http.MethodPost, "/api/scans", fiber.Map{"target_url": "https://target.test"})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/scans", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var scans []models.ScanRequest
	decodeBody(t, resp, &scans)
	assert.Len(t, scans, 1)
}

func TestScanResultNotFound(t *testing.T) {
	app, _ := newTestApp(t, "")

	resp := doJSON(t, app, http.MethodGet, "/api/scans/no-such-scan/result", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestScanVulnerabilitiesEmpty(t *testing.T) {
	app, _ := newTestApp(t, "")

	resp := doJSON(t, app, http.MethodGet, "/api/scans/no-such-scan/vulnerabilities", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestFalsePositiveToggle(t *testing.T) {
	app, st := newTestApp(t, "")

	vulnID := uuid.NewString()
	require.NoError(t, st.VulnStore.Insert(models.Vulnerability{
		ID:        vulnID,
		ScanID:    uuid.NewString(),
		Severity:  types.SeverityMedium,
		CreatedAt: time.Now().UTC(),
	}))

	resp := doJSON(t, app, http.MethodPatch, "/api/vulnerabilities/"+vulnID+"/false-positive",
		fiber.Map{"false_positive": true})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	vuln, err := st.VulnStore.FindOne(map[string]interface{}{"id": vulnID})
	require.NoError(t, err)
	assert.True(t, vuln.FalsePositive)

	resp = doJSON(t, app, http.MethodPatch, "/api/vulnerabilities/missing/false-positive",
		fiber.Map{"false_positive": true})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTriage(t *testing.T) {
	app, st := newTestApp(t, "")

	vulnID := uuid.NewString()
	require.NoError(t, st.VulnStore.Insert(models.Vulnerability{
		ID:        vulnID,
		ScanID:    uuid.NewString(),
		Severity:  types.SeverityHigh,
		CreatedAt: time.Now().UTC(),
	}))

	resp := doJSON(t, app, http.MethodPost, "/api/ai/triage", fiber.Map{
		"vulnerability_ids": []string{vulnID},
		"context":           "internet facing",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	decodeBody(t, resp, &body)
	assert.Equal(t, "stub narrative", body["triage_analysis"])
	assert.EqualValues(t, 1, body["vulnerability_count"])
	assert.Contains(t, body["session_id"], "triage_")

	resp = doJSON(t, app, http.MethodPost, "/api/ai/triage", fiber.Map{
		"vulnerability_ids": []string{"missing"},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNLPQuery(t *testing.T) {
	app, _ := newTestApp(t, "")

	resp := doJSON(t, app, http.MethodPost, "/api/ai/nlp-query", fiber.Map{
		"query": "any critical findings?",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	decodeBody(t, resp, &body)
	assert.Equal(t, "any critical findings?", body["query"])
	assert.Equal(t, "stub narrative", body["response"])
	assert.NotEmpty(t, body["session_id"])
	assert.Contains(t, body, "context_summary")
}

func TestDashboardStats(t *testing.T) {
	app, _ := newTestApp(t, "")

	resp := doJSON(t, app, http.MethodGet, "/api/dashboard/stats", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	decodeBody(t, resp, &body)
	assert.EqualValues(t, 0, body["total_scans"])
	assert.Contains(t, body, "severity_distribution")
}

func TestAuthGate(t *testing.T) {
	app, _ := newTestApp(t, "letmein")

	// Root stays open, the API does not
	resp := doJSON(t, app, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/scans", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Wrong key is rejected at the exchange
	resp = doJSON(t, app, http.MethodPost, "/auth/token", fiber.Map{"api_key": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/auth/token", fiber.Map{"api_key": "letmein"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	require.NotEmpty(t, body["token"])

	req := httptest.NewRequest(http.MethodGet, "/api/scans", nil)
	req.Header.Set("Authorization", "Bearer "+body["token"])
	authed, err := app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, authed.StatusCode)
}
