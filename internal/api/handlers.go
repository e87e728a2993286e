package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/pynezz/gungnir/internal/orchestrator"
	"github.com/pynezz/gungnir/internal/util"
	"github.com/pynezz/gungnir/pkg/types"
)

type tokenRequest struct {
	APIKey string `json:"api_key"`
}

func (s *Server) tokenHandler(c *fiber.Ctx) error {
	if s.auth == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "auth is not enabled"})
	}

	var req tokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !s.auth.VerifyKey(req.APIKey) {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	token, err := s.auth.IssueToken()
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(fiber.Map{"token": token})
}

func (s *Server) createScanHandler(c *fiber.Ctx) error {
	var req orchestrator.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	scan, err := s.orch.Submit(req)
	if err != nil {
		if errors.Is(err, types.ErrValidation) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		}
		util.PrintError("Scan intake failed: " + err.Error())
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.Status(fiber.StatusAccepted).JSON(scan)
}

func (s *Server) listScansHandler(c *fiber.Ctx) error {
	scans, err := s.orch.ListScans()
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(scans)
}

func (s *Server) scanResultHandler(c *fiber.Ctx) error {
	result, err := s.orch.GetStatus(c.Params("id"))
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "scan result not found"})
		}
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(result)
}

func (s *Server) scanVulnerabilitiesHandler(c *fiber.Ctx) error {
	vulns, err := s.orch.ListVulnerabilities(c.Params("id"))
	if err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.JSON(vulns)
}

type falsePositiveRequest struct {
	FalsePositive bool `json:"false_positive"`
}

func (s *Server) falsePositiveHandler(c *fiber.Ctx) error {
	var req falsePositiveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.orch.SetFalsePositive(c.Params("id"), req.FalsePositive); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "vulnerability not found"})
		}
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type triageRequest struct {
	VulnerabilityIDs []string `json:"vulnerability_ids"`
	Context          string   `json:"context,omitempty"`
}

func (s *Server) triageHandler(c *fiber.Ctx) error {
	var req triageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	narrative, count, err := s.orch.Triage(c.Context(), req.VulnerabilityIDs, req.Context)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no vulnerabilities found"})
		}
		util.PrintError("Triage failed: " + err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "AI triage analysis failed"})
	}

	return c.JSON(fiber.Map{
		"triage_analysis":     narrative,
		"vulnerability_count": count,
		"session_id":          "triage_" + uuid.NewString(),
	})
}

type nlpQueryRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id,omitempty"`
}

func (s *Server) nlpQueryHandler(c *fiber.Ctx) error {
	var req nlpQueryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	response, contextData, err := s.orch.NLPQuery(c.Context(), req.Query, req.SessionID)
	if err != nil {
		util.PrintError("NLP query failed: " + err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "NLP query processing failed"})
	}

	return c.JSON(fiber.Map{
		"query":           req.Query,
		"response":        response,
		"session_id":      req.SessionID,
		"context_summary": contextData,
	})
}

func (s *Server) dashboardStatsHandler(c *fiber.Ctx) error {
	stats, err := s.orch.Stats()
	if err != nil {
		util.PrintError("Dashboard stats failed: " + err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to get dashboard statistics"})
	}
	return c.JSON(stats)
}

// wsScanHandler pushes scan status over a websocket until the scan
// settles in a terminal state
func (s *Server) wsScanHandler(c *websocket.Conn) {
	defer c.Close()

	scanID := c.Params("id")
	for {
		result, err := s.orch.GetStatus(scanID)
		if err != nil {
			c.WriteJSON(fiber.Map{"error": err.Error()})
			return
		}
		if err := c.WriteJSON(result); err != nil {
			return
		}
		if result.Status == types.StatusCompleted || result.Status == types.StatusFailed {
			return
		}
		time.Sleep(time.Second)
	}
}
