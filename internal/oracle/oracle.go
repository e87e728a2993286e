// Package oracle wraps the external text-generation capability used
// for narrative enrichment of findings. Calls are fallible and carry
// no built-in retry; the caller decides what a failure means.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pynezz/gungnir/pkg/types"
)

// Persona selects the system message and model a generation call runs
// under
type Persona struct {
	Name          string
	Model         string
	SystemMessage string
}

// The three personas the pipeline uses
var (
	TechnicalAnalyst = Persona{
		Name:          "technical",
		Model:         "gpt-4o",
		SystemMessage: "You are an expert cybersecurity analyst specializing in XSS vulnerability analysis.",
	}

	RemediationSpecialist = Persona{
		Name:          "remediation",
		Model:         "claude-3-7-sonnet-20250219",
		SystemMessage: "You are a security report specialist focused on creating clear, actionable security findings.",
	}

	ExecutiveReporter = Persona{
		Name:          "executive",
		Model:         "claude-3-7-sonnet-20250219",
		SystemMessage: "You are a security report specialist focused on creating clear, actionable security findings.",
	}
)

// Generator is the text-generation contract the pipeline depends on.
// sessionID scopes conversational context: enrichment keys it by
// vulnerability id, the executive summary by scan id.
type Generator interface {
	Generate(ctx context.Context, persona Persona, prompt string, sessionID string) (string, error)
}

// Client talks to an OpenAI-style chat completions endpoint
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new oracle client
func NewClient(endpoint, apiKey string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	User     string        `json:"user,omitempty"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate sends one prompt under the given persona and returns the
// generated text. Failures come back as *types.OracleError.
func (c *Client) Generate(ctx context.Context, persona Persona, prompt string, sessionID string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: persona.Model,
		User:  sessionID,
		Messages: []chatMessage{
			{Role: "system", Content: persona.SystemMessage},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", &types.OracleError{Persona: persona.Name, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &types.OracleError{Persona: persona.Name, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &types.OracleError{Persona: persona.Name, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &types.OracleError{Persona: persona.Name, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &types.OracleError{
			Persona: persona.Name,
			Err:     fmt.Errorf("endpoint returned status %d: %s", resp.StatusCode, raw),
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &types.OracleError{Persona: persona.Name, Err: err}
	}
	if parsed.Error != nil {
		return "", &types.OracleError{Persona: persona.Name, Err: fmt.Errorf("%s", parsed.Error.Message)}
	}
	if len(parsed.Choices) == 0 {
		return "", &types.OracleError{Persona: persona.Name, Err: fmt.Errorf("empty completion")}
	}

	return parsed.Choices[0].Message.Content, nil
}
