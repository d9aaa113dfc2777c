// Package statusapi calls the spreadsheet's Apps Script endpoint that
// changes a ticket's status.
package statusapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"ticketboard/internal/httpx"
)

const actionUpdateStatus = "atualizarStatus"

var externalHTTPClient = httpx.ExternalHTTPClient()

// UpdateRequest is one status change.
type UpdateRequest struct {
	TicketID  string
	NewStatus string
	User      string
	Note      string
}

type updatePayload struct {
	Action    string `json:"action"`
	TicketID  string `json:"chamadoId"`
	NewStatus string `json:"novoStatus"`
	User      string `json:"usuario"`
	Note      string `json:"observacao"`
}

// UpdateStatus posts the change and returns the response body. Apps Script
// answers with a redirect to the script output, which the client follows.
func UpdateStatus(ctx context.Context, apiURL string, r UpdateRequest) (string, error) {
	if strings.TrimSpace(r.TicketID) == "" {
		return "", fmt.Errorf("ticket id is required")
	}
	if strings.TrimSpace(r.NewStatus) == "" {
		return "", fmt.Errorf("new status is required")
	}

	payload, err := json.Marshal(updatePayload{
		Action:    actionUpdateStatus,
		TicketID:  r.TicketID,
		NewStatus: r.NewStatus,
		User:      r.User,
		Note:      r.Note,
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := externalHTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("posting status update: %w", err)
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("status API returned %d: %s", resp.StatusCode, string(body))
	}
	return string(body), nil
}
