// Package sheet retrieves the ticket spreadsheet published as CSV.
package sheet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"ticketboard/internal/httpx"
)

// ErrHTMLPayload is returned when the sheet URL answers with an HTML page,
// which happens when the spreadsheet is not published to the web.
var ErrHTMLPayload = errors.New("received HTML instead of CSV, check sheet permissions")

var externalHTTPClient = httpx.ExternalHTTPClient()

// FetchCSV downloads the raw CSV text. The caller owns cancellation and
// deadlines through ctx; the client timeout still applies.
func FetchCSV(ctx context.Context, sheetURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sheetURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := externalHTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching sheet: %w", err)
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("sheet returned %d", resp.StatusCode)
	}

	text := string(body)
	if looksLikeHTML(text) {
		return "", ErrHTMLPayload
	}
	log.Printf("sheet fetch ok bytes=%d", len(body))
	return text, nil
}

func looksLikeHTML(text string) bool {
	return strings.Contains(text, "<!DOCTYPE html>") || strings.Contains(text, "<html")
}
