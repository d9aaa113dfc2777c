package statusapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ticketboard/internal/httpx"
)

func TestUpdateStatusPostsPayload(t *testing.T) {
	var got map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("/exec", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "text/plain;charset=utf-8" {
			t.Fatalf("unexpected content type: %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Fatalf("body is not JSON: %v", err)
		}
		http.Redirect(w, r, "/echo", http.StatusFound)
	})
	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	body, err := UpdateStatus(context.Background(), server.URL+"/exec", UpdateRequest{
		TicketID:  "123",
		NewStatus: "Em Andamento",
		User:      "admin@example.com",
		Note:      "assumido",
	})
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if body != `{"success":true}` {
		t.Fatalf("unexpected response body: %q", body)
	}

	want := map[string]string{
		"action":     "atualizarStatus",
		"chamadoId":  "123",
		"novoStatus": "Em Andamento",
		"usuario":    "admin@example.com",
		"observacao": "assumido",
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("payload[%s] = %q, want %q", k, got[k], v)
		}
	}
}

func TestUpdateStatusNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "script error", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := UpdateStatus(context.Background(), server.URL, UpdateRequest{TicketID: "1", NewStatus: "Resolvido"})
	if err == nil || !strings.Contains(err.Error(), "status API returned 500") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestUpdateStatusValidatesInput(t *testing.T) {
	if _, err := UpdateStatus(context.Background(), "http://unused", UpdateRequest{NewStatus: "Aberto"}); err == nil {
		t.Fatal("expected missing ticket id to fail")
	}
	if _, err := UpdateStatus(context.Background(), "http://unused", UpdateRequest{TicketID: "1"}); err == nil {
		t.Fatal("expected missing status to fail")
	}
}

func TestUpdateStatusUsesConfiguredSharedClient(t *testing.T) {
	original := httpx.ExternalHTTPClient().Timeout
	t.Cleanup(func() { httpx.ConfigureExternalHTTPClient(int(original / time.Second)) })

	httpx.ConfigureExternalHTTPClient(45)
	if externalHTTPClient != httpx.ExternalHTTPClient() {
		t.Fatal("statusapi must use the shared external HTTP client")
	}
	if externalHTTPClient.Timeout != 45*time.Second {
		t.Fatalf("statusapi client timeout = %s, want 45s", externalHTTPClient.Timeout)
	}
}
