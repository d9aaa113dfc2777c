package digest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/slack-go/slack"

	"ticketboard/internal/refresh"
)

type fakePoster struct {
	channel string
	calls   int
	err     error
}

func (f *fakePoster) PostMessage(channelID string, options ...slack.MsgOption) (string, string, error) {
	f.channel = channelID
	f.calls++
	return channelID, "1.0", f.err
}

const digestSheet = "Numero do Chamado,Titulo,Status\n1,Login,Aberto\n2,Backup,Resolvido\n"

func newPoller(t *testing.T, text string) *refresh.Poller {
	t.Helper()
	return refresh.NewWithFetcher("u", time.Minute, func(ctx context.Context, sheetURL string) (string, error) {
		return text, nil
	})
}

func TestNextRun(t *testing.T) {
	loc := time.UTC

	// Before target time -> same day.
	now := time.Date(2026, 2, 20, 8, 0, 0, 0, loc) // Friday
	if got, want := nextRun(now, 9, 0, false), time.Date(2026, 2, 20, 9, 0, 0, 0, loc); !got.Equal(want) {
		t.Fatalf("same-day: got %v want %v", got, want)
	}

	// At or after target time -> next day.
	now = time.Date(2026, 2, 20, 9, 0, 0, 0, loc)
	if got, want := nextRun(now, 9, 0, false), time.Date(2026, 2, 21, 9, 0, 0, 0, loc); !got.Equal(want) {
		t.Fatalf("rollover: got %v want %v", got, want)
	}

	// Weekdays only skips the weekend.
	if got, want := nextRun(now, 9, 0, true), time.Date(2026, 2, 23, 9, 0, 0, 0, loc); !got.Equal(want) {
		t.Fatalf("weekdays only: got %v want %v", got, want)
	}
}

func TestBuildDigest(t *testing.T) {
	p := newPoller(t, digestSheet)
	if _, err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	cfg := Config{Location: time.UTC, BoardMaxCardsPerSection: 5}

	out := BuildDigest(p.Snapshot(), cfg)
	if !strings.Contains(out, "Aberto: 1 | Em Andamento: 0 | Resolvido: 1") {
		t.Fatalf("digest missing counts:\n%s", out)
	}
	if !strings.Contains(out, "*Login*") || !strings.Contains(out, "*Backup*") {
		t.Fatalf("digest missing cards:\n%s", out)
	}
}

func TestSendDigestPostsToReportChannel(t *testing.T) {
	p := newPoller(t, digestSheet)
	api := &fakePoster{}
	cfg := Config{ReportChannelID: "C42", Location: time.UTC, BoardMaxCardsPerSection: 5}

	if err := sendDigest(context.Background(), cfg, p, api); err != nil {
		t.Fatalf("sendDigest returned error: %v", err)
	}
	if api.calls != 1 || api.channel != "C42" {
		t.Fatalf("unexpected post: calls=%d channel=%q", api.calls, api.channel)
	}
}

func TestSendDigestWithoutDataFails(t *testing.T) {
	p := refresh.NewWithFetcher("u", time.Minute, func(ctx context.Context, sheetURL string) (string, error) {
		return "", errors.New("offline")
	})
	api := &fakePoster{}
	if err := sendDigest(context.Background(), Config{ReportChannelID: "C1"}, p, api); err == nil {
		t.Fatal("expected error with no snapshot")
	}
	if api.calls != 0 {
		t.Fatal("nothing must be posted without data")
	}
}
