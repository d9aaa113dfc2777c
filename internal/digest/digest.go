// Package digest posts a daily board summary to the report channel.
package digest

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/slack-go/slack"

	"ticketboard/internal/board"
	"ticketboard/internal/config"
	"ticketboard/internal/refresh"
	"ticketboard/internal/ticket"
)

type Config = config.Config

// Poster is the part of the Slack client the digest needs.
type Poster interface {
	PostMessage(channelID string, options ...slack.MsgOption) (string, string, error)
}

func StartDigestScheduler(ctx context.Context, cfg Config, poller *refresh.Poller, api Poster) {
	if !cfg.DigestEnabled() {
		log.Println("Digest disabled (digest_time or report_channel_id not set)")
		return
	}

	hour, min, err := config.ParseClock(cfg.DigestTime)
	if err != nil {
		log.Printf("Invalid digest_time '%s': %v, digest disabled", cfg.DigestTime, err)
		return
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	log.Printf("Digest scheduled daily at %02d:%02d (weekdays only=%v) to channel=%s", hour, min, cfg.DigestWeekdaysOnly, cfg.ReportChannelID)

	go func() {
		for {
			now := time.Now().In(loc)
			next := nextRun(now, hour, min, cfg.DigestWeekdaysOnly)
			wait := next.Sub(now)
			log.Printf("Next digest at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}
			if err := sendDigest(ctx, cfg, poller, api); err != nil {
				log.Printf("Error sending digest: %v", err)
			}
		}
	}()
}

// nextRun returns the next hour:min strictly after now, skipping Saturday
// and Sunday when weekdaysOnly is set.
func nextRun(now time.Time, hour, min int, weekdaysOnly bool) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, now.Location())
	if !now.Before(next) {
		next = next.AddDate(0, 0, 1)
	}
	if weekdaysOnly {
		for next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
			next = next.AddDate(0, 0, 1)
		}
	}
	return next
}

func sendDigest(ctx context.Context, cfg Config, poller *refresh.Poller, api Poster) error {
	if _, err := poller.RefreshIfStale(ctx); err != nil {
		log.Printf("digest refresh failed, using last snapshot: %v", err)
	}
	snap := poller.Snapshot()
	if snap.Seq == 0 {
		return fmt.Errorf("no ticket data loaded yet")
	}

	msg := BuildDigest(snap, cfg)
	if _, _, err := api.PostMessage(cfg.ReportChannelID, slack.MsgOptionText(msg, false)); err != nil {
		return fmt.Errorf("posting digest: %w", err)
	}
	log.Printf("Sent digest channel=%s records=%d", cfg.ReportChannelID, len(snap.Records))
	return nil
}

// BuildDigest renders the digest text for a snapshot.
func BuildDigest(snap refresh.Snapshot, cfg Config) string {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	b := board.Build(snap.Records, ticket.Filter{}, board.Options{DetailsBaseURL: cfg.DetailsBaseURL})
	header := fmt.Sprintf("Resumo dos chamados (%s): %s\n",
		snap.FetchedAt.In(loc).Format("02/01/2006 15:04"), board.RenderCounts(b))
	return header + board.RenderSummary(b, cfg.BoardMaxCardsPerSection)
}
