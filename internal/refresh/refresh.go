// Package refresh keeps the latest parsed copy of the ticket sheet and
// refreshes it on a cron schedule.
package refresh

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"ticketboard/internal/csvtext"
	"ticketboard/internal/domain"
	"ticketboard/internal/integrations/sheet"
	"ticketboard/internal/ticket"
)

// FetchFunc retrieves the raw sheet text.
type FetchFunc func(ctx context.Context, sheetURL string) (string, error)

// Snapshot is one successfully parsed sheet. Seq is zero until the first
// refresh succeeds.
type Snapshot struct {
	Seq       uint64
	FetchedAt time.Time
	Headers   []string
	Records   []ticket.Record
}

// Result reports what a refresh did.
type Result struct {
	Seq          uint64
	Records      int
	Counts       ticket.BucketCounts
	Unclassified int
	Stale        bool // a newer refresh was applied first; result discarded
	Skipped      bool // last attempt was within the minimum gap
}

// Poller owns the current snapshot. Refreshes may overlap; each takes a
// sequence number when it starts and only a result newer than the applied
// snapshot replaces it.
type Poller struct {
	sheetURL string
	fetch    FetchFunc
	minGap   time.Duration
	now      func() time.Time

	seq atomic.Uint64

	mu          sync.RWMutex
	current     Snapshot
	lastAttempt time.Time
}

// New builds a poller that downloads sheetURL with the shared HTTP client.
func New(sheetURL string, minGap time.Duration) *Poller {
	return NewWithFetcher(sheetURL, minGap, sheet.FetchCSV)
}

func NewWithFetcher(sheetURL string, minGap time.Duration, fetch FetchFunc) *Poller {
	return &Poller{
		sheetURL: sheetURL,
		fetch:    fetch,
		minGap:   minGap,
		now:      time.Now,
	}
}

// Snapshot returns the latest applied sheet.
func (p *Poller) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Refresh fetches and parses the sheet. A fetch error leaves the current
// snapshot untouched.
func (p *Poller) Refresh(ctx context.Context) (Result, error) {
	seq := p.seq.Add(1)
	started := p.now()

	p.mu.Lock()
	p.lastAttempt = started
	p.mu.Unlock()

	text, err := p.fetch(ctx, p.sheetURL)
	if err != nil {
		log.Printf("refresh fetch error seq=%d: %v", seq, err)
		return Result{Seq: seq}, fmt.Errorf("fetching sheet: %w", err)
	}

	rows := csvtext.Decode(text)
	snap := Snapshot{
		Seq:       seq,
		FetchedAt: started,
		Headers:   ticket.Headers(rows),
		Records:   ticket.Normalize(rows),
	}
	result := summarize(snap)

	p.mu.Lock()
	if seq <= p.current.Seq {
		result.Stale = true
	} else {
		p.current = snap
	}
	p.mu.Unlock()

	if result.Stale {
		log.Printf("refresh discarded stale result seq=%d", seq)
	}
	return result, nil
}

// RefreshIfStale refreshes only when the last attempt is older than the
// minimum gap.
func (p *Poller) RefreshIfStale(ctx context.Context) (Result, error) {
	p.mu.RLock()
	last := p.lastAttempt
	p.mu.RUnlock()

	if !last.IsZero() && p.now().Sub(last) < p.minGap {
		return Result{Skipped: true}, nil
	}
	return p.Refresh(ctx)
}

func summarize(snap Snapshot) Result {
	result := Result{
		Seq:     snap.Seq,
		Records: len(snap.Records),
		Counts:  ticket.CountBuckets(snap.Records, ticket.Filter{}),
	}
	result.Unclassified = result.Records - result.Counts.Total()
	return result
}

// FormatRefreshSummary returns a human-readable summary of a Result.
func FormatRefreshSummary(result Result) string {
	if result.Skipped {
		return "Refresh skipped (last fetch too recent)."
	}
	if result.Stale {
		return fmt.Sprintf("Refresh #%d discarded (a newer result was already applied).", result.Seq)
	}

	var parts []string
	for _, b := range domain.BoardBuckets {
		parts = append(parts, fmt.Sprintf("%d %s", result.Counts[b], strings.ToLower(b.Label())))
	}
	msg := fmt.Sprintf("Loaded %d tickets: %s", result.Records, strings.Join(parts, ", "))
	if result.Unclassified > 0 {
		msg += fmt.Sprintf(" (%d without a known status)", result.Unclassified)
	}
	return msg + "."
}

// Start runs the cron-scheduled refresh loop in the background until ctx
// is cancelled. The first refresh happens immediately.
func (p *Poller) Start(ctx context.Context, sched cron.Schedule, loc *time.Location) {
	if loc == nil {
		loc = time.Local
	}

	go func() {
		p.runOnce(ctx)
		for {
			now := time.Now().In(loc)
			next := sched.Next(now)
			wait := next.Sub(now)
			log.Printf("Next refresh at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Second))

			select {
			case <-ctx.Done():
				log.Println("Refresh loop stopped")
				return
			case <-time.After(wait):
			}
			p.runOnce(ctx)
		}
	}()
}

func (p *Poller) runOnce(ctx context.Context) {
	result, err := p.Refresh(ctx)
	if err != nil {
		log.Printf("Refresh error: %v", err)
		return
	}
	log.Printf("Refresh complete seq=%d: %s", result.Seq, FormatRefreshSummary(result))
}
