package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ticketboard/internal/config"
	"ticketboard/internal/digest"
	"ticketboard/internal/httpx"
	slackbot "ticketboard/internal/integrations/slack"
	"ticketboard/internal/refresh"

	"github.com/slack-go/slack"
)

func Main() {
	cfg := config.LoadConfig()
	appliedHTTPTimeout := httpx.ConfigureExternalHTTPClient(cfg.ExternalHTTPTimeoutSeconds)
	log.Printf(
		"Config loaded. Managers=%d Timezone=%s RefreshSchedule=%q MinRefreshGap=%s StatusUpdates=%v Digest=%v MaxCardsPerSection=%d ExternalHTTPTimeout=%s",
		len(cfg.ManagerSlackIDs),
		cfg.Timezone,
		cfg.RefreshSchedule,
		cfg.MinRefreshGap(),
		cfg.StatusUpdatesEnabled(),
		cfg.DigestEnabled(),
		cfg.BoardMaxCardsPerSection,
		appliedHTTPTimeout,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched, err := config.ParseSchedule(cfg.RefreshSchedule)
	if err != nil {
		log.Fatalf("Invalid refresh schedule: %v", err)
	}
	poller := refresh.New(cfg.SheetURL, cfg.MinRefreshGap())
	poller.Start(ctx, sched, cfg.Location)

	api := slack.New(
		cfg.SlackBotToken,
		slack.OptionAppLevelToken(cfg.SlackAppToken),
	)

	digest.StartDigestScheduler(ctx, cfg, poller, api)

	log.Println("Starting Ticket Board Bot...")
	if err := slackbot.StartSlackBot(ctx, cfg, poller, api); err != nil && ctx.Err() == nil {
		log.Fatalf("Slack bot error: %v", err)
	}
	log.Println("Ticket Board Bot stopped")
}
