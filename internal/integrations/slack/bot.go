package slackbot

import (
	"context"
	"log"
	"time"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"

	"ticketboard/internal/config"
	"ticketboard/internal/integrations/statusapi"
	"ticketboard/internal/refresh"
)

type Config = config.Config

const statusUpdateTimeout = 2 * time.Minute

// Messenger is the part of the Slack client the command handlers use.
type Messenger interface {
	PostEphemeral(channelID, userID string, options ...slack.MsgOption) (string, error)
}

// StatusUpdater sends a status change to the ticket backend.
type StatusUpdater func(ctx context.Context, apiURL string, r statusapi.UpdateRequest) (string, error)

func StartSlackBot(ctx context.Context, cfg Config, poller *refresh.Poller, api *slack.Client) error {
	client := socketmode.New(api)

	go func() {
		for evt := range client.Events {
			switch evt.Type {
			case socketmode.EventTypeConnected:
				log.Println("Slack socket mode connected")
			case socketmode.EventTypeSlashCommand:
				client.Ack(*evt.Request)
				cmd, ok := evt.Data.(slack.SlashCommand)
				if !ok {
					continue
				}
				log.Printf("Slash command received: %s from user=%s channel=%s", cmd.Command, cmd.UserID, cmd.ChannelID)
				go handleSlashCommand(ctx, api, poller, cfg, cmd, statusapi.UpdateStatus)
			case socketmode.EventTypeEventsAPI, socketmode.EventTypeInteractive:
				client.Ack(*evt.Request)
			}
		}
	}()

	log.Println("Slack bot connected via Socket Mode")
	return client.RunContext(ctx)
}

func handleSlashCommand(ctx context.Context, api Messenger, poller *refresh.Poller, cfg Config, cmd slack.SlashCommand, update StatusUpdater) {
	switch cmd.Command {
	case "/chamados":
		postEphemeral(api, cmd, boardReply(ctx, cfg, poller, cmd.Text))
		log.Printf("board sent user=%s filter=%q", cmd.UserID, cmd.Text)
	case "/chamado":
		postEphemeral(api, cmd, ticketReply(ctx, cfg, poller, cmd.Text))
		log.Printf("ticket details sent user=%s id=%q", cmd.UserID, cmd.Text)
	case "/chamado-status":
		handleStatus(ctx, api, poller, cfg, cmd, update)
	case "/chamados-help":
		postEphemeral(api, cmd, helpText(cfg, cmd.UserID))
	}
}

func handleStatus(ctx context.Context, api Messenger, poller *refresh.Poller, cfg Config, cmd slack.SlashCommand, update StatusUpdater) {
	reply, req := statusReply(ctx, cfg, poller, cmd.UserID, cmd.Text)
	postEphemeral(api, cmd, reply)
	if req == nil {
		log.Printf("status update rejected user=%s text=%q", cmd.UserID, cmd.Text)
		return
	}
	log.Printf("status update requested user=%s id=%s status=%s", cmd.UserID, req.TicketID, req.NewStatus)

	go func(r statusapi.UpdateRequest) {
		ctx, cancel := context.WithTimeout(context.Background(), statusUpdateTimeout)
		defer cancel()

		body, err := update(ctx, cfg.StatusAPIURL, r)
		if err != nil {
			log.Printf("status update failed id=%s: %v", r.TicketID, err)
			return
		}
		log.Printf("status update sent id=%s status=%s response=%q", r.TicketID, r.NewStatus, truncate(body, 200))

		if _, err := poller.Refresh(ctx); err != nil {
			log.Printf("refresh after status update failed id=%s: %v", r.TicketID, err)
		}
	}(*req)
}

func postEphemeral(api Messenger, cmd slack.SlashCommand, text string) {
	postEphemeralTo(api, cmd.ChannelID, cmd.UserID, text)
}

func postEphemeralTo(api Messenger, channelID, userID, text string) {
	_, err := api.PostEphemeral(channelID, userID, slack.MsgOptionText(text, false))
	if err != nil {
		log.Printf("Error posting ephemeral: %v", err)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
