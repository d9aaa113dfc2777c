package slackbot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"ticketboard/internal/board"
	"ticketboard/internal/integrations/statusapi"
	"ticketboard/internal/refresh"
	"ticketboard/internal/ticket"
)

const (
	usageTicket = "Uso: `/chamado <número>`"
	usageStatus = "Uso: `/chamado-status <número> <novo status> [| observação]`"
)

var (
	errMissingTicketID = errors.New("missing ticket id")
	errMissingStatus   = errors.New("missing new status")
)

// parseBoardArgs reads "[all|cp|am|transparencia] [busca...]". A first word
// that is not a system filter is part of the search.
func parseBoardArgs(text string) ticket.Filter {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ticket.Filter{System: ticket.FilterAll}
	}
	if system, ok := ticket.ParseSystemFilter(fields[0]); ok {
		return ticket.Filter{System: system, Search: strings.Join(fields[1:], " ")}
	}
	return ticket.Filter{System: ticket.FilterAll, Search: strings.Join(fields, " ")}
}

// parseStatusArgs reads "<id> <new status> [| note]".
func parseStatusArgs(text string) (id, status, note string, err error) {
	head, tail, _ := strings.Cut(text, "|")
	note = strings.TrimSpace(tail)

	fields := strings.Fields(head)
	if len(fields) == 0 {
		return "", "", "", errMissingTicketID
	}
	id = strings.TrimPrefix(fields[0], "#")
	if id == "" {
		return "", "", "", errMissingTicketID
	}
	if len(fields) < 2 {
		return "", "", "", errMissingStatus
	}
	return id, strings.Join(fields[1:], " "), note, nil
}

// loadSnapshot refreshes when the data is older than the minimum gap and
// returns the snapshot to answer from. A failed refresh falls back to the
// previous snapshot; the returned warning is non-empty in that case.
func loadSnapshot(ctx context.Context, poller *refresh.Poller) (refresh.Snapshot, string, error) {
	_, err := poller.RefreshIfStale(ctx)
	snap := poller.Snapshot()
	if err == nil {
		return snap, "", nil
	}
	log.Printf("on-demand refresh failed: %v", err)
	if snap.Seq == 0 {
		return snap, "", err
	}
	return snap, "_Não foi possível atualizar a planilha agora; exibindo os últimos dados carregados._\n", nil
}

func boardReply(ctx context.Context, cfg Config, poller *refresh.Poller, text string) string {
	snap, warning, err := loadSnapshot(ctx, poller)
	if err != nil {
		return fmt.Sprintf("Erro ao carregar chamados: %v", err)
	}
	f := parseBoardArgs(text)
	b := board.Build(snap.Records, f, board.Options{DetailsBaseURL: cfg.DetailsBaseURL})
	return warning + board.RenderSummary(b, cfg.BoardMaxCardsPerSection)
}

func ticketReply(ctx context.Context, cfg Config, poller *refresh.Poller, text string) string {
	id := strings.TrimPrefix(strings.TrimSpace(text), "#")
	if id == "" {
		return usageTicket
	}
	snap, warning, err := loadSnapshot(ctx, poller)
	if err != nil {
		return fmt.Sprintf("Erro ao carregar chamados: %v", err)
	}
	r, ok := ticket.FindByID(snap.Records, id)
	if !ok {
		return fmt.Sprintf("Chamado #%s não encontrado.", id)
	}
	return warning + board.RenderDetails(r, cfg.DetailsBaseURL)
}

// statusReply validates a status change. It returns the text to show the
// user and, when the change is accepted, the request to send.
func statusReply(ctx context.Context, cfg Config, poller *refresh.Poller, userID, text string) (string, *statusapi.UpdateRequest) {
	if !cfg.StatusUpdatesEnabled() {
		return "A atualização de status não está configurada.", nil
	}
	if !cfg.IsManagerID(userID) {
		return "Desculpe, apenas gestores podem alterar o status de chamados.", nil
	}

	id, status, note, err := parseStatusArgs(text)
	if err != nil {
		return usageStatus, nil
	}
	bucket := ticket.StatusBucket(status)
	if !bucket.Classified() {
		return fmt.Sprintf("Status desconhecido: %q. Use Aberto, Em Andamento ou Resolvido.", status), nil
	}

	snap, _, err := loadSnapshot(ctx, poller)
	if err != nil {
		return fmt.Sprintf("Erro ao carregar chamados: %v", err), nil
	}
	r, ok := ticket.FindByID(snap.Records, id)
	if !ok {
		return fmt.Sprintf("Chamado #%s não encontrado.", id), nil
	}

	req := &statusapi.UpdateRequest{
		TicketID:  r.ID(),
		NewStatus: bucket.Label(),
		User:      cfg.AdminEmail,
		Note:      note,
	}
	return fmt.Sprintf("Atualizando chamado #%s para *%s*...", req.TicketID, req.NewStatus), req
}

func helpText(cfg Config, userID string) string {
	lines := []string{
		"*Comandos do Painel de Chamados*",
		"",
		"`/chamados [all|cp|am|transparencia] [busca]` - Mostra o painel, opcionalmente filtrado.",
		">*Exemplo:* `/chamados cp login`",
		"`/chamado <número>` - Mostra os detalhes de um chamado.",
		"`/chamados-help` - Mostra esta ajuda.",
	}
	if cfg.StatusUpdatesEnabled() && cfg.IsManagerID(userID) {
		lines = append(lines,
			"",
			"*Comandos de Gestor*",
			"",
			"`/chamado-status <número> <novo status> [| observação]` - Altera o status de um chamado.",
			">*Exemplo:* `/chamado-status 101 Em Andamento | equipe acionada`",
		)
	}
	return strings.Join(lines, "\n")
}
