package board

import (
	"fmt"
	"strings"

	"ticketboard/internal/domain"
	"ticketboard/internal/ticket"
)

const noResultsText = "_Nenhum chamado encontrado._"

var mrkdwnEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// escape makes sheet text safe for Slack mrkdwn.
func escape(s string) string {
	return mrkdwnEscaper.Replace(s)
}

// RenderSummary renders the board as Slack mrkdwn, listing at most
// maxCards cards per section.
func RenderSummary(b Board, maxCards int) string {
	var sb strings.Builder
	sb.WriteString("*Painel de Chamados*")
	if desc := describeFilter(b.Filter); desc != "" {
		sb.WriteString(" (" + desc + ")")
	}
	sb.WriteString("\n")

	for _, s := range b.Sections {
		sb.WriteString(fmt.Sprintf("\n*%s* (%d)\n", s.Bucket.Label(), len(s.Cards)))
		if len(s.Cards) == 0 {
			sb.WriteString(noResultsText + "\n")
			continue
		}
		for i, c := range s.Cards {
			if maxCards > 0 && i >= maxCards {
				sb.WriteString(fmt.Sprintf("_...e mais %d_\n", len(s.Cards)-maxCards))
				break
			}
			sb.WriteString(renderCardLine(c))
		}
	}
	return sb.String()
}

// RenderCounts renders only the per-section counts on one line.
func RenderCounts(b Board) string {
	parts := make([]string, 0, len(b.Sections))
	for _, s := range b.Sections {
		parts = append(parts, fmt.Sprintf("%s: %d", s.Bucket.Label(), len(s.Cards)))
	}
	return strings.Join(parts, " | ")
}

func describeFilter(f ticket.Filter) string {
	var parts []string
	if f.System != "" && f.System != ticket.FilterAll {
		parts = append(parts, "sistema: "+f.System)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		parts = append(parts, fmt.Sprintf("busca: %q", term))
	}
	return strings.Join(parts, ", ")
}

func renderCardLine(c Card) string {
	id := "#" + escape(c.ID)
	if c.DetailsURL != "" {
		id = fmt.Sprintf("<%s|#%s>", c.DetailsURL, escape(c.ID))
	}
	line := fmt.Sprintf("• %s *%s*", id, escape(c.Title))
	if c.System != "" {
		line += fmt.Sprintf(" `%s`", escape(c.System))
	}
	if c.Summary != "" {
		line += " - " + escape(c.Summary)
	}
	line += fmt.Sprintf(" _(%s)_\n", escape(c.Requester))
	if opened := c.OpenedAt(); opened != "" {
		line += "    " + escape(opened) + "\n"
	}
	return line
}

// RenderDetails renders a single ticket with its additional fields and,
// when the ticket has moved past "open", its status timeline.
func RenderDetails(r ticket.Record, detailsBaseURL string) string {
	c := ticket.Classify(r)
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("*Chamado #%s - %s*\n", escape(r.ID()), escape(r.Title())))

	line := "Status: " + escape(BucketLabelOrRaw(c.StatusBucket, r.Get(ticket.ColumnStatus)))
	if sys := r.System(); sys != "" {
		line += " | Sistema: " + escape(sys)
	}
	sb.WriteString(line + "\n")

	opened := r.Timestamp()
	if opened == "" {
		opened = "Não informado"
	}
	sb.WriteString("Aberto em: " + escape(opened) + "\n")
	sb.WriteString("Solicitante: " + escape(c.Requester) + "\n")

	if desc := r.Description(); desc != "" {
		sb.WriteString("\n*Descrição*\n")
		for _, l := range strings.Split(desc, "\n") {
			sb.WriteString("> " + escape(l) + "\n")
		}
	}

	if extra := ticket.AdditionalFields(r); len(extra) > 0 {
		sb.WriteString("\n*Informações adicionais*\n")
		for _, f := range extra {
			sb.WriteString(fmt.Sprintf("• %s: %s\n", escape(f.Name), escape(f.Value)))
		}
	}

	if events := ticket.Timeline(c.StatusBucket, r.Timestamp()); len(events) > 1 {
		sb.WriteString("\n*Linha do tempo*\n")
		for _, ev := range events {
			sb.WriteString(fmt.Sprintf("• %s (%s): %s\n", ev.Title, escape(ev.Date), ev.Description))
		}
	}

	if link := DetailsURL(detailsBaseURL, r.ID()); link != "" {
		sb.WriteString(fmt.Sprintf("\n<%s|Ver detalhes>\n", link))
	}
	return sb.String()
}

// BucketLabelOrRaw is the label of a known bucket, or the raw status text.
func BucketLabelOrRaw(bucket domain.StatusBucket, raw string) string {
	if label := bucket.Label(); label != "" {
		return label
	}
	return raw
}
