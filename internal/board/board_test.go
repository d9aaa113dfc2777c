package board

import (
	"strings"
	"testing"

	"ticketboard/internal/domain"
	"ticketboard/internal/ticket"
)

const boardSheet = "Carimbo de data/hora,Numero do Chamado,Titulo,Assunto,Status,Sistema,Solicitante,Ramal\n" +
	"01/02/2026 09:00,101,Erro no login,Usuário não consegue entrar,Aberto,CP,Maria,2201\n" +
	"01/02/2026 10:00,102,Relatório <mensal>,um dois três quatro cinco seis sete oito nove dez onze doze treze,Em Andamento,AM,,\n" +
	"01/02/2026 11:00,103,Portal,Publicação atrasada,Resolvido,Transparência,José,\n" +
	"01/02/2026 12:00,104,Outro,Sem status,Cancelado,,Ana,\n" +
	"01/02/2026 13:00,A 7,Outro aberto,Teste,aberto,CP,Rui,\n"

func TestBuildGroupsInRotationOrder(t *testing.T) {
	b := Build(ticket.Parse(boardSheet), ticket.Filter{}, Options{DetailsBaseURL: "detalhes.html"})

	if len(b.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(b.Sections))
	}
	for i, bucket := range domain.BoardBuckets {
		if b.Sections[i].Bucket != bucket {
			t.Fatalf("section %d = %q, want %q", i, b.Sections[i].Bucket, bucket)
		}
	}
	if b.Total() != 4 {
		t.Fatalf("unclassified ticket must be dropped, total=%d", b.Total())
	}

	open := b.Section(domain.StatusOpen)
	if len(open.Cards) != 2 || open.Cards[0].ID != "101" || open.Cards[1].ID != "A 7" {
		t.Fatalf("unexpected open cards: %+v", open.Cards)
	}
	first := open.Cards[0]
	if first.SystemTag != domain.SystemCP || first.Requester != "Maria" || first.OpenedAt() != "Aberto em: 01/02/2026 09:00" {
		t.Fatalf("unexpected card: %+v", first)
	}
	if open.Cards[1].DetailsURL != "detalhes.html?id=A+7" {
		t.Fatalf("unexpected details url: %q", open.Cards[1].DetailsURL)
	}

	progress := b.Section(domain.StatusInProgress).Cards[0]
	if !strings.HasSuffix(progress.Summary, "doze...") {
		t.Fatalf("expected truncated summary, got %q", progress.Summary)
	}
	if progress.Requester != ticket.RequesterPlaceholder {
		t.Fatalf("expected placeholder requester, got %q", progress.Requester)
	}
}

func TestBuildAppliesFilter(t *testing.T) {
	b := Build(ticket.Parse(boardSheet), ticket.Filter{System: ticket.FilterCP, Search: "login"}, Options{})
	if b.Total() != 1 || b.Section(domain.StatusOpen).Cards[0].ID != "101" {
		t.Fatalf("unexpected filtered board: %+v", b)
	}
	if b.Section(domain.StatusOpen).Cards[0].DetailsURL != "" {
		t.Fatal("empty base url must disable links")
	}
}

func TestDetailsURL(t *testing.T) {
	if got := DetailsURL("https://portal.example.com/detalhes.html?lang=pt", "12"); got != "https://portal.example.com/detalhes.html?lang=pt&id=12" {
		t.Fatalf("unexpected url: %q", got)
	}
	if got := DetailsURL("detalhes.html", ""); got != "" {
		t.Fatalf("expected no url without id, got %q", got)
	}
}

func TestRenderSummary(t *testing.T) {
	b := Build(ticket.Parse(boardSheet), ticket.Filter{}, Options{})
	out := RenderSummary(b, 1)

	for _, want := range []string{
		"*Painel de Chamados*\n",
		"*Aberto* (2)",
		"• #101 *Erro no login* `CP` - Usuário não consegue entrar _(Maria)_",
		"_...e mais 1_",
		"*Relatório &lt;mensal&gt;*",
		"*Resolvido* (1)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "#104") {
		t.Fatalf("unclassified ticket must not be rendered:\n%s", out)
	}
}

func TestRenderSummaryEmptySectionsAndFilterHeader(t *testing.T) {
	b := Build(ticket.Parse(boardSheet), ticket.Filter{System: ticket.FilterTransparencia, Search: "portal"}, Options{})
	out := RenderSummary(b, 10)
	if !strings.HasPrefix(out, "*Painel de Chamados* (sistema: transparencia, busca: \"portal\")\n") {
		t.Fatalf("unexpected header:\n%s", out)
	}
	if strings.Count(out, noResultsText) != 2 {
		t.Fatalf("expected two empty sections:\n%s", out)
	}
}

func TestRenderCounts(t *testing.T) {
	b := Build(ticket.Parse(boardSheet), ticket.Filter{}, Options{})
	if got := RenderCounts(b); got != "Aberto: 2 | Em Andamento: 1 | Resolvido: 1" {
		t.Fatalf("unexpected counts: %q", got)
	}
}

func TestRenderDetails(t *testing.T) {
	records := ticket.Parse(boardSheet)

	r, _ := ticket.FindByID(records, "101")
	out := RenderDetails(r, "detalhes.html")
	for _, want := range []string{
		"*Chamado #101 - Erro no login*",
		"Status: Aberto | Sistema: CP",
		"Solicitante: Maria",
		"> Usuário não consegue entrar",
		"• Solicitante: Maria",
		"• Ramal: 2201",
		"<detalhes.html?id=101|Ver detalhes>",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("details missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Linha do tempo") {
		t.Fatalf("open ticket must not render a timeline:\n%s", out)
	}

	r, _ = ticket.FindByID(records, "103")
	out = RenderDetails(r, "")
	if !strings.Contains(out, "*Linha do tempo*") || !strings.Contains(out, "Chamado Resolvido") {
		t.Fatalf("resolved ticket must render a timeline:\n%s", out)
	}

	r, _ = ticket.FindByID(records, "104")
	if out := RenderDetails(r, ""); !strings.Contains(out, "Status: Cancelado") {
		t.Fatalf("unknown status must show raw text:\n%s", out)
	}
}
