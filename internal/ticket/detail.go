package ticket

import "ticketboard/internal/domain"

var standardColumns = map[string]bool{
	ColumnTimestamp:   true,
	ColumnID:          true,
	ColumnTitle:       true,
	ColumnDescription: true,
	ColumnStatus:      true,
	ColumnSystem:      true,
}

// Field is a named value shown in the ticket details.
type Field struct {
	Name  string
	Value string
}

// AdditionalFields lists the non-empty columns outside the standard set, in
// header order.
func AdditionalFields(r Record) []Field {
	var out []Field
	for _, k := range r.keys {
		if standardColumns[k] {
			continue
		}
		if v := r.Get(k); v != "" {
			out = append(out, Field{Name: k, Value: v})
		}
	}
	return out
}

// Timeline builds the status steps a ticket has gone through. The opening
// step is always present.
func Timeline(bucket domain.StatusBucket, timestamp string) []domain.TimelineEvent {
	opened := timestamp
	if opened == "" {
		opened = "Data não informada"
	}
	events := []domain.TimelineEvent{{
		Title:       "Chamado Aberto",
		Date:        opened,
		Description: "O chamado foi registrado no sistema.",
	}}
	if bucket == domain.StatusInProgress || bucket == domain.StatusResolved {
		events = append(events, domain.TimelineEvent{
			Title:       "Em Andamento",
			Date:        "Data não registrada",
			Description: "O chamado está sendo processado pela equipe.",
		})
	}
	if bucket == domain.StatusResolved {
		events = append(events, domain.TimelineEvent{
			Title:       "Chamado Resolvido",
			Date:        "Data não registrada",
			Description: "O chamado foi finalizado com sucesso.",
		})
	}
	return events
}
