package ticket

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"ticketboard/internal/domain"
)

// RequesterPlaceholder is shown when no requester column has a value.
const RequesterPlaceholder = "Não informado"

// SummaryWordLimit is the number of words kept on a card summary.
const SummaryWordLimit = 12

// requesterKeys are probed in order before falling back to a key scan.
// Spreadsheet versions disagree on the column name.
var requesterKeys = []string{
	"Solicitante",
	"solicitante",
	"SOLICITANTE",
	"Nome do Solicitante",
	"Nome Solicitante",
	"Solicitado por",
	"Criado por",
	"Usuário",
	"Usuario",
	"Nome",
}

var requesterKeyFragments = []string{"solicit", "nome", "criado", "usuario", "usuário"}

// Classify derives the board facets of a record. It never fails: absent
// columns degrade to the unclassified/none sentinels, an empty summary or
// the requester placeholder.
func Classify(r Record) domain.Classification {
	return domain.Classification{
		StatusBucket: StatusBucket(r.Get(ColumnStatus)),
		SystemTag:    SystemTag(r.Get(ColumnSystem)),
		Summary:      Summary(r.Get(ColumnDescription)),
		Requester:    Requester(r),
	}
}

// StatusBucket maps a free-form status to its bucket. The first matching
// fragment wins.
func StatusBucket(status string) domain.StatusBucket {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "aberto"):
		return domain.StatusOpen
	case strings.Contains(s, "andamento"):
		return domain.StatusInProgress
	case strings.Contains(s, "resolvido"):
		return domain.StatusResolved
	default:
		return domain.StatusUnclassified
	}
}

// SystemTag maps the "Sistema" column to a badge. Matching is by substring,
// so any system name containing "cp" is tagged cp.
func SystemTag(system string) domain.SystemTag {
	s := strings.ToLower(trimField(system))
	switch {
	case s == "":
		return domain.SystemNone
	case strings.Contains(s, "cp"):
		return domain.SystemCP
	case strings.Contains(s, "am"):
		return domain.SystemAM
	case isTransparency(s):
		return domain.SystemTransparency
	default:
		return domain.SystemNone
	}
}

func isTransparency(lowered string) bool {
	return strings.Contains(foldAccents(lowered), "transparencia")
}

// foldAccents strips combining marks after canonical decomposition, so
// "transparência" compares equal to "transparencia".
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Summary shortens a description to SummaryWordLimit words followed by
// "...". Shorter descriptions are returned trimmed but otherwise intact.
func Summary(description string) string {
	trimmed := trimField(description)
	words := strings.Fields(trimmed)
	if len(words) > SummaryWordLimit {
		return strings.Join(words[:SummaryWordLimit], " ") + "..."
	}
	return trimmed
}

// Requester resolves the display name of whoever opened the ticket.
func Requester(r Record) string {
	for _, key := range requesterKeys {
		if v := trimField(r.Get(key)); v != "" {
			return v
		}
	}
	for _, key := range r.keys {
		lower := strings.ToLower(key)
		if !containsAny(lower, requesterKeyFragments) {
			continue
		}
		if v := trimField(r.Get(key)); v != "" {
			return v
		}
	}
	return RequesterPlaceholder
}

func containsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}
