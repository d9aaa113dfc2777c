// Package board groups classified tickets into the sections shown to users.
package board

import (
	"net/url"
	"strings"

	"ticketboard/internal/domain"
	"ticketboard/internal/ticket"
)

// Card is one ticket as rendered on the board.
type Card struct {
	ID          string
	Title       string
	Summary     string
	Description string
	Requester   string
	Timestamp   string
	System      string
	SystemTag   domain.SystemTag
	Status      domain.StatusBucket
	DetailsURL  string
}

// OpenedAt is the footer text of the card.
func (c Card) OpenedAt() string {
	if c.Timestamp == "" {
		return ""
	}
	return "Aberto em: " + c.Timestamp
}

// Section is one status tab.
type Section struct {
	Bucket domain.StatusBucket
	Cards  []Card
}

// Board is the filtered, grouped view of a sheet.
type Board struct {
	Filter   ticket.Filter
	Sections []Section
}

// Options controls how cards are built.
type Options struct {
	DetailsBaseURL string
}

// Build classifies every record that passes the filter and groups the cards
// into the displayed sections in rotation order. Records with an unknown
// status are left off the board.
func Build(records []ticket.Record, f ticket.Filter, opts Options) Board {
	b := Board{Filter: f}
	index := make(map[domain.StatusBucket]int, len(domain.BoardBuckets))
	for i, bucket := range domain.BoardBuckets {
		b.Sections = append(b.Sections, Section{Bucket: bucket})
		index[bucket] = i
	}

	for _, r := range f.Apply(records) {
		c := ticket.Classify(r)
		i, ok := index[c.StatusBucket]
		if !ok {
			continue
		}
		b.Sections[i].Cards = append(b.Sections[i].Cards, Card{
			ID:          r.ID(),
			Title:       r.Title(),
			Summary:     c.Summary,
			Description: r.Description(),
			Requester:   c.Requester,
			Timestamp:   r.Timestamp(),
			System:      r.System(),
			SystemTag:   c.SystemTag,
			Status:      c.StatusBucket,
			DetailsURL:  DetailsURL(opts.DetailsBaseURL, r.ID()),
		})
	}
	return b
}

// Section returns the section for bucket, or an empty one.
func (b Board) Section(bucket domain.StatusBucket) Section {
	for _, s := range b.Sections {
		if s.Bucket == bucket {
			return s
		}
	}
	return Section{Bucket: bucket}
}

// Total is the number of cards across all sections.
func (b Board) Total() int {
	n := 0
	for _, s := range b.Sections {
		n += len(s.Cards)
	}
	return n
}

// DetailsURL links to the details page of a ticket. An empty base disables
// links.
func DetailsURL(base, id string) string {
	if base == "" || id == "" {
		return ""
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "id=" + url.QueryEscape(id)
}
