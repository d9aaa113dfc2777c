package ticket

import (
	"strings"

	"ticketboard/internal/domain"
)

// System filter values accepted by Filter.System.
const (
	FilterAll           = "all"
	FilterCP            = "cp"
	FilterAM            = "am"
	FilterTransparencia = "transparencia"
)

// Filter narrows the board by system and free-text search.
type Filter struct {
	System string
	Search string
}

// ParseSystemFilter reports whether token names a system filter.
func ParseSystemFilter(token string) (string, bool) {
	switch t := foldAccents(strings.ToLower(strings.TrimSpace(token))); t {
	case FilterAll, "todos":
		return FilterAll, true
	case FilterCP, FilterAM, FilterTransparencia:
		return t, true
	default:
		return "", false
	}
}

// Match reports whether the record passes both the system filter and the
// search term. Unlike SystemTag, the system filters do not exclude each
// other: "cpam" passes both cp and am.
func (f Filter) Match(r Record) bool {
	return f.matchSystem(r) && f.matchSearch(r)
}

func (f Filter) matchSystem(r Record) bool {
	system := strings.ToLower(r.System())
	switch f.System {
	case "", FilterAll:
		return true
	case FilterCP:
		return strings.Contains(system, "cp")
	case FilterAM:
		return strings.Contains(system, "am")
	case FilterTransparencia:
		return isTransparency(system)
	default:
		return false
	}
}

func (f Filter) matchSearch(r Record) bool {
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Title()), term) ||
		strings.Contains(strings.ToLower(r.Description()), term) ||
		strings.Contains(r.ID(), term)
}

// Apply returns the records that match f, preserving order.
func (f Filter) Apply(records []Record) []Record {
	var out []Record
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// BucketCounts is the number of filtered tickets per displayed bucket.
type BucketCounts map[domain.StatusBucket]int

// Total sums the displayed buckets.
func (c BucketCounts) Total() int {
	n := 0
	for _, b := range domain.BoardBuckets {
		n += c[b]
	}
	return n
}

// CountBuckets counts filtered records per bucket. Unclassified records are
// not counted.
func CountBuckets(records []Record, f Filter) BucketCounts {
	counts := BucketCounts{}
	for _, b := range domain.BoardBuckets {
		counts[b] = 0
	}
	for _, r := range records {
		if !f.Match(r) {
			continue
		}
		b := StatusBucket(r.Get(ColumnStatus))
		if b.Classified() {
			counts[b]++
		}
	}
	return counts
}

// FindByID returns the first record whose ticket number equals id.
func FindByID(records []Record, id string) (Record, bool) {
	for _, r := range records {
		if r.ID() == id {
			return r, true
		}
	}
	return Record{}, false
}
