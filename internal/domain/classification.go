package domain

// StatusBucket is the board section a ticket is shown in.
type StatusBucket string

const (
	StatusOpen         StatusBucket = "open"
	StatusInProgress   StatusBucket = "in_progress"
	StatusResolved     StatusBucket = "resolved"
	StatusUnclassified StatusBucket = "unclassified"
)

// BoardBuckets lists the displayed buckets in tab rotation order.
var BoardBuckets = []StatusBucket{StatusOpen, StatusInProgress, StatusResolved}

// SectionID is the board tab identifier ("abertos", "andamento",
// "resolvidos").
func (b StatusBucket) SectionID() string {
	switch b {
	case StatusOpen:
		return "abertos"
	case StatusInProgress:
		return "andamento"
	case StatusResolved:
		return "resolvidos"
	default:
		return ""
	}
}

// Label is the status badge text.
func (b StatusBucket) Label() string {
	switch b {
	case StatusOpen:
		return "Aberto"
	case StatusInProgress:
		return "Em Andamento"
	case StatusResolved:
		return "Resolvido"
	default:
		return ""
	}
}

// Classified reports whether the bucket is shown on the board.
func (b StatusBucket) Classified() bool {
	return b == StatusOpen || b == StatusInProgress || b == StatusResolved
}

// SystemTag is the badge style derived from the "Sistema" column.
type SystemTag string

const (
	SystemCP           SystemTag = "cp"
	SystemAM           SystemTag = "am"
	SystemTransparency SystemTag = "transparency"
	SystemNone         SystemTag = "none"
)

// Classification holds the display facets derived from one ticket record.
type Classification struct {
	StatusBucket StatusBucket
	SystemTag    SystemTag
	Summary      string
	Requester    string
}

// TimelineEvent is one step of the status timeline shown on ticket details.
type TimelineEvent struct {
	Title       string
	Date        string
	Description string
}
