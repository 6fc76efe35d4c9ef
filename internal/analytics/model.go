package analytics

import "time"

// Kind is the type of engagement an event records.
type Kind string

const (
	KindView     Kind = "view"
	KindDownload Kind = "download"
)

// Valid reports whether k is a known event kind.
func (k Kind) Valid() bool {
	return k == KindView || k == KindDownload
}

// Event is one immutable row in the analytics log.
type Event struct {
	ID        string
	ResumeID  string
	Kind      Kind
	IPAddress *string
	UserAgent string
	CreatedAt time.Time
}
