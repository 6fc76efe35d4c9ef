package resumes

import "time"

// Resume is an uploaded PDF and its share link counters.
type Resume struct {
	ID        string
	UserID    string
	Title     string
	FileURL   string
	FileName  string
	ShortID   string
	Views     int64
	Downloads int64
	PageCount int
	CreatedAt time.Time
}

// Counter names one of the per-resume engagement counters.
type Counter string

const (
	CounterViews     Counter = "views"
	CounterDownloads Counter = "downloads"
)

// Valid reports whether c names a known counter.
func (c Counter) Valid() bool {
	return c == CounterViews || c == CounterDownloads
}

// Value reads counter c from r.
func (r Resume) Value(c Counter) int64 {
	if c == CounterDownloads {
		return r.Downloads
	}
	return r.Views
}
