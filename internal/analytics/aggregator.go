package analytics

import (
	"context"
	"math"
	"sort"
	"time"

	"resumelink/internal/resumes"
)

const (
	DefaultWindowDays = 30
	DefaultTopLimit   = 5
	dateLayout        = "2006-01-02"
)

// ResumeLister reads the resumes owned by a user, newest first.
type ResumeLister interface {
	ListByUser(ctx context.Context, userID string) ([]resumes.Resume, error)
}

// EventReader reads windowed events for a set of resumes.
type EventReader interface {
	ListByResumes(ctx context.Context, resumeIDs []string, since time.Time) ([]Event, error)
}

// Aggregator builds dashboard summaries.
type Aggregator struct {
	Resumes    ResumeLister
	Events     EventReader
	WindowDays int
	TopLimit   int
	Now        func() time.Time
}

// Totals sums the stored counters across all of a user's resumes.
type Totals struct {
	Resumes   int
	Views     int64
	Downloads int64
	// ConversionPct is downloads per view in whole percent, nil when there are no views.
	ConversionPct *int
}

// DailyPoint counts events on one calendar date.
type DailyPoint struct {
	Date      string
	Views     int
	Downloads int
}

// Summary is everything the analytics view needs.
type Summary struct {
	Totals     Totals
	TopResumes []resumes.Resume
	Series     []DailyPoint
}

// Summarize reads the user's resumes and recent events and reduces them.
// Dates in the series are calendar dates in loc. Any failed read fails the
// whole summary.
func (a *Aggregator) Summarize(ctx context.Context, userID string, loc *time.Location) (Summary, error) {
	if loc == nil {
		loc = time.UTC
	}

	owned, err := a.Resumes.ListByUser(ctx, userID)
	if err != nil {
		return Summary{}, &loadError{op: "list_resumes", err: err}
	}
	if len(owned) == 0 {
		return Summary{TopResumes: []resumes.Resume{}, Series: []DailyPoint{}}, nil
	}

	ids := make([]string, 0, len(owned))
	for _, r := range owned {
		ids = append(ids, r.ID)
	}
	since := a.now().AddDate(0, 0, -a.windowDays())
	events, err := a.Events.ListByResumes(ctx, ids, since)
	if err != nil {
		return Summary{}, &loadError{op: "list_events", err: err}
	}

	return Summary{
		Totals:     ComputeTotals(owned),
		TopResumes: TopByViews(owned, a.topLimit()),
		Series:     DailySeries(events, loc),
	}, nil
}

// ComputeTotals sums counters over resumes.
func ComputeTotals(items []resumes.Resume) Totals {
	t := Totals{Resumes: len(items)}
	for _, r := range items {
		t.Views += r.Views
		t.Downloads += r.Downloads
	}
	if t.Views > 0 {
		pct := int(math.Round(float64(t.Downloads) / float64(t.Views) * 100))
		t.ConversionPct = &pct
	}
	return t
}

// TopByViews returns at most limit resumes ordered by views descending.
// Equal views keep their input order.
func TopByViews(items []resumes.Resume, limit int) []resumes.Resume {
	sorted := make([]resumes.Resume, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Views > sorted[j].Views
	})
	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// DailySeries groups events by their calendar date in loc. Only dates with
// events appear, in ascending order.
func DailySeries(events []Event, loc *time.Location) []DailyPoint {
	byDate := make(map[string]*DailyPoint)
	for _, e := range events {
		date := e.CreatedAt.In(loc).Format(dateLayout)
		p, ok := byDate[date]
		if !ok {
			p = &DailyPoint{Date: date}
			byDate[date] = p
		}
		switch e.Kind {
		case KindView:
			p.Views++
		case KindDownload:
			p.Downloads++
		}
	}

	out := make([]DailyPoint, 0, len(byDate))
	for _, p := range byDate {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func (a *Aggregator) windowDays() int {
	if a.WindowDays <= 0 {
		return DefaultWindowDays
	}
	return a.WindowDays
}

func (a *Aggregator) topLimit() int {
	if a.TopLimit <= 0 {
		return DefaultTopLimit
	}
	return a.TopLimit
}

func (a *Aggregator) now() time.Time {
	if a.Now != nil {
		return a.Now().UTC()
	}
	return time.Now().UTC()
}
