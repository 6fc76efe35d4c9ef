package resumes

import "time"

// ResumeResponse is the outward-facing representation of a resume.
type ResumeResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	FileURL   string    `json:"fileUrl"`
	FileName  string    `json:"fileName"`
	ShortID   string    `json:"shortId"`
	ShortURL  string    `json:"shortUrl"`
	Views     int64     `json:"views"`
	Downloads int64     `json:"downloads"`
	PageCount int       `json:"pageCount,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ShortURL returns the share link for shortID under base.
func ShortURL(base, shortID string) string {
	return base + "/r/" + shortID
}

func toResponse(r Resume, linkBase string) ResumeResponse {
	return ResumeResponse{
		ID:        r.ID,
		Title:     r.Title,
		FileURL:   r.FileURL,
		FileName:  r.FileName,
		ShortID:   r.ShortID,
		ShortURL:  ShortURL(linkBase, r.ShortID),
		Views:     r.Views,
		Downloads: r.Downloads,
		PageCount: r.PageCount,
		CreatedAt: r.CreatedAt,
	}
}
