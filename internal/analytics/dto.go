package analytics

type totalsResponse struct {
	Resumes       int   `json:"resumes"`
	Views         int64 `json:"views"`
	Downloads     int64 `json:"downloads"`
	ConversionPct *int  `json:"conversionPct,omitempty"`
}

type topResumeResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	ShortID   string `json:"shortId"`
	Views     int64  `json:"views"`
	Downloads int64  `json:"downloads"`
}

type pointResponse struct {
	Date      string `json:"date"`
	Views     int    `json:"views"`
	Downloads int    `json:"downloads"`
}

// SummaryResponse is the JSON body of the analytics endpoint.
type SummaryResponse struct {
	Totals     totalsResponse      `json:"totals"`
	TopResumes []topResumeResponse `json:"topResumes"`
	Series     []pointResponse     `json:"series"`
	TimeZone   string              `json:"timeZone"`
}

func toSummaryResponse(s Summary, tz string) SummaryResponse {
	resp := SummaryResponse{
		Totals: totalsResponse{
			Resumes:       s.Totals.Resumes,
			Views:         s.Totals.Views,
			Downloads:     s.Totals.Downloads,
			ConversionPct: s.Totals.ConversionPct,
		},
		TopResumes: make([]topResumeResponse, 0, len(s.TopResumes)),
		Series:     make([]pointResponse, 0, len(s.Series)),
		TimeZone:   tz,
	}
	for _, r := range s.TopResumes {
		resp.TopResumes = append(resp.TopResumes, topResumeResponse{
			ID:        r.ID,
			Title:     r.Title,
			ShortID:   r.ShortID,
			Views:     r.Views,
			Downloads: r.Downloads,
		})
	}
	for _, p := range s.Series {
		resp.Series = append(resp.Series, pointResponse(p))
	}
	return resp
}
