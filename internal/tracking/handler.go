package tracking

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"resumelink/internal/resumes"
	"resumelink/internal/shared/server/middleware"
	"resumelink/internal/shared/server/respond"
	"resumelink/internal/shared/telemetry"
)

// DefaultOpenDelay is how long the share page waits before opening the file.
const DefaultOpenDelay = 2 * time.Second

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Handler serves short links.
type Handler struct {
	Resolver  *Resolver
	Downloads *DownloadTracker
	OpenDelay time.Duration
	LinkBase  string
}

// NewHandler constructs a Handler.
func NewHandler(resolver *Resolver, downloads *DownloadTracker, openDelay time.Duration, linkBase string) *Handler {
	if openDelay < 0 {
		openDelay = DefaultOpenDelay
	}
	return &Handler{
		Resolver:  resolver,
		Downloads: downloads,
		OpenDelay: openDelay,
		LinkBase:  strings.TrimRight(linkBase, "/"),
	}
}

// RegisterPageRoutes attaches the public share pages to a group mounted at /r.
func (h *Handler) RegisterPageRoutes(rg *gin.RouterGroup) {
	rg.GET("/:shortId", h.page)
	rg.GET("/:shortId/download", h.download)
}

// RegisterAPIRoutes attaches the JSON link lookup to a public API group.
func (h *Handler) RegisterAPIRoutes(rg *gin.RouterGroup) {
	rg.GET("/links/:shortId", h.link)
}

type pageData struct {
	Title       string
	FileName    string
	FileURL     string
	DownloadURL string
	OpenAfterMs int64
}

// LinkResponse is the JSON form of a resolved short link.
type LinkResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	FileURL     string `json:"fileUrl"`
	FileName    string `json:"fileName"`
	ShortID     string `json:"shortId"`
	Views       int64  `json:"views"`
	Downloads   int64  `json:"downloads"`
	DownloadURL string `json:"downloadUrl"`
	OpenAfterMs int64  `json:"openAfterMs"`
}

func (h *Handler) page(c *gin.Context) {
	shortID := c.Param("shortId")
	c.Set(middleware.ShortIDKey, shortID)

	res, err := h.Resolver.Resolve(c.Request.Context(), shortID, requester(c))
	if err != nil {
		h.renderMiss(c, err)
		return
	}
	c.Set(middleware.ResumeIDKey, res.ID)

	c.Header("Cache-Control", "no-store")
	c.Render(http.StatusOK, render.HTML{
		Template: pages,
		Name:     "resume",
		Data: pageData{
			Title:       res.Title,
			FileName:    res.FileName,
			FileURL:     res.FileURL,
			DownloadURL: h.downloadURL(res.ShortID),
			OpenAfterMs: h.OpenDelay.Milliseconds(),
		},
	})
}

func (h *Handler) download(c *gin.Context) {
	shortID := c.Param("shortId")
	c.Set(middleware.ShortIDKey, shortID)

	res, err := h.Resolver.Lookup(c.Request.Context(), shortID)
	if err != nil {
		h.renderMiss(c, err)
		return
	}
	c.Set(middleware.ResumeIDKey, res.ID)

	h.Downloads.Track(c.Request.Context(), res, requester(c))
	c.Header("Cache-Control", "no-store")
	c.Redirect(http.StatusFound, res.FileURL)
}

func (h *Handler) link(c *gin.Context) {
	shortID := c.Param("shortId")
	c.Set(middleware.ShortIDKey, shortID)

	res, err := h.Resolver.Resolve(c.Request.Context(), shortID, requester(c))
	if err != nil {
		if errors.Is(err, resumes.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load resume", nil)
		return
	}
	c.Set(middleware.ResumeIDKey, res.ID)

	respond.OK(c, LinkResponse{
		ID:          res.ID,
		Title:       res.Title,
		FileURL:     res.FileURL,
		FileName:    res.FileName,
		ShortID:     res.ShortID,
		Views:       res.Views,
		Downloads:   res.Downloads,
		DownloadURL: h.downloadURL(res.ShortID),
		OpenAfterMs: h.OpenDelay.Milliseconds(),
	})
}

func (h *Handler) renderMiss(c *gin.Context, err error) {
	status := http.StatusNotFound
	message := "This link does not point to a resume. It may have been removed."
	if !errors.Is(err, resumes.ErrNotFound) {
		status = http.StatusInternalServerError
		message = "Something went wrong loading this resume. Please try again."
		telemetry.Error("tracking.lookup_failed", map[string]any{
			"short_id":   c.Param("shortId"),
			"request_id": middleware.RequestIDFromContext(c),
			"error":      err.Error(),
		})
	}
	c.Render(status, render.HTML{
		Template: pages,
		Name:     "not_found",
		Data:     gin.H{"Message": message},
	})
	c.Abort()
}

func (h *Handler) downloadURL(shortID string) string {
	return h.LinkBase + "/r/" + shortID + "/download"
}

func requester(c *gin.Context) Requester {
	return Requester{
		UserAgent: c.Request.UserAgent(),
		RequestID: middleware.RequestIDFromContext(c),
	}
}
