package resumes

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resumelink/internal/shared/server/middleware"
	"resumelink/internal/shared/server/respond"
)

// multipartOverhead is the slack allowed on top of the file size for
// boundaries and the title field.
const multipartOverhead = 1 << 20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc      *Service
	LinkBase string
}

// NewHandler constructs a Handler. linkBase is the public origin share links are built on.
func NewHandler(svc *Service, linkBase string) *Handler {
	return &Handler{Svc: svc, LinkBase: strings.TrimRight(linkBase, "/")}
}

// RegisterRoutes attaches resume routes to an authenticated router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes", h.upload)
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/:id", h.get)
	rg.DELETE("/resumes/:id", h.delete)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	maxBody := h.Svc.maxUploadBytes() + multipartOverhead
	if c.Request.ContentLength > maxBody {
		respondValidation(c, &ValidationError{Field: "file", Reason: ReasonFileTooLarge})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBody)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondValidation(c, &ValidationError{Field: "file", Reason: ReasonFileTooLarge})
			return
		}
		respondValidation(c, &ValidationError{Field: "file", Reason: ReasonRequired})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	res, err := h.Svc.Upload(c.Request.Context(), UploadInput{
		UserID:      userID,
		Title:       c.PostForm("title"),
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Body:        file,
	})
	if err != nil {
		h.respondErr(c, err, "failed to upload resume")
		return
	}

	c.Set(middleware.ResumeIDKey, res.ID)
	c.Set(middleware.ShortIDKey, res.ShortID)
	respond.JSON(c, http.StatusCreated, toResponse(res, h.LinkBase))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	items, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		h.respondErr(c, err, "failed to list resumes")
		return
	}

	resp := make([]ResumeResponse, 0, len(items))
	for _, r := range items {
		resp = append(resp, toResponse(r, h.LinkBase))
	}
	respond.OK(c, gin.H{"resumes": resp})
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	id := c.Param("id")
	c.Set(middleware.ResumeIDKey, id)

	res, err := h.Svc.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.respondErr(c, err, "failed to fetch resume")
		return
	}
	respond.OK(c, toResponse(res, h.LinkBase))
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	id := c.Param("id")
	c.Set(middleware.ResumeIDKey, id)

	if err := h.Svc.Delete(c.Request.Context(), userID, id); err != nil {
		h.respondErr(c, err, "failed to delete resume")
		return
	}
	respond.NoContent(c)
}

func (h *Handler) respondErr(c *gin.Context, err error, fallback string) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		respondValidation(c, verr)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

func respondValidation(c *gin.Context, verr *ValidationError) {
	switch verr.Reason {
	case ReasonFileTooLarge:
		respond.Error(c, http.StatusRequestEntityTooLarge, ReasonFileTooLarge, "file exceeds the upload limit", gin.H{"field": verr.Field})
	case ReasonUnsupportedType:
		respond.Error(c, http.StatusUnsupportedMediaType, ReasonUnsupportedType, "only PDF files are accepted", gin.H{"field": verr.Field})
	default:
		respond.Error(c, http.StatusBadRequest, "validation_error", verr.Error(), gin.H{"field": verr.Field, "reason": verr.Reason})
	}
}
