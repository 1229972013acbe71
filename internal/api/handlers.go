// Package api exposes the HTTP surface: upload submission and status polls.
package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/slide-explainer/backend/internal/explain"
	"github.com/slide-explainer/backend/internal/extract"
	"github.com/slide-explainer/backend/internal/jobstore"
	"github.com/slide-explainer/backend/internal/models"
)

const (
	msgNoFileSelected    = "No file selected"
	msgUnsupportedFormat = "Only pptx files are supported"
)

// timestampWireFormat is how upload timestamps appear in status responses.
const timestampWireFormat = "2006-01-02T15:04:05"

// Handler handles API requests.
type Handler struct {
	store       jobstore.Store
	extractors  *extract.Registry
	resolver    *explain.Resolver
	allowedExts map[string]bool
}

// NewHandler creates a new API handler. allowedExts holds lowercase
// extensions without dots.
func NewHandler(store jobstore.Store, extractors *extract.Registry, allowedExts map[string]bool) *Handler {
	return &Handler{
		store:       store,
		extractors:  extractors,
		resolver:    explain.NewResolver(store),
		allowedExts: allowedExts,
	}
}

type uploadResponse struct {
	UID string `json:"uid"`
}

type statusResponse struct {
	Status      string                    `json:"status"`
	Filename    string                    `json:"filename"`
	Timestamp   string                    `json:"timestamp"`
	Explanation []models.SlideExplanation `json:"explanation"`
}

// HandleUpload accepts a multipart presentation upload, extracts its slide
// texts and writes the inbox entry. Nothing is persisted when validation or
// extraction fails.
func (h *Handler) HandleUpload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError(msgNoFileSelected)
	}
	if fileHeader.Filename == "" {
		return NewBadRequestError(msgNoFileSelected)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileHeader.Filename)), ".")
	if !h.allowedExts[ext] {
		return NewBadRequestError(msgUnsupportedFormat)
	}
	extractor, ok := h.extractors.Lookup(ext)
	if !ok {
		return NewBadRequestError(msgUnsupportedFormat)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return NewInternalError(err)
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return NewInternalError(err)
	}

	slides, err := extractor.Extract(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		c.Logger().Errorf("extracting %s: %v", fileHeader.Filename, err)
		return NewInternalError(err)
	}

	job := models.UploadJob{
		UID:              uuid.NewString(),
		OriginalFilename: fileHeader.Filename,
		CreatedAt:        time.Now(),
		Slides:           slides,
	}
	if err := h.store.SaveUpload(job); err != nil {
		return NewInternalError(err)
	}

	c.Logger().Infof("uploaded %s as %s (%d slides)", fileHeader.Filename, job.UID, len(slides))
	return c.JSON(http.StatusOK, uploadResponse{UID: job.UID})
}

// HandleStatus reports the job state for a uid, including the explanation
// list once the job is done.
func (h *Handler) HandleStatus(c echo.Context) error {
	uid := c.Param("uid")

	status, err := h.resolver.Resolve(uid)
	if errors.Is(err, jobstore.ErrAmbiguousUID) {
		return NewInternalError(err)
	}
	if err != nil {
		return NewInternalError(err)
	}
	if status.State == models.StateNotFound {
		return c.JSON(http.StatusNotFound, map[string]string{"status": string(models.StateNotFound)})
	}

	return c.JSON(http.StatusOK, statusResponse{
		Status:      string(status.State),
		Filename:    status.Filename,
		Timestamp:   status.Timestamp.Format(timestampWireFormat),
		Explanation: status.Explanations,
	})
}

// HandleHealth is a liveness probe.
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
