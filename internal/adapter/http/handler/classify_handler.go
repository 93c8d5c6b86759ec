package handler

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TADSTech/financial-news-classifier/internal/usecase"
)

// ClassifyHandler exposes the classification usecase over HTTP. Each
// endpoint maps 1:1 onto a usecase call; no state lives here.
type ClassifyHandler struct {
	uc  usecase.ClassifyUsecase
	log *zap.Logger
}

// NewClassifyHandler creates a classify handler.
func NewClassifyHandler(uc usecase.ClassifyUsecase, log *zap.Logger) *ClassifyHandler {
	return &ClassifyHandler{uc: uc, log: log}
}

// ClassifyRequest is the body of POST /api/v1/classify.
type ClassifyRequest struct {
	Text   string `json:"text" binding:"required"`
	Device string `json:"device"`
}

// Classify handles POST /api/v1/classify.
func (h *ClassifyHandler) Classify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", "text is required")
		return
	}

	record, err := h.uc.ClassifyText(c.Request.Context(), req.Text, req.Device)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, record)
}

// ClassifyBatch handles POST /api/v1/classify/batch. The file arrives as a
// multipart upload and is staged to a temp path so the file adapter can
// dispatch on its extension.
func (h *ClassifyHandler) ClassifyBatch(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", "file upload is required")
		return
	}

	path, cleanup, err := h.stageUpload(c, fileHeader)
	if err != nil {
		h.log.Error("Failed to stage upload", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "could not store upload")
		return
	}
	defer cleanup()

	input := &usecase.BatchInput{
		Path:      path,
		Column:    c.PostForm("column"),
		BatchSize: intForm(c, "batch_size"),
		Device:    c.PostForm("device"),
	}

	records, err := h.uc.ClassifyFile(c.Request.Context(), input)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{
		"count":   len(records),
		"results": records,
	})
}

// FeedRequest is the body of POST /api/v1/feed.
type FeedRequest struct {
	URL    string `json:"url" binding:"required"`
	Max    int    `json:"max"`
	Device string `json:"device"`
}

// ClassifyFeed handles POST /api/v1/feed.
func (h *ClassifyHandler) ClassifyFeed(c *gin.Context) {
	var req FeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", "url is required")
		return
	}

	records, err := h.uc.ClassifyFeed(c.Request.Context(), &usecase.FeedInput{
		URL:        req.URL,
		MaxEntries: req.Max,
		Device:     req.Device,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{
		"count":   len(records),
		"results": records,
	})
}

// Info handles GET /api/v1/info.
func (h *ClassifyHandler) Info(c *gin.Context) {
	respondSuccess(c, http.StatusOK, h.uc.EngineInfo())
}

// stageUpload writes the multipart file next to a random name that keeps the
// original extension, returning the path and a cleanup func.
func (h *ClassifyHandler) stageUpload(c *gin.Context, fileHeader *multipart.FileHeader) (string, func(), error) {
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	dir, err := os.MkdirTemp("", "fnc-upload-")
	if err != nil {
		return "", nil, err
	}
	path := filepath.Join(dir, uuid.New().String()+ext)
	if err := c.SaveUploadedFile(fileHeader, path); err != nil {
		os.RemoveAll(dir)
		return "", nil, err
	}
	return path, func() { os.RemoveAll(dir) }, nil
}

func intForm(c *gin.Context, key string) int {
	var n int
	if value := c.PostForm(key); value != "" {
		fmt.Sscanf(value, "%d", &n)
	}
	return n
}
