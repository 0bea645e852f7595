// Package handlers implements the HTTP endpoints: file upload and
// processing, transaction listing, recurrence detection and the dashboard.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/luiza-sangalli/financial-hub/internal/api/middleware"
	"github.com/luiza-sangalli/financial-hub/internal/fileparse"
	"github.com/luiza-sangalli/financial-hub/internal/filestore"
	"github.com/luiza-sangalli/financial-hub/internal/finance"
	"github.com/luiza-sangalli/financial-hub/internal/jobs"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// FilesHandler handles file-related endpoints.
type FilesHandler struct {
	files     finance.FileRepository
	blobs     filestore.BlobStore
	publisher jobs.Publisher
	log       zerolog.Logger
}

// NewFilesHandler creates a new files handler.
func NewFilesHandler(files finance.FileRepository, blobs filestore.BlobStore, publisher jobs.Publisher, log zerolog.Logger) *FilesHandler {
	return &FilesHandler{
		files:     files,
		blobs:     blobs,
		publisher: publisher,
		log:       log,
	}
}

// Upload handles POST /api/files/upload. It accepts a multipart form with
// a "file" field, stores the bytes and creates a PENDING file record.
func (h *FilesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	companyID := middleware.CompanyID(r)

	r.Body = http.MaxBytesReader(w, r.Body, fileparse.MaxUploadSize)
	if err := r.ParseMultipartForm(fileparse.MaxUploadSize); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "File too large. Maximum size: 10MB")
		return
	}

	upload, header, err := r.FormFile("file")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer upload.Close()

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	if !fileparse.AllowedUpload(header.Filename, mimeType) {
		middleware.WriteError(w, http.StatusBadRequest, "Unsupported file type. Use CSV or Excel (.xlsx, .xls)")
		return
	}

	safeName := unsafeFilenameChars.ReplaceAllString(header.Filename, "_")
	objectName := fmt.Sprintf("companies/%s/%s-%s", companyID, uuid.New().String(), safeName)

	uri, err := h.blobs.Upload(ctx, objectName, mimeType, upload)
	if err != nil {
		h.log.Error().Err(err).Str("object", objectName).Msg("Failed to store uploaded file")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to store file")
		return
	}

	record := &finance.FileRecord{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Name:         filestore.FilenameFromURI(uri),
		OriginalName: header.Filename,
		Size:         header.Size,
		MimeType:     mimeType,
		StorageURI:   uri,
		Status:       finance.FileStatusPending,
		UploadedAt:   time.Now().UTC(),
	}
	if err := h.files.InsertFile(ctx, record); err != nil {
		h.log.Error().Err(err).Str("file_id", record.ID).Msg("Failed to insert file record")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to register file")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"file": map[string]interface{}{
			"id":     record.ID,
			"name":   record.OriginalName,
			"size":   record.Size,
			"status": record.Status,
		},
	})
}

// Process handles POST /api/files/process. It validates the file and
// publishes an ingestion job; the actual processing is asynchronous.
func (h *FilesHandler) Process(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	companyID := middleware.CompanyID(r)

	var req struct {
		FileID string `json:"fileId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.FileID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "fileId is required")
		return
	}

	file, err := h.files.GetFile(ctx, req.FileID)
	if err != nil {
		if errors.Is(err, finance.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "File not found")
			return
		}
		h.log.Error().Err(err).Str("file_id", req.FileID).Msg("Failed to load file")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load file")
		return
	}
	if file.CompanyID != companyID {
		middleware.WriteError(w, http.StatusForbidden, "Access denied")
		return
	}
	if file.Status == finance.FileStatusProcessing {
		middleware.WriteError(w, http.StatusBadRequest, "File is already being processed")
		return
	}

	job := &jobs.ProcessFileJob{
		FileID:    file.ID,
		CompanyID: companyID,
	}
	if err := h.publisher.PublishProcessFile(ctx, job); err != nil {
		h.log.Error().Err(err).Str("file_id", file.ID).Msg("Failed to publish process job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to queue file for processing")
		return
	}

	middleware.WriteJSON(w, http.StatusAccepted, map[string]interface{}{
		"success": true,
		"jobId":   job.JobID,
		"fileId":  file.ID,
		"status":  job.Status,
	})
}

// List handles GET /api/files.
func (h *FilesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	companyID := middleware.CompanyID(r)

	files, err := h.files.ListFiles(ctx, companyID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list files")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list files")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"files": files,
		"count": len(files),
	})
}

// Template handles GET /api/files/template, serving the importable CSV
// example.
func (h *FilesHandler) Template(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileparse.TemplateFilename))
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(fileparse.Template()))
}

// ServeHTTP routes file endpoints by method and path.
func (h *FilesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/files/upload":
		h.Upload(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/api/files/process":
		h.Process(w, r)
	case r.Method == http.MethodGet && r.URL.Path == "/api/files/template":
		h.Template(w, r)
	case r.Method == http.MethodGet && r.URL.Path == "/api/files":
		h.List(w, r)
	default:
		middleware.WriteError(w, http.StatusNotFound, "Not found")
	}
}
