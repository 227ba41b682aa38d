package web

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/local/toolbench/internal/metrics"
	"github.com/local/toolbench/internal/pdfops"
	"github.com/local/toolbench/internal/store"
)

type uploadResponse struct {
	FileID   string `json:"file_id"`
	Name     string `json:"name"`
	Pages    int    `json:"pages"`
	Size     int64  `json:"size"`
	ExpiresS int64  `json:"expires_in_seconds"`
}

// handleUpload accepts a multipart PDF, verifies it by magic bytes, writes it
// to scratch space and records it in redis under a fresh uuid.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)
	if !s.limiter.AllowUpload(r.Context(), ip) {
		metrics.IncUpload("rate_limited")
		httpError(w, http.StatusTooManyRequests, "upload rate limit exceeded, try again in a minute")
		return
	}

	maxBytes := s.cfg.Server.MaxUploadMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		metrics.IncUpload("rejected")
		httpError(w, http.StatusRequestEntityTooLarge, "upload too large or malformed multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		metrics.IncUpload("rejected")
		httpError(w, http.StatusBadRequest, "missing 'file' form field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		metrics.IncUpload("rejected")
		httpError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	info := s.detector.DetectBytes(data)
	if !info.IsPDF {
		metrics.IncUpload("rejected")
		httpError(w, http.StatusBadRequest, "only PDF uploads are accepted, got "+info.MIMEType)
		return
	}

	id := uuid.New().String()
	path := filepath.Join(s.cfg.Server.ScratchDir, id+".pdf")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to persist upload")
		httpError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	pages, err := pdfops.PageCount(path)
	if err != nil {
		_ = os.Remove(path)
		metrics.IncUpload("rejected")
		httpError(w, http.StatusBadRequest, "file is not a readable PDF")
		return
	}

	rec := store.FileRecord{
		ID:           id,
		Path:         path,
		OriginalName: header.Filename,
		Pages:        pages,
		Size:         int64(len(data)),
		Uploaded:     time.Now(),
	}
	if err := s.store.SaveFile(r.Context(), rec); err != nil {
		_ = os.Remove(path)
		log.Error().Err(err).Msg("failed to save file record")
		httpError(w, http.StatusInternalServerError, "failed to record upload")
		return
	}

	metrics.IncUpload("accepted")
	metrics.AddUploadBytes(rec.Size)
	log.Info().Str("file_id", id).Str("name", header.Filename).Int("pages", pages).Int64("size", rec.Size).Msg("upload accepted")

	writeJSON(w, http.StatusOK, uploadResponse{
		FileID:   id,
		Name:     header.Filename,
		Pages:    pages,
		Size:     rec.Size,
		ExpiresS: int64(s.cfg.Server.FileTTL.Seconds()),
	})
}
