package web

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/local/toolbench/internal/pages"
	"github.com/local/toolbench/internal/pdfops"
	"github.com/local/toolbench/internal/preview"
	"github.com/local/toolbench/internal/store"
	"github.com/local/toolbench/internal/textcheck"
	"github.com/local/toolbench/internal/worker"
)

type toolRequest struct {
	FileID string `json:"file_id"`
	Pages  string `json:"pages,omitempty"` // range spec, e.g. "1,3,5-9"
	Order  []int  `json:"order,omitempty"` // explicit page order for organize
}

type splitRequest struct {
	FileID string   `json:"file_id"`
	Ranges []string `json:"ranges"` // one output document per range, e.g. ["1-3", "4-9"]
}

type toolResponse struct {
	JobID   string          `json:"job_id"`
	Status  string          `json:"status"`
	Results []worker.Result `json:"results,omitempty"`
}

// pageToolHandler builds the handler for one page tool. Extract and remove
// take a tolerant range spec; organize takes an explicit page order which is
// validated strictly.
func (s *Server) pageToolHandler(tool string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req toolRequest
		if !decodeBody(w, r, &req) {
			return
		}

		rec, ok := s.loadFile(w, r, req.FileID)
		if !ok {
			return
		}

		job := worker.Job{JobID: uuid.New().String(), FileID: req.FileID, Tool: tool}
		switch tool {
		case "extract", "remove":
			job.Pages = pages.Resolve(req.Pages, rec.Pages)
			if len(job.Pages) == 0 {
				httpError(w, http.StatusBadRequest, "page spec resolves to no valid pages")
				return
			}
		case "organize":
			if len(req.Order) == 0 {
				httpError(w, http.StatusBadRequest, "organize requires an explicit page order")
				return
			}
			job.Pages = req.Order
		case "reverse":
			// whole document, no page input
		}

		s.runOrEnqueue(w, r, rec, job)
	}
}

// handleSplit turns each requested range into one output document.
func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	var req splitRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rec, ok := s.loadFile(w, r, req.FileID)
	if !ok {
		return
	}

	spans, err := splitSpans(req.Ranges, rec.Pages)
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(spans) == 0 {
		httpError(w, http.StatusBadRequest, "no ranges resolve to valid pages")
		return
	}

	job := worker.Job{JobID: uuid.New().String(), FileID: req.FileID, Tool: "split", Spans: spans}
	s.runOrEnqueue(w, r, rec, job)
}

// splitSpans resolves each range string into one contiguous span. A range
// that resolves to nothing is skipped. A range with gaps ("1,5") is refused
// rather than silently widened to its bounds; split outputs must contain
// exactly the pages the caller listed.
func splitSpans(ranges []string, totalPages int) ([]pdfops.Span, error) {
	spans := make([]pdfops.Span, 0, len(ranges))
	for _, rng := range ranges {
		resolved := pages.Resolve(rng, totalPages)
		if len(resolved) == 0 {
			continue
		}
		first, last := resolved[0], resolved[len(resolved)-1]
		if last-first+1 != len(resolved) {
			return nil, fmt.Errorf("split range %q is not contiguous", rng)
		}
		spans = append(spans, pdfops.Span{Start: first, End: last})
	}
	return spans, nil
}

// runOrEnqueue executes small documents inline and queues the rest. Inline
// execution also needs a free concurrency slot; when none is available the
// job falls back to the queue instead of being refused.
func (s *Server) runOrEnqueue(w http.ResponseWriter, r *http.Request, rec store.FileRecord, job worker.Job) {
	if rec.Pages <= s.cfg.Server.InlinePageLimit {
		if release, ok := s.limiter.Acquire(); ok {
			defer release()
			s.runInline(w, r, job)
			return
		}
	}
	s.enqueue(w, r, job)
}

func (s *Server) runInline(w http.ResponseWriter, r *http.Request, job worker.Job) {
	results, err := worker.Execute(r.Context(), s.deps(), job)
	if err != nil {
		var badPage *pdfops.InvalidPageNumberError
		if errors.As(err, &badPage) {
			httpError(w, http.StatusBadRequest, badPage.Error())
			return
		}
		log.Error().Err(err).Str("tool", job.Tool).Msg("inline tool run failed")
		httpError(w, http.StatusInternalServerError, "processing failed: "+err.Error())
		return
	}

	keys := make([]string, len(results))
	for i, res := range results {
		keys[i] = res.Key
	}
	_ = s.store.SetJob(r.Context(), job.JobID, store.JobStatus{Status: "success", Tool: job.Tool, Message: "completed", ResultKeys: keys})

	writeJSON(w, http.StatusOK, toolResponse{JobID: job.JobID, Status: "success", Results: results})
}

func (s *Server) enqueue(w http.ResponseWriter, r *http.Request, job worker.Job) {
	payload, err := worker.Marshal(job)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "failed to encode job")
		return
	}
	if err := s.store.SetJob(r.Context(), job.JobID, store.JobStatus{Status: "queued", Tool: job.Tool, Message: "waiting for a worker"}); err != nil {
		log.Error().Err(err).Msg("failed to record queued job")
	}
	if err := s.queue.Enqueue(r.Context(), payload); err != nil {
		log.Error().Err(err).Msg("failed to enqueue job")
		httpError(w, http.StatusInternalServerError, "failed to queue job")
		return
	}
	writeJSON(w, http.StatusAccepted, toolResponse{JobID: job.JobID, Status: "queued"})
}

func (s *Server) loadFile(w http.ResponseWriter, r *http.Request, fileID string) (store.FileRecord, bool) {
	if fileID == "" {
		httpError(w, http.StatusBadRequest, "file_id is required")
		return store.FileRecord{}, false
	}
	rec, found, err := s.store.GetFile(r.Context(), fileID)
	if err != nil {
		log.Error().Err(err).Str("file_id", fileID).Msg("failed to load file record")
		httpError(w, http.StatusInternalServerError, "failed to load file record")
		return store.FileRecord{}, false
	}
	if !found {
		httpError(w, http.StatusNotFound, "file not found or expired")
		return store.FileRecord{}, false
	}
	return rec, true
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	st, found, err := s.store.GetJob(r.Context(), id)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "failed to load job status")
		return
	}
	if !found {
		httpError(w, http.StatusNotFound, "job not found or expired")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	data, err := s.storage.Get(r.Context(), key)
	if err != nil {
		httpError(w, http.StatusNotFound, "result not found or expired")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+path.Base(key)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadFile(w, r, r.PathValue("fileID"))
	if !ok {
		return
	}
	pageNum, err := strconv.Atoi(r.PathValue("page"))
	if err != nil || pageNum < 1 {
		httpError(w, http.StatusBadRequest, "page must be a positive integer")
		return
	}

	img, _, _, err := preview.RenderPageJPEG(rec.Path, pageNum, s.cfg.Server.PreviewDPI, s.cfg.Server.PreviewQuality)
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "private, max-age=300")
	_, _ = w.Write(img)
}

func (s *Server) handleTextCheck(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadFile(w, r, r.PathValue("fileID"))
	if !ok {
		return
	}
	threshold, _ := strconv.Atoi(r.URL.Query().Get("threshold"))

	_, report, err := textcheck.Check(rec.Path, threshold)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "text check failed: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}
