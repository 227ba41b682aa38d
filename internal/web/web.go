// Package web is the HTTP surface: upload, the PDF page tools, download, and
// the e-commerce calculators.
package web

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/local/toolbench/internal/config"
	"github.com/local/toolbench/internal/filetype"
	"github.com/local/toolbench/internal/limiter"
	"github.com/local/toolbench/internal/queue"
	"github.com/local/toolbench/internal/storage"
	"github.com/local/toolbench/internal/store"
	"github.com/local/toolbench/internal/worker"
)

// Server wires the handlers to their collaborators.
type Server struct {
	cfg      config.Config
	store    *store.Redis
	queue    *queue.RedisQueue
	storage  storage.Backend
	limiter  *limiter.Limiter
	detector *filetype.Detector
}

func New(cfg config.Config, st *store.Redis, q *queue.RedisQueue, backend storage.Backend, lim *limiter.Limiter) *Server {
	return &Server{
		cfg:      cfg,
		store:    st,
		queue:    q,
		storage:  backend,
		limiter:  lim,
		detector: filetype.New(),
	}
}

func (s *Server) deps() worker.Deps {
	return worker.Deps{Store: s.store, Storage: s.storage, ScratchDir: s.cfg.Server.ScratchDir}
}

// RegisterRoutes attaches all API routes to mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/upload", s.handleUpload)

	mux.HandleFunc("POST /api/pdf/extract", s.pageToolHandler("extract"))
	mux.HandleFunc("POST /api/pdf/remove", s.pageToolHandler("remove"))
	mux.HandleFunc("POST /api/pdf/organize", s.pageToolHandler("organize"))
	mux.HandleFunc("POST /api/pdf/reverse", s.pageToolHandler("reverse"))
	mux.HandleFunc("POST /api/pdf/split", s.handleSplit)

	mux.HandleFunc("GET /api/jobs/{id}", s.handleJobStatus)
	mux.HandleFunc("GET /api/download/{key...}", s.handleDownload)
	mux.HandleFunc("GET /api/preview/{fileID}/{page}", s.handlePreview)
	mux.HandleFunc("GET /api/textcheck/{fileID}", s.handleTextCheck)

	mux.HandleFunc("POST /api/calc/profit", s.handleCalcProfit)
	mux.HandleFunc("POST /api/calc/roas", s.handleCalcROAS)
	mux.HandleFunc("POST /api/calc/ltv", s.handleCalcLTV)
	mux.HandleFunc("POST /api/calc/returns", s.handleCalcReturns)
	mux.HandleFunc("POST /api/calc/bundle", s.handleCalcBundle)
	mux.HandleFunc("POST /api/calc/fees", s.handleCalcFees)

	mux.HandleFunc("GET /health", s.handleHealth)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := s.queue.Ping(r.Context()); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]string{"status": status})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}

func httpError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// clientIP prefers X-Forwarded-For so the rate limiter works behind a proxy.
func clientIP(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		parts := strings.Split(xf, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
