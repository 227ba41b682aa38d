// Package worker executes PDF tool jobs: inline for small documents (the web
// layer calls Execute directly) and via the Redis queue for large ones.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/local/toolbench/internal/config"
	"github.com/local/toolbench/internal/metrics"
	"github.com/local/toolbench/internal/pdfops"
	"github.com/local/toolbench/internal/queue"
	"github.com/local/toolbench/internal/storage"
	"github.com/local/toolbench/internal/store"
)

// Job is one PDF tool invocation against an uploaded file.
type Job struct {
	JobID  string        `json:"job_id"`
	FileID string        `json:"file_id"`
	Tool   string        `json:"tool"` // extract | remove | organize | reverse | split
	Pages  []int         `json:"pages,omitempty"`
	Spans  []pdfops.Span `json:"spans,omitempty"`
}

// Marshal encodes a job for the queue.
func Marshal(job Job) ([]byte, error) { return json.Marshal(job) }

// Result points at one stored output document.
type Result struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Deps are the collaborators Execute needs.
type Deps struct {
	Store      *store.Redis
	Storage    storage.Backend
	ScratchDir string
}

// Execute runs one job to completion and persists its outputs. It is the
// single execution path for both inline requests and queued jobs.
func Execute(ctx context.Context, deps Deps, job Job) ([]Result, error) {
	rec, found, err := deps.Store.GetFile(ctx, job.FileID)
	if err != nil {
		return nil, fmt.Errorf("load file record: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("file %s not found or expired", job.FileID)
	}

	start := time.Now()
	outputs, err := runTool(deps.ScratchDir, rec, job)
	if err != nil {
		metrics.ObserveTool(job.Tool, "error", time.Since(start))
		return nil, err
	}

	results := make([]Result, 0, len(outputs))
	for _, path := range outputs {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read output: %w", err)
		}
		name := filepath.Base(path)
		key := job.JobID + "/" + name
		if err := deps.Storage.Put(ctx, key, data, "application/pdf"); err != nil {
			return nil, err
		}
		if n, err := pdfops.PageCount(path); err == nil {
			metrics.AddPagesProcessed(n)
		}
		_ = os.Remove(path)
		results = append(results, Result{Key: key, Name: name})
	}

	metrics.ObserveTool(job.Tool, "success", time.Since(start))
	log.Info().Str("job_id", job.JobID).Str("tool", job.Tool).Int("outputs", len(results)).Msg("job completed")
	return results, nil
}

func runTool(scratchDir string, rec store.FileRecord, job Job) ([]string, error) {
	out := filepath.Join(scratchDir, fmt.Sprintf("%s_%s.pdf", job.JobID, job.Tool))

	switch job.Tool {
	case "extract", "organize":
		if err := pdfops.ExtractPages(rec.Path, out, job.Pages); err != nil {
			return nil, err
		}
		return []string{out}, nil
	case "remove":
		if err := pdfops.RemovePages(rec.Path, out, job.Pages); err != nil {
			return nil, err
		}
		return []string{out}, nil
	case "reverse":
		if err := pdfops.ReversePages(rec.Path, out); err != nil {
			return nil, err
		}
		return []string{out}, nil
	case "split":
		return pdfops.Split(rec.Path, scratchDir, job.JobID, job.Spans)
	default:
		return nil, fmt.Errorf("unknown tool: %s", job.Tool)
	}
}

// Pool consumes queued jobs with fixed concurrency.
type Pool struct {
	cfg  config.WorkerConfig
	q    *queue.RedisQueue
	deps Deps
	stop chan struct{}
	wg   sync.WaitGroup
}

func NewPool(cfg config.WorkerConfig, q *queue.RedisQueue, deps Deps) *Pool {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 2
	}
	return &Pool{cfg: cfg, q: q, deps: deps, stop: make(chan struct{})}
}

func (p *Pool) Start() {
	for i := 0; i < p.cfg.Concurrency; i++ {
		p.wg.Add(1)
		go p.loop(i)
	}
}

// Stop signals the workers and waits for in-flight jobs to finish, up to the
// context deadline.
func (p *Pool) Stop(ctx context.Context) error {
	close(p.stop)
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) loop(id int) {
	defer p.wg.Done()
	consumer := fmt.Sprintf("worker-%d", id)
	log.Info().Int("worker", id).Msg("pdf worker started")
	for {
		select {
		case <-p.stop:
			log.Info().Int("worker", id).Msg("pdf worker stopped")
			return
		default:
		}

		msgID, data, err := p.q.Dequeue(context.Background(), consumer, 2*time.Second)
		if err != nil {
			log.Error().Err(err).Msg("queue dequeue error")
			time.Sleep(500 * time.Millisecond)
			continue
		}
		if data == nil {
			continue
		}

		var job Job
		if err := json.Unmarshal(data, &job); err != nil {
			log.Error().Err(err).Msg("malformed job payload")
			_ = p.q.AddDLQ(context.Background(), data, "malformed payload")
			_ = p.q.Ack(context.Background(), msgID)
			metrics.IncJob("dlq")
			continue
		}

		p.process(job, data)
		_ = p.q.Ack(context.Background(), msgID)
	}
}

func (p *Pool) process(job Job, raw []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.JobTimeout)
	defer cancel()

	now := time.Now()
	_ = p.deps.Store.SetJob(ctx, job.JobID, store.JobStatus{Status: "processing", Tool: job.Tool, Message: "processing", Start: &now})

	results, err := Execute(ctx, p.deps, job)
	end := time.Now()
	if err != nil {
		log.Error().Err(err).Str("job_id", job.JobID).Str("tool", job.Tool).Msg("job failed")
		_ = p.deps.Store.SetJob(ctx, job.JobID, store.JobStatus{Status: "error", Tool: job.Tool, Message: err.Error(), End: &end})
		_ = p.q.AddDLQ(ctx, raw, err.Error())
		metrics.IncJob("error")
		return
	}

	keys := make([]string, len(results))
	for i, r := range results {
		keys[i] = r.Key
	}
	_ = p.deps.Store.SetJob(ctx, job.JobID, store.JobStatus{Status: "success", Tool: job.Tool, Message: "completed", End: &end, ResultKeys: keys})
	metrics.IncJob("success")
}
