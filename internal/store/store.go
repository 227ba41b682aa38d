// Package store keeps upload records and job statuses in Redis. Everything
// carries a TTL; uploaded files and their results are transient by design.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// FileRecord describes an uploaded document held on scratch storage.
type FileRecord struct {
	ID           string    `json:"id"`
	Path         string    `json:"path"`
	OriginalName string    `json:"original_name"`
	Pages        int       `json:"pages"`
	Size         int64     `json:"size"`
	Uploaded     time.Time `json:"uploaded"`
}

// JobStatus tracks a background PDF job from queued to done.
type JobStatus struct {
	Status     string     `json:"status"` // queued | processing | success | error
	Message    string     `json:"message"`
	Tool       string     `json:"tool"`
	Start      *time.Time `json:"start_time,omitempty"`
	End        *time.Time `json:"end_time,omitempty"`
	ResultKeys []string   `json:"result_keys,omitempty"`
}

type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects the store. ttl applies to file records and job statuses.
func NewRedis(redisURL string, ttl time.Duration) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	c := redis.NewClient(opt)
	if err := c.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Redis{client: c, ttl: ttl}, nil
}

func (s *Redis) fileKey(id string) string { return fmt.Sprintf("file:%s", id) }
func (s *Redis) jobKey(id string) string  { return fmt.Sprintf("job:%s:status", id) }

// SaveFile records an upload.
func (s *Redis) SaveFile(ctx context.Context, rec FileRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.fileKey(rec.ID), b, s.ttl).Err()
}

// GetFile fetches an upload record; found is false when it expired or never
// existed.
func (s *Redis) GetFile(ctx context.Context, id string) (FileRecord, bool, error) {
	b, err := s.client.Get(ctx, s.fileKey(id)).Bytes()
	if err == redis.Nil {
		return FileRecord{}, false, nil
	}
	if err != nil {
		return FileRecord{}, false, err
	}
	var rec FileRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return FileRecord{}, false, err
	}
	return rec, true, nil
}

// SetJob writes a job status snapshot.
func (s *Redis) SetJob(ctx context.Context, jobID string, st JobStatus) error {
	m := map[string]interface{}{
		"status":  st.Status,
		"message": st.Message,
		"tool":    st.Tool,
	}
	if st.Start != nil {
		m["start"] = st.Start.Format(time.RFC3339Nano)
	}
	if st.End != nil {
		m["end"] = st.End.Format(time.RFC3339Nano)
	}
	if len(st.ResultKeys) > 0 {
		b, _ := json.Marshal(st.ResultKeys)
		m["result_keys"] = string(b)
	}
	k := s.jobKey(jobID)
	if err := s.client.HSet(ctx, k, m).Err(); err != nil {
		return err
	}
	return s.client.Expire(ctx, k, s.ttl).Err()
}

// GetJob reads a job status; found is false for unknown jobs.
func (s *Redis) GetJob(ctx context.Context, jobID string) (JobStatus, bool, error) {
	res, err := s.client.HGetAll(ctx, s.jobKey(jobID)).Result()
	if err != nil {
		return JobStatus{}, false, err
	}
	if len(res) == 0 {
		return JobStatus{}, false, nil
	}
	st := JobStatus{
		Status:  res["status"],
		Message: res["message"],
		Tool:    res["tool"],
	}
	if v := res["start"]; v != "" {
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			st.Start = &t
		}
	}
	if v := res["end"]; v != "" {
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			st.End = &t
		}
	}
	if v := res["result_keys"]; v != "" {
		_ = json.Unmarshal([]byte(v), &st.ResultKeys)
	}
	return st, true, nil
}

func (s *Redis) Close() error { return s.client.Close() }
