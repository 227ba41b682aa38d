// Package limiter bounds how hard a single client can drive the service:
// a Redis fixed-window counter for uploads plus a local slot pool for
// concurrent PDF operations.
package limiter

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

type Limiter struct {
	rdb       *redis.Client
	perMinute int
	slots     chan struct{}
}

type Options struct {
	RedisURL         string
	UploadsPerMinute int
	MaxConcurrentOps int
}

func New(opts Options) (*Limiter, error) {
	if opts.UploadsPerMinute <= 0 {
		opts.UploadsPerMinute = 10
	}
	if opts.MaxConcurrentOps <= 0 {
		opts.MaxConcurrentOps = 8
	}
	ro, err := redis.ParseURL(opts.RedisURL)
	if err != nil {
		return nil, err
	}
	c := redis.NewClient(ro)
	if err := c.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &Limiter{
		rdb:       c,
		perMinute: opts.UploadsPerMinute,
		slots:     make(chan struct{}, opts.MaxConcurrentOps),
	}, nil
}

func (l *Limiter) key(ip string) string {
	return fmt.Sprintf("rl:upload:%s:%d", ip, time.Now().Unix()/60)
}

// AllowUpload counts one upload attempt for ip against the current minute
// window. Redis trouble fails open; limiting uploads is not worth refusing
// service over.
func (l *Limiter) AllowUpload(ctx context.Context, ip string) bool {
	k := l.key(ip)
	n, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return true
	}
	if n == 1 {
		_ = l.rdb.Expire(ctx, k, 2*time.Minute).Err()
	}
	return n <= int64(l.perMinute)
}

// Acquire reserves a local slot for a heavy PDF operation. Returns a release
// function and true if a slot was free; otherwise nil work and false.
func (l *Limiter) Acquire() (func(), bool) {
	select {
	case l.slots <- struct{}{}:
		return func() { <-l.slots }, true
	default:
		return func() {}, false
	}
}

func (l *Limiter) Close() error { return l.rdb.Close() }
