package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	cfgpkg "github.com/local/toolbench/internal/config"
	"github.com/local/toolbench/internal/limiter"
	logpkg "github.com/local/toolbench/internal/logger"
	"github.com/local/toolbench/internal/metrics"
	"github.com/local/toolbench/internal/queue"
	"github.com/local/toolbench/internal/storage"
	"github.com/local/toolbench/internal/store"
	"github.com/local/toolbench/internal/web"
	"github.com/local/toolbench/internal/worker"
)

func main() {
	_ = godotenv.Load()
	cfg := cfgpkg.FromEnv()

	// Init logging
	_ = logpkg.Init(logpkg.Options{
		Level:        cfg.Logging.Level,
		Pretty:       cfg.Logging.Pretty,
		File:         cfg.Logging.File,
		MaxSizeMB:    cfg.Logging.MaxSizeMB,
		MaxBackups:   cfg.Logging.MaxBackups,
		MaxAgeDays:   cfg.Logging.MaxAgeDays,
		Compress:     cfg.Logging.Compress,
		SendToAxiom:  cfg.Axiom.Send && cfg.Axiom.APIKey != "",
		AxiomAPIKey:  cfg.Axiom.APIKey,
		AxiomOrgID:   cfg.Axiom.OrgID,
		AxiomDataset: cfg.Axiom.Dataset,
		AxiomFlush:   cfg.Axiom.FlushInterval,
	})
	defer logpkg.Close()

	metrics.Init()

	if err := os.MkdirAll(cfg.Server.ScratchDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Server.ScratchDir).Msg("failed to create scratch dir")
	}

	// Queue
	rq, err := queue.NewRedisQueue(cfg.Queue.RedisURL, cfg.Queue.Stream, cfg.Queue.Group)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rq.Close()

	// File and job records
	rs, err := store.NewRedis(cfg.Queue.RedisURL, cfg.Server.FileTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init redis store")
	}
	defer rs.Close()

	// Result storage
	var backend storage.Backend
	if cfg.Storage.Bucket != "" {
		backend, err = storage.NewS3(context.Background(), cfg.Storage.Bucket, cfg.Storage.Prefix, cfg.Storage.Passphrase)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to init s3 storage")
		}
		log.Info().Str("bucket", cfg.Storage.Bucket).Msg("storing results in S3")
	} else {
		backend, err = storage.NewLocal(cfg.Storage.Dir)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to init local storage")
		}
	}

	// Upload rate limiting
	lim, err := limiter.New(limiter.Options{
		RedisURL:         cfg.Queue.RedisURL,
		UploadsPerMinute: cfg.RateLimit.UploadsPerMinute,
		MaxConcurrentOps: cfg.RateLimit.MaxConcurrentOps,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init rate limiter")
	}
	defer lim.Close()

	deps := worker.Deps{Store: rs, Storage: backend, ScratchDir: cfg.Server.ScratchDir}

	// Worker pool (optional, on by default)
	runWorkers := os.Getenv("RUN_WORKERS")
	if runWorkers == "" || runWorkers == "1" || runWorkers == "true" {
		pool := worker.NewPool(cfg.Worker, rq, deps)
		pool.Start()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := pool.Stop(ctx); err != nil {
				log.Warn().Err(err).Msg("worker pool did not drain before deadline")
			}
		}()
	}

	// Queue depth gauge
	go func() {
		for {
			time.Sleep(15 * time.Second)
			if depth, dlq, err := rq.Depths(context.Background()); err == nil {
				metrics.SetQueueDepth("stream", depth)
				metrics.SetQueueDepth("dlq", dlq)
			}
		}
	}()

	mux := http.NewServeMux()
	srvWeb := web.New(cfg, rs, rq, backend, lim)
	srvWeb.RegisterRoutes(mux)
	mux.Handle("GET /metrics", metrics.Handler())

	srv := &http.Server{Addr: ":" + cfg.Server.Port, Handler: mux}

	go func() {
		log.Info().Msgf("HTTP server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	fmt.Println("shutdown complete")
}
