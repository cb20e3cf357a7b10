package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"ciscospark/internal/avatar"
	"ciscospark/internal/config"
	httphandlers "ciscospark/internal/http"
	"ciscospark/internal/logger"
	"ciscospark/internal/spark"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting avatar cache server",
		zap.Int("port", cfg.Port),
		zap.String("api_base_url", cfg.APIBaseURL),
		zap.String("avatar_service_url", cfg.AvatarServiceURL),
		zap.Bool("avatar_expire", cfg.AvatarExpire),
	)

	sdk, err := spark.New(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize SDK", zap.Error(err))
	}
	defer sdk.Close()

	handlers := httphandlers.New(cfg, log, sdk.Avatar)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.WarmupEnabled() {
		go warmupAvatars(ctx, cfg.WarmupUUIDs, cfg.WarmupSizes, cfg.WarmupWorkers, sdk.Avatar, log)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handlers.Routes(),
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.Int("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server stopped")
}

// warmupAvatars resolves every uuid × size pair so the first real
// lookups hit the cache.
func warmupAvatars(ctx context.Context, uuids []string, sizes []int, workerLimit int, avatars *avatar.Service, log *zap.Logger) {
	log.Info("Starting avatar warmup", zap.Int("uuids", len(uuids)), zap.Ints("sizes", sizes))

	if workerLimit <= 0 {
		workerLimit = 1
	}

	workerChan := make(chan struct{}, workerLimit)
	var wg sync.WaitGroup

	for _, id := range uuids {
		for _, size := range sizes {
			if ctx.Err() != nil {
				break
			}

			wg.Add(1)
			workerChan <- struct{}{} // Acquire worker slot

			go func(id string, size int) {
				defer wg.Done()
				defer func() { <-workerChan }() // Release worker slot

				if _, err := avatars.RetrieveURL(ctx, id, size); err != nil {
					log.Debug("Warmup avatar failed", zap.String("uuid", id), zap.Int("size", size), zap.Error(err))
				}
			}(id, size)
		}
	}

	wg.Wait()
	log.Info("Avatar warmup completed", zap.Int("cached", avatars.Store().Len()))
}
