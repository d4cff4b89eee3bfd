package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LJTian/BBBNews/internal/api"
	"github.com/LJTian/BBBNews/internal/config"
	"github.com/LJTian/BBBNews/internal/logger"
	"github.com/LJTian/BBBNews/internal/service"
	"github.com/LJTian/BBBNews/internal/storage"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)
	log.Info("config loaded", "config", cfg)

	cache := storage.New(cfg.RedisAddr, storage.NewsTTL)
	agg := service.NewAggregator(cfg.Sources, cfg.BaseURL, cfg.Origin(), log)
	svc := service.New(agg, cache, cfg.ScrapeInterval, log)

	r := gin.Default()
	api.NewServer(svc, log).RegisterRoutes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		log.Info("starting api server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server exit", "err", err)
			os.Exit(1)
		}
	}()

	// 服务先开始监听，首轮抓取完成前请求会走冷启动路径
	go func() {
		if err := svc.Initialize(context.Background()); err != nil {
			log.Warn("initial scrape failed", "err", err)
		}
		log.Info("api ready",
			"health", "http://localhost:"+cfg.AppPort+"/health",
			"news", "http://localhost:"+cfg.AppPort+"/api/bbb/news",
			"latest", "http://localhost:"+cfg.AppPort+"/api/bbb/latest",
		)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	svc.Destroy()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown", "err", err)
	}
}
