package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/LJTian/BBBNews/internal/config"
	"github.com/LJTian/BBBNews/internal/logger"
	"github.com/LJTian/BBBNews/internal/service"
	"github.com/LJTian/BBBNews/internal/storage"
)

// 一个仅执行一次采集任务的命令行入口：适合手动触发采集，结果以 JSON 输出到 stdout
func main() {
	cfg := config.Load()
	// stdout 只输出 JSON，日志只保留 warn 以上
	log := logger.New("warn")

	agg := service.NewAggregator(cfg.Sources, cfg.BaseURL, cfg.Origin(), log)
	svc := service.New(agg, storage.NewMemoryCache(storage.NewsTTL), cfg.ScrapeInterval, log)

	news, err := svc.ScrapeNow(context.Background())
	if err != nil {
		log.Error("collect failed", "err", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(news); err != nil {
		log.Error("encode news failed", "err", err)
		os.Exit(1)
	}
}
