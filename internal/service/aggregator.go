package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/LJTian/BBBNews/internal/collector"
	"github.com/LJTian/BBBNews/internal/metrics"
	"github.com/LJTian/BBBNews/internal/processor"
)

var (
	// ErrNoSourceReachable 所有来源都在下载阶段失败
	ErrNoSourceReachable = errors.New("no source reachable")
	// ErrScrapePanic 提取逻辑内部出现 panic
	ErrScrapePanic = errors.New("scrape panicked")
)

// Extractor 把原始 HTML 转为新闻条目
type Extractor interface {
	Extract(markup string) ([]collector.NewsItem, error)
}

// Aggregator 依次抓取固定来源，合并、去重、排序
type Aggregator struct {
	Sources   []string
	BaseURL   string
	Fetcher   collector.Fetcher
	Extractor Extractor
	Processor *processor.SimpleProcessor
	Log       *slog.Logger
	Now       func() time.Time
}

func NewAggregator(sources []string, baseURL, origin string, log *slog.Logger) *Aggregator {
	return &Aggregator{
		Sources:   sources,
		BaseURL:   baseURL,
		Fetcher:   collector.NewHTTPFetcher(),
		Extractor: collector.NewExtractor(origin),
		Processor: processor.NewSimpleProcessor(),
		Log:       log,
		Now:       time.Now,
	}
}

// Aggregate 结构性失败（所有来源不可达或提取 panic）时返回演示数据；
// 抓取成功但没有条目时返回空结果；只有 ctx 被取消时才返回错误
func (a *Aggregator) Aggregate(ctx context.Context) ([]collector.NewsItem, error) {
	start := time.Now()

	items, err := a.scrape(ctx)
	if err == nil {
		result := "live"
		if len(items) == 0 {
			result = "empty"
		}
		metrics.RecordRun(result, time.Since(start))
		return items, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		metrics.RecordRun("error", time.Since(start))
		return nil, fmt.Errorf("aggregate: %w", ctxErr)
	}

	a.Log.Error("scrape failed, using demo data", "err", err)
	metrics.RecordRun("demo", time.Since(start))
	return collector.MockNews(a.Now(), a.BaseURL), nil
}

func (a *Aggregator) scrape(ctx context.Context) (items []collector.NewsItem, err error) {
	defer func() {
		if r := recover(); r != nil {
			items = nil
			err = fmt.Errorf("%w: %v", ErrScrapePanic, r)
		}
	}()

	var all []collector.NewsItem
	failed := 0

	for _, src := range a.Sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		markup, err := a.Fetcher.Fetch(ctx, src)
		if err != nil {
			failed++
			metrics.RecordSourceFetch(src, false)
			a.Log.Warn("fetch source failed", "source", src, "err", err)
			continue
		}
		metrics.RecordSourceFetch(src, true)

		found, err := a.Extractor.Extract(markup)
		if err != nil {
			a.Log.Warn("extract source failed", "source", src, "err", err)
			continue
		}
		for i := range found {
			found[i].Source = src
		}
		if len(found) > 0 {
			a.Log.Info("news found", "source", src, "count", len(found))
		}
		all = append(all, found...)
	}

	if len(a.Sources) > 0 && failed == len(a.Sources) {
		return nil, ErrNoSourceReachable
	}

	return a.Processor.Process(all), nil
}
