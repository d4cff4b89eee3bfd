package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/LJTian/BBBNews/internal/collector"
	"github.com/LJTian/BBBNews/internal/metrics"
	"github.com/LJTian/BBBNews/internal/scheduler"
	"github.com/LJTian/BBBNews/internal/storage"
	"golang.org/x/sync/singleflight"
)

// NewsSource 由 Aggregator 实现，测试中可替换
type NewsSource interface {
	Aggregate(ctx context.Context) ([]collector.NewsItem, error)
}

// Stats 运行状态快照
type Stats struct {
	TotalNews      int        `json:"totalNews"`
	LastUpdate     *time.Time `json:"lastUpdate"`
	ScrapeInterval float64    `json:"scrapeInterval"`
	CacheEnabled   bool       `json:"cacheEnabled"`
	Sources        []string   `json:"sources"`
	OldestNews     *string    `json:"oldestNews"`
	NewestNews     *string    `json:"newestNews"`
}

// ScraperService 持有最新新闻列表、最后更新时间和定时刷新任务
type ScraperService struct {
	source   NewsSource
	cache    storage.Cache
	interval time.Duration
	log      *slog.Logger
	now      func() time.Time

	mu         sync.RWMutex
	newsData   []collector.NewsItem
	lastUpdate time.Time

	// 手动刷新、冷启动读取与定时任务共用同一次进行中的抓取
	group singleflight.Group

	schedMu sync.Mutex
	sched   *scheduler.Scheduler
	// Destroy 时递增，首轮抓取期间被 Destroy 的 Initialize 不再启动定时任务
	schedGen int
	starting bool
}

func New(source NewsSource, cache storage.Cache, interval time.Duration, log *slog.Logger) *ScraperService {
	return &ScraperService{
		source:   source,
		cache:    cache,
		interval: interval,
		log:      log,
		now:      time.Now,
	}
}

// Initialize 立即抓取一次，然后按 interval 定时抓取。
// 首次抓取失败只记录日志并返回错误，定时任务仍会启动；重复调用为空操作。
// 首轮抓取不持有 schedMu，期间调用 Destroy 会立即返回且之后不再启动定时任务
func (s *ScraperService) Initialize(ctx context.Context) error {
	s.schedMu.Lock()
	if s.sched != nil || s.starting {
		s.schedMu.Unlock()
		return nil
	}
	s.starting = true
	gen := s.schedGen
	s.schedMu.Unlock()

	s.log.Info("starting scraper service")
	_, scrapeErr := s.ScrapeNow(ctx)

	s.schedMu.Lock()
	defer s.schedMu.Unlock()
	s.starting = false
	if gen != s.schedGen {
		s.log.Info("scraper service destroyed during startup, not scheduling")
		return scrapeErr
	}

	sched, err := scheduler.New(s.interval, s.scheduledScrape, s.log)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	sched.Start()
	s.sched = sched

	return scrapeErr
}

func (s *ScraperService) scheduledScrape() {
	if _, err := s.ScrapeNow(context.Background()); err != nil {
		s.log.Error("scheduled scrape failed", "err", err)
	}
}

// ScrapeNow 执行一次聚合。有结果时整体替换内存数据并写缓存；
// 结果为空时保留旧数据；聚合出错时返回错误。
// 并发调用共用同一次抓取，该抓取不随任一调用方的 ctx 取消；调用方取消时只是自己提前返回
func (s *ScraperService) ScrapeNow(ctx context.Context) ([]collector.NewsItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scrape: %w", err)
	}

	ch := s.group.DoChan("scrape", func() (interface{}, error) {
		return s.scrapeNow(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("scrape: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]collector.NewsItem), nil
	}
}

func (s *ScraperService) scrapeNow(ctx context.Context) ([]collector.NewsItem, error) {
	s.log.Info("fetching news")

	news, err := s.source.Aggregate(ctx)
	if err != nil {
		s.log.Error("scrape failed", "err", err)
		return nil, fmt.Errorf("scrape: %w", err)
	}

	if len(news) == 0 {
		s.log.Warn("no news found in scrape, keeping previous data")
		return news, nil
	}

	s.mu.Lock()
	s.newsData = news
	s.lastUpdate = s.now()
	s.mu.Unlock()

	if err := s.cache.Set(ctx, storage.NewsKey, news); err != nil {
		s.log.Warn("cache news failed", "err", err)
	}
	metrics.SetNewsItems(len(news))

	s.log.Info("news captured", "count", len(news))
	return news, nil
}

// GetLatestNews 优先读缓存，其次内存数据，都为空时同步抓取一次
func (s *ScraperService) GetLatestNews(ctx context.Context, limit int) ([]collector.NewsItem, error) {
	if cached, ok := s.cache.Get(ctx, storage.NewsKey); ok {
		return head(cached, limit), nil
	}

	if data := s.snapshot(); len(data) > 0 {
		return head(data, limit), nil
	}

	if _, err := s.ScrapeNow(ctx); err != nil {
		return nil, err
	}
	return head(s.snapshot(), limit), nil
}

// GetLastUpdateTime 从未成功抓取时返回 nil
func (s *ScraperService) GetLastUpdateTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastUpdate.IsZero() {
		return nil
	}
	t := s.lastUpdate
	return &t
}

func (s *ScraperService) GetStats() Stats {
	data := s.snapshot()

	st := Stats{
		TotalNews:      len(data),
		LastUpdate:     s.GetLastUpdateTime(),
		ScrapeInterval: s.interval.Seconds(),
		CacheEnabled:   true,
		Sources:        distinctSources(data),
	}
	if len(data) > 0 {
		oldest := data[len(data)-1].Date
		newest := data[0].Date
		st.OldestNews = &oldest
		st.NewestNews = &newest
	}
	return st
}

// Destroy 取消定时任务；未启动时为空操作
func (s *ScraperService) Destroy() {
	s.schedMu.Lock()
	defer s.schedMu.Unlock()
	s.schedGen++
	if s.sched == nil {
		return
	}
	s.sched.Stop()
	s.sched = nil
}

func (s *ScraperService) snapshot() []collector.NewsItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.newsData
}

func head(items []collector.NewsItem, limit int) []collector.NewsItem {
	if limit < 0 {
		limit = 0
	}
	if limit > len(items) {
		limit = len(items)
	}
	out := make([]collector.NewsItem, limit)
	copy(out, items[:limit])
	return out
}

func distinctSources(items []collector.NewsItem) []string {
	out := make([]string, 0)
	seen := make(map[string]struct{})
	for _, it := range items {
		if _, ok := seen[it.Source]; ok {
			continue
		}
		seen[it.Source] = struct{}{}
		out = append(out, it.Source)
	}
	return out
}
