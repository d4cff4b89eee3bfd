// Package metrics 抓取流程的 Prometheus 指标
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ScrapeRunsTotal 按结果统计聚合次数：live / demo / empty / error
	ScrapeRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bbbnews_scrape_runs_total",
			Help: "Total number of scrape runs by result",
		},
		[]string{"result"},
	)

	// SourceFetchTotal 按来源统计下载结果：ok / error
	SourceFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bbbnews_source_fetch_total",
			Help: "Total number of source fetches by source and result",
		},
		[]string{"source", "result"},
	)

	ScrapeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bbbnews_scrape_duration_seconds",
			Help:    "Duration of a full aggregation run in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 60},
		},
	)

	NewsItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bbbnews_news_items",
			Help: "Number of news items currently held in memory",
		},
	)
)

func RecordRun(result string, d time.Duration) {
	ScrapeRunsTotal.WithLabelValues(result).Inc()
	ScrapeDuration.Observe(d.Seconds())
}

func RecordSourceFetch(source string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	SourceFetchTotal.WithLabelValues(source, result).Inc()
}

func SetNewsItems(n int) {
	NewsItems.Set(float64(n))
}
