package processor

import (
	"sort"
	"strings"

	"github.com/LJTian/BBBNews/internal/collector"
)

// SimpleProcessor 按标题去重并按抓取时间倒序
type SimpleProcessor struct{}

func NewSimpleProcessor() *SimpleProcessor {
	return &SimpleProcessor{}
}

// Process 同一标题只保留第一次出现的条目（来源顺序靠前者胜出），缺少标题或链接的条目直接丢弃
func (p *SimpleProcessor) Process(items []collector.NewsItem) []collector.NewsItem {
	out := make([]collector.NewsItem, 0, len(items))
	seen := make(map[string]struct{})

	for _, it := range items {
		if strings.TrimSpace(it.Title) == "" || strings.TrimSpace(it.Link) == "" {
			continue
		}
		if _, ok := seen[it.Title]; ok {
			continue
		}
		seen[it.Title] = struct{}{}
		out = append(out, it)
	}

	// 稳定排序：同一轮抓取时间相同的条目保持原有顺序
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ScrapedAt.After(out[j].ScrapedAt)
	})

	return out
}
