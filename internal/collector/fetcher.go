package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
)

const (
	fetchTimeout      = 10 * time.Second
	browserUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	browserAccept     = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
	browserAcceptLang = "pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7"
	fetchMaxBodyBytes = 10 << 20 // 10MB
)

// ErrNetwork 单个来源抓取失败（超时、DNS、非 2xx、传输错误）
var ErrNetwork = errors.New("network error")

// NewsItem 统一采集后的基础结构，也是 API 返回的结构
type NewsItem struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Date        string    `json:"date"`
	Source      string    `json:"source"`
	ScrapedAt   time.Time `json:"scrapedAt"`
}

// Fetcher 抽象单个来源的页面下载
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// HTTPFetcher 用 colly 发起带浏览器请求头的 GET，返回原始 HTML
type HTTPFetcher struct {
	Timeout   time.Duration
	UserAgent string
}

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{Timeout: fetchTimeout, UserAgent: browserUserAgent}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// 每次新建 collector，避免 colly 的已访问 URL 记录导致第二轮抓取被跳过
	c := colly.NewCollector(
		colly.UserAgent(f.UserAgent),
		colly.MaxBodySize(fetchMaxBodyBytes),
		// colly 默认把 >= 203 的状态都当作错误，这里自行按 2xx 判断
		colly.ParseHTTPErrorResponse(),
	)
	c.SetRequestTimeout(f.Timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", browserAccept)
		r.Headers.Set("Accept-Language", browserAcceptLang)
	})

	var (
		body   []byte
		status int
	)
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})

	if err := c.Visit(url); err != nil {
		return "", fmt.Errorf("%w: fetch %s: %w", ErrNetwork, url, err)
	}
	if status/100 != 2 {
		return "", fmt.Errorf("%w: fetch %s: status %d", ErrNetwork, url, status)
	}

	return string(body), nil
}
