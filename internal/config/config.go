package config

import (
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultBaseURL         = "https://gshow.globo.com/realities/bbb/"
	defaultIntervalMillis  = 300000
	defaultPort            = "3000"
	defaultCanonicalOrigin = "https://gshow.globo.com"
)

// DefaultSources 默认抓取的四个固定来源，按优先级排列（标题重复时先出现的来源胜出）
var DefaultSources = []string{
	"https://gshow.globo.com/realities/bbb/",
	"https://gshow.globo.com/realities/bbb/bbb-25/",
	"https://ge.globo.com/busca/?q=bbb",
	"https://g1.globo.com/busca/?q=bbb",
}

type Config struct {
	AppPort string

	BaseURL string
	Sources []string

	ScrapeInterval time.Duration

	RedisAddr string
	LogLevel  string
}

func Load() *Config {
	// .env 不存在时忽略，环境变量优先
	_ = godotenv.Load()

	baseURL := getEnv("BBB_URL", defaultBaseURL)
	cfg := &Config{
		AppPort:        getEnv("PORT", defaultPort),
		BaseURL:        baseURL,
		Sources:        parseSources(os.Getenv("SCRAPE_SOURCES"), baseURL),
		ScrapeInterval: parseIntervalMillis(os.Getenv("SCRAPE_INTERVAL")),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

// LogValue 日志中只输出配置摘要
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("port", c.AppPort),
		slog.String("base_url", c.BaseURL),
		slog.Int("sources", len(c.Sources)),
		slog.Duration("interval", c.ScrapeInterval),
		slog.Bool("redis", c.RedisAddr != ""),
		slog.String("log_level", c.LogLevel),
	)
}

// Origin 返回 BaseURL 的 scheme://host，用于把相对链接补全为绝对地址
func (c *Config) Origin() string {
	return OriginOf(c.BaseURL)
}

// OriginOf 解析失败时退回 gshow 的站点地址
func OriginOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return defaultCanonicalOrigin
	}
	return u.Scheme + "://" + u.Host
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseIntervalMillis(raw string) time.Duration {
	ms, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || ms <= 0 {
		ms = defaultIntervalMillis
	}
	return time.Duration(ms) * time.Millisecond
}

// parseSources 未配置 SCRAPE_SOURCES 时使用默认列表，且第一个来源跟随 BBB_URL
func parseSources(raw, baseURL string) []string {
	if strings.TrimSpace(raw) == "" {
		out := make([]string, len(DefaultSources))
		copy(out, DefaultSources)
		out[0] = baseURL
		return out
	}

	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
