package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/LJTian/BBBNews/internal/collector"
	"github.com/LJTian/BBBNews/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultLimit = 20
	refreshLimit = 5
)

// NewsService 由 service.ScraperService 实现
type NewsService interface {
	ScrapeNow(ctx context.Context) ([]collector.NewsItem, error)
	GetLatestNews(ctx context.Context, limit int) ([]collector.NewsItem, error)
	GetLastUpdateTime() *time.Time
	GetStats() service.Stats
}

type Server struct {
	svc NewsService
	log *slog.Logger
}

func NewServer(svc NewsService, log *slog.Logger) *Server {
	return &Server{svc: svc, log: log}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	// 必须在注册路由之前挂载，否则对已注册路由不生效
	r.Use(corsMiddleware())

	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	bbb := r.Group("/api/bbb")
	{
		bbb.GET("/news", s.listNews)
		bbb.GET("/latest", s.latestNews)
		bbb.POST("/refresh", s.refresh)
		bbb.GET("/stats", s.stats)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"message":    "API is running",
		"lastUpdate": s.svc.GetLastUpdateTime(),
	})
}

func (s *Server) listNews(c *gin.Context) {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}

	news, err := s.svc.GetLatestNews(c.Request.Context(), limit)
	if err != nil {
		s.fail(c, "list news", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"count":      len(news),
		"lastUpdate": s.svc.GetLastUpdateTime(),
		"news":       news,
	})
}

func (s *Server) latestNews(c *gin.Context) {
	news, err := s.svc.GetLatestNews(c.Request.Context(), 1)
	if err != nil {
		s.fail(c, "latest news", err)
		return
	}

	if len(news) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "no news found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"lastUpdate": s.svc.GetLastUpdateTime(),
		"news":       news[0],
	})
}

func (s *Server) refresh(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := s.svc.ScrapeNow(ctx); err != nil {
		s.fail(c, "refresh news", err)
		return
	}

	news, err := s.svc.GetLatestNews(ctx, refreshLimit)
	if err != nil {
		s.fail(c, "refresh news", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "scrape completed",
		"count":      len(news),
		"lastUpdate": s.svc.GetLastUpdateTime(),
		"news":       news,
	})
}

func (s *Server) stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   s.svc.GetStats(),
	})
}

func (s *Server) fail(c *gin.Context, op string, err error) {
	s.log.Error(op+" failed", "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

// corsMiddleware 允许任意来源访问，预检请求直接返回 204
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type,Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
