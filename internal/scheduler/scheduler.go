package scheduler

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/LJTian/BBBNews/internal/logger"
	"github.com/robfig/cron/v3"
)

// Scheduler 以固定间隔重复执行同一个任务；上一轮未结束时跳过本轮
type Scheduler struct {
	mu       sync.Mutex
	cron     *cron.Cron
	interval time.Duration
	log      *slog.Logger
	running  bool
}

func New(interval time.Duration, job func(), log *slog.Logger) (*Scheduler, error) {
	if interval < time.Second {
		// cron.Every 的最小粒度为 1 秒
		return nil, errors.New("scheduler: interval must be at least 1s")
	}
	if job == nil {
		return nil, errors.New("scheduler: nil job")
	}

	cl := logger.CronLogger{L: log}
	c := cron.New(cron.WithChain(
		cron.Recover(cl),
		cron.SkipIfStillRunning(cl),
	))

	s := &Scheduler{
		cron:     c,
		interval: interval,
		log:      log,
	}
	c.Schedule(cron.Every(interval), cron.FuncJob(job))

	return s, nil
}

// Start 重复调用是安全的
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.cron.Start()
	s.running = true
	s.log.Info("recurring scrape scheduled", "interval", s.interval)
}

// Stop 取消后续执行，不等待正在运行的任务；未启动时为空操作
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.cron.Stop()
	s.running = false
	s.log.Info("recurring scrape stopped")
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
