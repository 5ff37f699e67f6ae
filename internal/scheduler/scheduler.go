// Package scheduler 提供定时任务调度
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/VladDeliar/PoS/internal/common/logger"
)

// Scheduler 定时任务调度器，每个任务独立 goroutine 按固定间隔执行
type Scheduler struct {
	tasks  []*Task
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Task 定时任务
type Task struct {
	Name     string
	Interval time.Duration
	Handler  func(ctx context.Context) error
}

// NewScheduler 创建调度器
func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddTask 添加任务
func (s *Scheduler) AddTask(name string, interval time.Duration, handler func(ctx context.Context) error) {
	s.tasks = append(s.tasks, &Task{
		Name:     name,
		Interval: interval,
		Handler:  handler,
	})
}

// Start 启动全部任务
func (s *Scheduler) Start() {
	logger.Info("Scheduler starting",
		zap.Int("tasks", len(s.tasks)),
		logger.Module("scheduler"),
	)

	for _, task := range s.tasks {
		s.wg.Add(1)
		go s.runTask(task)
	}
}

// Stop 停止调度器并等待在途任务结束
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	logger.Info("Scheduler stopped", logger.Module("scheduler"))
}

// runTask 运行单个任务的执行循环，启动时先跑一次
func (s *Scheduler) runTask(task *Task) {
	defer s.wg.Done()

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	s.executeTask(task)

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.executeTask(task)
		}
	}
}

// executeTask 执行一次任务，单次执行上限 5 分钟
func (s *Scheduler) executeTask(task *Task) {
	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	start := time.Now()
	if err := task.Handler(ctx); err != nil {
		logger.Error("Scheduled task failed",
			zap.String("task", task.Name),
			zap.Error(err),
			logger.Module("scheduler"),
		)
		return
	}
	logger.Debug("Scheduled task completed",
		zap.String("task", task.Name),
		zap.Duration("took", time.Since(start)),
		logger.Module("scheduler"),
	)
}
