// Package scheduler 在 gocron/v2 之上维护按名称注册的定时任务及其最近执行结果.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yeisme/hazopvault/pkg/log"
)

// ErrJobNotFound 指定名称或 ID 的任务不存在.
var ErrJobNotFound = errors.New("job not found")

// JobStatus 最近一次执行后的状态.
type JobStatus string

const (
	StatusScheduled JobStatus = "scheduled"
	StatusRunning   JobStatus = "running"
	StatusError     JobStatus = "error"
)

// Task 任务体，返回错误会记录在 JobInfo.Error.
type Task func(ctx context.Context) error

// JobInfo 任务快照，NextRun 在读取时从 gocron 获取.
type JobInfo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CronExpr    string    `json:"cron_expr"`
	NextRun     time.Time `json:"next_run"`
	LastRun     time.Time `json:"last_run"`
	LastSuccess time.Time `json:"last_success,omitempty"`
	Runs        int       `json:"runs"`
	Status      JobStatus `json:"status"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type entry struct {
	job  gocron.Job
	info JobInfo
}

// Scheduler 同名任务不会重叠执行，上一次未结束时本次顺延.
type Scheduler struct {
	cron   gocron.Scheduler
	logger zerolog.Logger

	mu      sync.RWMutex
	entries map[string]*entry

	stopOnce sync.Once
	stopErr  error
}

// NewScheduler 创建 UTC 时区的调度器，尚未 Start.
func NewScheduler() (*Scheduler, error) {
	l := log.Component("scheduler")

	c, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
		gocron.WithLogger(cronLogger{l: l}),
		gocron.WithStopTimeout(30*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	return &Scheduler{cron: c, logger: l, entries: make(map[string]*entry)}, nil
}

// AddCron 以 5 段 cron 表达式注册任务，ctx 传给每次执行.
func (s *Scheduler) AddCron(ctx context.Context, name, cronExpr string, task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.entries[name]; dup {
		return fmt.Errorf("job %s already registered", name)
	}

	j, err := s.cron.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(func(ctx context.Context) { s.execute(ctx, name, task) }, ctx),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("add job %s: %w", name, err)
	}

	now := time.Now().UTC()
	s.entries[name] = &entry{job: j, info: JobInfo{
		ID:        j.ID().String(),
		Name:      name,
		CronExpr:  cronExpr,
		Status:    StatusScheduled,
		CreatedAt: now,
		UpdatedAt: now,
	}}

	s.logger.Info().Str("job", name).Str("cron", cronExpr).Msg("job registered")

	return nil
}

// execute 包住任务，记录耗时与结果，panic 视为失败.
func (s *Scheduler) execute(ctx context.Context, name string, task Task) {
	s.record(name, func(i *JobInfo) { i.Status = StatusRunning })

	started := time.Now()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()

		return task(ctx)
	}()

	done := time.Now().UTC()

	s.record(name, func(i *JobInfo) {
		i.Runs++
		i.LastRun = done

		if err != nil {
			i.Status, i.Error = StatusError, err.Error()
			return
		}

		i.Status, i.Error, i.LastSuccess = StatusScheduled, "", done
	})

	ev := s.logger.Info()
	if err != nil {
		ev = s.logger.Error().Err(err)
	}

	ev.Str("job", name).Dur("took", time.Since(started)).Msg("job finished")
}

func (s *Scheduler) record(name string, fn func(*JobInfo)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[name]; ok {
		fn(&e.info)
		e.info.UpdatedAt = time.Now().UTC()
	}
}

// RunNow 立即触发一次，不改变原有计划.
func (s *Scheduler) RunNow(name string) error {
	s.mu.RLock()
	e, ok := s.entries[name]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}

	return e.job.RunNow()
}

// RemoveJobByName 取消任务，正在执行的那次不受影响.
func (s *Scheduler) RemoveJobByName(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}

	if err := s.cron.RemoveJob(e.job.ID()); err != nil {
		return fmt.Errorf("remove job %s: %w", name, err)
	}

	delete(s.entries, name)
	s.logger.Info().Str("job", name).Msg("job removed")

	return nil
}

// RemoveJob 按 gocron 分配的 ID 取消任务.
func (s *Scheduler) RemoveJob(id uuid.UUID) error {
	s.mu.RLock()

	name := ""

	for n, e := range s.entries {
		if e.job.ID() == id {
			name = n
			break
		}
	}
	s.mu.RUnlock()

	if name == "" {
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}

	return s.RemoveJobByName(name)
}

func (s *Scheduler) snapshot(e *entry) JobInfo {
	info := e.info
	if next, err := e.job.NextRun(); err == nil {
		info.NextRun = next
	}

	return info
}

// GetJobInfoByName 返回任务快照.
func (s *Scheduler) GetJobInfoByName(name string) (JobInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[name]
	if !ok {
		return JobInfo{}, fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}

	return s.snapshot(e), nil
}

// GetJobInfos 返回全部任务快照，按名称排序.
func (s *Scheduler) GetJobInfos() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]JobInfo, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, s.snapshot(e))
	}

	slices.SortFunc(out, func(a, b JobInfo) int { return strings.Compare(a.Name, b.Name) })

	return out
}

// JobsWaitingInQueue 因单例模式排队等待执行的次数.
func (s *Scheduler) JobsWaitingInQueue() int {
	return s.cron.JobsWaitingInQueue()
}

func (s *Scheduler) Start() {
	s.mu.RLock()
	n := len(s.entries)
	s.mu.RUnlock()

	s.logger.Info().Int("jobs", n).Msg("scheduler started")
	s.cron.Start()
}

// Stop 停止调度并等待进行中的任务，可重复调用.
func (s *Scheduler) Stop() error {
	s.stopOnce.Do(func() {
		s.stopErr = s.cron.Shutdown()
		s.logger.Info().Msg("scheduler stopped")
	})

	return s.stopErr
}

// cronLogger 把 gocron 内部日志降为 debug，错误保留.
type cronLogger struct {
	l zerolog.Logger
}

func (c cronLogger) Debug(msg string, args ...any) { c.l.Debug().Fields(args).Msg(msg) }
func (c cronLogger) Info(msg string, args ...any)  { c.l.Debug().Fields(args).Msg(msg) }
func (c cronLogger) Warn(msg string, args ...any)  { c.l.Warn().Fields(args).Msg(msg) }
func (c cronLogger) Error(msg string, args ...any) { c.l.Error().Fields(args).Msg(msg) }
