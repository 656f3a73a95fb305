// Package app 提供应用程序的初始化、运行与优雅退出.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yeisme/hazopvault/pkg/configs"
	"github.com/yeisme/hazopvault/pkg/internal/jobs"
	"github.com/yeisme/hazopvault/pkg/internal/router"
	"github.com/yeisme/hazopvault/pkg/internal/storage"
	"github.com/yeisme/hazopvault/pkg/internal/storage/kv"
	"github.com/yeisme/hazopvault/pkg/log"
	"github.com/yeisme/hazopvault/pkg/metrics"
	"github.com/yeisme/hazopvault/pkg/middleware"
	"github.com/yeisme/hazopvault/pkg/scheduler"
	"github.com/yeisme/hazopvault/pkg/tracing"
)

// App 持有进程级资源：HTTP 引擎、存储、调度器.
type App struct {
	Engine  *gin.Engine
	config  *configs.AppConfig
	manager *storage.Manager
	sched   *scheduler.Scheduler
	server  *http.Server

	closeOnce sync.Once
	closeErr  error
}

// Bootstrap 加载配置并初始化日志、追踪与监控，CLI 子命令共用.
func Bootstrap(configPath string) (*configs.AppConfig, error) {
	if err := configs.InitConfig(configPath); err != nil {
		return nil, fmt.Errorf("init config: %w", err)
	}

	log.Init()

	cfg := configs.GetConfig()

	if err := tracing.InitTracer(cfg.Tracing); err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	if err := metrics.InitMetrics(cfg.Metrics); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	return cfg, nil
}

// New 初始化存储、调度器与 HTTP 引擎.
func New(ctx context.Context, configPath string) (*App, error) {
	cfg, err := Bootstrap(configPath)
	if err != nil {
		return nil, err
	}

	manager, err := storage.Init(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	sched, err := scheduler.NewScheduler()
	if err != nil {
		_ = manager.Close()
		return nil, fmt.Errorf("init scheduler: %w", err)
	}

	if err := jobs.RegisterCronJobs(sched, manager, cfg.Sweep); err != nil {
		_ = sched.Stop()
		_ = manager.Close()

		return nil, fmt.Errorf("register jobs: %w", err)
	}

	l := log.Logger()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	engine := NewEngine(cfg, manager, sched)

	return &App{
		Engine:  engine,
		config:  cfg,
		manager: manager,
		sched:   sched,
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:           engine,
			ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
			IdleTimeout:       cfg.Server.IdleTimeout,
		},
	}, nil
}

// NewEngine 组装中间件与路由，sched 为 nil 时管理接口返回 503.
func NewEngine(cfg *configs.AppConfig, manager *storage.Manager, sched *scheduler.Scheduler) *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.Chain(cfg, manager)...)

	if sched != nil {
		engine.Use(middleware.SchedulerMiddleware(sched))
	}

	router.RegisterRoutes(engine)

	// groupcache 节点间请求走主 HTTP 服务
	if manager != nil && manager.KV != nil {
		if gk, ok := manager.KV.KVStore.(*kv.GroupcacheKV); ok {
			if h := gk.PeerHandler(); h != nil {
				engine.Any(kv.GroupcachePeerPath+"*key", gin.WrapH(h))
			}
		}
	}

	metrics.RegisterRoutes(cfg.Metrics, engine)

	return engine
}

// Run 启动调度器与 HTTP 服务，收到 SIGINT/SIGTERM 或 ctx 取消后在 server.shutdown_timeout 内优雅退出.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	l := log.Logger()

	a.sched.Start()

	serveErr := make(chan error, 1)

	go func() {
		l.Info().Str("addr", a.server.Addr).Msg("HTTP server listening")

		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}

		close(serveErr)
	}()

	var runErr error

	select {
	case err := <-serveErr:
		runErr = err
	case <-ctx.Done():
		l.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("shutdown http server: %w", err))
	}

	return errors.Join(runErr, a.Close(shutdownCtx))
}

// Close 停止调度器并释放存储与追踪资源，只执行一次.
func (a *App) Close(ctx context.Context) error {
	a.closeOnce.Do(func() {
		var errs []error

		if a.sched != nil {
			errs = append(errs, a.sched.Stop())
		}

		if a.manager != nil {
			errs = append(errs, a.manager.Close())
		}

		errs = append(errs, tracing.ShutdownTracer(ctx))

		a.closeErr = errors.Join(errs...)
	})

	return a.closeErr
}
