package app

import (
	"context"
	"errors"

	"github.com/vip-affiliates/internal/cache"
	"github.com/vip-affiliates/internal/config"
	"github.com/vip-affiliates/internal/logger"
	"github.com/vip-affiliates/internal/provider"
	"github.com/vip-affiliates/internal/router"
	"github.com/vip-affiliates/internal/worker"
)

// BuildRunner 按启动模式组装 HTTP、队列消费者与资源回收服务
func BuildRunner(cfg *config.Config, mode Mode) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	container := provider.NewContainer(cfg)
	var services []Service

	if mode.servesHTTP() {
		services = append(services, NewHTTPService(cfg.Server, router.SetupRouter(cfg, container)))
	}

	if mode.runsWorker(cfg.Queue.Enabled) {
		workerService, err := worker.NewService(&cfg.Queue, worker.NewConsumer(container))
		if err != nil {
			return nil, err
		}
		services = append(services, workerService)
	} else if mode == ModeAll {
		logger.Infow("worker_skipped_queue_disabled", "fallback", "inline")
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}
	// 最后注册，停机时在其他服务之后关闭连接
	services = append(services, &resourceService{container: container})
	return NewRunner(services...), nil
}

// resourceService 停机时关闭队列客户端与 Redis 连接
type resourceService struct {
	container *provider.Container
}

func (s *resourceService) Name() string { return "resources" }

func (s *resourceService) Start(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (s *resourceService) Stop(_ context.Context) error {
	var errs []error
	if s.container != nil && s.container.QueueClient != nil {
		errs = append(errs, s.container.QueueClient.Close())
	}
	errs = append(errs, cache.Close())
	return errors.Join(errs...)
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	opts.Logger.Infow("app_start",
		"host", opts.Config.Server.Host,
		"port", opts.Config.Server.Port,
		"mode", string(opts.Mode),
		"queue_enabled", opts.Config.Queue.Enabled,
	)
	return RunWithOptions(runner, opts)
}
